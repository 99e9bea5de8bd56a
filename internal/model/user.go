package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is a regular member account (view, edit own profile)
	RoleUser UserRole = "user"
	// RoleAdmin manages site content and member accounts
	RoleAdmin UserRole = "admin"
	// RoleSuperAdmin manages everything, including roles and bulk operations
	RoleSuperAdmin UserRole = "superAdmin"
)

// User is the account model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Gender        string     `bun:"gender" json:"gender,omitempty"`
	Department    string     `bun:"department" json:"department,omitempty"`
	Session       string     `bun:"session" json:"session,omitempty"`
	Profession    string     `bun:"profession" json:"profession,omitempty"`
	Organization  string     `bun:"organization" json:"organization,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Verified      bool       `bun:"is_verified" json:"isVerified"`
	Approved      bool       `bun:"approved" json:"approve"`
	Banned        bool       `bun:"is_banned" json:"isBanned"`
	Mobile        string     `bun:"mobile" json:"mobile,omitempty"`
	Role          UserRole   `bun:"user_role,notnull,default:'user'" json:"role,omitempty"`
	Photo         string     `bun:"user_photo" json:"user_photo,omitempty"`
	BloodGroup    string     `bun:"blood_group" json:"blood_group,omitempty"`
	Age           int        `bun:"age" json:"age,omitempty"`
	Location      string     `bun:"location" json:"location,omitempty"`
	Feedback      string     `bun:"feedback" json:"feedback,omitempty"`
	FacebookURL   string     `bun:"facebook_url" json:"fb,omitempty"`
	InstagramURL  string     `bun:"instagram_url" json:"instagram,omitempty"`
	LinkedinURL   string     `bun:"linkedin_url" json:"linkedIn,omitempty"`
	Trash         bool       `bun:"trash" json:"trash"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role grants access to moderation data
func IsStaff(r UserRole) bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// RoleAtLeast checks if role meets the minimum required level
func RoleAtLeast(r, min UserRole) bool {
	hierarchy := map[UserRole]int{
		RoleUser:       0,
		RoleAdmin:      1,
		RoleSuperAdmin: 2,
	}

	current, ok := hierarchy[r]
	if !ok {
		return false
	}

	required, ok := hierarchy[min]
	if !ok {
		return false
	}

	return current >= required
}

// ParseRole safely parses a string into a UserRole
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// PublicUser is the projection returned to non staff requesters. Moderation
// and audit fields are dropped by construction rather than key deletion.
type PublicUser struct {
	ID           uuid.UUID `json:"id,omitempty"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	Department   string    `json:"department,omitempty"`
	Session      string    `json:"session,omitempty"`
	Profession   string    `json:"profession,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Mobile       string    `json:"mobile,omitempty"`
	Photo        string    `json:"user_photo,omitempty"`
	BloodGroup   string    `json:"blood_group,omitempty"`
	Age          int       `json:"age,omitempty"`
	Location     string    `json:"location,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
	FacebookURL  string    `json:"fb,omitempty"`
	InstagramURL string    `json:"instagram,omitempty"`
	LinkedinURL  string    `json:"linkedIn,omitempty"`
}

// Public returns the allow-listed view of the account
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Gender:       u.Gender,
		Department:   u.Department,
		Session:      u.Session,
		Profession:   u.Profession,
		Organization: u.Organization,
		Mobile:       u.Mobile,
		Photo:        u.Photo,
		BloodGroup:   u.BloodGroup,
		Age:          u.Age,
		Location:     u.Location,
		Feedback:     u.Feedback,
		FacebookURL:  u.FacebookURL,
		InstagramURL: u.InstagramURL,
		LinkedinURL:  u.LinkedinURL,
	}
}

// Project returns the representation appropriate for the requester role:
// staff see the full record, everyone else the public view.
func (u *User) Project(requester UserRole) any {
	if IsStaff(requester) {
		return u
	}
	return u.Public()
}
