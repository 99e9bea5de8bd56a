package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Committee is an executive committee roster, e.g. "17th Executive Committee".
type Committee struct {
	bun.BaseModel `bun:"table:committees,alias:ec"`
	ID            uuid.UUID          `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string             `bun:"name,notnull" json:"name,omitempty"`
	Year          int                `bun:"year,notnull" json:"year,omitempty"`
	Members       []*CommitteeMember `bun:"rel:has-many,join:id=committee_id" json:"members,omitempty"`
	CreatedAt     *time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// CommitteeMember links a user into a committee with a position.
type CommitteeMember struct {
	bun.BaseModel `bun:"table:committee_members,alias:ecm"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CommitteeID   uuid.UUID  `bun:"committee_id,notnull,type:uuid" json:"committee_id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Index         int        `bun:"member_index" json:"index,omitempty"`
	Designation   string     `bun:"designation" json:"designation,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
}

// HasMember reports whether the user already appears on the roster.
func (c *Committee) HasMember(userID uuid.UUID) bool {
	for _, m := range c.Members {
		if m != nil && m.UserID == userID {
			return true
		}
	}
	return false
}
