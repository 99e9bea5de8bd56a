package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"

	"github.com/kinsust/kin-api/internal/model"
)

// defaultRegion applies when members submit local numbers without a country
// prefix.
const defaultRegion = "BD"

// validMobile parses the number with libphonenumber rather than a regexp.
func validMobile(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return errors.New("is not a valid phone number", errors.CategoryValidation)
	}
	if !phonenumbers.IsValidNumber(num) {
		return errors.New("is not a valid phone number", errors.CategoryValidation)
	}

	return nil
}

type registerPayload struct {
	Name         string `json:"name" form:"name"`
	Email        string `json:"email" form:"email"`
	Gender       string `json:"gender" form:"gender"`
	Password     string `json:"password" form:"password"`
	Mobile       string `json:"mobile" form:"mobile"`
	Department   string `json:"department" form:"department"`
	Session      string `json:"session" form:"session"`
	Profession   string `json:"profession" form:"profession"`
	Organization string `json:"organization" form:"organization"`
}

func (r registerPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Gender, validation.Required, validation.In("male", "female", "other")),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.Mobile, validation.By(validMobile)),
		validation.Field(&r.Department, validation.Length(0, 100)),
		validation.Field(&r.Session, validation.Length(0, 20)),
	)
}

type loginPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (r loginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type activatePayload struct {
	Code string `json:"code" form:"code"`
}

func (r activatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, is.Digit),
	)
}

type emailPayload struct {
	Email string `json:"email" form:"email"`
}

func (r emailPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type resetCodePayload struct {
	Code     string `json:"code" form:"code"`
	Password string `json:"password" form:"password"`
}

func (r resetCodePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, is.Digit),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

type resetURLPayload struct {
	Password string `json:"password" form:"password"`
}

func (r resetURLPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

type createUserPayload struct {
	registerPayload
	Role string `json:"role" form:"role"`
}

func (r createUserPayload) Validate() error {
	if err := r.registerPayload.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.In(model.RoleUser, model.RoleAdmin, model.RoleSuperAdmin)),
	)
}

// updateUserPayload is the multipart profile patch. Moderation fields (role,
// verification, trash) are deliberately absent; they have their own routes.
type updateUserPayload struct {
	Name         string `json:"name" form:"name"`
	Gender       string `json:"gender" form:"gender"`
	Mobile       string `json:"mobile" form:"mobile"`
	Department   string `json:"department" form:"department"`
	Session      string `json:"session" form:"session"`
	Profession   string `json:"profession" form:"profession"`
	Organization string `json:"organization" form:"organization"`
	BloodGroup   string `json:"blood_group" form:"blood_group"`
	Age          int    `json:"age" form:"age"`
	Location     string `json:"location" form:"location"`
	Feedback     string `json:"feedback" form:"feedback"`
	FacebookURL  string `json:"fb" form:"fb"`
	InstagramURL string `json:"instagram" form:"instagram"`
	LinkedinURL  string `json:"linkedIn" form:"linkedIn"`
}

func (r updateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(2, 100)),
		validation.Field(&r.Gender, validation.In("male", "female", "other")),
		validation.Field(&r.Mobile, validation.By(validMobile)),
		validation.Field(&r.Age, validation.Min(0), validation.Max(130)),
		validation.Field(&r.FacebookURL, is.URL),
		validation.Field(&r.InstagramURL, is.URL),
		validation.Field(&r.LinkedinURL, is.URL),
	)
}

type passwordUpdatePayload struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

func (r passwordUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 100)),
	)
}

type rolePayload struct {
	Role string `json:"role" form:"role"`
}

func (r rolePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required,
			validation.In(model.RoleUser, model.RoleAdmin, model.RoleSuperAdmin)),
	)
}

type bulkDeletePayload struct {
	IDs []string `json:"ids"`
}

func (r bulkDeletePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDs, validation.Required, validation.Length(1, 100),
			validation.By(validUUIDList)),
	)
}

func validUUIDList(value any) error {
	ids, _ := value.([]string)
	for _, id := range ids {
		if err := validation.Validate(id, is.UUID); err != nil {
			return errors.New("contains an invalid id", errors.CategoryValidation)
		}
	}
	return nil
}

type committeePayload struct {
	Name string `json:"name" form:"name"`
	Year int    `json:"year" form:"year"`
}

func (r committeePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 150)),
		validation.Field(&r.Year, validation.Required, validation.Min(2000), validation.Max(2100)),
	)
}

type committeeMemberPayload struct {
	UserID      string `json:"user_id" form:"user_id"`
	Designation string `json:"designation" form:"designation"`
	Index       int    `json:"index" form:"index"`
}

func (r committeeMemberPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, is.UUID),
		validation.Field(&r.Designation, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Index, validation.Min(0)),
	)
}

type postPayload struct {
	Title   string `json:"title" form:"title"`
	Slug    string `json:"slug" form:"slug"`
	Banner  string `json:"banner" form:"banner"`
	Details string `json:"details" form:"details"`
	Date    string `json:"date" form:"date"`
}

func (r postPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Slug, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Details, validation.Required),
	)
}

type postPatchPayload struct {
	Title   string `json:"title" form:"title"`
	Slug    string `json:"slug" form:"slug"`
	Banner  string `json:"banner" form:"banner"`
	Details string `json:"details" form:"details"`
	Date    string `json:"date" form:"date"`
}

func (r postPatchPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(2, 200)),
		validation.Field(&r.Slug, validation.Length(2, 200)),
	)
}

type programPayload struct {
	Title       string `json:"title" form:"title"`
	FacebookURL string `json:"fb_url" form:"fb_url"`
	StartDate   string `json:"start_date" form:"start_date"`
	EndDate     string `json:"end_date" form:"end_date"`
	StartTime   string `json:"start_time" form:"start_time"`
	EndTime     string `json:"end_time" form:"end_time"`
	Venue       string `json:"venue" form:"venue"`
}

func (r programPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.FacebookURL, is.URL),
	)
}

type sliderPayload struct {
	Title string `json:"title" form:"title"`
	Link  string `json:"link" form:"link"`
	URL   string `json:"url" form:"url"`
	Index int    `json:"index" form:"index"`
}

func (r sliderPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Index, validation.Min(0)),
	)
}

type advisorPayload struct {
	Name        string `json:"name" form:"name"`
	Designation string `json:"designation" form:"designation"`
	Institute   string `json:"institute" form:"institute"`
	Email       string `json:"email" form:"email"`
	Cell        string `json:"cell" form:"cell"`
	Website     string `json:"website" form:"website"`
	Index       int    `json:"index" form:"index"`
}

func (r advisorPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 150)),
		validation.Field(&r.Designation, validation.Required, validation.Length(2, 150)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Cell, validation.By(validMobile)),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.Index, validation.Min(0)),
	)
}

type advisorPatchPayload advisorPayload

func (r advisorPatchPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(2, 150)),
		validation.Field(&r.Designation, validation.Length(2, 150)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Cell, validation.By(validMobile)),
		validation.Field(&r.Website, is.URL),
	)
}

type subscriberPayload struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

func (r subscriberPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(0, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}
