package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is a news/blog entry addressed by slug.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Photo         string     `bun:"post_photo,notnull" json:"post_photo,omitempty"`
	Banner        string     `bun:"banner" json:"banner,omitempty"`
	Details       string     `bun:"details" json:"details,omitempty"`
	Date          string     `bun:"date" json:"date,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// Program is an organization event.
type Program struct {
	bun.BaseModel `bun:"table:programs,alias:prg"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Photo         string     `bun:"program_photo,notnull" json:"program_photo,omitempty"`
	FacebookURL   string     `bun:"fb_url" json:"fb_url,omitempty"`
	StartDate     string     `bun:"start_date" json:"start_date,omitempty"`
	EndDate       string     `bun:"end_date" json:"end_date,omitempty"`
	StartTime     string     `bun:"start_time" json:"start_time,omitempty"`
	EndTime       string     `bun:"end_time" json:"end_time,omitempty"`
	Venue         string     `bun:"venue" json:"venue,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// Slider is a landing page carousel entry.
type Slider struct {
	bun.BaseModel `bun:"table:sliders,alias:sld"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Photo         string     `bun:"slider_photo,notnull" json:"slider_photo,omitempty"`
	Link          string     `bun:"link" json:"link,omitempty"`
	URL           string     `bun:"url" json:"url,omitempty"`
	Index         int        `bun:"slider_index,default:99" json:"index,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// Advisor is a faculty advisor profile.
type Advisor struct {
	bun.BaseModel `bun:"table:advisors,alias:adv"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Designation   string     `bun:"designation,notnull" json:"designation,omitempty"`
	Institute     string     `bun:"institute" json:"institute,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Cell          string     `bun:"cell" json:"cell,omitempty"`
	Photo         string     `bun:"advisor_photo,notnull" json:"advisor_photo,omitempty"`
	Website       string     `bun:"website" json:"website,omitempty"`
	Index         int        `bun:"advisor_index,default:99" json:"index,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// Subscriber is a newsletter signup.
type Subscriber struct {
	bun.BaseModel `bun:"table:subscribers,alias:sub"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}
