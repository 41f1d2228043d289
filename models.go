package tripshare

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// VerificationPurpose partitions verification records by the flow that
// issued them.
type VerificationPurpose = string

const (
	// PurposeSubmit tags 4-digit login codes issued by the code flow.
	PurposeSubmit VerificationPurpose = "submit"
	// PurposeLogin tags magic link tokens.
	PurposeLogin VerificationPurpose = "login"
)

// User is the account model. Accounts are created lazily at first
// successful code or magic link redemption, never via an explicit signup.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	DisplayName   string     `bun:"display_name" json:"display_name,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	LastLoginAt   *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
}

// Activity is a single entry within an itinerary day.
type Activity struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time,omitempty"`
	Address     string `json:"address,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Day groups activities under a day number and heading.
type Day struct {
	DayNumber  int        `json:"dayNumber"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

// Itinerary is a published trip plan owned by a user.
type Itinerary struct {
	bun.BaseModel `bun:"table:itineraries,alias:itn"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Summary       string     `bun:"summary,notnull" json:"summary,omitempty"`
	FromLocation  string     `bun:"from_location" json:"from_location,omitempty"`
	ToLocation    string     `bun:"to_location,notnull" json:"to_location,omitempty"`
	StartDate     string     `bun:"start_date" json:"start_date,omitempty"`
	EndDate       string     `bun:"end_date" json:"end_date,omitempty"`
	Duration      string     `bun:"duration,notnull" json:"duration,omitempty"`
	TripType      string     `bun:"trip_type" json:"trip_type,omitempty"`
	Budget        string     `bun:"budget" json:"budget,omitempty"`
	Transport     string     `bun:"transport" json:"transport,omitempty"`
	Days          []Day      `bun:"days,type:jsonb" json:"days,omitempty"`
	Tags          []string   `bun:"tags,type:jsonb" json:"tags,omitempty"`
	CoverImage    string     `bun:"cover_image" json:"cover_image,omitempty"`
	AuthorName    string     `bun:"author_name" json:"author_name,omitempty"`
	IsPublished   bool       `bun:"is_published,default:true" json:"is_published,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// VerificationCode is a single-use, purpose-scoped, time-boxed secret tied
// to an email address. Deletion on successful redemption is the single-use
// enforcement; expired records are garbage until swept.
type VerificationCode struct {
	bun.BaseModel `bun:"table:verification_codes,alias:vfc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull" json:"email,omitempty"`
	Code          string     `bun:"code,notnull" json:"code,omitempty"`
	Purpose       string     `bun:"purpose,notnull" json:"purpose,omitempty"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Expired reports whether the record is past its expiry at the given time.
func (v *VerificationCode) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
