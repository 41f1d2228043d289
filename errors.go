package tripshare

import "github.com/goliatone/go-errors"

const (
	TextCodeNotAuthenticated = "not_authenticated"
	TextCodeNotOwner         = "not_resource_owner"
	TextCodeAdminRequired    = "admin_required"
	TextCodeInvalidCode      = "verification_code_invalid"
	TextCodeExpiredCode      = "verification_code_expired"
	TextCodeEmailSendFailed  = "email_send_failed"
	TextCodeItineraryMissing = "itinerary_not_found"
)

// ErrNotAuthenticated is returned when a request carries no valid session.
var ErrNotAuthenticated = errors.New("not authenticated", errors.CategoryAuth).
	WithTextCode(TextCodeNotAuthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrNotOwner is returned when a valid identity mutates a record it does not
// own. Distinct from ErrNotAuthenticated: the caller is known, just not allowed.
var ErrNotOwner = errors.New("not the resource owner", errors.CategoryAuthz).
	WithTextCode(TextCodeNotOwner).
	WithCode(errors.CodeForbidden)

// ErrAdminRequired is returned when a request lacks a valid admin session.
var ErrAdminRequired = errors.New("admin session required", errors.CategoryAuth).
	WithTextCode(TextCodeAdminRequired).
	WithCode(errors.CodeUnauthorized)

// ErrCodeInvalid is returned when no verification record matches the
// presented email/code pair, including codes already consumed once.
var ErrCodeInvalid = errors.New("invalid verification code", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidCode).
	WithCode(errors.CodeBadRequest)

// ErrCodeExpired is returned when a matching verification record exists but
// is past its expiry. The record is left in place.
var ErrCodeExpired = errors.New("verification code has expired", errors.CategoryBadInput).
	WithTextCode(TextCodeExpiredCode).
	WithCode(errors.CodeBadRequest)

// ErrEmailSendFailed is returned when the outbound mailer reports a failure.
var ErrEmailSendFailed = errors.New("failed to send email", errors.CategoryOperation).
	WithTextCode(TextCodeEmailSendFailed).
	WithCode(errors.CodeInternal)

// ErrItineraryNotFound is returned for lookups of unknown itinerary ids.
var ErrItineraryNotFound = errors.New("itinerary not found", errors.CategoryNotFound).
	WithTextCode(TextCodeItineraryMissing).
	WithCode(errors.CodeNotFound)
