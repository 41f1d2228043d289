package tripshare

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the options the core consumes. Values are sourced once at
// startup and injected; core logic never reads the process environment.
type Config interface {
	GetSigningKey() string
	GetAdminEmail() string
	GetAdminPassword() string
	GetBaseURL() string
	// GetLegacySessionDeadline bounds the migration window during which
	// unsigned legacy session cookies are still accepted. A zero time means
	// legacy tokens are rejected outright.
	GetLegacySessionDeadline() time.Time
	IsProduction() bool
}

// Mailer delivers outbound email. Implementations log failures with context;
// callers decide how a failed send maps to a user-visible response. Sends are
// never retried.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// CookieJar is the slice of the request context the authorization gate needs.
// *fiber.Ctx satisfies it.
type CookieJar interface {
	Cookies(key string, defaultValue ...string) string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] TRIPSHARE "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] TRIPSHARE "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] TRIPSHARE "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] TRIPSHARE "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
