package tripshare

import (
	"github.com/google/uuid"
)

// Gate turns cookie values into identities. Both decode paths verify the
// token signature; there is no trust-but-skip variant.
type Gate struct {
	sessions *SessionCodec
	admin    *AdminSessionCodec
}

func NewGate(sessions *SessionCodec, admin *AdminSessionCodec) *Gate {
	return &Gate{sessions: sessions, admin: admin}
}

// UserFromCookies decodes the session cookie, or nil when the request
// carries no usable identity.
func (g *Gate) UserFromCookies(jar CookieJar) *SessionPayload {
	raw := jar.Cookies(SessionCookieName)
	if raw == "" {
		return nil
	}
	return g.sessions.Decode(raw)
}

// AdminFromCookies decodes the admin session cookie, or nil.
func (g *Gate) AdminFromCookies(jar CookieJar) *AdminSession {
	raw := jar.Cookies(AdminSessionCookieName)
	if raw == "" {
		return nil
	}
	return g.admin.Decode(raw)
}

func (g *Gate) IsAdminAuthenticated(jar CookieJar) bool {
	return g.AdminFromCookies(jar) != nil
}

// AuthorizeOwner checks that the authenticated identity owns the resource.
// A missing identity is an authentication failure; a mismatched one is an
// authorization failure. Callers map those to 401 and 403 respectively.
func (g *Gate) AuthorizeOwner(identity *SessionPayload, resourceUserID uuid.UUID) error {
	if identity == nil {
		return ErrNotAuthenticated
	}

	userID, err := uuid.Parse(identity.UserID)
	if err != nil || userID != resourceUserID {
		return ErrNotOwner
	}

	return nil
}
