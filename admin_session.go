package tripshare

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

const (
	// AdminSessionCookieName carries the admin session token.
	AdminSessionCookieName = "admin_session"
	// AdminSessionMaxAge is enforced twice: as the cookie max-age and as a
	// hard bound on LoginAt inside the payload, so a replayed cookie dies
	// even if the client ignores expiry attributes.
	AdminSessionMaxAge = 24 * time.Hour
)

// AdminSession is the admin identity payload. IsAdmin is true by
// construction; once the signature checks out, the type itself is the
// authorization proof.
type AdminSession struct {
	IsAdmin bool   `json:"isAdmin"`
	Email   string `json:"email"`
	LoginAt int64  `json:"loginAt"`
}

// LoginTime converts the millisecond LoginAt stamp.
func (s AdminSession) LoginTime() time.Time {
	return time.UnixMilli(s.LoginAt)
}

// AdminSessionCodec mints and parses admin tokens. Same wire format and
// legacy policy as SessionCodec, plus a hard 24 hour expiry from LoginAt.
type AdminSessionCodec struct {
	*SessionCodec
}

func NewAdminSessionCodec(signer *Signer, cfg Config, logger Logger) *AdminSessionCodec {
	return &AdminSessionCodec{SessionCodec: NewSessionCodec(signer, cfg, logger)}
}

// Encode stamps LoginAt with the current time and fixes IsAdmin to true.
func (c *AdminSessionCodec) Encode(email string) (string, error) {
	session := AdminSession{
		IsAdmin: true,
		Email:   email,
		LoginAt: c.now().UnixMilli(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", err
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return encoded + "." + c.signer.Sign(encoded), nil
}

// Decode parses a raw cookie value. Beyond signature and structure checks it
// rejects any session older than AdminSessionMaxAge, independent of what the
// cookie attributes claimed.
func (c *AdminSessionCodec) Decode(raw string) *AdminSession {
	encoded, ok := c.splitAndVerify(raw, "admin session")
	if !ok {
		return nil
	}

	session := &AdminSession{}
	if !decodeTokenPayload(encoded, session) {
		return nil
	}

	if !session.IsAdmin || session.Email == "" {
		return nil
	}

	if c.now().Sub(session.LoginTime()) > AdminSessionMaxAge {
		return nil
	}

	return session
}
