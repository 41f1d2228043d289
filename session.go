package tripshare

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

const (
	// SessionCookieName carries the user session token.
	SessionCookieName = "session"
	// SessionMaxAge bounds user sessions through the cookie attribute; the
	// payload itself carries no expiry.
	SessionMaxAge = 30 * 24 * time.Hour
)

// SessionPayload is the identity embedded in a session token. It is minted at
// code or magic link redemption and reconstructed verbatim on every request;
// routes that need fresh state re-validate against storage themselves.
type SessionPayload struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// SessionCodec encodes identity payloads into signed cookie values and back.
//
// Token format: base64(json) + "." + hex(HMAC-SHA256(secret, base64(json))).
// Decoding is always verifying; the unsigned pre-signature format is only
// accepted outside production and before the configured migration deadline.
type SessionCodec struct {
	signer         *Signer
	legacyDeadline time.Time
	production     bool
	logger         Logger

	// Now is overridable for tests.
	Now func() time.Time
}

func NewSessionCodec(signer *Signer, cfg Config, logger Logger) *SessionCodec {
	if logger == nil {
		logger = defLogger{}
	}
	return &SessionCodec{
		signer:         signer,
		legacyDeadline: cfg.GetLegacySessionDeadline(),
		production:     cfg.IsProduction(),
		logger:         logger,
		Now:            time.Now,
	}
}

func (c *SessionCodec) Encode(p SessionPayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return encoded + "." + c.signer.Sign(encoded), nil
}

// Decode parses a raw cookie value into a payload. Any malformed, forged, or
// structurally invalid token yields nil; nothing escapes as an error.
func (c *SessionCodec) Decode(raw string) *SessionPayload {
	encoded, ok := c.splitAndVerify(raw, "session")
	if !ok {
		return nil
	}

	payload := &SessionPayload{}
	if !decodeTokenPayload(encoded, payload) {
		return nil
	}

	if payload.Email == "" {
		return nil
	}

	return payload
}

// splitAndVerify URL-unescapes the raw value, enforces the legacy policy for
// unsigned tokens, and checks the signature for signed ones. It returns the
// base64 payload segment.
func (c *SessionCodec) splitAndVerify(raw, kind string) (string, bool) {
	if raw == "" {
		return "", false
	}

	// PathUnescape, not QueryUnescape: base64 payloads legitimately contain
	// '+', which must survive unescaping byte for byte.
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", false
	}

	// The hex signature never contains a dot, so the last separator always
	// splits payload from signature even though base64 padding may precede it.
	idx := strings.LastIndex(value, ".")
	if idx == -1 {
		if !c.legacyAllowed() {
			c.logger.Warn("rejecting unsigned legacy %s token", kind)
			return "", false
		}
		return value, true
	}

	encoded, signature := value[:idx], value[idx+1:]
	if !c.signer.Verify(encoded, signature) {
		c.logger.Warn("invalid %s token signature, possible forgery attempt", kind)
		return "", false
	}

	return encoded, true
}

func (c *SessionCodec) legacyAllowed() bool {
	if c.production {
		return false
	}
	if c.legacyDeadline.IsZero() {
		return false
	}
	return c.now().Before(c.legacyDeadline)
}

func (c *SessionCodec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func decodeTokenPayload(encoded string, into any) bool {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, into); err != nil {
		return false
	}
	return true
}
