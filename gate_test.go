package tripshare_test

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	tripshare "github.com/goliatone/go-tripshare"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cookieJar is a map-backed tripshare.CookieJar
type cookieJar map[string]string

func (j cookieJar) Cookies(key string, defaultValue ...string) string {
	if v, ok := j[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func newTestGate() (*tripshare.Gate, *tripshare.SessionCodec, *tripshare.AdminSessionCodec) {
	cfg := newTestConfig()
	signer := tripshare.NewSigner(cfg.GetSigningKey())
	sessions := tripshare.NewSessionCodec(signer, cfg, nopLogger{})
	admin := tripshare.NewAdminSessionCodec(signer, cfg, nopLogger{})
	return tripshare.NewGate(sessions, admin), sessions, admin
}

func TestGateUserFromCookies(t *testing.T) {
	gate, sessions, _ := newTestGate()

	token, err := sessions.Encode(tripshare.SessionPayload{
		UserID: uuid.New().String(),
		Email:  "traveler@example.com",
	})
	require.NoError(t, err)

	identity := gate.UserFromCookies(cookieJar{tripshare.SessionCookieName: token})
	require.NotNil(t, identity)
	assert.Equal(t, "traveler@example.com", identity.Email)

	assert.Nil(t, gate.UserFromCookies(cookieJar{}))
	assert.Nil(t, gate.UserFromCookies(cookieJar{tripshare.SessionCookieName: "forged"}))
}

func TestGateAdminFromCookies(t *testing.T) {
	gate, sessions, admin := newTestGate()

	token, err := admin.Encode("admin@example.com")
	require.NoError(t, err)

	assert.True(t, gate.IsAdminAuthenticated(cookieJar{tripshare.AdminSessionCookieName: token}))
	assert.False(t, gate.IsAdminAuthenticated(cookieJar{}))

	// A regular user session in the admin cookie slot does not count.
	userToken, err := sessions.Encode(tripshare.SessionPayload{Email: "traveler@example.com"})
	require.NoError(t, err)
	assert.False(t, gate.IsAdminAuthenticated(cookieJar{tripshare.AdminSessionCookieName: userToken}))
}

func TestGateAuthorizeOwner(t *testing.T) {
	gate, _, _ := newTestGate()

	owner := uuid.New()
	identity := &tripshare.SessionPayload{
		UserID: owner.String(),
		Email:  "traveler@example.com",
	}

	assert.NoError(t, gate.AuthorizeOwner(identity, owner))

	// No identity at all is an authentication failure.
	err := gate.AuthorizeOwner(nil, owner)
	assert.True(t, goerrors.Is(err, tripshare.ErrNotAuthenticated))

	// A valid identity for somebody else is an authorization failure.
	err = gate.AuthorizeOwner(identity, uuid.New())
	assert.True(t, goerrors.Is(err, tripshare.ErrNotOwner))

	// Unparseable subject never authorizes.
	err = gate.AuthorizeOwner(&tripshare.SessionPayload{UserID: "not-a-uuid", Email: "x@example.com"}, owner)
	assert.True(t, goerrors.Is(err, tripshare.ErrNotOwner))
}
