package tripshare_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	tripshare "github.com/goliatone/go-tripshare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (fx *appFixture) adminCookie(t *testing.T) map[string]string {
	t.Helper()
	token, err := fx.admin.Encode(fx.config.adminEmail)
	require.NoError(t, err)
	return map[string]string{tripshare.AdminSessionCookieName: token}
}

func TestAdminLogin(t *testing.T) {
	fx := newAppFixture()

	res := fx.request(t, http.MethodPost, "/admin/login", fiber.Map{
		"email":    fx.config.adminEmail,
		"password": fx.config.adminPassword,
	}, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	cookie := responseCookie(res, tripshare.AdminSessionCookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	session := fx.admin.Decode(cookie.Value)
	require.NotNil(t, session)
	assert.True(t, session.IsAdmin)
	assert.Equal(t, fx.config.adminEmail, session.Email)
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	fx := newAppFixture()

	res := fx.request(t, http.MethodPost, "/admin/login", fiber.Map{
		"email":    fx.config.adminEmail,
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Nil(t, responseCookie(res, tripshare.AdminSessionCookieName))
}

func TestAdminRoutesRequireAdminSession(t *testing.T) {
	fx := newAppFixture()
	ctx := context.Background()

	user, err := fx.repo.users.GetOrRegisterTx(ctx, nil, "traveler@example.com")
	require.NoError(t, err)

	// No cookie and a plain user session both bounce.
	res := fx.request(t, http.MethodGet, "/admin/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	userSession := fx.sessionCookieFor(t, user)
	res = fx.request(t, http.MethodGet, "/admin/users", nil, map[string]string{
		tripshare.AdminSessionCookieName: userSession[tripshare.SessionCookieName],
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = fx.request(t, http.MethodGet, "/admin/users", nil, fx.adminCookie(t))
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAdminListUsers(t *testing.T) {
	fx := newAppFixture()
	ctx := context.Background()

	_, err := fx.repo.users.GetOrRegisterTx(ctx, nil, "a@example.com")
	require.NoError(t, err)
	_, err = fx.repo.users.GetOrRegisterTx(ctx, nil, "b@example.com")
	require.NoError(t, err)

	res := fx.request(t, http.MethodGet, "/admin/users", nil, fx.adminCookie(t))
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	users, ok := body["users"].([]any)
	require.True(t, ok)
	assert.Len(t, users, 2)
}

func TestAdminDeleteUserCascades(t *testing.T) {
	fx := newAppFixture()
	ctx := context.Background()

	user, err := fx.repo.users.GetOrRegisterTx(ctx, nil, "traveler@example.com")
	require.NoError(t, err)
	_, err = fx.repo.itineraries.Create(ctx, &tripshare.Itinerary{UserID: user.ID, Title: "Kyoto"})
	require.NoError(t, err)

	res := fx.request(t, http.MethodDelete, "/admin/users", fiber.Map{"id": user.ID.String()}, fx.adminCookie(t))
	assert.Equal(t, http.StatusOK, res.StatusCode)

	assert.Equal(t, 0, fx.repo.users.count())
	assert.Equal(t, 0, fx.repo.itineraries.count())
}

func TestAdminDeleteUserValidation(t *testing.T) {
	fx := newAppFixture()

	res := fx.request(t, http.MethodDelete, "/admin/users", fiber.Map{"id": "not-a-uuid"}, fx.adminCookie(t))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestAdminUpdateUser(t *testing.T) {
	fx := newAppFixture()
	ctx := context.Background()

	user, err := fx.repo.users.GetOrRegisterTx(ctx, nil, "traveler@example.com")
	require.NoError(t, err)

	res := fx.request(t, http.MethodPut, "/admin/users/"+user.ID.String(),
		fiber.Map{"displayName": "Renamed"}, fx.adminCookie(t))
	assert.Equal(t, http.StatusOK, res.StatusCode)

	stored, err := fx.repo.users.GetByEmail(ctx, "traveler@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.DisplayName)
}

func TestAdminListItinerariesIncludesDrafts(t *testing.T) {
	fx := newAppFixture()
	ctx := context.Background()

	user, err := fx.repo.users.GetOrRegisterTx(ctx, nil, "traveler@example.com")
	require.NoError(t, err)
	_, err = fx.repo.itineraries.Create(ctx, &tripshare.Itinerary{UserID: user.ID, Title: "Public", IsPublished: true})
	require.NoError(t, err)
	_, err = fx.repo.itineraries.Create(ctx, &tripshare.Itinerary{UserID: user.ID, Title: "Draft"})
	require.NoError(t, err)

	res := fx.request(t, http.MethodGet, "/admin/itineraries", nil, fx.adminCookie(t))
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	records, ok := body["itineraries"].([]any)
	require.True(t, ok)
	assert.Len(t, records, 2)
}

func TestAdminUploadItinerary(t *testing.T) {
	fx := newAppFixture()
	ctx := context.Background()

	user, err := fx.repo.users.GetOrRegisterTx(ctx, nil, "traveler@example.com")
	require.NoError(t, err)

	payload := validItineraryPayload()
	payload["authorName"] = "Editorial Team"

	res := fx.request(t, http.MethodPost, "/admin/itineraries", payload, fx.adminCookie(t))
	assert.Equal(t, http.StatusOK, res.StatusCode)

	records, err := fx.repo.itineraries.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	// No explicit owner in the payload: falls back to the oldest account.
	assert.Equal(t, user.ID, records[0].UserID)
	assert.Equal(t, "Editorial Team", records[0].AuthorName)
}

func TestAdminUploadItineraryWithoutUsers(t *testing.T) {
	fx := newAppFixture()

	res := fx.request(t, http.MethodPost, "/admin/itineraries", validItineraryPayload(), fx.adminCookie(t))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, "No users found to assign itinerary", body["message"])
}

func TestAdminLogout(t *testing.T) {
	fx := newAppFixture()

	res := fx.request(t, http.MethodPost, "/admin/logout", nil, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	cookie := responseCookie(res, tripshare.AdminSessionCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.False(t, cookie.Secure)
}
