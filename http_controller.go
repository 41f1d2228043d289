package tripshare

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
)

// AuthController serves the passwordless login flows and account routes.
type AuthController struct {
	Debug      bool
	Logger     Logger
	Repo       RepositoryManager
	Verifier   *Verifier
	Sessions   *SessionCodec
	Gate       *Gate
	Production bool
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Verifier == nil {
		panic("Missing Verifier in auth controller...")
	}

	if c.Sessions == nil || c.Gate == nil {
		panic("Missing session codec or gate in auth controller...")
	}

	return c
}

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Post("/auth/send-code", controller.SendCode)
	app.Post("/auth/verify-code", controller.VerifyCode)
	app.Post("/auth/send-magic-link", controller.SendMagicLink)
	app.Get("/auth/magic", controller.RedeemMagicLink)
	app.Post("/auth/logout", controller.Logout)
	app.Post("/auth/update-profile", controller.UpdateProfile)
	app.Post("/auth/delete-account", controller.DeleteAccount)
}

// SendCodeRequest payload
type SendCodeRequest struct {
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules
func (r SendCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) SendCode(c *fiber.Ctx) error {
	payload := new(SendCodeRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid email address")
	}

	if a.Debug {
		a.Logger.Debug("send-code payload: %s", print.MaybePrettyJSON(payload))
	}

	if err := a.Verifier.SendCode(c.Context(), payload.Email); err != nil {
		if goerrors.Is(err, ErrEmailSendFailed) {
			return respondFailure(c, http.StatusInternalServerError, "Failed to send email")
		}
		a.Logger.Error("error sending verification code: %v", err)
		return respondError(c, err)
	}

	return respondSuccess(c, fiber.Map{"message": "Verification code sent to your email"})
}

// VerifyCodeRequest payload
type VerifyCodeRequest struct {
	Email string `form:"email" json:"email"`
	Code  string `form:"code" json:"code"`
}

// Validate will run validation rules
func (r VerifyCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required, validation.Length(4, 4), is.Digit),
	)
}

func (a *AuthController) VerifyCode(c *fiber.Ctx) error {
	payload := new(VerifyCodeRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Email and code are required")
	}

	user, err := a.Verifier.RedeemCode(c.Context(), payload.Email, payload.Code)
	if err != nil {
		return a.redemptionFailure(c, err)
	}

	if err := a.mintSession(c, user); err != nil {
		return respondError(c, err)
	}

	return respondSuccess(c, fiber.Map{
		"userId":      user.ID.String(),
		"email":       user.Email,
		"displayName": user.DisplayName,
	})
}

// SendMagicLinkRequest payload
type SendMagicLinkRequest struct {
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules
func (r SendMagicLinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) SendMagicLink(c *fiber.Ctx) error {
	payload := new(SendMagicLinkRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid email address")
	}

	if err := a.Verifier.SendMagicLink(c.Context(), payload.Email); err != nil {
		if goerrors.Is(err, ErrEmailSendFailed) {
			return respondFailure(c, http.StatusInternalServerError, "Failed to send email")
		}
		a.Logger.Error("error sending magic link: %v", err)
		return respondError(c, err)
	}

	return respondSuccess(c, fiber.Map{"message": "Magic link sent to your email"})
}

func (a *AuthController) RedeemMagicLink(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return respondFailure(c, http.StatusBadRequest, "Token is required")
	}

	user, err := a.Verifier.RedeemMagicLink(c.Context(), token)
	if err != nil {
		return a.redemptionFailure(c, err)
	}

	if err := a.mintSession(c, user); err != nil {
		return respondError(c, err)
	}

	return c.Redirect("/", http.StatusSeeOther)
}

func (a *AuthController) Logout(c *fiber.Ctx) error {
	clearCookie(c, SessionCookieName, a.Production)
	return respondSuccess(c, fiber.Map{})
}

// UpdateProfileRequest payload
type UpdateProfileRequest struct {
	DisplayName string `form:"displayName" json:"displayName"`
}

// Validate will run validation rules
func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Length(0, 100)),
	)
}

func (a *AuthController) UpdateProfile(c *fiber.Ctx) error {
	identity := a.Gate.UserFromCookies(c)
	if identity == nil {
		return respondFailure(c, http.StatusUnauthorized, "Not authenticated")
	}

	payload := new(UpdateProfileRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Display name must be at most 100 characters")
	}

	user, err := a.Repo.Users().GetByEmail(c.Context(), identity.Email)
	if err != nil {
		a.Logger.Error("error loading user for profile update: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "An error occurred")
	}

	if err := a.Repo.Users().UpdateDisplayName(c.Context(), user.ID, payload.DisplayName); err != nil {
		a.Logger.Error("error updating display name: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "An error occurred")
	}

	user.DisplayName = payload.DisplayName
	if err := a.mintSession(c, user); err != nil {
		return respondError(c, err)
	}

	return respondSuccess(c, fiber.Map{"displayName": user.DisplayName})
}

func (a *AuthController) DeleteAccount(c *fiber.Ctx) error {
	identity := a.Gate.UserFromCookies(c)
	if identity == nil {
		return respondFailure(c, http.StatusUnauthorized, "Not authenticated")
	}

	user, err := a.Repo.Users().GetByEmail(c.Context(), identity.Email)
	if err != nil {
		a.Logger.Error("error loading user for account deletion: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "An error occurred")
	}

	err = a.Repo.RunInTx(c.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		if err := a.Repo.Itineraries().DeleteByUserTx(ctx, tx, user.ID); err != nil {
			return err
		}
		return a.Repo.Users().DeleteByIDTx(ctx, tx, user.ID)
	})
	if err != nil {
		a.Logger.Error("error deleting account: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "An error occurred")
	}

	clearCookie(c, SessionCookieName, a.Production)
	return respondSuccess(c, fiber.Map{"message": "Account deleted successfully"})
}

// redemptionFailure maps code redemption errors to the distinct user-facing
// invalid vs expired messages.
func (a *AuthController) redemptionFailure(c *fiber.Ctx, err error) error {
	switch {
	case goerrors.Is(err, ErrCodeInvalid):
		return respondFailure(c, http.StatusBadRequest, "Invalid verification code")
	case goerrors.Is(err, ErrCodeExpired):
		return respondFailure(c, http.StatusBadRequest, "Verification code has expired")
	default:
		a.Logger.Error("error redeeming verification: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "An error occurred")
	}
}

func (a *AuthController) mintSession(c *fiber.Ctx, user *User) error {
	value, err := a.Sessions.Encode(SessionPayload{
		UserID:      user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
	if err != nil {
		a.Logger.Error("error encoding session token: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint session")
	}

	setCookie(c, SessionCookieName, value, SessionMaxAge, a.Production)
	return nil
}
