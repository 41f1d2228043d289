package tripshare

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AdminController serves the single-admin management surface. The admin is
// not a user record; credentials come from configuration and the session is
// a separately signed, 24 hour token.
type AdminController struct {
	Logger Logger
	Repo   RepositoryManager
	Config Config
	Gate   *Gate
	Admin  *AdminSessionCodec
}

func NewAdminController(repo RepositoryManager, cfg Config, gate *Gate, admin *AdminSessionCodec, logger Logger) *AdminController {
	if logger == nil {
		logger = defLogger{}
	}
	return &AdminController{
		Logger: logger,
		Repo:   repo,
		Config: cfg,
		Gate:   gate,
		Admin:  admin,
	}
}

func RegisterAdminRoutes(app fiber.Router, controller *AdminController) {
	app.Post("/admin/login", controller.Login)
	app.Post("/admin/logout", controller.Logout)

	guarded := app.Group("/admin", controller.RequireAdmin)
	guarded.Get("/users", controller.ListUsers)
	guarded.Delete("/users", controller.DeleteUser)
	guarded.Put("/users/:id", controller.UpdateUser)
	guarded.Get("/itineraries", controller.ListItineraries)
	guarded.Delete("/itineraries", controller.DeleteItinerary)
	guarded.Post("/itineraries", controller.UploadItinerary)
}

// RequireAdmin rejects requests without a valid admin session.
func (a *AdminController) RequireAdmin(c *fiber.Ctx) error {
	if !a.Gate.IsAdminAuthenticated(c) {
		return respondFailure(c, http.StatusUnauthorized, "Unauthorized")
	}
	return c.Next()
}

// AdminLoginRequest payload
type AdminLoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r AdminLoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AdminController) Login(c *fiber.Ctx) error {
	payload := new(AdminLoginRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Email and password are required")
	}

	if !ValidateAdminCredentials(a.Config, payload.Email, payload.Password, a.Logger) {
		return respondFailure(c, http.StatusUnauthorized, "Invalid credentials")
	}

	value, err := a.Admin.Encode(payload.Email)
	if err != nil {
		a.Logger.Error("error encoding admin session: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "An error occurred")
	}

	setCookie(c, AdminSessionCookieName, value, AdminSessionMaxAge, a.Config.IsProduction())
	return respondSuccess(c, fiber.Map{"message": "Login successful"})
}

func (a *AdminController) Logout(c *fiber.Ctx) error {
	clearCookie(c, AdminSessionCookieName, a.Config.IsProduction())
	return respondSuccess(c, fiber.Map{})
}

func (a *AdminController) ListUsers(c *fiber.Ctx) error {
	users, err := a.Repo.Users().ListAll(c.Context())
	if err != nil {
		a.Logger.Error("error fetching users: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "Failed to fetch users")
	}
	return respondSuccess(c, fiber.Map{"users": users})
}

// DeleteRecordRequest carries the id of the record to remove.
type DeleteRecordRequest struct {
	ID string `form:"id" json:"id"`
}

// Validate will run validation rules
func (r DeleteRecordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, is.UUID),
	)
}

func (a *AdminController) DeleteUser(c *fiber.Ctx) error {
	payload := new(DeleteRecordRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, http.StatusBadRequest, "User ID is required")
	}

	id := uuid.MustParse(payload.ID)

	// Itineraries go first so the account row never dangles references.
	err := a.Repo.RunInTx(c.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		if err := a.Repo.Itineraries().DeleteByUserTx(ctx, tx, id); err != nil {
			return err
		}
		return a.Repo.Users().DeleteByIDTx(ctx, tx, id)
	})
	if err != nil {
		a.Logger.Error("error deleting user: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "Failed to delete user")
	}

	return respondSuccess(c, fiber.Map{"message": "User deleted successfully"})
}

// AdminUpdateUserRequest payload
type AdminUpdateUserRequest struct {
	DisplayName string `form:"displayName" json:"displayName"`
}

// Validate will run validation rules
func (r AdminUpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Length(0, 100)),
	)
}

func (a *AdminController) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondFailure(c, http.StatusBadRequest, "User ID is required")
	}

	payload := new(AdminUpdateUserRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Display name must be at most 100 characters")
	}

	if err := a.Repo.Users().UpdateDisplayName(c.Context(), id, payload.DisplayName); err != nil {
		a.Logger.Error("error updating user: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "Failed to update user")
	}

	return respondSuccess(c, fiber.Map{"message": "User updated successfully"})
}

func (a *AdminController) ListItineraries(c *fiber.Ctx) error {
	records, err := a.Repo.Itineraries().ListAll(c.Context())
	if err != nil {
		a.Logger.Error("error fetching itineraries: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "Failed to fetch itineraries")
	}
	return respondSuccess(c, fiber.Map{"itineraries": records})
}

func (a *AdminController) DeleteItinerary(c *fiber.Ctx) error {
	payload := new(DeleteRecordRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Itinerary ID is required")
	}

	if err := a.Repo.Itineraries().DeleteByID(c.Context(), uuid.MustParse(payload.ID)); err != nil {
		a.Logger.Error("error deleting itinerary: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "Failed to delete itinerary")
	}

	return respondSuccess(c, fiber.Map{"message": "Itinerary deleted successfully"})
}

// AdminUploadRequest is the curated-content upload payload.
type AdminUploadRequest struct {
	ItineraryRequest
	UserID     string `form:"userId" json:"userId"`
	AuthorName string `form:"authorName" json:"authorName"`
}

func (a *AdminController) UploadItinerary(c *fiber.Ctx) error {
	payload := new(AdminUploadRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, http.StatusBadRequest, err.Error())
	}

	userID, err := a.resolveUploadOwner(c.Context(), payload.UserID)
	if err != nil {
		if goerrors.Is(err, errNoUploadOwner) {
			return respondFailure(c, http.StatusBadRequest, "No users found to assign itinerary")
		}
		a.Logger.Error("error resolving upload owner: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "An error occurred")
	}

	record := &Itinerary{
		UserID:      userID,
		AuthorName:  payload.AuthorName,
		IsPublished: true,
	}
	payload.apply(record)

	record, err = a.Repo.Itineraries().Create(c.Context(), record)
	if err != nil {
		a.Logger.Error("error uploading itinerary: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "Failed to save itinerary")
	}

	return respondSuccess(c, fiber.Map{
		"id":      record.ID.String(),
		"message": "Itinerary saved successfully",
	})
}

var errNoUploadOwner = goerrors.New("no users found to assign itinerary", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

// resolveUploadOwner picks the explicit owner when given, otherwise falls
// back to the oldest account.
func (a *AdminController) resolveUploadOwner(ctx context.Context, raw string) (uuid.UUID, error) {
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, goerrors.New("invalid userId", goerrors.CategoryBadInput).
				WithCode(goerrors.CodeBadRequest)
		}
		return id, nil
	}

	user, err := a.Repo.Users().First(ctx)
	if err != nil {
		return uuid.Nil, errNoUploadOwner
	}
	return user.ID, nil
}
