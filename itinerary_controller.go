package tripshare

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ItineraryController serves itinerary CRUD. Reads are public; mutations
// require a session, and update/delete additionally require ownership.
type ItineraryController struct {
	Logger Logger
	Repo   RepositoryManager
	Gate   *Gate
}

func NewItineraryController(repo RepositoryManager, gate *Gate, logger Logger) *ItineraryController {
	if logger == nil {
		logger = defLogger{}
	}
	return &ItineraryController{
		Logger: logger,
		Repo:   repo,
		Gate:   gate,
	}
}

func RegisterItineraryRoutes(app fiber.Router, controller *ItineraryController) {
	app.Get("/itineraries", controller.List)
	app.Post("/itineraries", controller.Create)
	app.Get("/itineraries/:id", controller.Show)
	app.Put("/itineraries/:id", controller.Update)
	app.Delete("/itineraries/:id", controller.Delete)
}

// ItineraryRequest is the submit/update payload.
type ItineraryRequest struct {
	Title        string   `form:"title" json:"title"`
	Summary      string   `form:"summary" json:"summary"`
	FromLocation string   `form:"fromLocation" json:"fromLocation"`
	ToLocation   string   `form:"toLocation" json:"toLocation"`
	StartDate    string   `form:"startDate" json:"startDate"`
	EndDate      string   `form:"endDate" json:"endDate"`
	Duration     string   `form:"duration" json:"duration"`
	TripType     string   `form:"tripType" json:"tripType"`
	Budget       string   `form:"budget" json:"budget"`
	Transport    string   `form:"transport" json:"transport"`
	Days         []Day    `json:"days"`
	Tags         []string `json:"tags"`
	CoverImage   string   `form:"coverImage" json:"coverImage"`
}

// Validate will run validation rules
func (r ItineraryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Summary, validation.Required),
		validation.Field(&r.ToLocation, validation.Required),
		validation.Field(&r.Duration, validation.Required),
		validation.Field(&r.Days, validation.Required),
	)
}

func (r ItineraryRequest) apply(record *Itinerary) {
	record.Title = r.Title
	record.Summary = r.Summary
	record.FromLocation = r.FromLocation
	record.ToLocation = r.ToLocation
	record.StartDate = r.StartDate
	record.EndDate = r.EndDate
	record.Duration = r.Duration
	record.TripType = r.TripType
	record.Budget = r.Budget
	record.Transport = r.Transport
	record.Days = r.Days
	record.Tags = r.Tags
	record.CoverImage = r.CoverImage
}

func (i *ItineraryController) List(c *fiber.Ctx) error {
	records, err := i.Repo.Itineraries().ListPublished(c.Context())
	if err != nil {
		i.Logger.Error("error listing itineraries: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "Failed to fetch itineraries")
	}

	return respondSuccess(c, fiber.Map{"itineraries": records})
}

func (i *ItineraryController) Show(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondFailure(c, http.StatusBadRequest, "Itinerary ID is required")
	}

	record, err := i.Repo.Itineraries().GetByID(c.Context(), id)
	if err != nil {
		if goerrors.Is(err, ErrItineraryNotFound) {
			return respondFailure(c, http.StatusNotFound, "Itinerary not found")
		}
		i.Logger.Error("error fetching itinerary: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "Failed to fetch itinerary")
	}

	identity := i.Gate.UserFromCookies(c)
	isOwner := i.Gate.AuthorizeOwner(identity, record.UserID) == nil

	return respondSuccess(c, fiber.Map{
		"itinerary": record,
		"isOwner":   isOwner,
	})
}

func (i *ItineraryController) Create(c *fiber.Ctx) error {
	identity := i.Gate.UserFromCookies(c)
	if identity == nil {
		return respondFailure(c, http.StatusUnauthorized, "Not authenticated")
	}

	userID, err := uuid.Parse(identity.UserID)
	if err != nil {
		return respondFailure(c, http.StatusUnauthorized, "Not authenticated")
	}

	payload := new(ItineraryRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, http.StatusBadRequest, err.Error())
	}

	record := &Itinerary{
		UserID:      userID,
		AuthorName:  identity.DisplayName,
		IsPublished: true,
	}
	payload.apply(record)

	record, err = i.Repo.Itineraries().Create(c.Context(), record)
	if err != nil {
		i.Logger.Error("error saving itinerary: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "Failed to save itinerary")
	}

	return respondSuccess(c, fiber.Map{
		"id":      record.ID.String(),
		"message": "Itinerary saved successfully",
	})
}

func (i *ItineraryController) Update(c *fiber.Ctx) error {
	record, err := i.loadOwned(c)
	if err != nil {
		return respondOwnershipError(c, err)
	}

	payload := new(ItineraryRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFailure(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, http.StatusBadRequest, err.Error())
	}

	payload.apply(record)

	if _, err := i.Repo.Itineraries().Update(c.Context(), record); err != nil {
		i.Logger.Error("error updating itinerary: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "Failed to update itinerary")
	}

	return respondSuccess(c, fiber.Map{"message": "Itinerary updated successfully"})
}

func (i *ItineraryController) Delete(c *fiber.Ctx) error {
	record, err := i.loadOwned(c)
	if err != nil {
		return respondOwnershipError(c, err)
	}

	if err := i.Repo.Itineraries().DeleteByID(c.Context(), record.ID); err != nil {
		i.Logger.Error("error deleting itinerary: %v", err)
		return respondFailure(c, http.StatusInternalServerError, "Failed to delete itinerary")
	}

	return respondSuccess(c, fiber.Map{"message": "Itinerary deleted successfully"})
}

// loadOwned resolves the target record and checks the caller owns it.
func (i *ItineraryController) loadOwned(c *fiber.Ctx) (*Itinerary, error) {
	identity := i.Gate.UserFromCookies(c)
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, goerrors.New("itinerary id is required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	record, err := i.Repo.Itineraries().GetByID(c.Context(), id)
	if err != nil {
		return nil, err
	}

	if err := i.Gate.AuthorizeOwner(identity, record.UserID); err != nil {
		return nil, err
	}

	return record, nil
}

func respondOwnershipError(c *fiber.Ctx, err error) error {
	switch {
	case goerrors.Is(err, ErrNotAuthenticated):
		return respondFailure(c, http.StatusUnauthorized, "Not authenticated")
	case goerrors.Is(err, ErrNotOwner):
		return respondFailure(c, http.StatusForbidden, "You do not have permission to modify this itinerary")
	case goerrors.Is(err, ErrItineraryNotFound):
		return respondFailure(c, http.StatusNotFound, "Itinerary not found")
	default:
		return respondError(c, err)
	}
}
