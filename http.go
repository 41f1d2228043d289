package tripshare

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

func setCookie(c *fiber.Ctx, name, value string, maxAge time.Duration, production bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(maxAge),
		MaxAge:   int(maxAge.Seconds()),
		HTTPOnly: true,
		Secure:   production,
		SameSite: "Lax",
	})
}

func clearCookie(c *fiber.Ctx, name string, production bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   production,
		SameSite: "Lax",
	})
}

func respondSuccess(c *fiber.Ctx, data fiber.Map) error {
	payload := fiber.Map{"success": true}
	for k, v := range data {
		payload[k] = v
	}
	return c.Status(http.StatusOK).JSON(payload)
}

func respondFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// respondError maps a rich error onto its HTTP status; anything without a
// usable code is a 500 with a generic message so internals never leak.
func respondError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Code >= http.StatusBadRequest {
		return respondFailure(c, richErr.Code, richErr.Message)
	}
	return respondFailure(c, http.StatusInternalServerError, "An error occurred")
}
