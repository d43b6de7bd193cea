package httpapi

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"voicetasks/internal/intent"
	"voicetasks/internal/service"
)

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorResponse{Success: false, Message: msg})
}

// failFromError maps the service and upstream failure classes onto the
// structured {success:false, message} payload.
func failFromError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "Unauthorized")
	case errors.Is(err, service.ErrNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, intent.ErrNoAPIKey):
		return fail(c, fiber.StatusInternalServerError, "Server configuration error: GEMINI_API_KEY not set")
	case errors.Is(err, intent.ErrBadAPIKey):
		return fail(c, fiber.StatusInternalServerError, "Invalid API key. Please verify your Gemini API key at https://aistudio.google.com")
	case errors.Is(err, intent.ErrQuota):
		return fail(c, fiber.StatusInternalServerError, "API quota exceeded. Please try again later.")
	case errors.Is(err, intent.ErrUnparsable):
		return fail(c, fiber.StatusInternalServerError, "Failed to understand command. Please try again.")
	case errors.Is(err, intent.ErrIncomplete):
		return fail(c, fiber.StatusBadRequest, "Could not understand the command")
	default:
		log.Printf("[error] request failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, "Server error")
	}
}
