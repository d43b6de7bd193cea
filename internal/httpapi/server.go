package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"voicetasks/internal/auth"
	"voicetasks/internal/repository"
)

// New assembles the fiber application: middleware, the public bootstrap
// routes, and the authenticated task surface.
func New(h *Handlers, verifier auth.Verifier, users *repository.UserRepository) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: appErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/", h.Root)
	app.Post("/verifyUser", h.VerifyUser)

	requireAuth := RequireAuth(verifier, users)

	tasks := app.Group("/tasks", requireAuth)
	tasks.Post("/ai", h.AITask)
	tasks.Post("/", h.CreateTask)
	tasks.Get("/", h.ListTasks)
	tasks.Put("/:taskId", h.UpdateTask)
	tasks.Delete("/:taskId", h.DeleteTask)

	app.Post("/save-fcm-token", requireAuth, h.SaveFCMToken)

	return app
}

// appErrorHandler is the outermost boundary: anything unexpected becomes
// a generic structured server error instead of crashing the process.
func appErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		if code < fiber.StatusInternalServerError {
			message = fiberErr.Message
		}
	}

	return c.Status(code).JSON(errorResponse{Success: false, Message: message})
}
