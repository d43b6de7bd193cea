package httpapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"voicetasks/internal/auth"
	"voicetasks/internal/model"
	"voicetasks/internal/notify"
	"voicetasks/internal/repository"
	"voicetasks/internal/service"
)

// Handlers exposes the task API surface: CRUD, the AI command endpoint,
// push-token registration, and credential verification.
type Handlers struct {
	verifier auth.Verifier
	tasks    *service.TaskService
	resolver *service.Resolver
	notifier notify.Notifier
	devices  *repository.DeviceRepository
}

func NewHandlers(verifier auth.Verifier, tasks *service.TaskService, resolver *service.Resolver, notifier notify.Notifier, devices *repository.DeviceRepository) *Handlers {
	return &Handlers{
		verifier: verifier,
		tasks:    tasks,
		resolver: resolver,
		notifier: notifier,
		devices:  devices,
	}
}

func (h *Handlers) Root(c *fiber.Ctx) error {
	return c.SendString("voicetasks server is running")
}

// VerifyUser is the bootstrap endpoint: it checks a credential without
// requiring prior auth and returns the identity it resolves to.
func (h *Handlers) VerifyUser(c *fiber.Ctx) error {
	var req verifyUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Token == "" {
		return fail(c, fiber.StatusBadRequest, "Token missing")
	}

	identity, err := h.verifier.Verify(c.UserContext(), req.Token)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	return c.JSON(verifyUserResponse{Success: true, UID: identity.UID, Email: identity.Email})
}

// AITask interprets one voice/text utterance and applies the resulting
// task mutation.
func (h *Handlers) AITask(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	var req aiRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return fail(c, fiber.StatusBadRequest, "No text provided")
	}

	outcome, err := h.resolver.Resolve(c.UserContext(), identity.UID, req.Text, req.DueDate)
	if err != nil {
		return failFromError(c, err)
	}

	tasks, err := h.tasks.ListTasks(c.UserContext(), identity.UID)
	if err != nil {
		return failFromError(c, err)
	}

	resp := aiResponse{Success: true, Tasks: toTaskPayloads(tasks)}
	if outcome.NewTaskID != "" {
		resp.NewTaskID = &outcome.NewTaskID
	}
	return c.JSON(resp)
}

// CreateTask is the manual create endpoint used by the UI form.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, ok := service.ParseDate(req.DueDate)
		if !ok {
			return fail(c, fiber.StatusBadRequest, "Invalid dueDate format")
		}
		dueDate = &parsed
	}

	task, err := h.tasks.CreateTask(c.UserContext(), identity.UID, req.Title, req.Description, dueDate)
	if err != nil {
		return failFromError(c, err)
	}

	tasks, err := h.tasks.ListTasks(c.UserContext(), identity.UID)
	if err != nil {
		return failFromError(c, err)
	}

	return c.JSON(createResponse{Success: true, Tasks: toTaskPayloads(tasks), NewTaskID: task.ID})
}

// ListTasks returns the caller's full task list, newest first.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	tasks, err := h.tasks.ListTasks(c.UserContext(), identity.UID)
	if err != nil {
		return failFromError(c, err)
	}
	return c.JSON(listResponse{Success: true, Tasks: toTaskPayloads(tasks)})
}

// UpdateTask applies a partial update to a task addressed by id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}
	taskID := c.Params("taskId")

	var req updateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	upd := service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if len(req.DueDate) > 0 {
		var raw *string
		if err := json.Unmarshal(req.DueDate, &raw); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid dueDate format")
		}
		if raw == nil || *raw == "" {
			upd.ClearDueDate = true
		} else {
			parsed, ok := service.ParseDate(*raw)
			if !ok {
				return fail(c, fiber.StatusBadRequest, "Invalid dueDate format")
			}
			upd.DueDate = &parsed
		}
	}

	task, err := h.tasks.UpdateTask(c.UserContext(), identity.UID, taskID, upd)
	if err != nil {
		return failFromError(c, err)
	}

	title := task.Title
	if req.Title != nil && *req.Title != "" {
		title = *req.Title
	}
	if req.Status != nil && *req.Status == model.StatusDone {
		h.notifier.Push(c.UserContext(), identity.UID, "Task Completed", fmt.Sprintf("Great job! You completed %q.", title))
	} else {
		h.notifier.Push(c.UserContext(), identity.UID, "Task Updated", fmt.Sprintf("Your task %q was updated.", title))
	}

	tasks, err := h.tasks.ListTasks(c.UserContext(), identity.UID)
	if err != nil {
		return failFromError(c, err)
	}
	return c.JSON(mutateResponse{Success: true, Message: "Task updated", Tasks: toTaskPayloads(tasks)})
}

// DeleteTask removes a task addressed by id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}
	taskID := c.Params("taskId")

	task, err := h.tasks.DeleteTask(c.UserContext(), identity.UID, taskID)
	if err != nil {
		return failFromError(c, err)
	}

	h.notifier.Push(c.UserContext(), identity.UID, "Task Deleted", fmt.Sprintf("Your task %q was deleted.", task.Title))

	tasks, err := h.tasks.ListTasks(c.UserContext(), identity.UID)
	if err != nil {
		return failFromError(c, err)
	}
	return c.JSON(mutateResponse{Success: true, Message: "Deleted", Tasks: toTaskPayloads(tasks)})
}

// SaveFCMToken stores or overwrites the caller's push registration token.
func (h *Handlers) SaveFCMToken(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	var req saveTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.FCMToken == "" {
		return fail(c, fiber.StatusBadRequest, "Missing fcmToken")
	}

	if err := h.devices.Save(c.UserContext(), identity.UID, req.FCMToken); err != nil {
		return failFromError(c, err)
	}
	return c.JSON(messageResponse{Success: true, Message: "Token saved successfully"})
}
