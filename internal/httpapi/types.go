package httpapi

import (
	"encoding/json"
	"time"

	"voicetasks/internal/model"
)

type aiRequest struct {
	Text    string `json:"text"`
	DueDate string `json:"dueDate"`
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

// updateTaskRequest keeps dueDate raw so an absent field, an explicit
// null, and a value can be told apart.
type updateTaskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *string         `json:"status"`
	DueDate     json.RawMessage `json:"dueDate"`
}

type saveTokenRequest struct {
	FCMToken string `json:"fcmToken"`
}

type verifyUserRequest struct {
	Token string `json:"token"`
}

type verifyUserResponse struct {
	Success bool   `json:"success"`
	UID     string `json:"uid"`
	Email   string `json:"email"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type listResponse struct {
	Success bool          `json:"success"`
	Tasks   []taskPayload `json:"tasks"`
}

type aiResponse struct {
	Success   bool          `json:"success"`
	Tasks     []taskPayload `json:"tasks"`
	NewTaskID *string       `json:"newTaskId"`
}

type createResponse struct {
	Success   bool          `json:"success"`
	Tasks     []taskPayload `json:"tasks"`
	NewTaskID string        `json:"newTaskId"`
}

type mutateResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Tasks   []taskPayload `json:"tasks"`
}

// taskPayload is the wire form of a task; timestamps render as ISO-8601
// or null.
type taskPayload struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	UserID      string  `json:"userId"`
	CreatedAt   *string `json:"createdAt"`
	DueDate     *string `json:"dueDate"`
}

const isoLayout = "2006-01-02T15:04:05.000Z"

func isoTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(isoLayout)
	return &s
}

func toTaskPayload(t model.Task) taskPayload {
	p := taskPayload{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		UserID:      t.UserID,
		CreatedAt:   isoTime(t.CreatedAt),
	}
	if t.DueDate != nil {
		p.DueDate = isoTime(*t.DueDate)
	}
	return p
}

func toTaskPayloads(tasks []model.Task) []taskPayload {
	out := make([]taskPayload, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskPayload(t)
	}
	return out
}
