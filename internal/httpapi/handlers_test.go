package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicetasks/internal/auth"
	"voicetasks/internal/intent"
	"voicetasks/internal/repository"
	"voicetasks/internal/service"
)

type extractorStub struct {
	out intent.Intent
	err error
}

func (e *extractorStub) Extract(ctx context.Context, text string) (intent.Intent, error) {
	return e.out, e.err
}

type notifierStub struct {
	titles []string
}

func (n *notifierStub) Push(_ context.Context, _, title, _ string) {
	n.titles = append(n.titles, title)
}

type testEnv struct {
	app       *fiber.App
	verifier  *auth.TokenVerifier
	extractor *extractorStub
	notifier  *notifierStub
	devices   *repository.DeviceRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)

	verifier := auth.NewTokenVerifier("test-secret", "voicetasks-test")
	extractor := &extractorStub{}
	notifier := &notifierStub{}

	taskSvc := service.NewTaskService(taskRepo)
	resolver := service.NewResolver(extractor, taskRepo, notifier)
	handlers := NewHandlers(verifier, taskSvc, resolver, notifier, deviceRepo)

	return &testEnv{
		app:       New(handlers, verifier, userRepo),
		verifier:  verifier,
		extractor: extractor,
		notifier:  notifier,
		devices:   deviceRepo,
	}
}

func (env *testEnv) token(t *testing.T, uid string) string {
	t.Helper()
	token, err := env.verifier.Issue(uid, uid+"@example.com", time.Hour)
	require.NoError(t, err)
	return token
}

func (env *testEnv) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && json.Valid(data) {
		require.NoError(t, json.Unmarshal(data, &payload))
	}
	return resp.StatusCode, payload
}

func titlesOf(payload map[string]interface{}) []string {
	raw, _ := payload["tasks"].([]interface{})
	titles := make([]string, 0, len(raw))
	for _, item := range raw {
		task := item.(map[string]interface{})
		titles = append(titles, task["title"].(string))
	}
	return titles
}

func TestVerifyUser(t *testing.T) {
	env := newTestEnv(t)

	status, payload := env.request(t, http.MethodPost, "/verifyUser", "", map[string]string{
		"token": env.token(t, "user-a"),
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "user-a", payload["uid"])
	assert.Equal(t, "user-a@example.com", payload["email"])

	status, payload = env.request(t, http.MethodPost, "/verifyUser", "", map[string]string{"token": "garbage"})
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, payload["success"])

	status, _ = env.request(t, http.MethodPost, "/verifyUser", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAuthRequiredOnTaskRoutes(t *testing.T) {
	env := newTestEnv(t)

	status, payload := env.request(t, http.MethodGet, "/tasks", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized: No token provided", payload["message"])

	status, payload = env.request(t, http.MethodGet, "/tasks", "bogus", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or expired token", payload["message"])
}

func TestCreateThenListTask(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-a")

	status, payload := env.request(t, http.MethodPost, "/tasks", token, map[string]string{
		"title":       "Buy milk",
		"description": "2 liters",
		"dueDate":     "2026-03-01T10:30",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, payload["success"])
	assert.NotEmpty(t, payload["newTaskId"])

	status, payload = env.request(t, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []string{"Buy milk"}, titlesOf(payload))

	task := payload["tasks"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "pending", task["status"])
	assert.Equal(t, "user-a", task["userId"])
	assert.NotNil(t, task["createdAt"])
	assert.Contains(t, task["dueDate"], "2026-03-01")
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-a")

	status, payload := env.request(t, http.MethodPost, "/tasks", token, map[string]string{"title": "  "})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Title is required", payload["message"])

	status, payload = env.request(t, http.MethodPost, "/tasks", token, map[string]string{
		"title":   "Buy milk",
		"dueDate": "not-a-date",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid dueDate format", payload["message"])
}

func TestUpdateTaskOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, "user-b")
	intruder := env.token(t, "user-a")

	_, payload := env.request(t, http.MethodPost, "/tasks", owner, map[string]string{"title": "Buy milk"})
	taskID := payload["newTaskId"].(string)

	status, payload := env.request(t, http.MethodPut, "/tasks/"+taskID, intruder, map[string]string{"title": "Stolen"})
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Unauthorized", payload["message"])

	status, payload = env.request(t, http.MethodPut, "/tasks/no-such-id", intruder, map[string]string{"title": "x"})
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", payload["message"])

	// Record unchanged for the real owner.
	_, payload = env.request(t, http.MethodGet, "/tasks", owner, nil)
	assert.Equal(t, []string{"Buy milk"}, titlesOf(payload))
}

func TestUpdateTaskStatusAndNotification(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-a")

	_, payload := env.request(t, http.MethodPost, "/tasks", token, map[string]string{"title": "Buy milk"})
	taskID := payload["newTaskId"].(string)

	status, payload := env.request(t, http.MethodPut, "/tasks/"+taskID, token, map[string]string{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid status", payload["message"])

	status, _ = env.request(t, http.MethodPut, "/tasks/"+taskID, token, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Task Completed"}, env.notifier.titles)

	// Marking done again succeeds and leaves state unchanged.
	status, payload = env.request(t, http.MethodPut, "/tasks/"+taskID, token, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, status)
	task := payload["tasks"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "done", task["status"])
}

func TestUpdateTaskDueDateHandling(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-a")

	_, payload := env.request(t, http.MethodPost, "/tasks", token, map[string]string{
		"title":   "Buy milk",
		"dueDate": "2026-03-01T10:30",
	})
	taskID := payload["newTaskId"].(string)

	status, payload := env.request(t, http.MethodPut, "/tasks/"+taskID, token, map[string]string{"dueDate": "garbage"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid dueDate format", payload["message"])

	// Null clears the due date.
	status, payload = env.request(t, http.MethodPut, "/tasks/"+taskID, token, map[string]interface{}{"dueDate": nil})
	require.Equal(t, http.StatusOK, status)
	task := payload["tasks"].([]interface{})[0].(map[string]interface{})
	assert.Nil(t, task["dueDate"])
}

func TestDeleteTaskOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, "user-b")
	intruder := env.token(t, "user-a")

	_, payload := env.request(t, http.MethodPost, "/tasks", owner, map[string]string{"title": "Buy milk"})
	taskID := payload["newTaskId"].(string)

	status, _ := env.request(t, http.MethodDelete, "/tasks/"+taskID, intruder, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, payload = env.request(t, http.MethodDelete, "/tasks/"+taskID, owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, titlesOf(payload))
	assert.Equal(t, []string{"Task Deleted"}, env.notifier.titles)
}

func TestAICommandDelete(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-a")

	_, _ = env.request(t, http.MethodPost, "/tasks", token, map[string]string{"title": "Buy milk"})
	_, _ = env.request(t, http.MethodPost, "/tasks", token, map[string]string{"title": "Walk the dog"})

	env.extractor.out = intent.Intent{
		Action: intent.ActionDelete,
		Task:   &intent.TaskFields{Title: "buy milk"},
	}

	status, payload := env.request(t, http.MethodPost, "/tasks/ai", token, map[string]string{
		"text": "delete task buy milk",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, []string{"Walk the dog"}, titlesOf(payload))
	assert.Nil(t, payload["newTaskId"])
}

func TestAICommandCreateReturnsNewTaskID(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-a")

	env.extractor.out = intent.Intent{
		Action: intent.ActionCreate,
		Task:   &intent.TaskFields{Title: "Buy milk"},
	}

	status, payload := env.request(t, http.MethodPost, "/tasks/ai", token, map[string]string{
		"text": "add buy milk to my list",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, payload["newTaskId"])
	assert.Equal(t, []string{"Buy milk"}, titlesOf(payload))
}

func TestAICommandValidationAndFailures(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-a")

	status, payload := env.request(t, http.MethodPost, "/tasks/ai", token, map[string]string{"text": "   "})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No text provided", payload["message"])

	env.extractor.err = intent.ErrUnparsable
	status, payload = env.request(t, http.MethodPost, "/tasks/ai", token, map[string]string{"text": "gibberish"})
	require.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to understand command. Please try again.", payload["message"])

	env.extractor.err = intent.ErrIncomplete
	status, payload = env.request(t, http.MethodPost, "/tasks/ai", token, map[string]string{"text": "hmm"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Could not understand the command", payload["message"])
}

func TestAICommandFuzzyMissListsTitles(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-a")

	_, _ = env.request(t, http.MethodPost, "/tasks", token, map[string]string{"title": "Buy milk"})

	env.extractor.out = intent.Intent{
		Action: intent.ActionDone,
		Task:   &intent.TaskFields{Title: "xyz"},
	}

	status, payload := env.request(t, http.MethodPost, "/tasks/ai", token, map[string]string{"text": "mark xyz done"})
	require.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, payload["message"], "Buy milk")
}

func TestSaveFCMToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-a")

	status, payload := env.request(t, http.MethodPost, "/save-fcm-token", token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing fcmToken", payload["message"])

	status, payload = env.request(t, http.MethodPost, "/save-fcm-token", token, map[string]string{"fcmToken": "device-1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, payload["success"])

	record, err := env.devices.FindByUser(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, "device-1", record.Token)
}
