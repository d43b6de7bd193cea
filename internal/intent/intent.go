package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Actions the extractor is constrained to produce.
const (
	ActionCreate = "create"
	ActionDelete = "delete"
	ActionEdit   = "edit"
	ActionDone   = "done"
)

var (
	// ErrUnparsable is returned when the model output is not valid JSON.
	ErrUnparsable = errors.New("unparsable model output")
	// ErrIncomplete is returned when the parsed output lacks an action or task.
	ErrIncomplete = errors.New("incomplete intent")
)

// TaskFields is the task descriptor carried by an intent. Create fills
// title/description/dueDate; edit fills the new* fields.
type TaskFields struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	DueDate        string `json:"dueDate"`
	NewTitle       string `json:"newTitle"`
	NewDescription string `json:"newDescription"`
	NewDueDate     string `json:"newDueDate"`
}

// Intent is one structured command extracted from free text. It lives
// only for the duration of a single request.
type Intent struct {
	Action string      `json:"action"`
	Task   *TaskFields `json:"task"`
}

const promptTemplate = `Extract user intent and respond ONLY in JSON format exactly like one of these examples (no extra text):

Create:
{ "action": "create", "task": { "title": "Buy milk", "description": "2 liters" } }

Delete:
{ "action": "delete", "task": { "title": "Buy milk" } }

Edit:
{ "action": "edit", "task": { "title": "Buy milk", "newTitle": "Buy almond milk" } }

Done:
{ "action": "done", "task": { "title": "Buy milk" } }

IMPORTANT: For delete, edit, and done actions, extract only the core task name.
Examples:
- "delete task buy milk" → { "action": "delete", "task": { "title": "buy milk" } }
- "edit task buy milk to buy almond milk" → { "action": "edit", "task": { "title": "buy milk", "newTitle": "buy almond milk" } }
- "mark buy milk done" → { "action": "done", "task": { "title": "buy milk" } }

User Input: "%s"`

// BuildPrompt renders the fixed instruction template around the user's text.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// Parse turns raw model output into an Intent. Code-fence markup is
// stripped before parsing; anything still not JSON is terminal.
func Parse(raw string) (Intent, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var out Intent
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return Intent{}, fmt.Errorf("%w: %q", ErrUnparsable, cleaned)
	}
	if out.Action == "" || out.Task == nil {
		return Intent{}, ErrIncomplete
	}
	return out, nil
}
