package service

import (
	"context"
	"fmt"
	"time"

	"voicetasks/internal/intent"
	"voicetasks/internal/model"
	"voicetasks/internal/notify"
	"voicetasks/internal/repository"
)

// Resolver turns one user utterance into exactly one task mutation. It
// extracts the intent, locates the target task by fuzzy name match, and
// applies the mutation, pushing a best-effort notification afterwards.
type Resolver struct {
	extractor intent.Extractor
	taskRepo  *repository.TaskRepository
	notifier  notify.Notifier
}

func NewResolver(extractor intent.Extractor, taskRepo *repository.TaskRepository, notifier notify.Notifier) *Resolver {
	return &Resolver{extractor: extractor, taskRepo: taskRepo, notifier: notifier}
}

// Outcome reports what a resolved command did.
type Outcome struct {
	Action    string
	NewTaskID string
}

// Resolve handles one utterance for userID. dueOverride, when non-empty,
// wins over whatever due date the model extracted for a create.
func (r *Resolver) Resolve(ctx context.Context, userID, text, dueOverride string) (Outcome, error) {
	cmd, err := r.extractor.Extract(ctx, text)
	if err != nil {
		return Outcome{}, err
	}

	switch cmd.Action {
	case intent.ActionCreate:
		return r.create(ctx, userID, cmd.Task, dueOverride)
	case intent.ActionDelete:
		return r.delete(ctx, userID, cmd.Task.Title)
	case intent.ActionEdit:
		return r.edit(ctx, userID, cmd.Task)
	case intent.ActionDone:
		return r.done(ctx, userID, cmd.Task.Title)
	default:
		// The prompt constrains the model to four actions; anything else
		// mutates nothing and the caller still gets the current list.
		return Outcome{Action: cmd.Action}, nil
	}
}

func (r *Resolver) create(ctx context.Context, userID string, fields *intent.TaskFields, dueOverride string) (Outcome, error) {
	title := fields.Title
	if title == "" {
		title = "Untitled Task"
	}

	rawDue := fields.DueDate
	if dueOverride != "" {
		rawDue = dueOverride
	}
	var due *time.Time
	if parsed, ok := ParseDate(rawDue); ok {
		due = &parsed
	}

	task := model.Task{
		UserID:      userID,
		Title:       title,
		Description: fields.Description,
		Status:      model.StatusPending,
		DueDate:     due,
	}
	if err := r.taskRepo.Create(ctx, &task); err != nil {
		return Outcome{}, err
	}

	r.notifier.Push(ctx, userID, "New Task Created", fmt.Sprintf("Your task %q was added.", fields.Title))
	return Outcome{Action: intent.ActionCreate, NewTaskID: task.ID}, nil
}

func (r *Resolver) delete(ctx context.Context, userID, searchTitle string) (Outcome, error) {
	match, err := r.findTarget(ctx, userID, searchTitle)
	if err != nil {
		return Outcome{}, err
	}

	if err := r.taskRepo.Delete(ctx, match.ID); err != nil {
		return Outcome{}, err
	}

	r.notifier.Push(ctx, userID, "Task Deleted", fmt.Sprintf("Your task %q was deleted.", match.Title))
	return Outcome{Action: intent.ActionDelete}, nil
}

func (r *Resolver) edit(ctx context.Context, userID string, fields *intent.TaskFields) (Outcome, error) {
	match, err := r.findTarget(ctx, userID, fields.Title)
	if err != nil {
		return Outcome{}, err
	}

	update := map[string]interface{}{}
	if fields.NewTitle != "" {
		update["title"] = fields.NewTitle
	}
	if fields.NewDescription != "" {
		update["description"] = fields.NewDescription
	}
	// A placeholder or unparsable new due date is dropped from the
	// update, not stored and not cleared.
	if fields.NewDueDate != "" && fields.NewDueDate != DuePlaceholder {
		if parsed, ok := ParseDate(fields.NewDueDate); ok {
			update["due_date"] = parsed
		}
	}

	if len(update) > 0 {
		if err := r.taskRepo.Update(ctx, match.ID, update); err != nil {
			return Outcome{}, err
		}
	}

	updatedTitle := fields.NewTitle
	if updatedTitle == "" {
		updatedTitle = match.Title
	}
	r.notifier.Push(ctx, userID, "Task Updated", fmt.Sprintf("Your task %q was updated.", updatedTitle))
	return Outcome{Action: intent.ActionEdit}, nil
}

func (r *Resolver) done(ctx context.Context, userID, searchTitle string) (Outcome, error) {
	match, err := r.findTarget(ctx, userID, searchTitle)
	if err != nil {
		return Outcome{}, err
	}

	if err := r.taskRepo.Update(ctx, match.ID, map[string]interface{}{"status": model.StatusDone}); err != nil {
		return Outcome{}, err
	}

	r.notifier.Push(ctx, userID, "Task Completed", fmt.Sprintf("Great job! You completed %q.", match.Title))
	return Outcome{Action: intent.ActionDone}, nil
}

// findTarget fuzzy-matches searchTitle against the caller's tasks. A miss
// enumerates every current title as a hint.
func (r *Resolver) findTarget(ctx context.Context, userID, searchTitle string) (*model.Task, error) {
	tasks, err := r.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, &NotFoundError{Msg: "No tasks found"}
	}

	match := FindTaskByName(tasks, searchTitle)
	if match == nil {
		titles := make([]string, len(tasks))
		for i, t := range tasks {
			titles[i] = t.Title
		}
		return nil, &TaskNotFoundError{Search: searchTitle, Titles: titles}
	}
	return match, nil
}
