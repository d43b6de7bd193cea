package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"voicetasks/internal/model"
	"voicetasks/internal/repository"
)

// TaskUpdate is a partial update for one task. Nil fields are left
// untouched; ClearDueDate removes the due date entirely.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Status       *string
	DueDate      *time.Time
	ClearDueDate bool
}

// TaskService wraps task CRUD with ownership and validation rules.
type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTask inserts a pending task owned by userID.
func (s *TaskService) CreateTask(ctx context.Context, userID, title, description string, dueDate *time.Time) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Msg: "Title is required"}
	}

	task := model.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      model.StatusPending,
		DueDate:     dueDate,
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns every task owned by userID, newest first.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	return s.taskRepo.ListByUser(ctx, userID)
}

// UpdateTask applies a partial update to a task the caller owns. It
// returns the task as it was before the update. Marking an already-done
// task done again is a no-op, not an error.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, upd TaskUpdate) (*model.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Status != nil {
		if !model.ValidStatus(*upd.Status) {
			return nil, &ValidationError{Msg: "Invalid status"}
		}
		fields["status"] = *upd.Status
	}
	switch {
	case upd.ClearDueDate:
		fields["due_date"] = nil
	case upd.DueDate != nil:
		fields["due_date"] = *upd.DueDate
	}

	if err := s.taskRepo.Update(ctx, task.ID, fields); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task the caller owns and returns the removed record.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return nil, err
	}
	return task, nil
}

// ownedTask fetches a task and enforces the ownership invariant: a wrong
// owner is rejected distinctly from an absent record.
func (s *TaskService) ownedTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Msg: "Task not found"}
		}
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrForbidden
	}
	return task, nil
}
