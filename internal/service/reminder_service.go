package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"voicetasks/internal/model"
	"voicetasks/internal/notify"
	"voicetasks/internal/repository"
)

// ReminderService pushes reminders for tasks approaching their due date.
type ReminderService struct {
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
	notifier notify.Notifier
}

func NewReminderService(taskRepo *repository.TaskRepository, userRepo *repository.UserRepository, notifier notify.Notifier) *ReminderService {
	return &ReminderService{taskRepo: taskRepo, userRepo: userRepo, notifier: notifier}
}

// DueSoon returns the user's pending tasks that are overdue or due within
// the next 24 hours of now.
func (s *ReminderService) DueSoon(ctx context.Context, userID string, now time.Time) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(24 * time.Hour)
	var due []model.Task
	for _, task := range tasks {
		if task.Status == model.StatusDone || task.DueDate == nil {
			continue
		}
		if task.DueDate.Before(cutoff) {
			due = append(due, task)
		}
	}
	return due, nil
}

// Sweep pushes one reminder to every user with tasks due soon.
func (s *ReminderService) Sweep(ctx context.Context, now time.Time) error {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	for _, user := range users {
		due, err := s.DueSoon(ctx, user.UID, now)
		if err != nil {
			log.Printf("[warn] reminder: list tasks for user %s: %v", user.UID, err)
			continue
		}
		if len(due) == 0 {
			continue
		}

		titles := make([]string, len(due))
		for i, task := range due {
			titles[i] = task.Title
		}
		body := fmt.Sprintf("Due within 24 hours: %s", strings.Join(titles, ", "))
		s.notifier.Push(ctx, user.UID, "Tasks Due Soon", body)
	}
	return nil
}
