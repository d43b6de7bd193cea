package model

import "time"

// Task statuses. The store accepts nothing else.
const (
	StatusPending = "pending"
	StatusDone    = "done"
)

// Task represents a single item in a user's list.
type Task struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index"`
	Title       string
	Description string
	Status      string `gorm:"default:pending"`
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidStatus reports whether s is one of the accepted task statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusDone
}
