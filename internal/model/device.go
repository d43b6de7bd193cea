package model

import "time"

// DeviceToken stores a user's push registration token. One token per
// user; re-registration overwrites.
type DeviceToken struct {
	UserID    string `gorm:"primaryKey"`
	Token     string
	UpdatedAt time.Time
}
