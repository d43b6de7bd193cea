package model

import "time"

// User records an account the API has seen, keyed by the identity
// provider's stable uid.
type User struct {
	UID       string `gorm:"primaryKey"`
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
