package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"voicetasks/internal/model"
)

// DeviceRepository stores push registration tokens, one per user.
type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Save stores or overwrites the token registered for userID.
func (r *DeviceRepository) Save(ctx context.Context, userID, token string) error {
	var existing model.DeviceToken
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ?", userID).First(&existing).Error
	switch {
	case err == nil:
		if err := db.Model(&existing).Update("token", token).Error; err != nil {
			return fmt.Errorf("update device token: %w", err)
		}
		return nil
	case err == gorm.ErrRecordNotFound:
		record := model.DeviceToken{UserID: userID, Token: token}
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("create device token: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find device token: %w", err)
	}
}

func (r *DeviceRepository) FindByUser(ctx context.Context, userID string) (*model.DeviceToken, error) {
	var record model.DeviceToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
