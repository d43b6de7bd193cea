package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"voicetasks/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert finds or creates a user by uid and refreshes the email on file.
func (r *UserRepository) Upsert(ctx context.Context, uid, email string) (*model.User, error) {
	var user model.User
	db := r.db.WithContext(ctx)
	err := db.Where("uid = ?", uid).First(&user).Error
	switch {
	case err == nil:
		if email != "" && email != user.Email {
			if err := db.Model(&user).Update("email", email).Error; err != nil {
				return nil, fmt.Errorf("update user: %w", err)
			}
		}
		return &user, nil
	case err == gorm.ErrRecordNotFound:
		user = model.User{UID: uid, Email: email}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
