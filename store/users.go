package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/miniblog/backend/apperr"
	"github.com/miniblog/backend/models"
)

// UserStore resolves token subjects to user records.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore builds a store over db, which may be a transaction handle.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// FindByUsername returns the user a token subject maps to. A missing row
// surfaces as UserNotFound; no user is ever created implicitly.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.UserNotFound(username)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
