package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "query user by username", "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "query user by email", "email = ?", email)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	return r.first(ctx, "query user by id", "id = ?", id)
}

func (r *UserRepository) first(ctx context.Context, op, cond string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}
	return &user, nil
}
