package repository

import (
	"context"

	"kpslogistics/models"
)

// UserRepository defines the interface for user operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.AppUser) error
	GetUserByUsername(ctx context.Context, username string) (*models.AppUser, error)
	CountUsers(ctx context.Context) (int64, error)
}
