package repository

import (
	"context"

	"kay-social/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	// Create stores user and assigns its ID. A duplicate username or email
	// yields a *ConflictError naming the column.
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfileImage(ctx context.Context, user *domain.User) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
