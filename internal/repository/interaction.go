package repository

import (
	"context"

	"kay-social/internal/domain"
)

// InteractionRepository stores likes and bookmarks. Implementations must
// enforce uniqueness of (kind, user_id, post_id) in storage and report a
// violation as ErrAlreadyExists.
type InteractionRepository interface {
	Init(ctx context.Context) error
	Insert(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (*domain.Interaction, error)
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (bool, error)
	Exists(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (bool, error)
	CountByPost(ctx context.Context, kind domain.InteractionKind, postID int64) (int64, error)
	CountByUser(ctx context.Context, kind domain.InteractionKind, userID int64) (int64, error)
	ListByUser(ctx context.Context, kind domain.InteractionKind, userID int64) ([]domain.Interaction, error)
	ListByPost(ctx context.Context, kind domain.InteractionKind, postID int64) ([]domain.Interaction, error)
}
