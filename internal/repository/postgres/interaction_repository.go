package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kay-social/internal/domain"
	"kay-social/internal/repository"
)

type InteractionRepository struct {
	db DBTX
}

func NewInteractionRepository(db DBTX) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Init(context.Context) error { return nil }

func (r *InteractionRepository) Insert(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (*domain.Interaction, error) {
	rec := &domain.Interaction{
		UserID:    userID,
		PostID:    postID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	err := r.db.QueryRowContext(ctx, `
INSERT INTO interactions (kind, user_id, post_id, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id`,
		string(kind),
		userID,
		postID,
		rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, repository.ErrAlreadyExists
		}
		if constraint, ok := foreignKeyViolation(err); ok {
			return nil, &repository.ReferenceError{Field: referenceField(constraint)}
		}
		return nil, fmt.Errorf("insert %s: %w", kind, err)
	}
	return rec, nil
}

// referenceField turns the default constraint name
// "interactions_post_id_fkey" into "post_id".
func referenceField(constraint string) string {
	switch {
	case strings.Contains(constraint, "post_id"):
		return "post_id"
	case strings.Contains(constraint, "user_id"):
		return "user_id"
	default:
		return ""
	}
}

func (r *InteractionRepository) Delete(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM interactions
WHERE kind = $1 AND user_id = $2 AND post_id = $3`,
		string(kind),
		userID,
		postID,
	)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s rows: %w", kind, err)
	}
	return n > 0, nil
}

func (r *InteractionRepository) Exists(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS(SELECT 1 FROM interactions WHERE kind = $1 AND user_id = $2 AND post_id = $3)`,
		string(kind),
		userID,
		postID,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", kind, err)
	}
	return found, nil
}

func (r *InteractionRepository) CountByPost(ctx context.Context, kind domain.InteractionKind, postID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM interactions WHERE kind = $1 AND post_id = $2`, kind, postID)
}

func (r *InteractionRepository) CountByUser(ctx context.Context, kind domain.InteractionKind, userID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM interactions WHERE kind = $1 AND user_id = $2`, kind, userID)
}

func (r *InteractionRepository) count(ctx context.Context, query string, kind domain.InteractionKind, id int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, string(kind), id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

func (r *InteractionRepository) ListByUser(ctx context.Context, kind domain.InteractionKind, userID int64) ([]domain.Interaction, error) {
	return r.list(ctx, `
SELECT id, kind, user_id, post_id, created_at
FROM interactions
WHERE kind = $1 AND user_id = $2
ORDER BY id`, kind, userID)
}

func (r *InteractionRepository) ListByPost(ctx context.Context, kind domain.InteractionKind, postID int64) ([]domain.Interaction, error) {
	return r.list(ctx, `
SELECT id, kind, user_id, post_id, created_at
FROM interactions
WHERE kind = $1 AND post_id = $2
ORDER BY id`, kind, postID)
}

func (r *InteractionRepository) list(ctx context.Context, query string, kind domain.InteractionKind, id int64) ([]domain.Interaction, error) {
	rows, err := r.db.QueryContext(ctx, query, string(kind), id)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var out []domain.Interaction
	for rows.Next() {
		var (
			rec     domain.Interaction
			recKind string
		)
		if err := rows.Scan(&rec.ID, &recKind, &rec.UserID, &rec.PostID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		rec.Kind = domain.InteractionKind(recKind)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", kind, err)
	}
	return out, nil
}

var _ repository.InteractionRepository = (*InteractionRepository)(nil)
