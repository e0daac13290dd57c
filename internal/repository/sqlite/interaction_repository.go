package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kay-social/internal/domain"
	"kay-social/internal/repository"
)

const createInteractionsTable = `
CREATE TABLE IF NOT EXISTS interactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL,
	UNIQUE (kind, user_id, post_id)
);
`

const createInteractionsPostIndex = `CREATE INDEX IF NOT EXISTS idx_interactions_post ON interactions(kind, post_id);`

type InteractionRepository struct {
	db *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Init(ctx context.Context) error {
	if err := execAll(ctx, r.db, createInteractionsTable, createInteractionsPostIndex); err != nil {
		return fmt.Errorf("create interactions table: %w", err)
	}
	return nil
}

func (r *InteractionRepository) Insert(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (*domain.Interaction, error) {
	rec := &domain.Interaction{
		UserID:    userID,
		PostID:    postID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO interactions (kind, user_id, post_id, created_at)
VALUES (?, ?, ?, ?)`,
		string(kind),
		userID,
		postID,
		rec.CreatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, repository.ErrAlreadyExists
		}
		if foreignKeyViolation(err) {
			return nil, &repository.ReferenceError{}
		}
		return nil, fmt.Errorf("insert %s: %w", kind, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%s last insert id: %w", kind, err)
	}
	rec.ID = id
	return rec, nil
}

func (r *InteractionRepository) Delete(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM interactions
WHERE kind = ? AND user_id = ? AND post_id = ?`,
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
SELECT EXISTS(SELECT 1 FROM interactions WHERE kind = ? AND user_id = ? AND post_id = ?)`,
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
	return r.count(ctx, `SELECT COUNT(*) FROM interactions WHERE kind = ? AND post_id = ?`, kind, postID)
}

func (r *InteractionRepository) CountByUser(ctx context.Context, kind domain.InteractionKind, userID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM interactions WHERE kind = ? AND user_id = ?`, kind, userID)
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
WHERE kind = ? AND user_id = ?
ORDER BY id ASC`, kind, userID)
}

func (r *InteractionRepository) ListByPost(ctx context.Context, kind domain.InteractionKind, postID int64) ([]domain.Interaction, error) {
	return r.list(ctx, `
SELECT id, kind, user_id, post_id, created_at
FROM interactions
WHERE kind = ? AND post_id = ?
ORDER BY id ASC`, kind, postID)
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
