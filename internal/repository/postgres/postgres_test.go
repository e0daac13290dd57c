package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kay-social/internal/domain"
	"kay-social/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var userCols = []string{
	"id", "username", "email", "password_hash", "display_name", "role", "enabled",
	"profile_image", "profile_image_key", "profile_image_type", "created_at", "updated_at",
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestMigrate_UsesEmbeddedDir(t *testing.T) {
	db, _ := newMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, "migrations", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	assert.Error(t, Migrate(context.Background(), db))
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	u := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h", Enabled: true}
	id, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestUserRepository_CreateConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "alice@example.com"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
	var conflict *repository.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(3, "bob", "bob@example.com", "h", "Bob", "ADMIN", true, nil, "", "", now, now))
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(userCols))

	u, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.False(t, u.HasProfileImage())

	_, err = repo.GetByID(context.Background(), 4)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_Exists(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserRepository_UpdateProfileImageMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProfileImage(context.Background(), &domain.User{ID: 9})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM posts WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "description", "tags", "created_at", "updated_at"}).
			AddRow(1, 2, "hello", "", `["a","b"]`, now, now))

	p, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Tags)
	assert.EqualValues(t, 2, p.UserID)
}

func TestPostRepository_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostRepository(db)

	mock.ExpectExec("DELETE FROM posts").WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 5), repository.ErrNotFound)
}

func TestInteractionRepository_Insert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInteractionRepository(db)

	mock.ExpectQuery("INSERT INTO interactions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery("INSERT INTO interactions").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "interactions_kind_user_post_key"})
	mock.ExpectQuery("INSERT INTO interactions").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "interactions_post_id_fkey"})

	rec, err := repo.Insert(context.Background(), domain.KindLike, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 11, rec.ID)
	assert.Equal(t, domain.KindLike, rec.Kind)

	_, err = repo.Insert(context.Background(), domain.KindLike, 1, 2)
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	_, err = repo.Insert(context.Background(), domain.KindLike, 1, 99)
	require.ErrorIs(t, err, repository.ErrMissingReference)
	assert.NotErrorIs(t, err, repository.ErrAlreadyExists)
	var ref *repository.ReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "post_id", ref.Field)
}

func TestReferenceField(t *testing.T) {
	assert.Equal(t, "post_id", referenceField("interactions_post_id_fkey"))
	assert.Equal(t, "user_id", referenceField("interactions_user_id_fkey"))
	assert.Empty(t, referenceField(""))
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("h2", sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("h2", sqlmock.AnyArg(), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdatePasswordHash(context.Background(), 3, "h2"))
	assert.ErrorIs(t, repo.UpdatePasswordHash(context.Background(), 4, "h2"), repository.ErrNotFound)
}

func TestInteractionRepository_DeleteAndCount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInteractionRepository(db)

	mock.ExpectExec("DELETE FROM interactions").
		WithArgs("bookmark", int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM interactions").
		WithArgs("bookmark", int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("bookmark", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	removed, err := repo.Delete(context.Background(), domain.KindBookmark, 1, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(context.Background(), domain.KindBookmark, 1, 2)
	require.NoError(t, err)
	assert.False(t, removed)

	n, err := repo.CountByPost(context.Background(), domain.KindBookmark, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestInteractionRepository_ListByUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInteractionRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM interactions").
		WithArgs("like", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "user_id", "post_id", "created_at"}).
			AddRow(1, "like", 1, 5, now).
			AddRow(2, "like", 1, 6, now))

	recs, err := repo.ListByUser(context.Background(), domain.KindLike, 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.EqualValues(t, 6, recs[1].PostID)
}
