package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"kay-social/internal/domain"
	"kay-social/internal/repository"
	"kay-social/internal/repository/sqlite"
)

type testRepos struct {
	users        *sqlite.UserRepository
	posts        *sqlite.PostRepository
	interactions *sqlite.InteractionRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r := &testRepos{
		users:        sqlite.NewUserRepository(db),
		posts:        sqlite.NewPostRepository(db),
		interactions: sqlite.NewInteractionRepository(db),
	}
	require.NoError(t, sqlite.Init(context.Background(), r.users, r.posts, r.interactions))
	return r
}

func (r *testRepos) addUser(t *testing.T, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
		Enabled:      true,
	}
	_, err := r.users.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func (r *testRepos) addPost(t *testing.T, owner int64) *domain.Post {
	t.Helper()
	p := &domain.Post{UserID: owner, Title: "post"}
	_, err := r.posts.Create(context.Background(), p)
	require.NoError(t, err)
	return p
}

func quietLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

// mockUserRepo lets each test script the repository calls it cares about.
// Unscripted calls fail the test.
type mockUserRepo struct {
	t                  *testing.T
	createFn           func(ctx context.Context, user *domain.User) (int64, error)
	getByUsernameFn    func(ctx context.Context, username string) (*domain.User, error)
	getByIDFn          func(ctx context.Context, id int64) (*domain.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	updateImageFn      func(ctx context.Context, user *domain.User) error
	updatePasswordFn   func(ctx context.Context, id int64, hash string) error
}

func (m *mockUserRepo) unexpected(name string) {
	m.t.Helper()
	m.t.Fatalf("unexpected call to %s", name)
}

func (m *mockUserRepo) Init(context.Context) error { return nil }

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	if m.createFn == nil {
		m.unexpected("Create")
	}
	return m.createFn(ctx, user)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn == nil {
		m.unexpected("GetByUsername")
	}
	return m.getByUsernameFn(ctx, username)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn == nil {
		m.unexpected("GetByID")
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn == nil {
		m.unexpected("ExistsByUsername")
	}
	return m.existsByUsernameFn(ctx, username)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn == nil {
		m.unexpected("ExistsByEmail")
	}
	return m.existsByEmailFn(ctx, email)
}

func (m *mockUserRepo) UpdateProfileImage(ctx context.Context, user *domain.User) error {
	if m.updateImageFn == nil {
		m.unexpected("UpdateProfileImage")
	}
	return m.updateImageFn(ctx, user)
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	if m.updatePasswordFn == nil {
		m.unexpected("UpdatePasswordHash")
	}
	return m.updatePasswordFn(ctx, id, hash)
}

var _ repository.UserRepository = (*mockUserRepo)(nil)
