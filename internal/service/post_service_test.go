package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kay-social/internal/domain"
)

func TestPostService(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	svc := NewPostService(repos.posts)
	alice := repos.addUser(t, "alice")
	bob := repos.addUser(t, "bob")

	_, err := svc.Create(ctx, alice.ID, CreatePostInput{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	post, err := svc.Create(ctx, alice.ID, CreatePostInput{Title: " Hello ", Tags: []string{"go", " ", "sql "}})
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, []string{"go", "sql"}, post.Tags)

	got, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.UserID)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	list, err := svc.List(ctx, 0, -5)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	mine, err := svc.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	err = svc.Delete(ctx, bob.ID, domain.RoleUser, post.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, alice.ID, domain.RoleUser, post.ID))
	assert.ErrorIs(t, svc.Delete(ctx, alice.ID, domain.RoleUser, post.ID), domain.ErrPostNotFound)
}

func TestPostService_AdminDeletesAnyPost(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	svc := NewPostService(repos.posts)
	alice := repos.addUser(t, "alice")
	admin := repos.addUser(t, "root")

	post, err := svc.Create(ctx, alice.ID, CreatePostInput{Title: "spam"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, admin.ID, domain.RoleAdmin, post.ID))
}
