package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "DuplicateEmail", Kind(fmt.Errorf("signup: %w", ErrDuplicateEmail)))
	assert.Equal(t, "TokenExpired", Kind(fmt.Errorf("verify: %w", ErrTokenExpired)))
	assert.Equal(t, "Internal", Kind(errors.New("disk full")))
	assert.Equal(t, "Internal", Kind(nil))
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, err := ParseRole(" admin ")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("moderator")
	assert.Error(t, err)
}

func TestParseInteractionKind(t *testing.T) {
	t.Parallel()

	k, err := ParseInteractionKind("Bookmark")
	assert.NoError(t, err)
	assert.Equal(t, KindBookmark, k)

	_, err = ParseInteractionKind("share")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserHasProfileImage(t *testing.T) {
	t.Parallel()

	assert.False(t, (&User{}).HasProfileImage())
	assert.True(t, (&User{ProfileImage: []byte{0x89}}).HasProfileImage())
	assert.True(t, (&User{ProfileImageKey: "profile-images/x"}).HasProfileImage())
}
