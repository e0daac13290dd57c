package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"kay-social/internal/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, plain := range []string{"secret123", "", "pässwörd ✓", strings.Repeat("x", 72)} {
		first, err := h.Hash(plain)
		require.NoError(t, err)
		second, err := h.Hash(plain)
		require.NoError(t, err)

		assert.NotEqual(t, first, second, "salt must differ for %q", plain)
		assert.True(t, h.Verify(plain, first))
		assert.True(t, h.Verify(plain, second))
		assert.False(t, h.Verify(plain+"!", first))
	}
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, hash := range []string{"", "not-a-hash", "$2a$", "$2a$99$abcdefghijklmnopqrstuv"} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("secret123", hash))
		})
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBcryptHasher_VerifyRejectsLongerPassword(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	plain := strings.Repeat("x", MaxPasswordBytes)
	hash, err := h.Hash(plain)
	require.NoError(t, err)

	assert.True(t, h.Verify(plain, hash))
	for _, longer := range []string{plain + "!", plain + "anything-else"} {
		assert.False(t, h.Verify(longer, hash), "%d bytes", len(longer))
	}
}

func TestBcryptHasher_NeedsRehash(t *testing.T) {
	t.Parallel()
	low := NewBcryptHasher(bcrypt.MinCost)
	high := NewBcryptHasher(bcrypt.MinCost + 1)

	hash, err := low.Hash("secret123")
	require.NoError(t, err)

	assert.False(t, low.NeedsRehash(hash))
	assert.True(t, high.NeedsRehash(hash))
	assert.False(t, high.NeedsRehash("not-a-hash"))
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(1).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).Cost())
}

func TestBcryptHasher_DummyHash(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	dummy, err := h.DummyHash()
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(dummy))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.False(t, h.Verify("", dummy))
}
