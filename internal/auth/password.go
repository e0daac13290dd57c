package auth

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kay-social/internal/domain"
)

// MaxPasswordBytes is the longest password bcrypt can tell apart.
const MaxPasswordBytes = 72

// PasswordHasher turns plaintext passwords into salted, slow digests.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash. A malformed hash never
	// matches.
	Verify(plain, hash string) bool
	// DummyHash returns a digest no password is known for, costing the same
	// to verify as a fresh Hash.
	DummyHash() (string, error)
	// NeedsRehash reports whether hash was made with other parameters than
	// the hasher's current ones.
	NeedsRehash(hash string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt. The salt is embedded in
// every digest, so hashing the same password twice gives different strings.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when cost
// is zero. Out-of-range values are clamped to bcrypt's limits.
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int { return h.cost }

func (h *BcryptHasher) Hash(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password must not exceed %d bytes", domain.ErrInvalidInput, MaxPasswordBytes)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify never matches a password longer than MaxPasswordBytes; bcrypt
// alone would compare only its prefix. The comparison runs either way.
func (h *BcryptHasher) Verify(plain, hash string) bool {
	match := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
	return match && len(plain) <= MaxPasswordBytes
}

func (h *BcryptHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err == nil && cost != h.cost
}

// DummyHash hashes a random password at the hasher's cost. Checking a login
// attempt against it takes as long as checking a real account.
func (h *BcryptHasher) DummyHash() (string, error) {
	return h.Hash(uuid.NewString())
}

var _ PasswordHasher = (*BcryptHasher)(nil)
