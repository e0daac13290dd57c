package domain

import (
	"fmt"
	"strings"
	"time"
)

// InteractionKind distinguishes the relation types between a user and a post.
type InteractionKind string

const (
	KindLike     InteractionKind = "like"
	KindBookmark InteractionKind = "bookmark"
)

func (k InteractionKind) Valid() bool {
	return k == KindLike || k == KindBookmark
}

func ParseInteractionKind(s string) (InteractionKind, error) {
	k := InteractionKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown interaction kind %q", ErrInvalidInput, s)
	}
	return k, nil
}

// Interaction records that a user liked or bookmarked a post.
// At most one exists per (Kind, UserID, PostID).
type Interaction struct {
	ID        int64
	UserID    int64
	PostID    int64
	Kind      InteractionKind
	CreatedAt time.Time
}
