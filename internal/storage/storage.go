package storage

import (
	"context"
	"errors"
)

// ErrImageNotFound is returned when no image is stored under a key or a user
// has no profile image.
var ErrImageNotFound = errors.New("image not found")

// Image is decoded image content with its sniffed MIME type.
type Image struct {
	Data        []byte
	ContentType string
}

// ImageStore keeps profile images outside the credential store.
type ImageStore interface {
	// Put stores img under a new unique key and returns the key.
	Put(ctx context.Context, img Image) (string, error)
	Get(ctx context.Context, key string) (Image, error)
	Delete(ctx context.Context, key string) error
}
