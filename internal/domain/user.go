package domain

import "time"

// User represents an account able to authenticate and interact with posts.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
	Role         Role
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Inline image bytes, used when no object store is configured.
	ProfileImage []byte
	// Object key of the image when stored remotely.
	ProfileImageKey  string
	ProfileImageType string
}

// HasProfileImage reports whether an image was assigned, wherever it is stored.
func (u *User) HasProfileImage() bool {
	return len(u.ProfileImage) > 0 || u.ProfileImageKey != ""
}
