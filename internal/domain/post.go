package domain

import "time"

// Post is a piece of user content that likes and bookmarks point at.
type Post struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
