package http

import (
	"time"

	"kay-social/internal/domain"
	"kay-social/internal/service"
)

type UserResponse struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         domain.Role `json:"role"`
	CreatedAt    string      `json:"created_at"`
	ProfileImage string      `json:"profile_image,omitempty"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type PostResponse struct {
	ID          int64    `json:"id"`
	UserID      int64    `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type InteractionResponse struct {
	ID        int64                  `json:"id"`
	UserID    int64                  `json:"user_id"`
	PostID    int64                  `json:"post_id"`
	Kind      domain.InteractionKind `json:"kind"`
	CreatedAt string                 `json:"created_at"`
}

func userToResponse(u service.PublicUser) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.DisplayName,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
		ProfileImage: u.ProfileImageURL,
	}
}

func authToResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.Format(time.RFC3339),
		User:      userToResponse(res.User),
	}
}

func postToResponse(p domain.Post) PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        tags,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func postsToResponse(posts []domain.Post) []PostResponse {
	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	return resp
}

func interactionToResponse(rec domain.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:        rec.ID,
		UserID:    rec.UserID,
		PostID:    rec.PostID,
		Kind:      rec.Kind,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	}
}

func interactionsToResponse(recs []domain.Interaction) []InteractionResponse {
	resp := make([]InteractionResponse, len(recs))
	for i := range recs {
		resp[i] = interactionToResponse(recs[i])
	}
	return resp
}
