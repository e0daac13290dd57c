package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kay-social/internal/domain"
	"kay-social/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CreatePostInput struct {
	Title       string
	Description string
	Tags        []string
}

// PostService is plain CRUD over posts.
type PostService interface {
	Create(ctx context.Context, authorID int64, in CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, limit, offset int) ([]domain.Post, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Post, error)
	// Delete removes a post owned by actorID, or any post when role is ADMIN.
	Delete(ctx context.Context, actorID int64, role domain.Role, id int64) error
}

type postService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) PostService {
	return &postService{posts: posts}
}

func (s *postService) Create(ctx context.Context, authorID int64, in CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	post := &domain.Post{
		UserID:      authorID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Tags:        tags,
	}
	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrPostNotFound, id)
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.posts.List(ctx, limit, offset)
}

func (s *postService) ListByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	return s.posts.ListByUser(ctx, userID)
}

func (s *postService) Delete(ctx context.Context, actorID int64, role domain.Role, id int64) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != actorID && role != domain.RoleAdmin {
		return fmt.Errorf("%w: post %d belongs to another user", domain.ErrForbidden, id)
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: id %d", domain.ErrPostNotFound, id)
		}
		return err
	}
	return nil
}
