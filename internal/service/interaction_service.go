package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"kay-social/internal/domain"
	"kay-social/internal/repository"
)

// InteractionService manages likes and bookmarks. Every (kind, user, post)
// pair is either absent or present; repeating an operation never fails just
// because the pair is already in the requested state.
type InteractionService interface {
	// Create reports created=false when the pair was already present.
	Create(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (created bool, err error)
	// Remove reports removed=false when the pair was already absent.
	Remove(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (removed bool, err error)
	// Toggle flips the pair and returns whether it is now present.
	Toggle(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (present bool, err error)
	Exists(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (bool, error)
	CountForPost(ctx context.Context, kind domain.InteractionKind, postID int64) (int64, error)
	CountForUser(ctx context.Context, kind domain.InteractionKind, userID int64) (int64, error)
	ListForUser(ctx context.Context, kind domain.InteractionKind, userID int64) ([]domain.Interaction, error)
	ListForPost(ctx context.Context, kind domain.InteractionKind, postID int64) ([]domain.Interaction, error)
}

type interactionService struct {
	interactions repository.InteractionRepository
	posts        repository.PostRepository
	users        repository.UserRepository
	locks        *pairLocks
	logger       logrus.FieldLogger
}

func NewInteractionService(
	interactions repository.InteractionRepository,
	posts repository.PostRepository,
	users repository.UserRepository,
	logger logrus.FieldLogger,
) InteractionService {
	if logger == nil {
		logger = logrus.New()
	}
	return &interactionService{
		interactions: interactions,
		posts:        posts,
		users:        users,
		locks:        newPairLocks(),
		logger:       logger,
	}
}

func (s *interactionService) Create(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (bool, error) {
	if err := s.checkPair(ctx, kind, userID, postID); err != nil {
		return false, err
	}
	unlock := s.locks.lock(pairKey{kind, userID, postID})
	defer unlock()

	created, err := s.insert(ctx, kind, userID, postID)
	if err != nil {
		return false, err
	}
	if !created {
		s.log(kind, userID, postID).Debug("already present")
	}
	return created, nil
}

func (s *interactionService) Remove(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (bool, error) {
	if err := s.checkPair(ctx, kind, userID, postID); err != nil {
		return false, err
	}
	unlock := s.locks.lock(pairKey{kind, userID, postID})
	defer unlock()

	removed, err := s.interactions.Delete(ctx, kind, userID, postID)
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", kind, err)
	}
	return removed, nil
}

func (s *interactionService) Toggle(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (bool, error) {
	if err := s.checkPair(ctx, kind, userID, postID); err != nil {
		return false, err
	}
	unlock := s.locks.lock(pairKey{kind, userID, postID})
	defer unlock()

	// The insert is the state read: it either creates the record or hits
	// the unique constraint, in which case the pair was present.
	created, err := s.insert(ctx, kind, userID, postID)
	if err != nil {
		return false, err
	}
	if created {
		return true, nil
	}
	if _, err := s.interactions.Delete(ctx, kind, userID, postID); err != nil {
		return false, fmt.Errorf("toggle %s: %w", kind, err)
	}
	return false, nil
}

func (s *interactionService) Exists(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (bool, error) {
	if err := s.checkPair(ctx, kind, userID, postID); err != nil {
		return false, err
	}
	ok, err := s.interactions.Exists(ctx, kind, userID, postID)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", kind, err)
	}
	return ok, nil
}

func (s *interactionService) CountForPost(ctx context.Context, kind domain.InteractionKind, postID int64) (int64, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}
	if err := s.checkPost(ctx, postID); err != nil {
		return 0, err
	}
	n, err := s.interactions.CountByPost(ctx, kind, postID)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

func (s *interactionService) CountForUser(ctx context.Context, kind domain.InteractionKind, userID int64) (int64, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return 0, err
	}
	n, err := s.interactions.CountByUser(ctx, kind, userID)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

func (s *interactionService) ListForUser(ctx context.Context, kind domain.InteractionKind, userID int64) ([]domain.Interaction, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	recs, err := s.interactions.ListByUser(ctx, kind, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return recs, nil
}

func (s *interactionService) ListForPost(ctx context.Context, kind domain.InteractionKind, postID int64) ([]domain.Interaction, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := s.checkPost(ctx, postID); err != nil {
		return nil, err
	}
	recs, err := s.interactions.ListByPost(ctx, kind, postID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return recs, nil
}

// insert maps a uniqueness violation to created=false and a missing
// reference, left by a delete after checkPair, to the not-found error.
func (s *interactionService) insert(ctx context.Context, kind domain.InteractionKind, userID, postID int64) (bool, error) {
	_, err := s.interactions.Insert(ctx, kind, userID, postID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrAlreadyExists):
		return false, nil
	case errors.Is(err, repository.ErrMissingReference):
		return false, s.missingReference(ctx, err, userID, postID)
	default:
		return false, fmt.Errorf("create %s: %w", kind, err)
	}
}

// missingReference names the side of the pair that vanished. When the store
// does not say which key failed, the references are looked up again.
func (s *interactionService) missingReference(ctx context.Context, err error, userID, postID int64) error {
	var ref *repository.ReferenceError
	if errors.As(err, &ref) {
		switch ref.Field {
		case "post_id":
			return fmt.Errorf("%w: id %d", domain.ErrPostNotFound, postID)
		case "user_id":
			return fmt.Errorf("%w: id %d", domain.ErrUserNotFound, userID)
		}
	}
	if err := s.checkPost(ctx, postID); err != nil {
		return err
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return err
	}
	return fmt.Errorf("%w: id %d", domain.ErrPostNotFound, postID)
}

func (s *interactionService) checkPair(ctx context.Context, kind domain.InteractionKind, userID, postID int64) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	if err := s.checkPost(ctx, postID); err != nil {
		return err
	}
	return s.checkUser(ctx, userID)
}

func (s *interactionService) checkPost(ctx context.Context, postID int64) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: id %d", domain.ErrPostNotFound, postID)
		}
		return fmt.Errorf("lookup post: %w", err)
	}
	return nil
}

func (s *interactionService) checkUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: id %d", domain.ErrUserNotFound, userID)
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	return nil
}

func (s *interactionService) log(kind domain.InteractionKind, userID, postID int64) logrus.FieldLogger {
	return s.logger.WithFields(logrus.Fields{
		"kind":    kind,
		"user_id": userID,
		"post_id": postID,
	})
}

func checkKind(kind domain.InteractionKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown interaction kind %q", domain.ErrInvalidInput, kind)
	}
	return nil
}
