package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"kay-social/internal/auth"
	"kay-social/internal/domain"
	"kay-social/internal/repository"
	"kay-social/internal/storage"
)

// ProfileImagePathFormat is where a user's profile image is served.
const ProfileImagePathFormat = "/api/v1/users/%d/profile-image"

// TokenIssuer issues and verifies session tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
	Verify(token string) (auth.Claims, error)
}

// SignupInput carries the fields of a registration request. ProfileImage is
// optional base64 content, possibly a data URL.
type SignupInput struct {
	Username     string
	Email        string
	Password     string
	DisplayName  string
	ProfileImage string
}

// PublicUser is the externally visible view of a user. It never carries the
// password hash or the image bytes.
type PublicUser struct {
	ID              int64
	Username        string
	Email           string
	DisplayName     string
	Role            domain.Role
	CreatedAt       time.Time
	ProfileImageURL string
}

// AuthResult is returned by a successful signup or login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      PublicUser
}

// AuthService handles registration, login and session verification.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	VerifyToken(token string) (auth.Claims, error)
	GetByID(ctx context.Context, id int64) (*PublicUser, error)
	ProfileImage(ctx context.Context, userID int64) (storage.Image, error)
	SetProfileImage(ctx context.Context, userID int64, encoded string) (*PublicUser, error)
}

// AuthConfig wires an AuthService. Images may be nil, in which case profile
// images are stored with the user record.
type AuthConfig struct {
	Users  repository.UserRepository
	Hasher auth.PasswordHasher
	Tokens TokenIssuer
	Images storage.ImageStore
	Logger logrus.FieldLogger
	Now    func() time.Time
}

type authService struct {
	users     repository.UserRepository
	hasher    auth.PasswordHasher
	tokens    TokenIssuer
	images    storage.ImageStore
	logger    logrus.FieldLogger
	now       func() time.Time
	validate  *validator.Validate
	dummyHash string
}

type signupFields struct {
	Username string `validate:"required,max=64"`
	Password string `validate:"required"`
	Email    string `validate:"required,max=254,email"`
}

func NewAuthService(cfg AuthConfig) (AuthService, error) {
	if cfg.Users == nil || cfg.Hasher == nil || cfg.Tokens == nil {
		return nil, errors.New("auth service: users, hasher and tokens are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	dummy, err := cfg.Hasher.DummyHash()
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &authService{
		users:     cfg.Users,
		hasher:    cfg.Hasher,
		tokens:    cfg.Tokens,
		images:    cfg.Images,
		logger:    cfg.Logger,
		now:       cfg.Now,
		validate:  validator.New(),
		dummyHash: dummy,
	}, nil
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	if err := s.validateSignup(in); err != nil {
		return nil, err
	}

	var img *storage.Image
	if strings.TrimSpace(in.ProfileImage) != "" {
		decoded, err := storage.DecodeImage(in.ProfileImage)
		if err != nil {
			return nil, err
		}
		img = &decoded
	}

	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateUsername, in.Username)
	}
	taken, err = s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, in.Email)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		Role:         domain.RoleUser,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if img != nil {
		if err := s.attachImage(ctx, user, *img); err != nil {
			return nil, err
		}
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		s.discardImage(ctx, user.ProfileImageKey)
		var conflict *repository.ConflictError
		if errors.As(err, &conflict) {
			switch conflict.Field {
			case "email":
				return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, in.Email)
			default:
				return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateUsername, in.Username)
			}
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("user signed up")
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// same bcrypt work as a real account
			s.hasher.Verify(password, s.dummyHash)
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.WithField("user_id", user.ID).Debug("login rejected: wrong password")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Enabled {
		s.logger.WithField("user_id", user.ID).Info("login rejected: account disabled")
		return nil, domain.ErrInvalidCredentials
	}
	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}

	return s.issue(user)
}

// rehash moves a stored digest to the hasher's current cost, keeping real
// accounts and the dummy hash equally slow. Failures leave the old digest.
func (s *authService) rehash(ctx context.Context, user *domain.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		s.logger.WithField("user_id", user.ID).Warnf("rehash password: %v", err)
		return
	}
	user.PasswordHash = hash
	s.logger.WithField("user_id", user.ID).Debug("password rehashed")
}

func (s *authService) VerifyToken(token string) (auth.Claims, error) {
	return s.tokens.Verify(token)
}

func (s *authService) GetByID(ctx context.Context, id int64) (*PublicUser, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	view := publicUser(user)
	return &view, nil
}

func (s *authService) ProfileImage(ctx context.Context, userID int64) (storage.Image, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return storage.Image{}, err
	}
	switch {
	case user.ProfileImageKey != "":
		if s.images == nil {
			return storage.Image{}, fmt.Errorf("profile image %s: image store not configured", user.ProfileImageKey)
		}
		return s.images.Get(ctx, user.ProfileImageKey)
	case len(user.ProfileImage) > 0:
		if user.ProfileImageType != "" {
			return storage.Image{Data: user.ProfileImage, ContentType: user.ProfileImageType}, nil
		}
		return storage.SniffImage(user.ProfileImage)
	default:
		return storage.Image{}, storage.ErrImageNotFound
	}
}

func (s *authService) SetProfileImage(ctx context.Context, userID int64, encoded string) (*PublicUser, error) {
	img, err := storage.DecodeImage(encoded)
	if err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldKey := user.ProfileImageKey
	user.ProfileImage = nil
	user.ProfileImageKey = ""
	if err := s.attachImage(ctx, user, img); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfileImage(ctx, user); err != nil {
		s.discardImage(ctx, user.ProfileImageKey)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("set profile image: %w", err)
	}
	s.discardImage(ctx, oldKey)

	view := publicUser(user)
	return &view, nil
}

func (s *authService) validateSignup(in SignupInput) error {
	err := s.validate.Struct(signupFields{
		Username: in.Username,
		Password: strings.TrimSpace(in.Password),
		Email:    in.Email,
	})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", domain.ErrInvalidInput, field, fe.Param())
	default:
		return fmt.Errorf("%w: %s is not a valid %s", domain.ErrInvalidInput, field, fe.Tag())
	}
}

func (s *authService) attachImage(ctx context.Context, user *domain.User, img storage.Image) error {
	user.ProfileImageType = img.ContentType
	if s.images == nil {
		user.ProfileImage = img.Data
		return nil
	}
	key, err := s.images.Put(ctx, img)
	if err != nil {
		return fmt.Errorf("store profile image: %w", err)
	}
	user.ProfileImageKey = key
	return nil
}

func (s *authService) discardImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.WithField("image_key", key).Warnf("discard profile image: %v", err)
	}
}

func (s *authService) getUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *authService) issue(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      publicUser(user),
	}, nil
}

func publicUser(user *domain.User) PublicUser {
	view := PublicUser{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	}
	if user.HasProfileImage() {
		view.ProfileImageURL = fmt.Sprintf(ProfileImagePathFormat, user.ID)
	}
	return view
}
