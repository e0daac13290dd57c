package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"kay-social/internal/domain"
)

const DefaultTokenTTL = 24 * time.Hour

// TokenConfig configures a TokenService. It is copied on construction.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Claims is the identity carried by a verified token.
type Claims struct {
	UserID    int64
	Username  string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 JWTs. It holds no mutable state and
// is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(cfg.Now),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &TokenService{
		secret: append([]byte(nil), cfg.Secret...),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    cfg.Now,
		parser: jwt.NewParser(opts...),
	}, nil
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for user that expires after the configured TTL.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	if user == nil || user.ID == 0 {
		return "", time.Time{}, errors.New("issue token: user has no id")
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := tokenClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks raw and returns its claims. Errors match
// domain.ErrTokenMalformed, domain.ErrTokenSignatureInvalid or
// domain.ErrTokenExpired.
func (s *TokenService) Verify(raw string) (Claims, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: expected 3 segments", domain.ErrTokenMalformed)
	}
	sig, err := s.parser.DecodeSegment(parts[2])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: bad signature encoding", domain.ErrTokenMalformed)
	}
	// signature first, so any edit to header or payload is reported as tampering
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, s.secret); err != nil {
		return Claims{}, domain.ErrTokenSignatureInvalid
	}

	var tc tokenClaims
	_, err = s.parser.ParseWithClaims(strings.Join(parts, "."), &tc, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, domain.ErrTokenSignatureInvalid
		default:
			return Claims{}, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
		}
	}

	id, err := strconv.ParseInt(tc.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Claims{}, fmt.Errorf("%w: bad subject", domain.ErrTokenMalformed)
	}
	if tc.Role != "" && !tc.Role.Valid() {
		return Claims{}, fmt.Errorf("%w: unknown role", domain.ErrTokenMalformed)
	}

	c := Claims{
		UserID:    id,
		Username:  tc.Username,
		Role:      tc.Role,
		ExpiresAt: tc.ExpiresAt.Time,
	}
	if tc.IssuedAt != nil {
		c.IssuedAt = tc.IssuedAt.Time
	}
	return c, nil
}
