package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/p-devianne/flashmind/internal/config"
	"github.com/p-devianne/flashmind/internal/platform/logger"
)

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

// DefaultClockSkew is the leeway applied to time claims on validation.
const DefaultClockSkew = 2 * time.Minute

// Claims is the validated content of a token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// TokenService issues and validates API tokens.
type TokenService interface {
	// Generate signs a token for subject.
	Generate(ctx context.Context, subject string) (string, error)

	// Validate checks the signature and time claims of token.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken.
	Validate(ctx context.Context, token string) (*Claims, error)
}

type tokenClaims struct {
	jwt.RegisteredClaims
}

type hmacTokenService struct {
	signingKey []byte
	lifetime   time.Duration
	clockSkew  time.Duration
	timeFunc   func() time.Time
}

var _ TokenService = (*hmacTokenService)(nil)

// Option customises a TokenService.
type Option func(*hmacTokenService)

// WithTimeFunc replaces time.Now, for tests.
func WithTimeFunc(now func() time.Time) Option {
	return func(s *hmacTokenService) { s.timeFunc = now }
}

// WithClockSkew sets the validation leeway.
func WithClockSkew(d time.Duration) Option {
	return func(s *hmacTokenService) { s.clockSkew = d }
}

// NewTokenService creates an HS256 TokenService from the auth settings.
func NewTokenService(cfg config.AuthConfig, opts ...Option) (TokenService, error) {
	if len(cfg.TokenSecret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.TokenLifetimeMinutes <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %d minutes", cfg.TokenLifetimeMinutes)
	}

	s := &hmacTokenService{
		signingKey: []byte(cfg.TokenSecret),
		lifetime:   time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		clockSkew:  DefaultClockSkew,
		timeFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *hmacTokenService) Generate(ctx context.Context, subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token subject cannot be empty")
	}
	now := s.timeFunc()

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign token",
			"error", err,
			"subject", subject,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *hmacTokenService) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := s.timeFunc()
	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: not yet valid", "error", err)
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token validation failed", "error", err, "error_type", fmt.Sprintf("%T", err))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	out := &Claims{Subject: claims.Subject, ID: claims.ID}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
