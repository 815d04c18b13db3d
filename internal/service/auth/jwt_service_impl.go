package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasklist-api/internal/config"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
)

// MinSecretLength is the shortest HMAC secret accepted.
const MinSecretLength = 32

// clockSkew is the leeway applied to the exp, nbf and iat checks.
const clockSkew = 2 * time.Minute

var signingMethod = jwt.SigningMethodHS256

// hmacJWTService signs and verifies HS256 access tokens.
type hmacJWTService struct {
	key      []byte
	lifetime time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// jwtCustomClaims is the token body: the user ID next to the registered claims.
type jwtCustomClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService builds the HS256 token service from the auth settings.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	lifetime := time.Duration(cfg.TokenLifetimeMinutes) * time.Minute
	return newHMACJWTService(cfg.JWTSecret, lifetime, time.Now)
}

func newHMACJWTService(secret string, lifetime time.Duration, now func() time.Time) (*hmacJWTService, error) {
	switch {
	case len(secret) < MinSecretLength:
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	case lifetime <= 0:
		return nil, fmt.Errorf("token lifetime must be positive, got %s", lifetime)
	}
	if now == nil {
		now = time.Now
	}

	s := &hmacJWTService{key: []byte(secret), lifetime: lifetime, now: now}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Name}),
		jwt.WithLeeway(clockSkew),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

func (s *hmacJWTService) TokenLifetime() time.Duration { return s.lifetime }

// IssueToken signs claims for ttl, or for the configured lifetime when ttl
// is not positive. Every token gets a fresh jti.
func (s *hmacJWTService) IssueToken(ctx context.Context, claims Claims, ttl time.Duration) (string, error) {
	if claims.UserID <= 0 {
		return "", fmt.Errorf("cannot issue token: invalid user id %d", claims.UserID)
	}
	if ttl <= 0 {
		ttl = s.lifetime
	}

	issued := s.now()
	body := jwtCustomClaims{
		UserID: claims.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, body).SignedString(s.key)
	if err != nil {
		logger.FromContext(ctx).Error("signing access token failed",
			slog.Int64("user_id", claims.UserID),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, algorithm and time claims and returns the
// token's claims. Failures map to ErrMissingToken, ErrExpiredToken,
// ErrTokenNotYetValid or ErrInvalidToken.
func (s *hmacJWTService) VerifyToken(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}
	log := logger.FromContext(ctx)

	body := &jwtCustomClaims{}
	token, err := s.parser.ParseWithClaims(raw, body, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		mapped := classifyTokenError(err)
		log.Debug("access token rejected",
			slog.String("reason", mapped.Error()),
			slog.String("error", err.Error()))
		return nil, mapped
	}
	if !token.Valid || body.UserID <= 0 {
		log.Debug("access token rejected", slog.String("reason", "missing user id"))
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:    body.UserID,
		Subject:   body.Subject,
		IssuedAt:  body.IssuedAt.Time,
		ExpiresAt: body.ExpiresAt.Time,
		ID:        body.ID,
	}, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrTokenNotYetValid
	default:
		return ErrInvalidToken
	}
}
