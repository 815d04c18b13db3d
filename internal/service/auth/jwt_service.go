package auth

import (
	"context"
	"time"
)

// JWTService issues and verifies signed access tokens.
type JWTService interface {
	// IssueToken signs a token for the subject in claims. UserID and Subject
	// are taken from claims; IssuedAt, ExpiresAt and ID are set by the service.
	// A non-positive ttl falls back to the configured token lifetime.
	IssueToken(ctx context.Context, claims Claims, ttl time.Duration) (string, error)

	// VerifyToken checks the signature and time claims of tokenString.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	VerifyToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime returns the default lifetime of issued tokens.
	TokenLifetime() time.Duration
}

// Claims is the verified content of an access token.
type Claims struct {
	UserID    int64
	Subject   string // the user's email
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
