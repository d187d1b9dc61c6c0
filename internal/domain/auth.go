package domain

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidLoginCode is returned when a login code is wrong or expired.
var ErrInvalidLoginCode = errors.New("invalid or expired code")

// Identity is the authenticated caller injected by the auth middleware.
type Identity struct {
	UserID string
	Email  string
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated identity.
type TokenIssuer interface {
	Issue(identity Identity, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated identity.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// CodeHasher hashes and verifies one-time login codes.
type CodeHasher interface {
	Hash(code string) (string, error)
	Compare(hash, code string) error
}

// LoginCode is a stored one-time login code (hash only).
type LoginCode struct {
	ID        string
	Email     string
	CodeHash  string
	ExpiresAt time.Time
}

// LoginCodeRepository defines storage for one-time login codes.
type LoginCodeRepository interface {
	Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	// ListActive returns unexpired codes for the email, newest first.
	ListActive(ctx context.Context, email string) ([]*LoginCode, error)
	Delete(ctx context.Context, id string) error
}

// AuthService handles passwordless login: a code is emailed to the user,
// then exchanged for a token.
type AuthService interface {
	RequestLoginCode(ctx context.Context, email string) error
	VerifyLoginCode(ctx context.Context, email, code string) (token string, identity Identity, err error)
}
