// Package session persists shopper sessions issued by the external
// auth provider. The storefront only looks sessions up; it never
// authenticates shoppers itself.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront-bff/internal/domain"
)

// Store is the session persistence contract. Lookup returns (nil, nil)
// for unknown or expired tokens so callers stay fail-closed without
// branching on error kinds.
type Store interface {
	Create(ctx context.Context, sess domain.Session) error
	Lookup(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// NewToken returns an opaque session token.
func NewToken() string {
	return uuid.NewString()
}

// Expired reports whether the session is past its expiry at now.
func Expired(sess domain.Session, now time.Time) bool {
	return !sess.ExpiresAt.IsZero() && now.After(sess.ExpiresAt)
}
