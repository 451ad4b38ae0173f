// Package auth mints the service credential used to authorize calls to
// the commerce backend and verifies the user credential embedded in a
// shopper's session.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront-bff/internal/domain"
)

const (
	// serviceTTL is the lifetime of a service credential. Credentials
	// are minted immediately before use, so the short window is always
	// satisfied.
	serviceTTL = 60 * time.Second

	// signingAlg is the only accepted algorithm for user credentials.
	signingAlg = "HS256"

	// serviceUserID is the fixed privileged identity asserted by every
	// service credential.
	serviceUserID = "1"
)

// Claims is the payload carried by both credential kinds: a user
// reference under data.user plus the registered claim set.
type Claims struct {
	Data ClaimsData `json:"data"`
	jwt.RegisteredClaims
}

type ClaimsData struct {
	User ClaimsUser `json:"user"`
}

type ClaimsUser struct {
	ID string `json:"id"`
}

// SessionLookup retrieves the current caller's session. A (nil, nil)
// result means no session exists.
type SessionLookup func(ctx context.Context) (*domain.Session, error)

// Issuer signs service credentials and verifies user credentials
// against the shared secret.
type Issuer struct {
	issuer string
	secret []byte
	now    func() time.Time
}

func NewIssuer(issuer string, secret []byte) *Issuer {
	return &Issuer{
		issuer: issuer,
		secret: secret,
		now:    time.Now,
	}
}

// ServiceCredential mints a fresh signed credential asserting the
// fixed backend-privileged identity. Never cached; callers mint one
// per outbound request.
func (i *Issuer) ServiceCredential() (string, error) {
	now := i.now()
	claims := Claims{
		Data: ClaimsData{User: ClaimsUser{ID: serviceUserID}},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(serviceTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// VerifyUserCredential resolves the caller's session through lookup and
// verifies the signed key embedded in it. Any failure (no session,
// lookup error, bad signature, wrong algorithm, malformed or expired
// token) yields nil: the caller cannot distinguish "no session" from
// "invalid token". The not-before claim is deliberately not checked;
// expiry still is.
func (i *Issuer) VerifyUserCredential(ctx context.Context, lookup SessionLookup) *Claims {
	if lookup == nil {
		return nil
	}
	sess, err := lookup(ctx)
	if err != nil || sess == nil {
		return nil
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingAlg}),
		jwt.WithoutClaimsValidation(),
	)
	claims := &Claims{}
	token, err := parser.ParseWithClaims(sess.Key, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	if claims.ExpiresAt != nil && i.now().After(claims.ExpiresAt.Time) {
		return nil
	}
	return claims
}
