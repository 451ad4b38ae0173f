package domain

import "time"

// Session is a shopper's authenticated session as issued by the
// external auth provider. Key is the signed user credential embedded
// in the session; this service verifies it but never mints it.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Key       string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
