package models

import "time"

// Token purposes. A persisted token is only ever valid for the purpose it
// was issued with; lookups always match on (token, purpose).
const (
	TokenPurposeVerify  = "verify"
	TokenPurposeAccess  = "access"
	TokenPurposeRefresh = "refresh"
	TokenPurposeReset   = "reset"
)

// Token is an ephemeral credential record persisted alongside the signed
// token it mirrors. Keeping a row per issued token makes every credential
// revocable server-side by deleting the row, independent of the signature's
// own expiry.
//
// For verify, access and refresh tokens the Token field holds the raw token
// string. For reset tokens it holds the SHA-256 hex digest of the raw token;
// the raw value is only ever sent to the user's email and never persisted.
type Token struct {
	// ID is the unique identifier of the token record (UUID).
	ID string `json:"-"`

	// UserID references the owning user.
	UserID string `json:"-"`

	// Token is the raw token string, or its SHA-256 hex digest for
	// reset-purpose tokens.
	Token string `json:"-"`

	// Purpose is one of TokenPurposeVerify, TokenPurposeAccess,
	// TokenPurposeRefresh, TokenPurposeReset.
	Purpose string `json:"-"`

	// ExpiresAt is the absolute expiry; the token is invalid once this
	// instant has passed.
	ExpiresAt time.Time `json:"-"`

	CreatedAt time.Time `json:"-"`
}

// Expired reports whether the token's expiry lies in the past.
func (t *Token) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// TableName returns the name of the database table
// associated with the Token model.
func (t Token) TableName() string {
	return "tokens"
}

// TokenPair bundles the access and refresh tokens issued together at login
// or during a middleware-driven rotation.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
