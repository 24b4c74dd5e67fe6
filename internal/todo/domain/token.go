package domain

import "time"

// AccessToken is what the signin endpoint returns: a self-contained signed
// token the client presents as a bearer credential.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "bearer"
}

// TokenRecord is the revocation bookkeeping row behind an issued token.
// Verification requires an active, unexpired record for the token's jti;
// signout flips Active off.
type TokenRecord struct {
	ID        string
	UserID    string
	JTI       string // unique token identifier from the "jti" claim
	IssuedAt  time.Time
	ExpiresAt time.Time
	Active    bool
}
