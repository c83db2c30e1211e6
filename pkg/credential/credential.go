package credential

import (
	"errors"
	"time"
)

// ErrNotConnected means the user has no stored credential and must go through
// the OAuth flow before any remote calendar access.
var ErrNotConnected = errors.New("google calendar is not connected")

// ErrRefreshFailed means an expired credential could not be refreshed, either
// because no refresh token was stored or because the provider rejected it.
// The stored credential is deleted as a side effect, so the user has to
// re-authorize from scratch.
var ErrRefreshFailed = errors.New("failed to refresh access token")

// Credential is the OAuth2 token state for one user. There is at most one
// credential per user at any time.
type Credential struct {
	UserId       int
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	TokenType    string
}

// Update carries a partial credential update. Nil fields are left untouched.
type Update struct {
	AccessToken  *string
	RefreshToken *string
	Expiry       *time.Time
}
