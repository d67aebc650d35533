package jwtx

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default session lifetimes. The short class is meant for browser-session
// cookies, the extended class for "remember me".
const (
	DefaultSessionTTL  = 12 * time.Hour
	DefaultRememberTTL = 7 * 24 * time.Hour
)

// SessionClaims are the claims carried by a session cookie. The token only
// proves who minted it; the session row named by SID decides whether it is
// still alive.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Session ID, primary key of the server-side session row
	SID string `json:"sid"`

	// Persistent marks "remember me" sessions (extended expiry class)
	Persistent bool `json:"persistent,omitempty"`

	// Username of the authenticated user, for display only
	Username string `json:"username,omitempty"`
}

// NewSessionClaims builds claims for a freshly established session.
func NewSessionClaims(
	userID int64,
	sid, username string,
	persistent bool,
	issuer string,
	now time.Time,
	ttl time.Duration,
) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		SID:        sid,
		Persistent: persistent,
		Username:   username,
	}
}

// UserID parses the subject back into a user id.
func (c *SessionClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidClaim
	}
	return id, nil
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *SessionClaims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *SessionClaims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil || !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
