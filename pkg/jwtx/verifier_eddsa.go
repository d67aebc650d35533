package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EdDSAVerifier validates session tokens signed using EdDSA (Ed25519).
type EdDSAVerifier struct {
	keys   *KeySet
	issuer string
	now    func() time.Time
}

// NewVerifierEdDSA creates a verifier using a KeySet of Ed25519 public keys.
func NewVerifierEdDSA(keys *KeySet, issuer string) *EdDSAVerifier {
	return &EdDSAVerifier{keys: keys, issuer: issuer, now: time.Now}
}

// WithClock swaps the time source, used by tests to age tokens.
func (v *EdDSAVerifier) WithClock(now func() time.Time) *EdDSAVerifier {
	v.now = now
	return v
}

// Verify validates the token string and returns its parsed claims.
func (v *EdDSAVerifier) Verify(tokenStr string) (SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithTimeFunc(v.now),
	)

	var claims SessionClaims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKID
		}

		pub, err := v.keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
		}

		edPub, ok := pub.(ed25519.PublicKey)
		if !ok {
			return nil, errors.New("jwtx: invalid Ed25519 key type")
		}
		return edPub, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return SessionClaims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return SessionClaims{}, ErrNotYetValid
		case errors.Is(err, jwt.ErrTokenMalformed):
			return SessionClaims{}, ErrMalformed
		case errors.Is(err, ErrUnknownKID):
			return SessionClaims{}, ErrUnknownKID
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return SessionClaims{}, ErrInvalidSig
		}
		return SessionClaims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}
	if !token.Valid {
		return SessionClaims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return SessionClaims{}, err
	}
	if err := claims.ValidateExpiry(v.now()); err != nil {
		return SessionClaims{}, err
	}
	if claims.SID == "" {
		return SessionClaims{}, ErrInvalidClaim
	}

	return claims, nil
}
