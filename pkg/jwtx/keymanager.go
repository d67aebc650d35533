package jwtx

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
)

// KeyManager bundles the signing key with a matching verifier.
type KeyManager struct {
	Signer   Signer
	Verifier *EdDSAVerifier
	KeySet   *KeySet
}

// NewEphemeralKeyManager generates a fresh key that only lives in memory.
// Every session becomes invalid when the process restarts.
func NewEphemeralKeyManager(issuer string) (*KeyManager, error) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}
	return newKeyManager(pemKey, issuer)
}

// LoadOrGenerateKeyManager reads the Ed25519 PKCS8 key at path, creating it
// when missing. Persisting the key keeps "remember me" sessions valid across
// restarts.
func LoadOrGenerateKeyManager(path, issuer string) (*KeyManager, error) {
	pemKey, err := cryptox.LoadOrCreateEd25519Key(path)
	if err != nil {
		return nil, fmt.Errorf("jwtx: signing key: %w", err)
	}

	return newKeyManager(pemKey, issuer)
}

func newKeyManager(pemKey []byte, issuer string) (*KeyManager, error) {
	if issuer == "" {
		return nil, errors.New("jwtx: issuer is required")
	}

	// Parse once without a kid to derive it from the public key.
	parsed, err := newEdDSASigner("", pemKey)
	if err != nil {
		return nil, err
	}
	signer, err := NewSignerEdDSA(keyID(parsed.pub), pemKey)
	if err != nil {
		return nil, err
	}

	keys := NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, err
	}

	return &KeyManager{
		Signer:   signer,
		Verifier: NewVerifierEdDSA(keys, issuer),
		KeySet:   keys,
	}, nil
}

// keyID is a short stable fingerprint of the public key.
func keyID(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return base64.RawURLEncoding.EncodeToString(sum[:9])
}

// IsReady returns true if the KeyManager has a usable key loaded.
func (km *KeyManager) IsReady() bool {
	return km != nil && km.KeySet.IsReady()
}
