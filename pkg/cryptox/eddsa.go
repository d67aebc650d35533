package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const pemTypePrivateKey = "PRIVATE KEY"

// GenerateEd25519Key generates a new Ed25519 private key encoded as PKCS8 PEM.
func GenerateEd25519Key() ([]byte, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate Ed25519 key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: der}), nil
}

// ParseEd25519Key decodes a PKCS8 PEM block holding an Ed25519 private key.
func ParseEd25519Key(pemKey []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("cryptox: invalid PEM for Ed25519 key")
	}
	if block.Type != pemTypePrivateKey {
		return nil, fmt.Errorf("cryptox: expected %s, got %q", pemTypePrivateKey, block.Type)
	}

	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("cryptox: parse PKCS8: %w", err)
	}

	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("cryptox: not an Ed25519 private key")
	}
	return key, nil
}

// LoadOrCreateEd25519Key returns the PEM key stored at path. A missing file
// is created with a fresh key, readable only by the owner.
func LoadOrCreateEd25519Key(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("cryptox: key path is required")
	}
	path = filepath.Clean(path)

	pemKey, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, err := ParseEd25519Key(pemKey); err != nil {
			return nil, fmt.Errorf("cryptox: %s: %w", path, err)
		}
		return pemKey, nil
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("cryptox: read key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("cryptox: create key directory: %w", err)
	}
	pemKey, err = GenerateEd25519Key()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, pemKey, 0600); err != nil {
		return nil, fmt.Errorf("cryptox: write key: %w", err)
	}
	return pemKey, nil
}
