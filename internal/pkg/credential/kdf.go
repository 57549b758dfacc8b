package credential

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the AES-256 key length.
	KeySize = 32
	// MinSecretLength is the shortest accepted key material.
	MinSecretLength = 32

	kdfSalt = "safepick"
	kdfInfo = "pickup-code-cipher/v1"
)

// DeriveKey stretches provisioned secret material into a fixed-length cipher key with HKDF-SHA256.
func DeriveKey(secret string) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("code encryption secret must be at least %d characters", MinSecretLength)
	}
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), []byte(kdfSalt), []byte(kdfInfo)), key); err != nil {
		return nil, fmt.Errorf("derive code key: %w", err)
	}
	return key, nil
}
