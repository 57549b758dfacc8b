// Package credential issues and recovers one-time pickup codes.
package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/pkg/auth"
)

const (
	codeSpace     = 1_000_000
	cipherVersion = "v1"

	// DefaultExpiryHour is the local wall-clock hour at which codes expire.
	DefaultExpiryHour = 14
)

// acceptLimit is the largest multiple of codeSpace that fits in uint32; draws at or
// above it are rejected so every code is equally likely.
const acceptLimit = (1 << 32) / codeSpace * codeSpace

var codePattern = regexp.MustCompile(`^\d{6}$`)

// Issued holds the plaintext code and its two stored encodings.
type Issued struct {
	Code      string
	Hash      string
	Cipher    string
	ExpiresAt time.Time
}

type Options struct {
	ExpiryHour int
	Location   *time.Location
	Now        func() time.Time
	Random     io.Reader
}

// Issuer generates, recovers and verifies pickup codes.
type Issuer struct {
	hasher     auth.PasswordHasher
	aead       cipher.AEAD
	expiryHour int
	loc        *time.Location
	now        func() time.Time
	random     io.Reader
}

// NewIssuer builds Issuer with a 32-byte AES-256-GCM key.
func NewIssuer(hasher auth.PasswordHasher, key []byte, opts Options) (*Issuer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("code cipher key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init code cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init code cipher: %w", err)
	}

	i := &Issuer{
		hasher:     hasher,
		aead:       aead,
		expiryHour: opts.ExpiryHour,
		loc:        opts.Location,
		now:        opts.Now,
		random:     opts.Random,
	}
	if i.expiryHour < 0 || i.expiryHour > 23 {
		return nil, fmt.Errorf("expiry hour out of range: %d", i.expiryHour)
	}
	if i.loc == nil {
		i.loc = time.Local
	}
	if i.now == nil {
		i.now = time.Now
	}
	if i.random == nil {
		i.random = rand.Reader
	}
	return i, nil
}

// Issue draws a fresh code and encodes it for login verification and later recovery.
func (i *Issuer) Issue() (*Issued, error) {
	code, err := GenerateCode(i.random)
	if err != nil {
		return nil, err
	}
	hash, err := i.hasher.Hash(code)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}
	sealed, err := i.seal(code)
	if err != nil {
		return nil, err
	}
	return &Issued{
		Code:      code,
		Hash:      hash,
		Cipher:    sealed,
		ExpiresAt: NextExpiry(i.now(), i.expiryHour, i.loc),
	}, nil
}

// Recover returns the exact code originally sealed into cipherText.
func (i *Issuer) Recover(cipherText string) (string, error) {
	parts := strings.Split(cipherText, ".")
	if len(parts) != 3 || parts[0] != cipherVersion {
		return "", fmt.Errorf("%w: missing cipher marker", domainErrors.ErrCorruptCredential)
	}
	nonce, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil || len(nonce) != i.aead.NonceSize() {
		return "", fmt.Errorf("%w: invalid nonce", domainErrors.ErrCorruptCredential)
	}
	sealed, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: invalid ciphertext encoding", domainErrors.ErrCorruptCredential)
	}
	plain, err := i.aead.Open(nil, nonce, sealed, []byte(cipherVersion))
	if err != nil {
		return "", fmt.Errorf("%w: integrity check failed", domainErrors.ErrCorruptCredential)
	}
	if !codePattern.Match(plain) {
		return "", fmt.Errorf("%w: unexpected plaintext", domainErrors.ErrCorruptCredential)
	}
	return string(plain), nil
}

// Verify checks code against the stored one-way hash.
func (i *Issuer) Verify(hash, code string) error {
	err := i.hasher.Compare(hash, code)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrMismatch):
		return domainErrors.ErrInvalidCode
	default:
		return fmt.Errorf("%w: %v", domainErrors.ErrCorruptCredential, err)
	}
}

// NextExpiry returns the first wall-clock hour:00 in loc strictly after now.
func (i *Issuer) NextExpiry(now time.Time) time.Time {
	return NextExpiry(now, i.expiryHour, i.loc)
}

func (i *Issuer) seal(code string) (string, error) {
	nonce := make([]byte, i.aead.NonceSize())
	if _, err := io.ReadFull(i.random, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	sealed := i.aead.Seal(nil, nonce, []byte(code), []byte(cipherVersion))
	return cipherVersion + "." +
		base64.RawURLEncoding.EncodeToString(nonce) + "." +
		base64.RawURLEncoding.EncodeToString(sealed), nil
}

// GenerateCode draws a uniform 6-digit code from r using rejection sampling.
func GenerateCode(r io.Reader) (string, error) {
	var buf [4]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		v := binary.BigEndian.Uint32(buf[:])
		if v < acceptLimit {
			return fmt.Sprintf("%06d", v%codeSpace), nil
		}
	}
}

// NextExpiry returns the first hour:00 boundary in loc strictly after now.
func NextExpiry(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	expiry := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !expiry.After(local) {
		expiry = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return expiry
}
