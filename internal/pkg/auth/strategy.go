package auth

import (
	"errors"
	"time"

	"github.com/polkiloo/safepick/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

// TokenKind separates standing account sessions from temporary picker assertions.
type TokenKind string

const (
	KindSession TokenKind = "session"
	KindPicker  TokenKind = "temporary"
)

// Identity is the verified content of a bearer token.
type Identity struct {
	Subject   string
	Role      model.Role
	OrderID   string
	Kind      TokenKind
	ExpiresAt time.Time
}

// Temporary reports whether identity is an order-scoped picker assertion.
func (i Identity) Temporary() bool {
	return i.Kind == KindPicker
}

// Strategy issues and verifies bearer tokens.
type Strategy interface {
	IssueSession(subject string, role model.Role) (string, time.Time, error)
	// IssuePicker never returns a token that outlives notAfter.
	IssuePicker(credentialID, orderID string, notAfter time.Time) (string, time.Time, error)
	ParseToken(token string) (*Identity, error)
	Name() string
}

type Options struct {
	TTL       time.Duration
	PickerTTL time.Duration
	Issuer    string
	Now       func() time.Time
}
