package test

import (
	"fmt"
	"strings"
	"time"

	"github.com/polkiloo/safepick/internal/domain/model"
	pkgAuth "github.com/polkiloo/safepick/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied secret.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates secret against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return pkgAuth.ErrMismatch
	}
	return nil
}

// StrategyStub issues readable tokens of the form kind|subject|role|order.
type StrategyStub struct {
	IssueSessionFn func(string, model.Role) (string, time.Time, error)
	IssuePickerFn  func(string, string, time.Time) (string, time.Time, error)
	ParseFn        func(string) (*pkgAuth.Identity, error)
	NameVal        string
}

// IssueSession returns deterministic session tokens.
func (s StrategyStub) IssueSession(subject string, role model.Role) (string, time.Time, error) {
	if s.IssueSessionFn != nil {
		return s.IssueSessionFn(subject, role)
	}
	return fmt.Sprintf("%s|%s|%s|", pkgAuth.KindSession, subject, role), time.Unix(0, 0).Add(24 * time.Hour), nil
}

// IssuePicker returns deterministic picker tokens expiring at notAfter.
func (s StrategyStub) IssuePicker(credentialID, orderID string, notAfter time.Time) (string, time.Time, error) {
	if s.IssuePickerFn != nil {
		return s.IssuePickerFn(credentialID, orderID, notAfter)
	}
	return fmt.Sprintf("%s|%s|%s|%s", pkgAuth.KindPicker, credentialID, model.RolePicker, orderID), notAfter, nil
}

// ParseToken parses tokens produced by this stub.
func (s StrategyStub) ParseToken(token string) (*pkgAuth.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	parts := strings.Split(token, "|")
	if len(parts) != 4 || parts[1] == "" {
		return nil, pkgAuth.ErrInvalidToken
	}
	return &pkgAuth.Identity{
		Kind:    pkgAuth.TokenKind(parts[0]),
		Subject: parts[1],
		Role:    model.Role(parts[2]),
		OrderID: parts[3],
	}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}
