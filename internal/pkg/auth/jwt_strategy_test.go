package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/polkiloo/safepick/internal/domain/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewJWTStrategy_Defaults(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	if strategy.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
	if strategy.pickerTTL != 15*time.Minute {
		t.Fatalf("unexpected picker ttl: %s", strategy.pickerTTL)
	}
	if strategy.issuer != defaultIssuer {
		t.Fatalf("unexpected issuer: %s", strategy.issuer)
	}
	if strategy.Name() != "jwt" {
		t.Fatalf("unexpected name: %s", strategy.Name())
	}
}

func TestJWTStrategy_SessionRoundTrip(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{TTL: time.Hour})
	token, expires, err := strategy.IssueSession("user-1", model.RoleParent)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	if time.Until(expires) > time.Hour || time.Until(expires) < 59*time.Minute {
		t.Fatalf("unexpected expiry %v", expires)
	}

	identity, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if identity.Subject != "user-1" || identity.Role != model.RoleParent || identity.Temporary() {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestJWTStrategy_PickerAssertionIsScoped(t *testing.T) {
	now := time.Date(2024, 5, 2, 13, 55, 0, 0, time.UTC)
	codeExpiry := time.Date(2024, 5, 2, 14, 0, 0, 0, time.UTC)
	strategy := NewJWTStrategy("secret", Options{PickerTTL: time.Hour, Now: fixedClock(now)})

	token, expires, err := strategy.IssuePicker("cred-1", "order-1", codeExpiry)
	if err != nil {
		t.Fatalf("issue picker: %v", err)
	}
	if !expires.Equal(codeExpiry) {
		t.Fatalf("expected assertion capped at code expiry, got %v", expires)
	}

	identity, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if identity.Role != model.RolePicker || identity.OrderID != "order-1" || !identity.Temporary() {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if identity.Subject != "cred-1" {
		t.Fatalf("unexpected subject %q", identity.Subject)
	}
}

func TestJWTStrategy_ParseExpired(t *testing.T) {
	issuedAt := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	issuer := NewJWTStrategy("secret", Options{TTL: time.Minute, Now: fixedClock(issuedAt)})
	token, _, err := issuer.IssueSession("user-1", model.RoleStaff)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	verifier := NewJWTStrategy("secret", Options{Now: fixedClock(issuedAt.Add(2 * time.Minute))})
	if _, err := verifier.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTStrategy_ParseRejectsForeignTokens(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	other := NewJWTStrategy("other-secret", Options{})

	token, _, err := other.IssueSession("user-1", model.RoleParent)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := map[string]string{
		"wrong signature": token,
		"garbage":         "not-a-token",
		"truncated":       token[:strings.LastIndex(token, ".")],
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(tok); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestJWTStrategy_ParseRejectsInconsistentClaims(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	sign := func(c claims) string {
		c.RegisteredClaims = jwt.RegisteredClaims{
			Subject:   "subject",
			Issuer:    defaultIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return token
	}

	cases := map[string]claims{
		"picker without order":   {Role: string(model.RolePicker), Kind: string(KindPicker)},
		"picker kind, user role": {Role: string(model.RoleAdmin), OrderID: "o", Kind: string(KindPicker)},
		"session with order":     {Role: string(model.RoleParent), OrderID: "o", Kind: string(KindSession)},
		"session picker role":    {Role: string(model.RolePicker), Kind: string(KindSession)},
		"unknown kind":           {Role: string(model.RoleParent), Kind: "other"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(sign(c)); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
