package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/polkiloo/safepick/internal/domain/model"
)

const defaultIssuer = "safepick"

type claims struct {
	Role    string `json:"role"`
	OrderID string `json:"order_id,omitempty"`
	Kind    string `json:"kind"`
	jwt.RegisteredClaims
}

// JWTStrategy signs HS256 tokens for account sessions and picker assertions.
type JWTStrategy struct {
	secret    []byte
	ttl       time.Duration
	pickerTTL time.Duration
	issuer    string
	now       func() time.Time
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	s := &JWTStrategy{
		secret:    []byte(secret),
		ttl:       opts.TTL,
		pickerTTL: opts.PickerTTL,
		issuer:    opts.Issuer,
		now:       opts.Now,
	}
	if s.ttl <= 0 {
		s.ttl = 24 * time.Hour
	}
	if s.pickerTTL <= 0 {
		s.pickerTTL = 15 * time.Minute
	}
	if s.issuer == "" {
		s.issuer = defaultIssuer
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// IssueSession generates signed session token for an account.
func (s *JWTStrategy) IssueSession(subject string, role model.Role) (string, time.Time, error) {
	expires := s.now().Add(s.ttl)
	token, err := s.sign(claims{Role: string(role), Kind: string(KindSession)}, subject, expires)
	return token, expires, err
}

// IssuePicker generates an assertion bound to a single order.
func (s *JWTStrategy) IssuePicker(credentialID, orderID string, notAfter time.Time) (string, time.Time, error) {
	expires := s.now().Add(s.pickerTTL)
	if !notAfter.IsZero() && notAfter.Before(expires) {
		expires = notAfter
	}
	c := claims{Role: string(model.RolePicker), OrderID: orderID, Kind: string(KindPicker)}
	token, err := s.sign(c, credentialID, expires)
	return token, expires, err
}

func (s *JWTStrategy) sign(c claims, subject string, expires time.Time) (string, error) {
	now := s.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// ParseToken validates token signature, expiry and shape.
func (s *JWTStrategy) ParseToken(token string) (*Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || c.Subject == "" {
		return nil, ErrInvalidToken
	}

	identity := &Identity{
		Subject:   c.Subject,
		Role:      model.Role(c.Role),
		OrderID:   c.OrderID,
		Kind:      TokenKind(c.Kind),
		ExpiresAt: c.ExpiresAt.Time,
	}

	switch identity.Kind {
	case KindPicker:
		if identity.Role != model.RolePicker || identity.OrderID == "" {
			return nil, ErrInvalidToken
		}
	case KindSession:
		if !identity.Role.Valid() || identity.OrderID != "" {
			return nil, ErrInvalidToken
		}
	default:
		return nil, ErrInvalidToken
	}

	return identity, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
