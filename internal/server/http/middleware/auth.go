package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/safepick/internal/domain/model"
	pkgAuth "github.com/polkiloo/safepick/internal/pkg/auth"
)

const (
	// IdentityContextKey is a gin context key for the verified bearer identity.
	IdentityContextKey = "identity"
	authCookieName     = "safepick_token"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	ParseToken(token string) (*pkgAuth.Identity, error)
}

// AuthRequired ensures the caller presents a valid session or picker token.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		identity, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// RequireRoles rejects identities whose role is not listed. Picker assertions only pass
// when RolePicker is listed explicitly.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !slices.Contains(roles, identity.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if identity.Temporary() != (identity.Role == model.RolePicker) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthRequired.
func IdentityFrom(c *gin.Context) (*pkgAuth.Identity, bool) {
	val, ok := c.Get(IdentityContextKey)
	if !ok {
		return nil, false
	}
	identity, ok := val.(*pkgAuth.Identity)
	return identity, ok && identity != nil
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes the session token cookie and header.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
