package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/safepick/internal/domain/repository"
)

// PickerLoginThrottle counts login attempts per cedula and answers 429 once limit
// attempts were made within window. Requests without a cedula are counted per client IP.
func PickerLoginThrottle(limiter repository.RateLimiter, limit int, window time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		var login struct {
			Cedula string `json:"cedula"`
		}
		_ = json.Unmarshal(body, &login)

		key := "picker-login:ip:" + c.ClientIP()
		if cedula := strings.TrimSpace(login.Cedula); cedula != "" {
			key = "picker-login:cedula:" + cedula
		}

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Error("login throttle unavailable", slog.String("error", err.Error()))
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(window/time.Second)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
			return
		}
		c.Next()
	}
}
