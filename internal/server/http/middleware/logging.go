package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mssola/useragent"
)

// RequestLogger logs information about incoming requests using slog.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ua := useragent.New(c.Request.UserAgent())
		browser, _ := ua.Browser()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client", browser),
			slog.String("os", ua.OS()),
			slog.Bool("mobile", ua.Mobile()),
			slog.Bool("bot", ua.Bot()),
		}
		if identity, ok := IdentityFrom(c); ok {
			attrs = append(attrs, slog.String("role", string(identity.Role)))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("http request", attrs...)
		case status >= 400:
			logger.Warn("http request", attrs...)
		default:
			logger.Info("http request", attrs...)
		}
	}
}
