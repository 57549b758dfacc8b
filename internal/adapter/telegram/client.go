package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/polkiloo/safepick/internal/domain/model"
)

// ErrNoRecipient indicates the guardian has no chat configured.
var ErrNoRecipient = errors.New("notification has no recipient")

// TooManyRequestsError represents rate limiting signal from the Bot API.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Sender delivers guardian notifications.
type Sender interface {
	Send(ctx context.Context, n model.Notification) error
}

// HTTPClient implements Sender via the Telegram Bot API.
type HTTPClient struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// response mirrors the Bot API envelope.
type response struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters,omitempty"`
}

// NewHTTPClient creates Bot API client with default timeout.
func NewHTTPClient(baseURL, token string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse telegram url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("telegram url must be absolute")
	}
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	return &HTTPClient{
		baseURL: parsed,
		token:   token,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Send posts a text message to the guardian chat.
func (c *HTTPClient) Send(ctx context.Context, n model.Notification) error {
	if n.ContactRef == "" {
		return ErrNoRecipient
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: n.ContactRef, Text: Format(n)})
	if err != nil {
		return err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "bot"+c.token, "sendMessage")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", redact(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var data response
	_ = json.Unmarshal(raw, &data)

	switch {
	case resp.StatusCode == http.StatusOK && data.OK:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		if data.Parameters != nil && data.Parameters.RetryAfter > 0 {
			retryAfter = time.Duration(data.Parameters.RetryAfter) * time.Second
		}
		return TooManyRequestsError{RetryAfter: retryAfter}
	default:
		c.logger.Error("telegram request failed",
			slog.Int("status", resp.StatusCode), slog.String("description", data.Description))
		return fmt.Errorf("telegram error: %s", resp.Status)
	}
}

// NopSender drops notifications when no bot is configured.
type NopSender struct {
	Logger *slog.Logger
}

// Send logs and discards n.
func (s NopSender) Send(_ context.Context, n model.Notification) error {
	if s.Logger != nil {
		s.Logger.Debug("telegram disabled, notification dropped",
			slog.String("order_id", n.OrderID), slog.String("kind", string(n.Kind)))
	}
	return nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// redact strips the bot token from transport errors, which embed the request URL.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
