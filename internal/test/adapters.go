package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/safepick/internal/domain/model"
)

// SenderStub records notifications handed to the chat sink.
type SenderStub struct {
	mu     sync.Mutex
	Items  []model.Notification
	Calls  int
	SendFn func(ctx context.Context, n model.Notification) error
}

// Send records n and delegates to SendFn when set.
func (s *SenderStub) Send(ctx context.Context, n model.Notification) error {
	s.mu.Lock()
	s.Calls++
	fn := s.SendFn
	s.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, n); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.Items = append(s.Items, n)
	s.mu.Unlock()
	return nil
}

// Delivered returns a copy of successfully sent notifications.
func (s *SenderStub) Delivered() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.Items...)
}

// PublisherStub records published lifecycle events.
type PublisherStub struct {
	mu    sync.Mutex
	Items []model.Notification
	Err   error
}

// Publish stores n unless Err is set.
func (p *PublisherStub) Publish(_ context.Context, n model.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Items = append(p.Items, n)
	return nil
}

// Published returns a copy of recorded events.
func (p *PublisherStub) Published() []model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Notification(nil), p.Items...)
}

// ClaimStoreStub fails every claim with Err, or grants it when Err is nil.
type ClaimStoreStub struct {
	Err error
}

func (c ClaimStoreStub) Claim(context.Context, string, time.Duration) (bool, error) {
	return c.Err == nil, c.Err
}

// RateLimiterStub allows requests while Remaining is positive.
type RateLimiterStub struct {
	mu        sync.Mutex
	Remaining int
	Keys      []string
	Err       error
}

func (r *RateLimiterStub) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Keys = append(r.Keys, key)
	if r.Err != nil {
		return false, r.Err
	}
	if r.Remaining <= 0 {
		return false, nil
	}
	r.Remaining--
	return true, nil
}
