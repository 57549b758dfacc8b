package test

import (
	"sync"

	"github.com/polkiloo/safepick/internal/domain/model"
)

// NotifierStub records enqueued notifications.
type NotifierStub struct {
	mu     sync.Mutex
	Items  []model.Notification
	Reject bool
}

// Enqueue stores n unless Reject is set.
func (s *NotifierStub) Enqueue(n model.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Reject {
		return false
	}
	s.Items = append(s.Items, n)
	return true
}

// Sent returns a copy of recorded notifications.
func (s *NotifierStub) Sent() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.Items...)
}

// Count returns notifications of kind.
func (s *NotifierStub) Count(kind model.NotificationKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, item := range s.Items {
		if item.Kind == kind {
			n++
		}
	}
	return n
}
