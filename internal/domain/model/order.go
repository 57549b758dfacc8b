package model

import "time"

// OrderStatus describes withdrawal order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusValidated OrderStatus = "VALIDATED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo reports whether next is a permitted edge from s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusValidated || next == OrderStatusCancelled
	case OrderStatusValidated:
		return next == OrderStatusCompleted || next == OrderStatusCancelled
	}
	return false
}

// WithdrawalOrder authorizes a picker to collect a child.
type WithdrawalOrder struct {
	ID                  string
	ChildID             string
	GuardianID          string
	Status              OrderStatus
	ScanToken           string
	WithdrawalTimestamp *time.Time
	CompletedBy         *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Transition describes a requested status change applied atomically by storage.
type Transition struct {
	OrderID string
	To      OrderStatus
	At      time.Time
	// ActorID is recorded as completed_by for COMPLETED transitions.
	ActorID string
}
