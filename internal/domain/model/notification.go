package model

import "time"

// NotificationKind identifies a guardian notification.
type NotificationKind string

const (
	NotificationOrderCreated   NotificationKind = "order_created"
	NotificationOrderCompleted NotificationKind = "order_completed"
	NotificationOrderCancelled NotificationKind = "order_cancelled"
)

// Notification is delivered to the guardian out-of-band, at most once per order and kind.
type Notification struct {
	Kind         NotificationKind
	OrderID      string
	GuardianID   string
	ContactRef   string
	ChildName    string
	PickerName   string
	PickerCedula string
	Relationship Relationship
	Code         string
	ExpiresAt    time.Time
	OccurredAt   time.Time
}

// DedupKey identifies the notification for at-most-once delivery.
func (n Notification) DedupKey() string {
	return string(n.Kind) + ":" + n.OrderID
}
