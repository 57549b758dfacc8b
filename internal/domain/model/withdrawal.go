package model

import "time"

// CreatedOrder is returned once, right after order creation.
type CreatedOrder struct {
	Order     WithdrawalOrder
	Picker    PickerCredential
	ScanToken string
	Code      string
	ExpiresAt time.Time
}

// RecoveredCredentials carries the originally issued code back to the guardian.
type RecoveredCredentials struct {
	OrderID   string
	Cedula    string
	Code      string
	ExpiresAt time.Time
	ScanToken string
}

// OrderSnapshot is a flat view of an order with its picker and child.
type OrderSnapshot struct {
	Order  WithdrawalOrder
	Picker PickerCredential
	Child  Child
}

// CompletionResult describes a successful handoff.
type CompletionResult struct {
	Snapshot    OrderSnapshot
	CompletedAt time.Time
	// NotificationQueued is true when the guardian notification was handed to the dispatcher.
	NotificationQueued bool
}
