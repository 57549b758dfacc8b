package dto

import "time"

// CreateWithdrawalRequest authorizes a picker for a child.
type CreateWithdrawalRequest struct {
	ChildID      string `json:"childId"`
	PickerName   string `json:"pickerName"`
	PickerCedula string `json:"pickerCedula"`
	PickerPhone  string `json:"pickerPhone"`
	Relationship string `json:"relationship"`
}

// CreatedWithdrawalResponse is shown once to the guardian after creation.
type CreatedWithdrawalResponse struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	ScanToken string    `json:"scanToken"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// OrderResponse describes an order without its secrets.
type OrderResponse struct {
	ID                  string     `json:"id"`
	ChildID             string     `json:"childId"`
	Status              string     `json:"status"`
	WithdrawalTimestamp *time.Time `json:"withdrawalTimestamp,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// PickerResponse describes the authorized picker.
type PickerResponse struct {
	Name          string    `json:"name"`
	Cedula        string    `json:"cedula"`
	Phone         string    `json:"phone"`
	Relationship  string    `json:"relationship"`
	CodeExpiresAt time.Time `json:"codeExpiresAt"`
	IsActive      bool      `json:"isActive"`
}

// ChildSummary is the child as shown alongside an order.
type ChildSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Grade  string `json:"grade,omitempty"`
	School string `json:"school,omitempty"`
}

// OrderDetailResponse is a flat order view with picker and child.
type OrderDetailResponse struct {
	Order  OrderResponse  `json:"order"`
	Picker PickerResponse `json:"picker"`
	Child  ChildSummary   `json:"child"`
}

// CredentialsResponse redisplays the original pickup code to the guardian.
type CredentialsResponse struct {
	OrderID   string    `json:"orderId"`
	Cedula    string    `json:"cedula"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
	ScanToken string    `json:"scanToken"`
}

// CompletionResponse reports a completed handoff.
type CompletionResponse struct {
	OrderID            string    `json:"orderId"`
	Status             string    `json:"status"`
	ChildName          string    `json:"childName"`
	PickerName         string    `json:"pickerName"`
	CompletedAt        time.Time `json:"completedAt"`
	NotificationQueued bool      `json:"notificationQueued"`
}
