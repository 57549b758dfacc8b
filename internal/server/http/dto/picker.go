package dto

import "time"

// PickerLoginRequest exchanges cedula and one-time code for an assertion.
type PickerLoginRequest struct {
	Cedula string `json:"cedula"`
	Code   string `json:"code"`
}

// PickerLoginResponse carries the order-scoped assertion.
type PickerLoginResponse struct {
	Token     string    `json:"token"`
	OrderID   string    `json:"orderId"`
	Role      string    `json:"role"`
	Temporary bool      `json:"temporary"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ScanRequest carries a scanned token.
type ScanRequest struct {
	Token string `json:"token"`
}
