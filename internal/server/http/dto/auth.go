package dto

// RegisterRequest describes account registration payload.
type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Role           string `json:"role,omitempty"`
	Cedula         string `json:"cedula,omitempty"`
	Phone          string `json:"phone,omitempty"`
	TelegramChatID string `json:"telegramChatId,omitempty"`
}

// LoginRequest describes email/password payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}
