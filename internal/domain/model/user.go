package model

import "time"

// Role names the permissions carried by an account or assertion.
type Role string

const (
	RoleParent   Role = "PARENT"
	RoleGuardian Role = "GUARDIAN"
	RoleStaff    Role = "STAFF"
	RoleAdmin    Role = "ADMIN"
	RolePicker   Role = "PICKER"
)

// Valid reports whether role can be assigned to a registered account.
func (r Role) Valid() bool {
	switch r {
	case RoleParent, RoleGuardian, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// CanOwnOrders reports whether the role may act as guardian-of-record.
func (r Role) CanOwnOrders() bool {
	return r == RoleParent || r == RoleGuardian
}

// CanScan reports whether the role may verify and complete by scan.
func (r Role) CanScan() bool {
	return r == RoleStaff || r == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID             string
	Email          string
	PasswordHash   string
	Name           string
	Role           Role
	Cedula         string
	Phone          string
	TelegramChatID string
	CreatedAt      time.Time
}
