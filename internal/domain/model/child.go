package model

import "time"

// Child is read by the withdrawal core for ownership and display only.
type Child struct {
	ID         string
	GuardianID string
	Name       string
	Grade      string
	School     string
	CreatedAt  time.Time
}
