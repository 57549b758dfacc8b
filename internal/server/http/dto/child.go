package dto

import "time"

// ChildRequest registers a child under the caller.
type ChildRequest struct {
	Name   string `json:"name"`
	Grade  string `json:"grade,omitempty"`
	School string `json:"school,omitempty"`
}

// ChildResponse describes a registered child.
type ChildResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Grade     string    `json:"grade,omitempty"`
	School    string    `json:"school,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
