package models

import "time"

// Event represents an auth-related audit entry.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "auth.register", "auth.login.failed"
	Level     string    `json:"level"` // e.g. "info", "warn"
	Message   string    `json:"message"`
	UserID    *string   `json:"userId,omitempty"` // Nullable for pre-auth events
	CreatedAt time.Time `json:"createdAt"`
}
