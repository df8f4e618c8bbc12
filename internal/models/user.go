package models

import "time"

// User owns a shoe collection. Deleting a user cascades to every shoe
// they own (enforced by the schema, not by application code).
type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
