package domain

import "github.com/google/uuid"

// User is the identity record owned by the authentication system.
// The trip planner only reads it.
type User struct {
	ID       uuid.UUID
	Username string
	Email    string
}
