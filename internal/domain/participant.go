package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant links a user to a trip.
// Username and Email are read from the related user row; they are never
// written through the participants table.
type Participant struct {
	ID       uuid.UUID
	TripID   uuid.UUID
	UserID   uuid.UUID
	Username string
	Email    string
	JoinedAt time.Time
}
