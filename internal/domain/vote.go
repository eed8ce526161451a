package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one user's up (true) or down (false) opinion on an activity.
// A user holds at most one vote per activity; voting again replaces it.
type Vote struct {
	ID         uuid.UUID
	ActivityID uuid.UUID
	UserID     uuid.UUID
	Vote       bool
	VotedAt    time.Time
}
