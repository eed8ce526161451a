// Package domain contains the core data types for the trip planner.
// This package depends only on uuid and the standard library and is imported
// by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTripNameLength is the longest trip name accepted.
const MaxTripNameLength = 100

// Trip is a planned group journey and the top-level aggregate.
// Participants and Activities are populated by the service layer when a trip
// is read for output; they are never written through the trips table.
type Trip struct {
	ID          uuid.UUID
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	GroupBudget Money
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// TripCode is assigned exactly once, at creation.
	TripCode string

	Participants []Participant
	Activities   []Activity
}

// HasParticipant reports whether userID is among the loaded participants.
func (t Trip) HasParticipant(userID uuid.UUID) bool {
	for _, p := range t.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
