package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// access answers "may this user act on this trip" for every trip-scoped service.
type access struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
}

// requireParticipant loads the trip and checks that userID participates in it.
// Returns domain.ErrNotFound if the trip does not exist and domain.ErrForbidden
// if the user is not a participant.
func (a access) requireParticipant(ctx context.Context, tripID, userID uuid.UUID) (domain.Trip, error) {
	trip, err := a.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	ok, err := a.participants.Exists(ctx, tripID, userID)
	if err != nil {
		return domain.Trip{}, err
	}
	if !ok {
		return domain.Trip{}, fmt.Errorf("%w: not a participant of this trip", domain.ErrForbidden)
	}
	return trip, nil
}

// requireCreator loads the trip and checks that userID created it.
func (a access) requireCreator(ctx context.Context, tripID, userID uuid.UUID) (domain.Trip, error) {
	trip, err := a.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.CreatedBy != userID {
		return domain.Trip{}, fmt.Errorf("%w: only the trip creator may do this", domain.ErrForbidden)
	}
	return trip, nil
}
