// Package service contains the business logic for the trip planner API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	access
	activities repo.ActivityRepo
	votes      repo.VoteRepo
	newCode    CodeGenerator
}

// TripOption customises a TripService at construction.
type TripOption func(*TripService)

// WithCodeGenerator replaces NewTripCode as the source of trip codes.
func WithCodeGenerator(g CodeGenerator) TripOption {
	return func(s *TripService) { s.newCode = g }
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(
	trips repo.TripRepo,
	participants repo.ParticipantRepo,
	activities repo.ActivityRepo,
	votes repo.VoteRepo,
	opts ...TripOption,
) *TripService {
	s := &TripService{
		access:     access{trips: trips, participants: participants},
		activities: activities,
		votes:      votes,
		newCode:    NewTripCode,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create validates the trip, assigns it a fresh trip code, and persists it
// with creatorID as both created_by and first participant.
//
// Codes are not pre-checked. The insert relies on the unique constraint and a
// conflict on it triggers a new code, up to MaxTripCodeAttempts times.
// Returns domain.ErrValidation if input violates business rules, including a
// "user" field error when creatorID has no users row.
func (s *TripService) Create(ctx context.Context, creatorID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	trip.Name = strings.TrimSpace(trip.Name)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip.CreatedBy = creatorID

	for range MaxTripCodeAttempts {
		code, err := s.newCode()
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: generate code: %w", err)
		}
		trip.TripCode = code

		created, err := s.trips.Create(ctx, trip)
		if err == nil {
			return created, nil
		}
		if repo.ViolatesConstraint(err, repo.TripCreatorConstraint) {
			return domain.Trip{}, unknownUser(creatorID)
		}
		if !isTripCodeConflict(err) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
	}
	return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: no unique trip code after %d attempts",
		domain.ErrConflict, MaxTripCodeAttempts)
}

// isTripCodeConflict reports whether err is a unique violation on the trip
// code rather than on some other constraint. Only this conflict is retried.
func isTripCodeConflict(err error) bool {
	var ce *repo.ConstraintError
	return errors.As(err, &ce) && errors.Is(ce, domain.ErrConflict) && ce.Constraint == repo.TripCodeConstraint
}

// unknownUser is the reference error for a caller or target id with no
// users row.
func unknownUser(id uuid.UUID) error {
	return domain.FieldError("user", InvalidPKMessage(id.String()))
}

// Get returns a trip with its participants and activities (each with votes).
// Returns domain.ErrNotFound if the trip does not exist and
// domain.ErrForbidden if userID is not a participant.
func (s *TripService) Get(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.requireParticipant(ctx, tripID, userID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	trips := []domain.Trip{trip}
	if err := s.hydrate(ctx, trips); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trips[0], nil
}

// List returns one page of the trips userID participates in, fully hydrated,
// and the total number of such trips.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListForUser(ctx, userID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	if err := s.hydrate(ctx, trips); err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	return trips, total, nil
}

// Update changes a trip's name, dates and budget. Only the creator may do this;
// the trip code and creator are never changed.
// Returns domain.ErrForbidden for anyone but the creator.
func (s *TripService) Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	existing, err := s.requireCreator(ctx, trip.ID, userID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	trip.Name = strings.TrimSpace(trip.Name)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip.CreatedBy = existing.CreatedBy
	trip.TripCode = existing.TripCode

	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	trips := []domain.Trip{updated}
	if err := s.hydrate(ctx, trips); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return trips[0], nil
}

// Delete removes a trip and everything under it. Only the creator may do this.
func (s *TripService) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	if _, err := s.requireCreator(ctx, tripID, userID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// hydrate fills Participants and Activities (with Votes) on every trip in
// place, using one query per child table regardless of how many trips there are.
func (s *TripService) hydrate(ctx context.Context, trips []domain.Trip) error {
	if len(trips) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
	}

	participants, err := s.participants.ListByTripIDs(ctx, ids)
	if err != nil {
		return err
	}
	activities, err := s.activities.ListByTripIDs(ctx, ids)
	if err != nil {
		return err
	}
	if err := attachVotes(ctx, s.votes, activities); err != nil {
		return err
	}

	byTripP := make(map[uuid.UUID][]domain.Participant, len(trips))
	for _, p := range participants {
		byTripP[p.TripID] = append(byTripP[p.TripID], p)
	}
	byTripA := make(map[uuid.UUID][]domain.Activity, len(trips))
	for _, a := range activities {
		byTripA[a.TripID] = append(byTripA[a.TripID], a)
	}
	for i := range trips {
		trips[i].Participants = nonNil(byTripP[trips[i].ID])
		trips[i].Activities = nonNil(byTripA[trips[i].ID])
	}
	return nil
}

// attachVotes sets Votes on every activity in place with a single query.
func attachVotes(ctx context.Context, votes repo.VoteRepo, activities []domain.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(activities))
	for i, a := range activities {
		ids[i] = a.ID
	}
	all, err := votes.ListByActivityIDs(ctx, ids)
	if err != nil {
		return err
	}
	byActivity := make(map[uuid.UUID][]domain.Vote, len(activities))
	for _, v := range all {
		byActivity[v.ActivityID] = append(byActivity[v.ActivityID], v)
	}
	for i := range activities {
		activities[i].Votes = nonNil(byActivity[activities[i].ID])
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// validateTrip enforces business rules common to both Create and Update.
//   - Name must be non-blank and at most MaxTripNameLength characters.
//   - EndDate must not be before StartDate.
//   - GroupBudget must be between 0 and domain.MaxMoney.
func validateTrip(trip domain.Trip) error {
	v := domain.NewValidationError()
	switch {
	case trip.Name == "":
		v.Add("name", "This field may not be blank.")
	case utf8.RuneCountInString(trip.Name) > domain.MaxTripNameLength:
		v.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", domain.MaxTripNameLength))
	}
	if trip.EndDate.Before(trip.StartDate) {
		v.Add("end_date", "End date must not be before start date.")
	}
	if trip.GroupBudget < 0 {
		v.Add("group_budget", "Ensure this value is greater than or equal to 0.")
	}
	if trip.GroupBudget > domain.MaxMoney {
		v.Add("group_budget", "Ensure that there are no more than 10 digits in total.")
	}
	return v.Err()
}
