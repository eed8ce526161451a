package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// MsgInviteUnknownEmail is the field message returned when an invite names
// an email that belongs to no user.
const MsgInviteUnknownEmail = "User with this email does not exist."

// ParticipantService manages who belongs to a trip: joining by code,
// inviting by email, and adding by user id.
type ParticipantService struct {
	access
	users repo.UserRepo
}

// NewParticipantService constructs a ParticipantService backed by the provided repos.
func NewParticipantService(trips repo.TripRepo, participants repo.ParticipantRepo, users repo.UserRepo) *ParticipantService {
	return &ParticipantService{
		access: access{trips: trips, participants: participants},
		users:  users,
	}
}

// Join enrols userID in the trip identified by code. The code is matched
// case-insensitively. Joining a trip twice is not an error.
// Returns domain.ErrValidation for a malformed code and domain.ErrNotFound
// when no trip has that code. A caller with no users row gets a "user" field
// error.
func (s *ParticipantService) Join(ctx context.Context, userID uuid.UUID, code string) (domain.Trip, error) {
	code = domain.NormalizeTripCode(code)
	if code == "" {
		return domain.Trip{}, domain.FieldError("trip_code", "This field may not be blank.")
	}
	if !domain.ValidTripCode(code) {
		return domain.Trip{}, domain.FieldError("trip_code", "Invalid trip code.")
	}
	trip, err := s.trips.GetByCode(ctx, code)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ParticipantService.Join: %w", err)
	}
	if _, err := s.participants.Add(ctx, trip.ID, userID); err != nil {
		if repo.ViolatesConstraint(err, repo.ParticipantUserConstraint) {
			return domain.Trip{}, unknownUser(userID)
		}
		return domain.Trip{}, fmt.Errorf("service.ParticipantService.Join: %w", err)
	}
	return trip, nil
}

// Invite enrols the user owning email in tripID on behalf of inviterID, who
// must already participate. Email format is checked by the caller; this
// checks that the address belongs to a user.
// Returns a validation error on field "email" with MsgInviteUnknownEmail when
// no user has that email.
func (s *ParticipantService) Invite(ctx context.Context, inviterID, tripID uuid.UUID, email string) (domain.Participant, error) {
	if _, err := s.requireParticipant(ctx, tripID, inviterID); err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Invite: %w", err)
	}
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Participant{}, domain.FieldError("email", MsgInviteUnknownEmail)
	}
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Invite: %w", err)
	}
	p, err := s.participants.Add(ctx, tripID, user.ID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Invite: %w", err)
	}
	return p, nil
}

// Add enrols newUserID in tripID on behalf of actorID, who must already participate.
// Returns a validation error on field "user" when newUserID references no user.
func (s *ParticipantService) Add(ctx context.Context, actorID, tripID, newUserID uuid.UUID) (domain.Participant, error) {
	if _, err := s.requireParticipant(ctx, tripID, actorID); err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Add: %w", err)
	}
	if _, err := s.users.GetByID(ctx, newUserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Participant{}, domain.FieldError("user", InvalidPKMessage(newUserID.String()))
		}
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Add: %w", err)
	}
	p, err := s.participants.Add(ctx, tripID, newUserID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Add: %w", err)
	}
	return p, nil
}

// List returns the participants of tripID ordered by joined_at.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ParticipantService) List(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Participant, error) {
	if _, err := s.requireParticipant(ctx, tripID, userID); err != nil {
		return nil, fmt.Errorf("service.ParticipantService.List: %w", err)
	}
	ps, err := s.participants.ListByTripIDs(ctx, []uuid.UUID{tripID})
	if err != nil {
		return nil, fmt.Errorf("service.ParticipantService.List: %w", err)
	}
	return nonNil(ps), nil
}

// InvalidPKMessage is the field message for a reference to a missing row.
func InvalidPKMessage(pk string) string {
	return fmt.Sprintf("Invalid pk %q - object does not exist.", pk)
}
