package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// ActivityService implements business logic for activities and their votes.
// Every operation is scoped to a trip the requesting user participates in.
type ActivityService struct {
	access
	activities repo.ActivityRepo
	votes      repo.VoteRepo
}

// NewActivityService constructs an ActivityService backed by the provided repos.
func NewActivityService(
	trips repo.TripRepo,
	participants repo.ParticipantRepo,
	activities repo.ActivityRepo,
	votes repo.VoteRepo,
) *ActivityService {
	return &ActivityService{
		access:     access{trips: trips, participants: participants},
		activities: activities,
		votes:      votes,
	}
}

// Create validates and persists a new activity under a.TripID with userID as
// its creator. An empty category defaults to domain.CategoryOther.
func (s *ActivityService) Create(ctx context.Context, userID uuid.UUID, a domain.Activity) (domain.Activity, error) {
	if _, err := s.requireParticipant(ctx, a.TripID, userID); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	a = normalizeActivity(a)
	if a.Category == "" {
		a.Category = domain.CategoryOther
	}
	if err := validateActivity(a); err != nil {
		return domain.Activity{}, err
	}
	a.CreatedBy = userID

	created, err := s.activities.Create(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	created.Votes = []domain.Vote{}
	return created, nil
}

// Get returns a single activity with its votes.
// Returns domain.ErrNotFound if the activity does not exist under tripID.
func (s *ActivityService) Get(ctx context.Context, userID, tripID, activityID uuid.UUID) (domain.Activity, error) {
	if _, err := s.requireParticipant(ctx, tripID, userID); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Get: %w", err)
	}
	a, err := s.activities.GetByID(ctx, tripID, activityID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Get: %w", err)
	}
	as := []domain.Activity{a}
	if err := attachVotes(ctx, s.votes, as); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Get: %w", err)
	}
	return as[0], nil
}

// List returns every activity of tripID, in itinerary order, with votes.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ActivityService) List(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Activity, error) {
	if _, err := s.requireParticipant(ctx, tripID, userID); err != nil {
		return nil, fmt.Errorf("service.ActivityService.List: %w", err)
	}
	as, err := s.activities.ListByTripIDs(ctx, []uuid.UUID{tripID})
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.List: %w", err)
	}
	as = nonNil(as)
	if err := attachVotes(ctx, s.votes, as); err != nil {
		return nil, fmt.Errorf("service.ActivityService.List: %w", err)
	}
	return as, nil
}

// Update validates and overwrites the editable fields of an existing activity.
// Optional fields outside set keep their stored values; those in set are
// replaced, so a null clears them. Any participant may edit; the creator is
// preserved.
func (s *ActivityService) Update(ctx context.Context, userID uuid.UUID, a domain.Activity, set domain.ActivityFields) (domain.Activity, error) {
	if _, err := s.requireParticipant(ctx, a.TripID, userID); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}
	existing, err := s.activities.GetByID(ctx, a.TripID, a.ID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}
	a = normalizeActivity(mergeActivity(existing, a, set))
	if err := validateActivity(a); err != nil {
		return domain.Activity{}, err
	}
	a.CreatedBy = existing.CreatedBy

	updated, err := s.activities.Update(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}
	as := []domain.Activity{updated}
	if err := attachVotes(ctx, s.votes, as); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}
	return as[0], nil
}

// Delete removes an activity and its votes.
func (s *ActivityService) Delete(ctx context.Context, userID, tripID, activityID uuid.UUID) error {
	if _, err := s.requireParticipant(ctx, tripID, userID); err != nil {
		return fmt.Errorf("service.ActivityService.Delete: %w", err)
	}
	if err := s.activities.Delete(ctx, tripID, activityID); err != nil {
		return fmt.Errorf("service.ActivityService.Delete: %w", err)
	}
	return nil
}

// Vote records userID's vote on an activity, replacing any earlier vote by
// the same user.
func (s *ActivityService) Vote(ctx context.Context, userID, tripID, activityID uuid.UUID, vote bool) (domain.Vote, error) {
	if _, err := s.requireParticipant(ctx, tripID, userID); err != nil {
		return domain.Vote{}, fmt.Errorf("service.ActivityService.Vote: %w", err)
	}
	if _, err := s.activities.GetByID(ctx, tripID, activityID); err != nil {
		return domain.Vote{}, fmt.Errorf("service.ActivityService.Vote: %w", err)
	}
	v, err := s.votes.Upsert(ctx, activityID, userID, vote)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("service.ActivityService.Vote: %w", err)
	}
	return v, nil
}

// UpdateVote changes the value of an existing vote. Only the user who cast
// the vote may change it; its owner and timestamp stay as they were.
// Returns domain.ErrForbidden for anyone but the vote owner.
func (s *ActivityService) UpdateVote(ctx context.Context, userID, tripID, activityID, voteID uuid.UUID, vote bool) (domain.Vote, error) {
	if _, err := s.requireParticipant(ctx, tripID, userID); err != nil {
		return domain.Vote{}, fmt.Errorf("service.ActivityService.UpdateVote: %w", err)
	}
	if _, err := s.activities.GetByID(ctx, tripID, activityID); err != nil {
		return domain.Vote{}, fmt.Errorf("service.ActivityService.UpdateVote: %w", err)
	}
	existing, err := s.votes.GetByID(ctx, activityID, voteID)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("service.ActivityService.UpdateVote: %w", err)
	}
	if existing.UserID != userID {
		return domain.Vote{}, fmt.Errorf("service.ActivityService.UpdateVote: %w: not your vote", domain.ErrForbidden)
	}
	v, err := s.votes.SetVote(ctx, activityID, voteID, vote)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("service.ActivityService.UpdateVote: %w", err)
	}
	return v, nil
}

// mergeActivity copies from existing every optional field of a that set
// does not name.
func mergeActivity(existing, a domain.Activity, set domain.ActivityFields) domain.Activity {
	if !set.Has(domain.ActivityTime) {
		a.Time = existing.Time
	}
	if !set.Has(domain.ActivityCategory) {
		a.Category = existing.Category
	}
	if !set.Has(domain.ActivityEstimatedCost) {
		a.EstimatedCost = existing.EstimatedCost
	}
	if !set.Has(domain.ActivityNotes) {
		a.Notes = existing.Notes
	}
	return a
}

// normalizeActivity trims free text. Blank notes are stored as NULL.
func normalizeActivity(a domain.Activity) domain.Activity {
	a.Title = strings.TrimSpace(a.Title)
	if a.Notes != nil && strings.TrimSpace(*a.Notes) == "" {
		a.Notes = nil
	}
	return a
}

// validateActivity enforces business rules common to both Create and Update.
func validateActivity(a domain.Activity) error {
	v := domain.NewValidationError()
	switch {
	case a.Title == "":
		v.Add("title", "This field may not be blank.")
	case utf8.RuneCountInString(a.Title) > domain.MaxActivityTitleLength:
		v.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", domain.MaxActivityTitleLength))
	}
	if a.Date.IsZero() {
		v.Add("date", "This field is required.")
	}
	if !a.Category.Valid() {
		v.Add("category", fmt.Sprintf("%q is not a valid choice.", string(a.Category)))
	}
	if a.EstimatedCost != nil {
		if *a.EstimatedCost < 0 {
			v.Add("estimated_cost", "Ensure this value is greater than or equal to 0.")
		}
		if *a.EstimatedCost > domain.MaxMoney {
			v.Add("estimated_cost", "Ensure that there are no more than 10 digits in total.")
		}
	}
	return v.Err()
}
