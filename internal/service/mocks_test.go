package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// Hand-written test doubles for the repo interfaces.
// Each method is a function field; set only the ones your test needs.
// List methods with no function set return an empty slice so tests that
// don't care about child rows need not wire them.

type mockTripRepo struct {
	create      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	getByCode   func(ctx context.Context, code string) (domain.Trip, error)
	listForUser func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) GetByCode(ctx context.Context, code string) (domain.Trip, error) {
	return m.getByCode(ctx, code)
}
func (m *mockTripRepo) ListForUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listForUser(ctx, userID, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockParticipantRepo struct {
	add           func(ctx context.Context, tripID, userID uuid.UUID) (domain.Participant, error)
	listByTripIDs func(ctx context.Context, tripIDs []uuid.UUID) ([]domain.Participant, error)
	exists        func(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

func (m *mockParticipantRepo) Add(ctx context.Context, tripID, userID uuid.UUID) (domain.Participant, error) {
	return m.add(ctx, tripID, userID)
}
func (m *mockParticipantRepo) ListByTripIDs(ctx context.Context, tripIDs []uuid.UUID) ([]domain.Participant, error) {
	if m.listByTripIDs == nil {
		return []domain.Participant{}, nil
	}
	return m.listByTripIDs(ctx, tripIDs)
}
func (m *mockParticipantRepo) Exists(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	return m.exists(ctx, tripID, userID)
}

type mockUserRepo struct {
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}

type mockActivityRepo struct {
	create        func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	getByID       func(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error)
	listByTripIDs func(ctx context.Context, tripIDs []uuid.UUID) ([]domain.Activity, error)
	update        func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	delete        func(ctx context.Context, tripID, activityID uuid.UUID) error
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) GetByID(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error) {
	return m.getByID(ctx, tripID, activityID)
}
func (m *mockActivityRepo) ListByTripIDs(ctx context.Context, tripIDs []uuid.UUID) ([]domain.Activity, error) {
	if m.listByTripIDs == nil {
		return []domain.Activity{}, nil
	}
	return m.listByTripIDs(ctx, tripIDs)
}
func (m *mockActivityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.update(ctx, a)
}
func (m *mockActivityRepo) Delete(ctx context.Context, tripID, activityID uuid.UUID) error {
	return m.delete(ctx, tripID, activityID)
}

type mockVoteRepo struct {
	upsert            func(ctx context.Context, activityID, userID uuid.UUID, vote bool) (domain.Vote, error)
	getByID           func(ctx context.Context, activityID, voteID uuid.UUID) (domain.Vote, error)
	setVote           func(ctx context.Context, activityID, voteID uuid.UUID, vote bool) (domain.Vote, error)
	listByActivityIDs func(ctx context.Context, activityIDs []uuid.UUID) ([]domain.Vote, error)
}

func (m *mockVoteRepo) Upsert(ctx context.Context, activityID, userID uuid.UUID, vote bool) (domain.Vote, error) {
	return m.upsert(ctx, activityID, userID, vote)
}
func (m *mockVoteRepo) GetByID(ctx context.Context, activityID, voteID uuid.UUID) (domain.Vote, error) {
	return m.getByID(ctx, activityID, voteID)
}
func (m *mockVoteRepo) SetVote(ctx context.Context, activityID, voteID uuid.UUID, vote bool) (domain.Vote, error) {
	return m.setVote(ctx, activityID, voteID, vote)
}
func (m *mockVoteRepo) ListByActivityIDs(ctx context.Context, activityIDs []uuid.UUID) ([]domain.Vote, error) {
	if m.listByActivityIDs == nil {
		return []domain.Vote{}, nil
	}
	return m.listByActivityIDs(ctx, activityIDs)
}

// compile-time checks: every mock must satisfy its repo interface.
var (
	_ repo.TripRepo        = (*mockTripRepo)(nil)
	_ repo.ParticipantRepo = (*mockParticipantRepo)(nil)
	_ repo.UserRepo        = (*mockUserRepo)(nil)
	_ repo.ActivityRepo    = (*mockActivityRepo)(nil)
	_ repo.VoteRepo        = (*mockVoteRepo)(nil)
)

// ---- shared fixtures -------------------------------------------------------

// member returns a participant repo in which exactly the given users belong to every trip.
func member(userIDs ...uuid.UUID) *mockParticipantRepo {
	return &mockParticipantRepo{
		exists: func(_ context.Context, _ uuid.UUID, userID uuid.UUID) (bool, error) {
			for _, id := range userIDs {
				if id == userID {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

// tripsWith returns a trip repo whose GetByID finds only trip.
func tripsWith(trip domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
	}
}
