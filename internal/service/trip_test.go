package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
)

// ---- helpers ---------------------------------------------------------------

func validTrip() domain.Trip {
	return domain.Trip{
		Name:        "Beach Week",
		StartDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
		GroupBudget: 200000,
	}
}

// creatingRepo mimics the Postgres Create: it assigns an ID and returns the
// creator as the only participant.
func creatingRepo() *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) {
			t.ID = uuid.New()
			t.Participants = []domain.Participant{{TripID: t.ID, UserID: t.CreatedBy}}
			t.Activities = []domain.Activity{}
			return t, nil
		},
	}
}

func newTripService(trips *mockTripRepo, opts ...service.TripOption) *service.TripService {
	return service.NewTripService(trips, &mockParticipantRepo{}, &mockActivityRepo{}, &mockVoteRepo{}, opts...)
}

// fixedCodes returns a generator that hands out codes in order.
func fixedCodes(codes ...string) service.CodeGenerator {
	i := 0
	return func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}

func constraintError(sentinel error, constraint string) error {
	return fmt.Errorf("repo.TripRepo.Create: %w", &repo.ConstraintError{Constraint: constraint, Err: sentinel})
}

func codeConflict() error {
	return constraintError(domain.ErrConflict, repo.TripCodeConstraint)
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	creator := uuid.New()
	svc := newTripService(creatingRepo())

	got, err := svc.Create(context.Background(), creator, validTrip())

	require.NoError(t, err)
	assert.Equal(t, "Beach Week", got.Name)
	assert.Equal(t, creator, got.CreatedBy)
	assert.True(t, domain.ValidTripCode(got.TripCode), "code %q", got.TripCode)
	require.Len(t, got.Participants, 1)
	assert.Equal(t, creator, got.Participants[0].UserID)
	assert.Empty(t, got.Activities)
}

func TestTripService_Create_IgnoresClientCodeAndCreator(t *testing.T) {
	creator := uuid.New()
	svc := newTripService(creatingRepo(), service.WithCodeGenerator(fixedCodes("SERVER")))

	trip := validTrip()
	trip.TripCode = "CLIENT"
	trip.CreatedBy = uuid.New()

	got, err := svc.Create(context.Background(), creator, trip)

	require.NoError(t, err)
	assert.Equal(t, "SERVER", got.TripCode)
	assert.Equal(t, creator, got.CreatedBy)
}

func TestTripService_Create_RetriesOnCodeConflict(t *testing.T) {
	var tried []string
	r := &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) {
			tried = append(tried, t.TripCode)
			if t.TripCode != "FRESH1" {
				return domain.Trip{}, codeConflict()
			}
			return t, nil
		},
	}
	svc := newTripService(r, service.WithCodeGenerator(fixedCodes("TAKEN1", "TAKEN2", "FRESH1")))

	got, err := svc.Create(context.Background(), uuid.New(), validTrip())

	require.NoError(t, err)
	assert.Equal(t, "FRESH1", got.TripCode)
	assert.Equal(t, []string{"TAKEN1", "TAKEN2", "FRESH1"}, tried)
}

func TestTripService_Create_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			calls++
			return domain.Trip{}, codeConflict()
		},
	}
	svc := newTripService(r, service.WithCodeGenerator(fixedCodes("AAAAAA")))

	_, err := svc.Create(context.Background(), uuid.New(), validTrip())

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, service.MaxTripCodeAttempts, calls)
}

func TestTripService_Create_OtherConflictNotRetried(t *testing.T) {
	calls := 0
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			calls++
			return domain.Trip{}, constraintError(domain.ErrConflict, "trip_participants_trip_user_key")
		},
	}
	svc := newTripService(r)

	_, err := svc.Create(context.Background(), uuid.New(), validTrip())

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, calls)
}

func TestTripService_Create_ConstraintNameInMessageOnlyIsNotRetried(t *testing.T) {
	calls := 0
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			calls++
			return domain.Trip{}, fmt.Errorf("%w: trips_trip_code_key", domain.ErrConflict)
		},
	}
	svc := newTripService(r)

	_, err := svc.Create(context.Background(), uuid.New(), validTrip())

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, calls)
}

func TestTripService_Create_UnknownCreator(t *testing.T) {
	creator := uuid.New()
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, constraintError(domain.ErrNotFound, repo.TripCreatorConstraint)
		},
	}
	svc := newTripService(r)

	_, err := svc.Create(context.Background(), creator, validTrip())

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{`Invalid pk "` + creator.String() + `" - object does not exist.`}, ve.Fields["user"])
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_Create_GeneratorError(t *testing.T) {
	boom := errors.New("entropy exhausted")
	svc := newTripService(creatingRepo(), service.WithCodeGenerator(func() (string, error) { return "", boom }))

	_, err := svc.Create(context.Background(), uuid.New(), validTrip())

	assert.ErrorIs(t, err, boom)
}

func TestTripService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Trip)
		field  string
	}{
		{"blank name", func(t *domain.Trip) { t.Name = "   " }, "name"},
		{"name too long", func(t *domain.Trip) { t.Name = string(make([]rune, 101)) }, "name"},
		{"end before start", func(t *domain.Trip) { t.EndDate = t.StartDate.AddDate(0, 0, -1) }, "end_date"},
		{"negative budget", func(t *domain.Trip) { t.GroupBudget = -1 }, "group_budget"},
		{"budget overflow", func(t *domain.Trip) { t.GroupBudget = domain.MaxMoney + 1 }, "group_budget"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTripService(creatingRepo())
			trip := validTrip()
			tc.mutate(&trip)

			_, err := svc.Create(context.Background(), uuid.New(), trip)

			require.ErrorIs(t, err, domain.ErrValidation)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}
}

func TestTripService_Create_SameDayTripIsValid(t *testing.T) {
	svc := newTripService(creatingRepo())

	trip := validTrip()
	trip.EndDate = trip.StartDate

	_, err := svc.Create(context.Background(), uuid.New(), trip)

	assert.NoError(t, err)
}

func TestNewTripCode_Shape(t *testing.T) {
	seen := map[string]bool{}
	for range 200 {
		code, err := service.NewTripCode()
		require.NoError(t, err)
		assert.True(t, domain.ValidTripCode(code), "code %q", code)
		seen[code] = true
	}
	// 200 draws from 36^6 codes; a handful of duplicates would already be suspicious.
	assert.Greater(t, len(seen), 190)
}

// ---- Get tests -------------------------------------------------------------

func TestTripService_Get_HydratesChildren(t *testing.T) {
	user := uuid.New()
	trip := validTrip()
	trip.ID = uuid.New()
	activityID := uuid.New()

	svc := service.NewTripService(
		tripsWith(trip),
		&mockParticipantRepo{
			exists: func(_ context.Context, _, _ uuid.UUID) (bool, error) { return true, nil },
			listByTripIDs: func(_ context.Context, ids []uuid.UUID) ([]domain.Participant, error) {
				return []domain.Participant{{TripID: ids[0], UserID: user}}, nil
			},
		},
		&mockActivityRepo{
			listByTripIDs: func(_ context.Context, _ []uuid.UUID) ([]domain.Activity, error) {
				return []domain.Activity{{ID: activityID, TripID: trip.ID, Title: "Surf"}}, nil
			},
		},
		&mockVoteRepo{
			listByActivityIDs: func(_ context.Context, _ []uuid.UUID) ([]domain.Vote, error) {
				return []domain.Vote{
					{ActivityID: activityID, Vote: true},
					{ActivityID: activityID, Vote: true},
					{ActivityID: activityID, Vote: false},
				}, nil
			},
		},
	)

	got, err := svc.Get(context.Background(), user, trip.ID)

	require.NoError(t, err)
	require.Len(t, got.Participants, 1)
	require.Len(t, got.Activities, 1)
	assert.Equal(t, 2, got.Activities[0].Upvotes())
	assert.Equal(t, 1, got.Activities[0].Downvotes())
}

func TestTripService_Get_NotParticipant(t *testing.T) {
	trip := validTrip()
	trip.ID = uuid.New()
	svc := service.NewTripService(tripsWith(trip), member(), &mockActivityRepo{}, &mockVoteRepo{})

	_, err := svc.Get(context.Background(), uuid.New(), trip.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTripService_Get_NotFound(t *testing.T) {
	user := uuid.New()
	svc := service.NewTripService(tripsWith(domain.Trip{ID: uuid.New()}), member(user), &mockActivityRepo{}, &mockVoteRepo{})

	_, err := svc.Get(context.Background(), user, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- List tests ------------------------------------------------------------

func TestTripService_List_Empty(t *testing.T) {
	r := &mockTripRepo{
		listForUser: func(_ context.Context, _ uuid.UUID, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
			return nil, 0, nil
		},
	}
	svc := newTripService(r)

	got, total, err := svc.List(context.Background(), uuid.New(), domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	// Should return an empty slice, not nil; callers can safely range over it.
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, total)
}

func TestTripService_List_GroupsChildrenByTrip(t *testing.T) {
	a, b := validTrip(), validTrip()
	a.ID, b.ID = uuid.New(), uuid.New()
	var askedFor []uuid.UUID

	svc := service.NewTripService(
		&mockTripRepo{
			listForUser: func(_ context.Context, _ uuid.UUID, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
				return []domain.Trip{a, b}, 7, nil
			},
		},
		&mockParticipantRepo{
			listByTripIDs: func(_ context.Context, ids []uuid.UUID) ([]domain.Participant, error) {
				askedFor = ids
				return []domain.Participant{{TripID: b.ID}, {TripID: b.ID}, {TripID: a.ID}}, nil
			},
		},
		&mockActivityRepo{},
		&mockVoteRepo{},
	)

	got, total, err := svc.List(context.Background(), uuid.New(), domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, askedFor, "one batched query for the whole page")
	require.Len(t, got, 2)
	assert.Len(t, got[0].Participants, 1)
	assert.Len(t, got[1].Participants, 2)
	assert.NotNil(t, got[0].Activities)
}

// ---- Update tests ----------------------------------------------------------

func TestTripService_Update_ByCreator(t *testing.T) {
	creator := uuid.New()
	stored := validTrip()
	stored.ID = uuid.New()
	stored.CreatedBy = creator
	stored.TripCode = "KEEP01"

	r := tripsWith(stored)
	r.update = func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil }
	svc := newTripService(r)

	in := validTrip()
	in.ID = stored.ID
	in.Name = "  Renamed Trip "
	in.TripCode = "HACKED"

	got, err := svc.Update(context.Background(), creator, in)

	require.NoError(t, err)
	assert.Equal(t, "Renamed Trip", got.Name)
	assert.Equal(t, "KEEP01", got.TripCode)
	assert.Equal(t, creator, got.CreatedBy)
}

func TestTripService_Update_NotCreator(t *testing.T) {
	stored := validTrip()
	stored.ID = uuid.New()
	stored.CreatedBy = uuid.New()
	svc := newTripService(tripsWith(stored))

	in := validTrip()
	in.ID = stored.ID

	_, err := svc.Update(context.Background(), uuid.New(), in)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTripService_Update_EndDateBeforeStartDate(t *testing.T) {
	creator := uuid.New()
	stored := validTrip()
	stored.ID = uuid.New()
	stored.CreatedBy = creator
	svc := newTripService(tripsWith(stored))

	in := validTrip()
	in.ID = stored.ID
	in.EndDate = in.StartDate.AddDate(0, 0, -1)

	_, err := svc.Update(context.Background(), creator, in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Delete tests ----------------------------------------------------------

func TestTripService_Delete_ByCreator(t *testing.T) {
	creator := uuid.New()
	stored := validTrip()
	stored.ID = uuid.New()
	stored.CreatedBy = creator

	var deleted uuid.UUID
	r := tripsWith(stored)
	r.delete = func(_ context.Context, id uuid.UUID) error {
		deleted = id
		return nil
	}
	svc := newTripService(r)

	require.NoError(t, svc.Delete(context.Background(), creator, stored.ID))
	assert.Equal(t, stored.ID, deleted)
}

func TestTripService_Delete_NotCreator(t *testing.T) {
	stored := validTrip()
	stored.ID = uuid.New()
	stored.CreatedBy = uuid.New()
	svc := newTripService(tripsWith(stored))

	err := svc.Delete(context.Background(), uuid.New(), stored.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTripService_Delete_NotFound(t *testing.T) {
	svc := newTripService(tripsWith(domain.Trip{ID: uuid.New()}))

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
