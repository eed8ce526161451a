// Package repo contains all database access logic for the trip planner.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
// Begin on a pgx.Tx opens a savepoint, so multi-statement writes stay
// isolated under test as well.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip together with a participant row for its
	// creator, in one transaction. The returned trip carries the creator as its
	// only participant and an empty activity list.
	// Returns domain.ErrConflict if trip.TripCode is already taken.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key, without
	// participants or activities.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetByCode retrieves a trip by its trip code.
	// Returns domain.ErrNotFound if no trip has that code.
	GetByCode(ctx context.Context, code string) (domain.Trip, error)

	// ListForUser returns one page of the trips userID participates in,
	// ordered by start_date descending, and the total number of such trips.
	ListForUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields (name, dates, budget) of an existing
	// trip and returns the updated record. The trip code and creator never change.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip and, by cascade, its participants, activities, and votes.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, name, start_date, end_date, (group_budget * 100)::bigint,
		created_by, created_at, updated_at, trip_code`

// Create inserts the trip and the creator's participant row atomically.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (name, start_date, end_date, group_budget, created_by, trip_code)
		VALUES (@name, @start_date, @end_date, (@group_budget_cents::bigint)::numeric / 100, @created_by, @trip_code)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"name":               trip.Name,
		"start_date":         trip.StartDate,
		"end_date":           trip.EndDate,
		"group_budget_cents": int64(trip.GroupBudget),
		"created_by":         trip.CreatedBy,
		"trip_code":          trip.TripCode,
	}

	var result domain.Trip
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		created, err := scanTrip(tx.QueryRow(ctx, q, args))
		if err != nil {
			return err
		}
		creator, err := addParticipant(ctx, tx, created.ID, created.CreatedBy)
		if err != nil {
			return err
		}
		created.Participants = []domain.Participant{creator}
		created.Activities = []domain.Activity{}
		result = created
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByCode retrieves a trip by its unique code.
func (r *pgTripRepo) GetByCode(ctx context.Context, code string) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE trip_code = @trip_code`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_code": code}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByCode: %w", err)
	}
	return result, nil
}

// ListForUser returns the page of trips userID participates in plus the total count.
func (r *pgTripRepo) ListForUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `
		SELECT count(*)
		FROM trips t
		WHERE EXISTS (SELECT 1 FROM trip_participants tp WHERE tp.trip_id = t.id AND tp.user_id = @user_id)`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListForUser: count: %w", err)
	}

	const q = `
		SELECT ` + tripColumns + `
		FROM trips t
		WHERE EXISTS (SELECT 1 FROM trip_participants tp WHERE tp.trip_id = t.id AND tp.user_id = @user_id)
		ORDER BY start_date DESC, created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"user_id": userID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListForUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListForUser: rows: %w", err)
	}
	return trips, total, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET name         = @name,
		    start_date   = @start_date,
		    end_date     = @end_date,
		    group_budget = (@group_budget_cents::bigint)::numeric / 100,
		    updated_at   = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":                 trip.ID,
		"name":               trip.Name,
		"start_date":         trip.StartDate,
		"end_date":           trip.EndDate,
		"group_budget_cents": int64(trip.GroupBudget),
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// Column order must match tripColumns.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		createdBy pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
		budget    int64
	)

	err := s.Scan(&id, &t.Name, &startDate, &endDate, &budget, &createdBy, &t.CreatedAt, &t.UpdatedAt, &t.TripCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.CreatedBy = uuid.UUID(createdBy.Bytes)
	t.StartDate = startDate.Time
	t.EndDate = endDate.Time
	t.GroupBudget = domain.Money(budget)
	return t, nil
}
