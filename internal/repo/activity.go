package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ActivityRepo defines the persistence operations for Activities.
// Single-row reads and all writes are scoped by tripID to enforce ownership.
type ActivityRepo interface {
	// Create inserts a new activity and returns the persisted record.
	// Returns domain.ErrNotFound if the trip or creator does not exist.
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// GetByID retrieves a single activity scoped to tripID.
	// Returns domain.ErrNotFound if no activity with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error)

	// ListByTripIDs returns the activities of every trip in tripIDs ordered by
	// date, time (unscheduled last), then creation.
	ListByTripIDs(ctx context.Context, tripIDs []uuid.UUID) ([]domain.Activity, error)

	// Update overwrites the mutable fields of an activity scoped to a.TripID.
	// Returns domain.ErrNotFound if no activity with that ID exists under that trip.
	Update(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// Delete removes an activity and its votes.
	// Returns domain.ErrNotFound if no activity with that ID exists under that trip.
	Delete(ctx context.Context, tripID, activityID uuid.UUID) error
}

type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

const activityColumns = `id, trip_id, title, "date", to_char("time", 'HH24:MI:SS'), category,
		(estimated_cost * 100)::bigint, notes, created_by, created_at`

func (r *pgActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		INSERT INTO activities (trip_id, title, "date", "time", category, estimated_cost, notes, created_by)
		VALUES (@trip_id, @title, @date, @time::time, @category,
		        (@estimated_cost_cents::bigint)::numeric / 100, @notes, @created_by)
		RETURNING ` + activityColumns

	args := activityArgs(a)
	args["trip_id"] = a.TripID
	args["created_by"] = a.CreatedBy

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgActivityRepo) GetByID(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error) {
	const q = `SELECT ` + activityColumns + ` FROM activities WHERE id = @id AND trip_id = @trip_id`

	result, err := scanActivity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": activityID, "trip_id": tripID}))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgActivityRepo) ListByTripIDs(ctx context.Context, tripIDs []uuid.UUID) ([]domain.Activity, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE trip_id = ANY(@trip_ids::uuid[])
		ORDER BY "date", "time" NULLS LAST, created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_ids": uuidStrings(tripIDs)})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTripIDs: %w", err)
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ActivityRepo.ListByTripIDs: scan: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTripIDs: rows: %w", err)
	}
	return activities, nil
}

func (r *pgActivityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		UPDATE activities
		SET title          = @title,
		    "date"         = @date,
		    "time"         = @time::time,
		    category       = @category,
		    estimated_cost = (@estimated_cost_cents::bigint)::numeric / 100,
		    notes          = @notes
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + activityColumns

	args := activityArgs(a)
	args["id"] = a.ID
	args["trip_id"] = a.TripID

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgActivityRepo) Delete(ctx context.Context, tripID, activityID uuid.UUID) error {
	const q = `DELETE FROM activities WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": activityID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// activityArgs holds the mutable columns shared by Create and Update.
// Nil pointers become NULL.
func activityArgs(a domain.Activity) pgx.NamedArgs {
	var cost *int64
	if a.EstimatedCost != nil {
		c := int64(*a.EstimatedCost)
		cost = &c
	}
	return pgx.NamedArgs{
		"title":                a.Title,
		"date":                 a.Date,
		"time":                 a.Time,
		"category":             string(a.Category),
		"estimated_cost_cents": cost,
		"notes":                a.Notes,
	}
}

// scanActivity maps a row selected with activityColumns into a domain.Activity.
func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a         domain.Activity
		id        pgtype.UUID
		tripID    pgtype.UUID
		createdBy pgtype.UUID
		date      pgtype.Date
		category  string
		cost      *int64
	)
	err := s.Scan(&id, &tripID, &a.Title, &date, &a.Time, &category, &cost, &a.Notes, &createdBy, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.TripID = uuid.UUID(tripID.Bytes)
	a.CreatedBy = uuid.UUID(createdBy.Bytes)
	a.Date = date.Time
	a.Category = domain.Category(category)
	if cost != nil {
		m := domain.Money(*cost)
		a.EstimatedCost = &m
	}
	return a, nil
}
