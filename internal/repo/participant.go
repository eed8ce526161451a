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

// ParticipantRepo defines the persistence operations for trip participants.
// Every read joins the users table so Username and Email are populated.
type ParticipantRepo interface {
	// Add enrols userID in tripID and returns the participant row.
	// Idempotent: if the user is already enrolled the existing row is returned
	// with its original joined_at.
	// Returns domain.ErrNotFound if the trip or the user does not exist.
	Add(ctx context.Context, tripID, userID uuid.UUID) (domain.Participant, error)

	// ListByTripIDs returns the participants of every trip in tripIDs,
	// ordered by trip then joined_at ascending.
	ListByTripIDs(ctx context.Context, tripIDs []uuid.UUID) ([]domain.Participant, error)

	// Exists reports whether userID participates in tripID.
	Exists(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

// pgParticipantRepo is the Postgres implementation of ParticipantRepo.
type pgParticipantRepo struct {
	db db
}

// NewParticipantRepo constructs a ParticipantRepo backed by the provided db connection.
func NewParticipantRepo(db db) ParticipantRepo {
	return &pgParticipantRepo{db: db}
}

func (r *pgParticipantRepo) Add(ctx context.Context, tripID, userID uuid.UUID) (domain.Participant, error) {
	p, err := addParticipant(ctx, r.db, tripID, userID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.Add: %w", mapWriteError(err))
	}
	return p, nil
}

// addParticipant is shared with TripRepo.Create, which enrols the creator
// inside its own transaction.
// The DO UPDATE SET no-op makes RETURNING fire on conflict too, so an
// existing enrolment comes back unchanged instead of as zero rows.
func addParticipant(ctx context.Context, q db, tripID, userID uuid.UUID) (domain.Participant, error) {
	const sql = `
		WITH p AS (
			INSERT INTO trip_participants (trip_id, user_id)
			VALUES (@trip_id, @user_id)
			ON CONFLICT (trip_id, user_id) DO UPDATE SET trip_id = EXCLUDED.trip_id
			RETURNING id, trip_id, user_id, joined_at
		)
		SELECT p.id, p.trip_id, p.user_id, u.username, u.email, p.joined_at
		FROM p
		JOIN users u ON u.id = p.user_id`

	return scanParticipant(q.QueryRow(ctx, sql, pgx.NamedArgs{"trip_id": tripID, "user_id": userID}))
}

func (r *pgParticipantRepo) ListByTripIDs(ctx context.Context, tripIDs []uuid.UUID) ([]domain.Participant, error) {
	const q = `
		SELECT tp.id, tp.trip_id, tp.user_id, u.username, u.email, tp.joined_at
		FROM trip_participants tp
		JOIN users u ON u.id = tp.user_id
		WHERE tp.trip_id = ANY(@trip_ids::uuid[])
		ORDER BY tp.trip_id, tp.joined_at, tp.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_ids": uuidStrings(tripIDs)})
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripIDs: %w", err)
	}
	defer rows.Close()

	participants := []domain.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripIDs: scan: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripIDs: rows: %w", err)
	}
	return participants, nil
}

func (r *pgParticipantRepo) Exists(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM trip_participants WHERE trip_id = @trip_id AND user_id = @user_id
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.ParticipantRepo.Exists: %w", err)
	}
	return exists, nil
}

func scanParticipant(s scanner) (domain.Participant, error) {
	var (
		p      domain.Participant
		id     pgtype.UUID
		tripID pgtype.UUID
		userID pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &userID, &p.Username, &p.Email, &p.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Participant{}, domain.ErrNotFound
		}
		return domain.Participant{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	p.UserID = uuid.UUID(userID.Bytes)
	return p, nil
}
