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

// VoteRepo defines the persistence operations for activity votes.
type VoteRepo interface {
	// Upsert records userID's vote on activityID, replacing any earlier vote
	// by the same user. voted_at is refreshed on every call.
	Upsert(ctx context.Context, activityID, userID uuid.UUID, vote bool) (domain.Vote, error)

	// GetByID retrieves a vote scoped to activityID.
	// Returns domain.ErrNotFound if no vote with that ID exists under that activity.
	GetByID(ctx context.Context, activityID, voteID uuid.UUID) (domain.Vote, error)

	// SetVote changes only the vote value of an existing vote; the user and
	// voted_at are left untouched.
	// Returns domain.ErrNotFound if no vote with that ID exists under that activity.
	SetVote(ctx context.Context, activityID, voteID uuid.UUID, vote bool) (domain.Vote, error)

	// ListByActivityIDs returns the votes on every activity in activityIDs,
	// ordered by voted_at ascending.
	ListByActivityIDs(ctx context.Context, activityIDs []uuid.UUID) ([]domain.Vote, error)
}

type pgVoteRepo struct {
	db db
}

// NewVoteRepo constructs a VoteRepo backed by the provided db connection.
func NewVoteRepo(db db) VoteRepo {
	return &pgVoteRepo{db: db}
}

const voteColumns = `id, activity_id, user_id, vote, voted_at`

func (r *pgVoteRepo) Upsert(ctx context.Context, activityID, userID uuid.UUID, vote bool) (domain.Vote, error) {
	const q = `
		INSERT INTO activity_votes (activity_id, user_id, vote)
		VALUES (@activity_id, @user_id, @vote)
		ON CONFLICT (activity_id, user_id) DO UPDATE
		SET vote = EXCLUDED.vote, voted_at = now()
		RETURNING ` + voteColumns

	args := pgx.NamedArgs{"activity_id": activityID, "user_id": userID, "vote": vote}
	v, err := scanVote(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Vote{}, fmt.Errorf("repo.VoteRepo.Upsert: %w", mapWriteError(err))
	}
	return v, nil
}

func (r *pgVoteRepo) GetByID(ctx context.Context, activityID, voteID uuid.UUID) (domain.Vote, error) {
	const q = `SELECT ` + voteColumns + ` FROM activity_votes WHERE id = @id AND activity_id = @activity_id`

	v, err := scanVote(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": voteID, "activity_id": activityID}))
	if err != nil {
		return domain.Vote{}, fmt.Errorf("repo.VoteRepo.GetByID: %w", err)
	}
	return v, nil
}

func (r *pgVoteRepo) SetVote(ctx context.Context, activityID, voteID uuid.UUID, vote bool) (domain.Vote, error) {
	const q = `
		UPDATE activity_votes
		SET vote = @vote
		WHERE id = @id AND activity_id = @activity_id
		RETURNING ` + voteColumns

	args := pgx.NamedArgs{"id": voteID, "activity_id": activityID, "vote": vote}
	v, err := scanVote(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Vote{}, fmt.Errorf("repo.VoteRepo.SetVote: %w", err)
	}
	return v, nil
}

func (r *pgVoteRepo) ListByActivityIDs(ctx context.Context, activityIDs []uuid.UUID) ([]domain.Vote, error) {
	const q = `
		SELECT ` + voteColumns + `
		FROM activity_votes
		WHERE activity_id = ANY(@activity_ids::uuid[])
		ORDER BY voted_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"activity_ids": uuidStrings(activityIDs)})
	if err != nil {
		return nil, fmt.Errorf("repo.VoteRepo.ListByActivityIDs: %w", err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VoteRepo.ListByActivityIDs: scan: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VoteRepo.ListByActivityIDs: rows: %w", err)
	}
	return votes, nil
}

func scanVote(s scanner) (domain.Vote, error) {
	var (
		v          domain.Vote
		id         pgtype.UUID
		activityID pgtype.UUID
		userID     pgtype.UUID
	)
	if err := s.Scan(&id, &activityID, &userID, &v.Vote, &v.VotedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vote{}, domain.ErrNotFound
		}
		return domain.Vote{}, err
	}
	v.ID = uuid.UUID(id.Bytes)
	v.ActivityID = uuid.UUID(activityID.Bytes)
	v.UserID = uuid.UUID(userID.Bytes)
	return v, nil
}
