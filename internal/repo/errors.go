package repo

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Postgres SQLSTATE codes the repos translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Constraint names the services react to.
const (
	TripCodeConstraint        = "trips_trip_code_key"
	TripCreatorConstraint     = "trips_created_by_fkey"
	ParticipantUserConstraint = "trip_participants_user_id_fkey"
)

// ConstraintError is a write rejected by a named database constraint.
// It unwraps to domain.ErrConflict for unique violations and to
// domain.ErrNotFound for foreign key violations.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string { return e.Err.Error() + ": " + e.Constraint }

func (e *ConstraintError) Unwrap() error { return e.Err }

// mapWriteError converts constraint violations raised by an INSERT or UPDATE
// into a *ConstraintError so callers can tell which rule fired.
// Errors that are not *pgconn.PgError pass through unchanged.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return &ConstraintError{Constraint: pgErr.ConstraintName, Err: domain.ErrConflict}
	case pgForeignKeyViolation:
		return &ConstraintError{Constraint: pgErr.ConstraintName, Err: domain.ErrNotFound}
	}
	return err
}

// ViolatesConstraint reports whether err was raised by the named constraint.
func ViolatesConstraint(err error, name string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Constraint == name
}

// uuidStrings renders ids for an `= ANY(@ids::uuid[])` parameter.
// Strings are used rather than uuid.UUID so the array encodes as text[]
// regardless of how pgx resolves the element type.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
