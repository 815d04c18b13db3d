package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasklist-api/internal/store"
)

const uniqueViolationCode = "23505"

// violation describes how one class of integrity error maps onto the store
// sentinels. The label names the constraint or column, never the values.
type violation struct {
	kind     string
	sentinel error
	label    func(*pgconn.PgError) string
}

func byConstraint(e *pgconn.PgError) string { return e.ConstraintName }
func byColumn(e *pgconn.PgError) string     { return e.ColumnName }

var violations = map[string]violation{
	uniqueViolationCode: {kind: "unique violation", sentinel: store.ErrDuplicate, label: byConstraint},
	"23503":             {kind: "foreign key violation", sentinel: store.ErrInvalidEntity, label: byConstraint},
	"23514":             {kind: "check constraint violation", sentinel: store.ErrInvalidEntity, label: byConstraint},
	"23502":             {kind: "not null violation", sentinel: store.ErrInvalidEntity, label: byColumn},
}

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// MapError translates driver errors into store sentinels. Integrity
// violations keep only the constraint or column name so the result can be
// logged and surfaced without leaking row data. Anything unrecognised is
// returned as is.
func MapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	}

	pgErr, ok := asPgError(err)
	if !ok {
		return err
	}
	v, known := violations[pgErr.Code]
	if !known {
		return err
	}
	return fmt.Errorf("%w: %s (%s)", v.sentinel, v.kind, v.label(pgErr))
}

// IsUniqueViolation reports whether err is a unique constraint failure.
func IsUniqueViolation(err error) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == uniqueViolationCode
}

// MapUniqueViolation returns exists for a unique constraint failure and
// defers to MapError otherwise.
func MapUniqueViolation(err error, exists error) error {
	if exists != nil && IsUniqueViolation(err) {
		return exists
	}
	return MapError(err)
}

// CheckRowsAffected returns notFound (store.ErrNotFound when nil) if an
// UPDATE or DELETE matched nothing.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return errors.New("rows affected: nil result")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	if notFound == nil {
		return store.ErrNotFound
	}
	return notFound
}

func mapNotFound(err error, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return MapError(err)
}
