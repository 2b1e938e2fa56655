package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgDuplicateKeyCode = "23505"

// MapError translates driver errors to domain errors: sql.ErrNoRows becomes
// notFoundErr and unique violations (Postgres 23505 or SQLite UNIQUE
// constraint) become duplicateErr. Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	if isUniqueViolation(err) {
		return duplicateErr
	}

	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgDuplicateKeyCode
	}
	// the sqlite driver only exposes result codes through its message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
