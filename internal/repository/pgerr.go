package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repository translates into sentinel errors.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

func asPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	pe, ok := asPgError(err)
	return ok && pe.Code == uniqueViolationCode
}

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key violation.
func isForeignKeyViolation(err error) bool {
	pe, ok := asPgError(err)
	return ok && pe.Code == foreignKeyViolationCode
}
