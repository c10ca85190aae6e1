package utils

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsPGUniqueViolation reports whether error is a PostgreSQL unique
// constraint violation (code 23505). The unique index on lower(email) is the
// storage-layer backstop for the email uniqueness check, so two concurrent
// creates for the same address cannot both commit.
func IsPGUniqueViolation(err error) bool {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	return false
}
