package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate signals a unique-constraint violation. Callers rely on the
// database index as the atomic check-and-insert, so concurrent inserts of
// the same pair yield exactly one success and one ErrDuplicate.
var ErrDuplicate = errors.New("duplicate row")

const uniqueViolationCode = "23505"

func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicate
	}
	return err
}
