package shared

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("masterdata: not found")
	ErrDuplicate = errors.New("masterdata: duplicate code")
)

// MapDuplicate converts a Postgres unique violation into ErrDuplicate so
// handlers can answer 409 instead of a generic failure. Other errors pass
// through untouched.
func MapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
