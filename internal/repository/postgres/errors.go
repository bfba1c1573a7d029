package postgres

import (
	"errors"

	"motoparts-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgInvalidTextRepresentation = "22P02"

// mapNotFound turns "no row" and malformed-uuid lookups into domain.ErrRuleNotFound.
func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrRuleNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation {
		return domain.ErrRuleNotFound
	}
	return err
}
