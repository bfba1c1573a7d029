package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS shipping_rules (
    id            UUID PRIMARY KEY,
    name          TEXT NOT NULL,
    states        TEXT[] NOT NULL CHECK (cardinality(states) > 0),
    min_weight    DOUBLE PRECISION NOT NULL CHECK (min_weight >= 0),
    max_weight    DOUBLE PRECISION NOT NULL,
    price         NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
    delivery_days INTEGER NOT NULL CHECK (delivery_days >= 1),
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    CHECK (min_weight <= max_weight)
);
`

// Migrate creates the tables the service needs. It is safe to run on every start.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate shipping_rules: %w", err)
	}
	return nil
}
