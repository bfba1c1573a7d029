package postgres

import (
	"context"
	"fmt"

	"motoparts-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ruleColumns = `id::text, name, states, min_weight, max_weight, price::text, delivery_days, created_at, updated_at`

type shippingRuleRepository struct {
	db *pgxpool.Pool
}

func NewShippingRuleRepository(db *pgxpool.Pool) domain.ShippingRuleRepository {
	return &shippingRuleRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRule(row scanner) (domain.ShippingRule, error) {
	var (
		r     domain.ShippingRule
		price string
	)
	if err := row.Scan(&r.ID, &r.Name, &r.States, &r.MinWeight, &r.MaxWeight, &price, &r.DeliveryDays, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return domain.ShippingRule{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return domain.ShippingRule{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	r.Price = p
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r, nil
}

func (r *shippingRuleRepository) List(ctx context.Context) ([]domain.ShippingRule, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT `+ruleColumns+` FROM shipping_rules ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	rules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ShippingRule, error) {
		return scanRule(row)
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *shippingRuleRepository) GetByID(ctx context.Context, id string) (*domain.ShippingRule, error) {
	return r.get(ctx, `SELECT `+ruleColumns+` FROM shipping_rules WHERE id = $1::uuid`, id)
}

// GetForUpdate locks the row until the surrounding transaction ends.
func (r *shippingRuleRepository) GetForUpdate(ctx context.Context, id string) (*domain.ShippingRule, error) {
	return r.get(ctx, `SELECT `+ruleColumns+` FROM shipping_rules WHERE id = $1::uuid FOR UPDATE`, id)
}

func (r *shippingRuleRepository) get(ctx context.Context, query, id string) (*domain.ShippingRule, error) {
	rule, err := scanRule(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &rule, nil
}

func (r *shippingRuleRepository) Create(ctx context.Context, rule *domain.ShippingRule) (*domain.ShippingRule, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO shipping_rules (id, name, states, min_weight, max_weight, price, delivery_days, created_at, updated_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6::numeric, $7, $8, $9)
		RETURNING `+ruleColumns,
		rule.ID, rule.Name, rule.States, rule.MinWeight, rule.MaxWeight,
		rule.Price.String(), rule.DeliveryDays, rule.CreatedAt, rule.UpdatedAt,
	)
	created, err := scanRule(row)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *shippingRuleRepository) Update(ctx context.Context, rule *domain.ShippingRule) (*domain.ShippingRule, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `
		UPDATE shipping_rules
		SET name = $2, states = $3, min_weight = $4, max_weight = $5,
		    price = $6::numeric, delivery_days = $7, updated_at = $8
		WHERE id = $1::uuid
		RETURNING `+ruleColumns,
		rule.ID, rule.Name, rule.States, rule.MinWeight, rule.MaxWeight,
		rule.Price.String(), rule.DeliveryDays, rule.UpdatedAt,
	)
	updated, err := scanRule(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &updated, nil
}

func (r *shippingRuleRepository) Delete(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM shipping_rules WHERE id = $1::uuid`, id)
	if err != nil {
		return mapNotFound(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}
