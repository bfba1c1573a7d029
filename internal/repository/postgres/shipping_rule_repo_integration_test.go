//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"motoparts-backend/internal/domain"
	"motoparts-backend/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newRule(name string, states []string, minW, maxW float64, price string, days int) *domain.ShippingRule {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.ShippingRule{
		ID:           uuid.NewString(),
		Name:         name,
		States:       states,
		MinWeight:    minW,
		MaxWeight:    maxW,
		Price:        decimal.RequireFromString(price),
		DeliveryDays: days,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestShippingRuleRepository_CRUD(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := postgres.NewShippingRuleRepository(tcPool)

	in := newRule("Southeast Economy", []string{"SP", "RJ"}, 0, 5, "15.00", 7)
	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	require.Equal(t, in.ID, created.ID)
	require.Equal(t, []string{"SP", "RJ"}, created.States)
	require.Equal(t, "15.00", created.Price.StringFixed(2))
	require.True(t, in.CreatedAt.Equal(created.CreatedAt))

	got, err := repo.GetByID(ctx, in.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	got.Price = decimal.RequireFromString("19.9")
	got.DeliveryDays = 5
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	require.Equal(t, "19.90", updated.Price.StringFixed(2))
	require.Equal(t, 5, updated.DeliveryDays)

	require.NoError(t, repo.Delete(ctx, in.ID))
	_, err = repo.GetByID(ctx, in.ID)
	require.ErrorIs(t, err, domain.ErrRuleNotFound)
	require.ErrorIs(t, repo.Delete(ctx, in.ID), domain.ErrRuleNotFound)
}

func TestShippingRuleRepository_ListOrderedByName(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := postgres.NewShippingRuleRepository(tcPool)

	for _, r := range []*domain.ShippingRule{
		newRule("South", []string{"RS"}, 0, 10, "22.00", 6),
		newRule("North", []string{"AM"}, 0, 10, "40.00", 12),
		newRule("Central", []string{"DF", "GO"}, 0, 10, "18.50", 5),
	} {
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}

	rules, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	require.Equal(t, []string{"Central", "North", "South"}, []string{rules[0].Name, rules[1].Name, rules[2].Name})
}

func TestShippingRuleRepository_NotFoundCases(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := postgres.NewShippingRuleRepository(tcPool)

	_, err := repo.GetByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, domain.ErrRuleNotFound)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrRuleNotFound)

	_, err = repo.Update(ctx, newRule("Ghost", []string{"SP"}, 0, 1, "1.00", 1))
	require.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestShippingRuleRepository_CheckConstraints(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := postgres.NewShippingRuleRepository(tcPool)

	_, err := repo.Create(ctx, newRule("Inverted", []string{"SP"}, 5, 0, "1.00", 1))
	require.Error(t, err)
	require.False(t, errors.Is(err, domain.ErrRuleNotFound))
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := postgres.NewShippingRuleRepository(tcPool)
	tm := postgres.NewTransactionManager(tcPool)

	r := newRule("Rollback", []string{"SP"}, 0, 1, "1.00", 1)
	boom := errors.New("boom")
	err := tm.Do(ctx, func(txCtx context.Context) error {
		if _, err := repo.Create(txCtx, r); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, r.ID)
	require.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestTransactionManager_GetForUpdateAndUpdateCommit(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := postgres.NewShippingRuleRepository(tcPool)
	tm := postgres.NewTransactionManager(tcPool)

	r := newRule("Locked", []string{"MG"}, 0, 3, "9.00", 4)
	_, err := repo.Create(ctx, r)
	require.NoError(t, err)

	err = tm.Do(ctx, func(txCtx context.Context) error {
		current, err := repo.GetForUpdate(txCtx, r.ID)
		if err != nil {
			return err
		}
		current.Name = "Locked Express"
		_, err = repo.Update(txCtx, current)
		return err
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, "Locked Express", got.Name)
}
