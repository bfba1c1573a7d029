package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"motoparts-backend/internal/domain"
	"motoparts-backend/pkg/cache"
	"motoparts-backend/pkg/logger"

	"github.com/google/uuid"
)

const shippingRulesCacheKey = "shipping:rules"

// ShippingRuleUsecase is the admin rule store. It also serves the cached rule list
// the rate resolver reads during fallback.
type ShippingRuleUsecase struct {
	repo      domain.ShippingRuleRepository
	txManager domain.TransactionManager
	cache     cache.CacheService
	cacheTTL  time.Duration
	now       func() time.Time

	// generation is bumped by every write; a read that started before a write must not
	// repopulate the cache.
	mu         sync.Mutex
	generation uint64
}

func NewShippingRuleUsecase(repo domain.ShippingRuleRepository, txManager domain.TransactionManager, cache cache.CacheService, cacheTTL time.Duration) *ShippingRuleUsecase {
	return &ShippingRuleUsecase{
		repo:      repo,
		txManager: txManager,
		cache:     cache,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

// List returns every stored rule.
func (uc *ShippingRuleUsecase) List(ctx context.Context) ([]domain.ShippingRule, error) {
	rules, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shipping rules: %w", err)
	}
	return rules, nil
}

// ListRules is the read path used by the rate resolver. Results are cached until the next write.
func (uc *ShippingRuleUsecase) ListRules(ctx context.Context) ([]domain.ShippingRule, error) {
	if cached, ok := uc.cache.Get(shippingRulesCacheKey); ok {
		if rules, ok := cached.([]domain.ShippingRule); ok {
			return slices.Clone(rules), nil
		}
	}

	gen := uc.currentGeneration()
	rules, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shipping rules: %w", err)
	}

	uc.mu.Lock()
	if uc.generation == gen {
		uc.cache.Set(shippingRulesCacheKey, slices.Clone(rules), uc.cacheTTL)
	}
	uc.mu.Unlock()
	return rules, nil
}

func (uc *ShippingRuleUsecase) currentGeneration() uint64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.generation
}

func (uc *ShippingRuleUsecase) Get(ctx context.Context, id string) (*domain.ShippingRule, error) {
	if err := validateRuleID(id); err != nil {
		return nil, err
	}
	return uc.repo.GetByID(ctx, id)
}

// Create validates the input, assigns an id and persists the rule.
func (uc *ShippingRuleUsecase) Create(ctx context.Context, in domain.ShippingRuleInput) (*domain.ShippingRule, error) {
	rule, err := domain.NewShippingRule(in)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	rule.ID = uuid.NewString()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	created, err := uc.repo.Create(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("create shipping rule: %w", err)
	}
	uc.invalidate()

	logger.WithContext(ctx).Info().
		Str("rule_id", created.ID).
		Strs("states", created.States).
		Msg("shipping rule created")
	return created, nil
}

// Update merges the patch onto the stored rule under a row lock and re-validates the result.
func (uc *ShippingRuleUsecase) Update(ctx context.Context, id string, patch domain.ShippingRulePatch) (*domain.ShippingRule, error) {
	if err := validateRuleID(id); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, &domain.ValidationError{Reason: "patch has no fields"}
	}

	var updated *domain.ShippingRule
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := uc.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		merged, err := patch.Apply(*current)
		if err != nil {
			return err
		}
		merged.UpdatedAt = uc.now().UTC()
		updated, err = uc.repo.Update(txCtx, &merged)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate()

	logger.WithContext(ctx).Info().Str("rule_id", id).Msg("shipping rule updated")
	return updated, nil
}

// Delete removes a rule. A missing id is ErrRuleNotFound.
func (uc *ShippingRuleUsecase) Delete(ctx context.Context, id string) error {
	if err := validateRuleID(id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate()

	logger.WithContext(ctx).Info().Str("rule_id", id).Msg("shipping rule deleted")
	return nil
}

func (uc *ShippingRuleUsecase) invalidate() {
	uc.mu.Lock()
	uc.generation++
	uc.cache.Delete(shippingRulesCacheKey)
	uc.mu.Unlock()
}

// validateRuleID rejects ids that could never have been assigned, so they surface as not found
// rather than as a database cast error.
func validateRuleID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrRuleNotFound
	}
	return nil
}
