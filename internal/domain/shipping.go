package domain

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ShippingRule is a merchant-controlled price for a set of states and a weight bracket.
// Brackets are inclusive on both ends; overlapping rules are allowed and all of them match.
type ShippingRule struct {
	ID           string          `json:"id"`
	Name         string          `json:"name" validate:"required,max=120"`
	States       []string        `json:"states" validate:"required,min=1,dive,len=2,alpha"`
	MinWeight    float64         `json:"minWeight" validate:"gte=0"`
	MaxWeight    float64         `json:"maxWeight" validate:"gtefield=MinWeight"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	DeliveryDays int             `json:"deliveryDays" validate:"gte=1"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ShippingRuleInput is the admin payload for creating a rule.
type ShippingRuleInput struct {
	Name         string          `json:"name"`
	States       []string        `json:"states"`
	MinWeight    float64         `json:"minWeight"`
	MaxWeight    float64         `json:"maxWeight"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"deliveryDays"`
}

// NewShippingRule normalises and validates an input. The id is left empty for the store to assign.
func NewShippingRule(in ShippingRuleInput) (*ShippingRule, error) {
	rule := &ShippingRule{
		Name:         in.Name,
		States:       in.States,
		MinWeight:    in.MinWeight,
		MaxWeight:    in.MaxWeight,
		Price:        in.Price,
		DeliveryDays: in.DeliveryDays,
	}
	rule.normalize()
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *ShippingRule) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.States = normalizeStates(r.States)
}

// MaxRulePrice is the exclusive upper bound of a rule price; prices carry at most two decimals.
var MaxRulePrice = decimal.New(1, 10)

// Validate checks the record-level invariants of a rule.
func (r *ShippingRule) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if !r.Price.Equal(r.Price.Round(2)) {
		return invalid("price", "must have at most 2 decimal places")
	}
	if r.Price.GreaterThanOrEqual(MaxRulePrice) {
		return invalid("price", "must be less than 10000000000")
	}
	return nil
}

// AppliesTo reports whether the rule covers the state and the weight falls in its bracket.
func (r *ShippingRule) AppliesTo(state string, weightKg float64) bool {
	if weightKg < r.MinWeight || weightKg > r.MaxWeight {
		return false
	}
	return slices.Contains(r.States, state)
}

// Option converts a matching rule into a fallback shipping option.
func (r *ShippingRule) Option() ShippingOption {
	return ShippingOption{
		ID:           "rule:" + r.ID,
		Name:         r.Name,
		Price:        r.Price,
		DeliveryDays: r.DeliveryDays,
		Source:       SourceFallbackRule,
	}
}

func normalizeStates(states []string) []string {
	if states == nil {
		return nil
	}
	out := make([]string, 0, len(states))
	for _, s := range states {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ShippingRulePatch holds the fields an admin update may change. Nil means unchanged.
type ShippingRulePatch struct {
	Name         *string          `json:"name"`
	States       []string         `json:"states"`
	MinWeight    *float64         `json:"minWeight"`
	MaxWeight    *float64         `json:"maxWeight"`
	Price        *decimal.Decimal `json:"price"`
	DeliveryDays *int             `json:"deliveryDays"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ShippingRulePatch) IsEmpty() bool {
	return p.Name == nil && p.States == nil && p.MinWeight == nil &&
		p.MaxWeight == nil && p.Price == nil && p.DeliveryDays == nil
}

// Apply merges the patch onto a copy of rule and re-validates the result.
func (p ShippingRulePatch) Apply(rule ShippingRule) (ShippingRule, error) {
	if p.IsEmpty() {
		return rule, invalid("", "patch has no fields")
	}
	merged := rule
	merged.States = slices.Clone(rule.States)
	if p.Name != nil {
		merged.Name = *p.Name
	}
	if p.States != nil {
		merged.States = slices.Clone(p.States)
	}
	if p.MinWeight != nil {
		merged.MinWeight = *p.MinWeight
	}
	if p.MaxWeight != nil {
		merged.MaxWeight = *p.MaxWeight
	}
	if p.Price != nil {
		merged.Price = *p.Price
	}
	if p.DeliveryDays != nil {
		merged.DeliveryDays = *p.DeliveryDays
	}
	merged.normalize()
	if err := merged.Validate(); err != nil {
		return rule, err
	}
	return merged, nil
}

// ShippingRuleRepository persists rules. Implementations return ErrRuleNotFound for missing ids.
type ShippingRuleRepository interface {
	List(ctx context.Context) ([]ShippingRule, error)
	GetByID(ctx context.Context, id string) (*ShippingRule, error)
	GetForUpdate(ctx context.Context, id string) (*ShippingRule, error)
	Create(ctx context.Context, rule *ShippingRule) (*ShippingRule, error)
	Update(ctx context.Context, rule *ShippingRule) (*ShippingRule, error)
	Delete(ctx context.Context, id string) error
}

// ShippingRuleLister is the read-only view the rate resolver needs.
type ShippingRuleLister interface {
	ListRules(ctx context.Context) ([]ShippingRule, error)
}

// TransactionManager runs fn inside a single database transaction.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
