package domain

import (
	"cmp"
	"context"
	"math"
	"slices"
	"time"

	"motoparts-backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// OptionSource tags where a shipping option came from.
type OptionSource string

const (
	SourceAggregator   OptionSource = "aggregator"
	SourceFallbackRule OptionSource = "fallback-rule"
)

// PostalCodeLength is the digit count of a destination code after stripping separators.
const PostalCodeLength = 8

// ShippingOption is an ephemeral priced delivery choice shown at checkout.
type ShippingOption struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"deliveryDays"`
	Source       OptionSource    `json:"source"`
}

// SortOptions orders by price, then delivery days, then name. The sort is stable.
func SortOptions(opts []ShippingOption) {
	slices.SortStableFunc(opts, func(a, b ShippingOption) int {
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c
		}
		if c := cmp.Compare(a.DeliveryDays, b.DeliveryDays); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// ShippingSnapshot is the chosen option copied into an order. It never references a rule by key,
// so later rule edits do not change historical orders.
type ShippingSnapshot struct {
	OptionID     string          `json:"optionId"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"deliveryDays"`
	Source       OptionSource    `json:"source"`
	ChosenAt     time.Time       `json:"chosenAt"`
}

// Snapshot denormalises the option for storage on an order.
func (o ShippingOption) Snapshot(at time.Time) ShippingSnapshot {
	return ShippingSnapshot{
		OptionID:     o.ID,
		Name:         o.Name,
		Price:        o.Price,
		DeliveryDays: o.DeliveryDays,
		Source:       o.Source,
		ChosenAt:     at.UTC(),
	}
}

// NormalizePostalCode strips non-digits and requires exactly PostalCodeLength digits.
func NormalizePostalCode(field, raw string) (string, error) {
	digits := utils.DigitsOnly(raw)
	if len(digits) != PostalCodeLength {
		return "", invalid(field, "must contain exactly 8 digits")
	}
	return digits, nil
}

// ValidateWeight rejects non-positive and non-finite weights.
func ValidateWeight(weightKg float64) error {
	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) || weightKg <= 0 {
		return invalid("weightKg", "must be a positive number")
	}
	return nil
}

// PackageDimensions are the nominal box sizes sent to the aggregator, in centimetres.
type PackageDimensions struct {
	WidthCm  float64
	HeightCm float64
	LengthCm float64
}

// DefaultPackage is the fixed 20x20x20 cm box used for every quote.
var DefaultPackage = PackageDimensions{WidthCm: 20, HeightCm: 20, LengthCm: 20}

// QuoteRequest is what the resolver asks the carrier aggregator for.
type QuoteRequest struct {
	OriginPostalCode      string
	DestinationPostalCode string
	WeightKg              float64
	Package               PackageDimensions
	InsuranceValue        decimal.Decimal
	Quantity              int
	Services              []string
}

// CarrierQuote is a single priced service returned by the aggregator.
type CarrierQuote struct {
	ServiceID    string
	Service      string
	Company      string
	Price        decimal.Decimal
	DeliveryDays int
}

// CarrierAggregator fetches live carrier quotes. Any error means the tier is unavailable.
type CarrierAggregator interface {
	Quote(ctx context.Context, req QuoteRequest) ([]CarrierQuote, error)
}

// StateResolver maps a normalised postal code to its two-letter state code.
type StateResolver interface {
	StateOf(postalCode string) (string, bool)
}

// TokenProvider supplies the bearer credential for outbound aggregator calls.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider for a pre-resolved credential.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrAggregatorUnavailable
	}
	return string(t), nil
}
