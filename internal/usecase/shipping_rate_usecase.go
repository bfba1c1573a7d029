package usecase

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"motoparts-backend/internal/domain"
	"motoparts-backend/internal/metrics"
	"motoparts-backend/pkg/logger"

	"github.com/shopspring/decimal"
)

const defaultAggregatorTimeout = 10 * time.Second

// ShippingRateConfig holds the fixed parameters of every aggregator quote.
type ShippingRateConfig struct {
	OriginPostalCode string
	Timeout          time.Duration
	Services         []string
	InsuranceValue   decimal.Decimal
}

// ShippingRateUsecase resolves shipping options: live carrier quotes first, merchant rules second.
type ShippingRateUsecase struct {
	aggregator domain.CarrierAggregator
	rules      domain.ShippingRuleLister
	states     domain.StateResolver
	metrics    *metrics.Shipping
	cfg        ShippingRateConfig
}

func NewShippingRateUsecase(
	aggregator domain.CarrierAggregator,
	rules domain.ShippingRuleLister,
	states domain.StateResolver,
	m *metrics.Shipping,
	cfg ShippingRateConfig,
) *ShippingRateUsecase {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultAggregatorTimeout
	}
	if m == nil {
		m = metrics.NewShipping()
	}
	return &ShippingRateUsecase{
		aggregator: aggregator,
		rules:      rules,
		states:     states,
		metrics:    m,
		cfg:        cfg,
	}
}

// quoteOutcome is the result of the aggregator tier. A nil Fault with no quotes means
// the aggregator answered but had nothing for the route.
type quoteOutcome struct {
	Quotes []domain.CarrierQuote
	Fault  error
}

func (o quoteOutcome) usable() bool {
	return o.Fault == nil && len(o.Quotes) > 0
}

// Resolve returns the shipping options for a destination and weight, cheapest first.
// An empty origin uses the configured warehouse code. An empty result is a valid answer.
func (uc *ShippingRateUsecase) Resolve(ctx context.Context, destination, origin string, weightKg float64) ([]domain.ShippingOption, error) {
	dest, err := domain.NormalizePostalCode("destinationPostalCode", destination)
	if err != nil {
		return nil, err
	}
	if origin == "" {
		origin = uc.cfg.OriginPostalCode
	}
	orig, err := domain.NormalizePostalCode("originPostalCode", origin)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateWeight(weightKg); err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx)

	outcome := uc.quote(ctx, domain.QuoteRequest{
		OriginPostalCode:      orig,
		DestinationPostalCode: dest,
		WeightKg:              weightKg,
		Package:               domain.DefaultPackage,
		InsuranceValue:        uc.cfg.InsuranceValue,
		Quantity:              1,
		Services:              uc.cfg.Services,
	})

	switch {
	case outcome.usable():
		opts := quoteOptions(outcome.Quotes)
		uc.metrics.Resolutions.WithLabelValues(string(domain.SourceAggregator)).Inc()
		log.Debug().Str("source", string(domain.SourceAggregator)).Int("options", len(opts)).Msg("shipping resolved")
		return opts, nil
	case outcome.Fault != nil:
		reason := faultReason(outcome.Fault)
		uc.metrics.AggregatorFaults.WithLabelValues(reason).Inc()
		log.Warn().Err(outcome.Fault).Str("reason", reason).Msg("carrier aggregator unavailable, using fallback rules")
	default:
		uc.metrics.AggregatorFaults.WithLabelValues("empty").Inc()
		log.Debug().Msg("carrier aggregator returned no quotes, using fallback rules")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts, err := uc.fallback(ctx, dest, weightKg)
	if err != nil {
		return nil, err
	}
	uc.metrics.Resolutions.WithLabelValues(string(domain.SourceFallbackRule)).Inc()
	log.Debug().Str("source", string(domain.SourceFallbackRule)).Int("options", len(opts)).Msg("shipping resolved")
	return opts, nil
}

// EstimateForCart derives the shipment weight from the cart lines and resolves against it.
func (uc *ShippingRateUsecase) EstimateForCart(ctx context.Context, destination string, lines []domain.CartLine) (float64, []domain.ShippingOption, error) {
	weight, err := domain.CartWeight(lines)
	if err != nil {
		return 0, nil, err
	}
	opts, err := uc.Resolve(ctx, destination, "", weight)
	if err != nil {
		return 0, nil, err
	}
	return weight, opts, nil
}

func (uc *ShippingRateUsecase) quote(ctx context.Context, req domain.QuoteRequest) quoteOutcome {
	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.Timeout)
	defer cancel()

	start := time.Now()
	quotes, err := uc.aggregator.Quote(callCtx, req)
	uc.metrics.AggregatorDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return quoteOutcome{Fault: err}
	}
	return quoteOutcome{Quotes: quotes}
}

func (uc *ShippingRateUsecase) fallback(ctx context.Context, dest string, weightKg float64) ([]domain.ShippingOption, error) {
	rules, err := uc.rules.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRuleStoreUnavailable, err)
	}

	state, ok := uc.states.StateOf(dest)
	if !ok {
		return []domain.ShippingOption{}, nil
	}

	opts := make([]domain.ShippingOption, 0)
	for i := range rules {
		if rules[i].AppliesTo(state, weightKg) {
			opts = append(opts, rules[i].Option())
		}
	}
	domain.SortOptions(opts)
	return opts, nil
}

func quoteOptions(quotes []domain.CarrierQuote) []domain.ShippingOption {
	opts := make([]domain.ShippingOption, 0, len(quotes))
	for _, q := range quotes {
		opts = append(opts, domain.ShippingOption{
			ID:           "aggregator:" + q.ServiceID,
			Name:         quoteName(q),
			Price:        q.Price,
			DeliveryDays: q.DeliveryDays,
			Source:       domain.SourceAggregator,
		})
	}
	domain.SortOptions(opts)
	return opts
}

func quoteName(q domain.CarrierQuote) string {
	switch {
	case q.Company == "":
		return q.Service
	case q.Service == "":
		return q.Company
	default:
		return q.Company + " " + q.Service
	}
}

func faultReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "error"
}
