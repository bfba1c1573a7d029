package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Shipping groups the collectors used by the rate resolver.
type Shipping struct {
	Resolutions        *prometheus.CounterVec
	AggregatorFaults   *prometheus.CounterVec
	AggregatorDuration prometheus.Histogram
}

// NewResolutionsTotal counts resolutions by the tier that produced the answer.
func NewResolutionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_resolutions_total",
		Help: "Total number of shipping rate resolutions by answering tier",
	}, []string{"source"})
}

// NewAggregatorFaultsTotal counts aggregator calls that triggered fallback.
func NewAggregatorFaultsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_aggregator_faults_total",
		Help: "Total number of carrier aggregator faults by reason",
	}, []string{"reason"})
}

func NewAggregatorDuration() prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shipping_aggregator_duration_seconds",
		Help:    "Duration of carrier aggregator quote calls",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})
}

// NewShipping builds the collectors without registering them. Useful in tests.
func NewShipping() *Shipping {
	return &Shipping{
		Resolutions:        NewResolutionsTotal(),
		AggregatorFaults:   NewAggregatorFaultsTotal(),
		AggregatorDuration: NewAggregatorDuration(),
	}
}

// RegisterShipping registers the shipping collectors on reg. Collectors that are already
// registered are reused so repeated wiring does not panic.
func RegisterShipping(reg prometheus.Registerer) (*Shipping, error) {
	m := NewShipping()

	resolutions, err := register(reg, m.Resolutions)
	if err != nil {
		return nil, err
	}
	faults, err := register(reg, m.AggregatorFaults)
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, m.AggregatorDuration)
	if err != nil {
		return nil, err
	}
	return &Shipping{
		Resolutions:        resolutions,
		AggregatorFaults:   faults,
		AggregatorDuration: duration,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}
