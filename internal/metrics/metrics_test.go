package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterShipping_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := RegisterShipping(reg)
	require.NoError(t, err)

	m.Resolutions.WithLabelValues("aggregator").Inc()
	m.AggregatorFaults.WithLabelValues("timeout").Add(2)
	m.AggregatorDuration.Observe(0.3)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("aggregator")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.AggregatorFaults.WithLabelValues("timeout")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.ElementsMatch(t, []string{
		"shipping_resolutions_total",
		"shipping_aggregator_faults_total",
		"shipping_aggregator_duration_seconds",
	}, names)
}

func TestRegisterShipping_ReusesExistingCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := RegisterShipping(reg)
	require.NoError(t, err)
	second, err := RegisterShipping(reg)
	require.NoError(t, err)

	require.Same(t, first.Resolutions, second.Resolutions)
	require.Same(t, first.AggregatorFaults, second.AggregatorFaults)
	require.Same(t, first.AggregatorDuration, second.AggregatorDuration)
}

type errRegisterer struct{ err error }

func (e errRegisterer) Register(prometheus.Collector) error  { return e.err }
func (e errRegisterer) MustRegister(...prometheus.Collector) {}
func (e errRegisterer) Unregister(prometheus.Collector) bool { return false }

func TestRegisterShipping_PropagatesRegistrationError(t *testing.T) {
	boom := errors.New("boom")

	_, err := RegisterShipping(errRegisterer{err: boom})
	require.ErrorIs(t, err, boom)
}
