package direg

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "direg"

type scanMetrics struct {
	registrations *prometheus.CounterVec
	failures      prometheus.Counter
}

func newScanMetrics(reg prometheus.Registerer) *scanMetrics {
	m := &scanMetrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "registrations_total",
			Help:      "Registrations issued to a container by marker scans, by lifetime.",
		}, []string{"lifetime"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "configuration_errors_total",
			Help:      "Markers or declarations rejected during marker scans.",
		}),
	}

	m.registrations = registerOrReuse(reg, m.registrations).(*prometheus.CounterVec)
	m.failures = registerOrReuse(reg, m.failures).(prometheus.Counter)
	return m
}

// registerOrReuse returns the collector already registered under the same
// descriptor, or c itself once registered.
func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
	}
	return c
}

func (m *scanMetrics) registered(l Lifetime) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(l.String()).Inc()
}

func (m *scanMetrics) failed() {
	if m == nil {
		return
	}
	m.failures.Inc()
}
