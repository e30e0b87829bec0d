package direg

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ScanOption configures a Scanner.
type ScanOption func(*Scanner)

// WithCatalog makes the scanner read declarations from catalog instead of
// DefaultCatalog.
func WithCatalog(catalog *Catalog) ScanOption {
	return func(s *Scanner) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithLogger sets the logger used to report registrations and
// configuration errors. The default logger discards everything.
func WithLogger(logger *zap.Logger) ScanOption {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics registers scan counters with reg. Registering against the same
// registerer more than once reuses the counters already there.
func WithMetrics(reg prometheus.Registerer) ScanOption {
	return func(s *Scanner) {
		if reg != nil {
			s.metrics = newScanMetrics(reg)
		}
	}
}
