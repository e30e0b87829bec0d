package direg

import (
	"fmt"
	"reflect"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Registrar is the container side of a scan. Each method registers concrete
// under key with one lifetime; what happens on a repeated key is up to the
// container.
type Registrar interface {
	RegisterSingleton(key, concrete reflect.Type) error
	RegisterScoped(key, concrete reflect.Type) error
	RegisterTransient(key, concrete reflect.Type) error
}

// Entry is a single registration derived from one marker.
type Entry struct {
	Key      reflect.Type
	Concrete reflect.Type
	Lifetime Lifetime
}

func (e Entry) String() string {
	return fmt.Sprintf("%v -> %v (%s)", e.Key, e.Concrete, e.Lifetime)
}

var markedType = reflect.TypeOf((*Marked)(nil)).Elem()

// Scanner turns the markers of a catalog into container registrations.
type Scanner struct {
	catalog *Catalog
	logger  *zap.Logger
	metrics *scanMetrics
}

// NewScanner creates a scanner over DefaultCatalog unless WithCatalog says
// otherwise.
func NewScanner(opts ...ScanOption) *Scanner {
	s := &Scanner{
		catalog: DefaultCatalog,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterMarkedClasses registers every marked type of DefaultCatalog with r.
func RegisterMarkedClasses(r Registrar) error {
	return NewScanner().RegisterMarkedClasses(r)
}

// RegisterMarkedClasses issues one registration against r for every marker
// found in a snapshot of the catalog.
//
// A nil r is rejected before any work is done. Every other problem is tied
// to a single declaration or marker: it is reported as a *ConfigurationError
// and the scan carries on with the next marker. All such errors are returned
// together; use multierr.Errors to split them.
func (s *Scanner) RegisterMarkedClasses(r Registrar) error {
	if isNilRegistrar(r) {
		return &ConfigurationError{Cause: ErrNilContainer}
	}

	var registered int
	err := s.walk(func(e Entry) error {
		if err := dispatch(r, e); err != nil {
			return err
		}
		registered++
		s.metrics.registered(e.Lifetime)
		s.logger.Debug("registered marked type",
			zap.Stringer("key", e.Key),
			zap.Stringer("concrete", e.Concrete),
			zap.Stringer("lifetime", e.Lifetime))
		return nil
	})

	failures := multierr.Errors(err)
	for _, f := range failures {
		s.metrics.failed()
		s.logger.Warn("marker skipped", zap.Error(f))
	}

	s.logger.Info("marker scan finished",
		zap.Int("registered", registered),
		zap.Int("failed", len(failures)))
	return err
}

// Entries returns the registrations a scan would issue, without touching any
// container. Declarations or markers that cannot be registered are reported
// the same way RegisterMarkedClasses reports them, but are neither logged
// nor counted.
func (s *Scanner) Entries() ([]Entry, error) {
	var entries []Entry
	err := s.walk(func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

// walk calls fn for every registrable marker and collects the errors.
func (s *Scanner) walk(fn func(Entry) error) error {
	var errs error
	for _, decl := range s.catalog.Snapshot() {
		markers, err := markersOf(decl)
		if err != nil {
			errs = multierr.Append(errs, err)
		}

		for i := range markers {
			m := markers[i]
			e, err := entryFor(decl.Type, m)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if err := fn(e); err != nil {
				errs = multierr.Append(errs, &ConfigurationError{
					Type:   decl.Type,
					Marker: &m,
					Reason: "container rejected registration",
					Cause:  err,
				})
			}
		}
	}
	return errs
}

// markersOf returns the declared markers of decl followed by the ones the
// type reports itself. Declared markers are returned even when the type's
// own markers cannot be read.
func markersOf(decl TypeDecl) ([]Marker, error) {
	if decl.Type == nil {
		return nil, &ConfigurationError{Reason: "declared type is nil"}
	}

	own, err := intrinsicMarkers(decl.Type)
	markers := make([]Marker, 0, len(decl.Markers)+len(own))
	markers = append(markers, decl.Markers...)
	markers = append(markers, own...)
	return markers, err
}

func intrinsicMarkers(t reflect.Type) (markers []Marker, err error) {
	// Value receivers run on the zero value, never through a nil pointer.
	source := reflect.Zero(t)
	switch {
	case t.Kind() == reflect.Ptr && t.Elem().Implements(markedType):
		source = reflect.Zero(t.Elem())
	case !t.Implements(markedType):
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			markers = nil
			err = &ConfigurationError{
				Type:   t,
				Reason: fmt.Sprintf("reading markers panicked: %v", r),
			}
		}
	}()

	return source.Interface().(Marked).RegistrationMarkers(), nil
}

func entryFor(concrete reflect.Type, m Marker) (Entry, error) {
	if !m.lifetime.IsValid() {
		return Entry{}, &ConfigurationError{
			Type:   concrete,
			Marker: &m,
			Reason: fmt.Sprintf("unknown lifetime %q", string(m.lifetime)),
		}
	}

	key := concrete
	if m.abstraction != nil {
		if !satisfies(concrete, m.abstraction) {
			return Entry{}, &ConfigurationError{
				Type:   concrete,
				Marker: &m,
				Reason: fmt.Sprintf("%v does not implement %v", concrete, m.abstraction),
			}
		}
		key = m.abstraction
	}

	return Entry{Key: key, Concrete: concrete, Lifetime: m.lifetime}, nil
}

// satisfies reports whether a value of concrete can stand in for
// abstraction. Interfaces must be implemented; other abstractions must be
// the concrete type itself or the struct a concrete pointer points to.
func satisfies(concrete, abstraction reflect.Type) bool {
	if concrete.AssignableTo(abstraction) {
		return true
	}
	return abstraction.Kind() != reflect.Interface &&
		concrete.Kind() == reflect.Ptr &&
		concrete.Elem() == abstraction
}

func dispatch(r Registrar, e Entry) error {
	switch e.Lifetime {
	case LifetimeSingleton:
		return r.RegisterSingleton(e.Key, e.Concrete)
	case LifetimeScoped:
		return r.RegisterScoped(e.Key, e.Concrete)
	case LifetimeTransient:
		return r.RegisterTransient(e.Key, e.Concrete)
	default:
		return fmt.Errorf("unknown lifetime %q", string(e.Lifetime))
	}
}

func isNilRegistrar(r Registrar) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
