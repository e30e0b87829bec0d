package container

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/multierr"

	direg "github.com/toutaio/toutago-direg"
	"github.com/toutaio/toutago-direg/registry"
)

// Scope represents an isolated dependency resolution context.
// Scoped bindings create one instance per scope, allowing for request-scoped
// or transaction-scoped dependencies.
//
// Example:
//
//	scope := c.CreateScope()
//	defer scope.Dispose()
//
//	// Scoped instances are unique to this scope
//	uow := scope.Make((*UnitOfWork)(nil)).(UnitOfWork)
type Scope struct {
	parent        *Container
	instances     map[*registry.Binding]*scopedInstance
	creationOrder []interface{} // Track order for reverse disposal
	children      []*Scope
	disposed      bool
	mu            sync.Mutex
}

// scopedInstance is built at most once per scope, even under concurrent
// resolution. A failed build is forgotten so a later call can retry.
type scopedInstance struct {
	once  sync.Once
	value interface{}
	err   error
}

// newScope creates a new scope with the given parent container.
func newScope(parent *Container) *Scope {
	return &Scope{
		parent:    parent,
		instances: make(map[*registry.Binding]*scopedInstance),
	}
}

// Make resolves an instance within this scope and panics on failure.
// Scoped bindings are cached in the scope, singletons come from the
// container, and transients are created fresh.
//
// Example:
//
//	service := scope.Make((*Service)(nil)).(Service)
func (s *Scope) Make(abstractType interface{}) interface{} {
	instance, err := s.MakeSafe(abstractType)
	if err != nil {
		panic(err.Error())
	}
	return instance
}

// MakeSafe resolves an instance within this scope and reports failures as errors.
func (s *Scope) MakeSafe(abstractType interface{}) (interface{}, error) {
	if abstractType == nil {
		return nil, &ResolutionError{Context: "cannot resolve nil type"}
	}
	return s.resolve(tokenKey(abstractType), nil)
}

func (s *Scope) resolve(key reflect.Type, path []reflect.Type) (interface{}, error) {
	s.mu.Lock()
	disposed := s.disposed
	s.mu.Unlock()
	if disposed {
		return nil, &ResolutionError{Type: key, Context: "scope is disposed"}
	}

	binding, err := s.parent.registry.Get(key)
	if err != nil {
		return nil, &ResolutionError{Type: key, Cause: err}
	}

	switch direg.Lifetime(binding.Lifetime) {
	case direg.LifetimeScoped:
		return s.scoped(binding, path)

	case direg.LifetimeTransient:
		if inPath(path, key) {
			return nil, &ResolutionError{Type: key, Cause: newCircularDependencyError(path, key)}
		}
		// Transients built in a scope may depend on scoped services.
		return s.parent.build(binding, s, append(path, key))

	default:
		return s.parent.resolveBinding(binding, path)
	}
}

func (s *Scope) scoped(binding *registry.Binding, path []reflect.Type) (interface{}, error) {
	key := binding.AbstractType
	if inPath(path, key) {
		return nil, &ResolutionError{Type: key, Cause: newCircularDependencyError(path, key)}
	}

	s.mu.Lock()
	entry, exists := s.instances[binding]
	if !exists {
		entry = &scopedInstance{}
		s.instances[binding] = entry
	}
	s.mu.Unlock()

	// Built outside the lock: auto-wiring may resolve other scoped services.
	entry.once.Do(func() {
		entry.value, entry.err = s.parent.build(binding, s, append(path, key))

		s.mu.Lock()
		defer s.mu.Unlock()
		if entry.err != nil {
			if s.instances[binding] == entry {
				delete(s.instances, binding)
			}
			return
		}
		if s.disposed {
			// The scope went away while the instance was being built.
			if disposable, ok := entry.value.(Disposable); ok {
				_ = disposable.Dispose()
			}
			entry.value, entry.err = nil, &ResolutionError{Type: key, Context: "scope is disposed"}
			return
		}
		s.creationOrder = append(s.creationOrder, entry.value)
	})

	return entry.value, entry.err
}

// CreateChildScope creates a child scope that shares the container's
// registrations but keeps its own scoped instances.
// Child scopes are disposed when the parent is disposed.
func (s *Scope) CreateChildScope() *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		panic("cannot create child scope from disposed scope")
	}

	child := newScope(s.parent)
	s.children = append(s.children, child)
	return child
}

// Dispose releases resources held by this scope.
// Child scopes are disposed first, then every scoped instance implementing
// Disposable, in reverse creation order. Calling Dispose again is a no-op.
func (s *Scope) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil
	}

	var errs error

	for _, child := range s.children {
		if err := child.Dispose(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("child scope disposal error: %w", err))
		}
	}
	s.children = nil

	for i := len(s.creationOrder) - 1; i >= 0; i-- {
		instance := s.creationOrder[i]
		if disposable, ok := instance.(Disposable); ok {
			if err := disposable.Dispose(); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("disposal error for %T: %w", instance, err))
			}
		}
	}

	s.instances = make(map[*registry.Binding]*scopedInstance)
	s.creationOrder = nil
	s.disposed = true

	return errs
}
