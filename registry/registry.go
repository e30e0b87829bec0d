// Package registry provides thread-safe storage and retrieval of dependency bindings.
package registry

import (
	"fmt"
	"reflect"
	"sync"
)

// Binding represents a mapping between a registration key and its concrete implementation.
type Binding struct {
	// AbstractType is the key the binding is resolved by (e.g., Logger interface)
	AbstractType reflect.Type

	// ConcreteType is the implementation type (e.g., *ConsoleLogger)
	ConcreteType reflect.Type

	// Lifetime defines how instances are managed
	// Values: "singleton", "scoped", "transient"
	Lifetime string
}

// Registry provides thread-safe storage for bindings.
// Every key maps to the bindings registered for it, oldest first.
type Registry struct {
	mu       sync.RWMutex
	bindings map[reflect.Type][]*Binding
	count    int
}

// New creates a new Registry instance.
func New() *Registry {
	return &Registry{
		bindings: make(map[reflect.Type][]*Binding),
	}
}

// Register stores a binding in the registry.
// Returns an error if a binding for the same type already exists.
//
// This method is goroutine-safe.
func (r *Registry) Register(binding *Binding) error {
	if err := validate(binding); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.bindings[binding.AbstractType]) > 0 {
		return &BindingAlreadyExistsError{Type: binding.AbstractType}
	}

	r.add(binding)
	return nil
}

// Append stores a binding next to any bindings already registered for the
// same type. The newest binding is the one Get returns.
//
// This method is goroutine-safe.
func (r *Registry) Append(binding *Binding) error {
	if err := validate(binding); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.add(binding)
	return nil
}

func (r *Registry) add(binding *Binding) {
	r.bindings[binding.AbstractType] = append(r.bindings[binding.AbstractType], binding)
	r.count++
}

func validate(binding *Binding) error {
	if binding == nil {
		return fmt.Errorf("binding cannot be nil")
	}
	if binding.AbstractType == nil {
		return fmt.Errorf("binding must have an abstract type")
	}
	return nil
}

// Get retrieves the most recently registered binding for a type.
// Returns nil binding and error if not found.
//
// This method is goroutine-safe.
func (r *Registry) Get(abstractType reflect.Type) (*Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.bindings[abstractType]
	if len(list) == 0 {
		return nil, &BindingNotFoundError{Type: abstractType}
	}

	return list[len(list)-1], nil
}

// GetAll returns all bindings for a given type in registration order.
// Returns empty slice if no bindings found.
//
// This method is goroutine-safe.
func (r *Registry) GetAll(abstractType reflect.Type) []*Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.bindings[abstractType]
	result := make([]*Binding, len(list))
	copy(result, list)
	return result
}

// Has checks if a binding exists for the given type.
//
// This method is goroutine-safe.
func (r *Registry) Has(abstractType reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.bindings[abstractType]) > 0
}

// Types returns all types that have bindings. Order is unspecified.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]reflect.Type, 0, len(r.bindings))
	for t := range r.bindings {
		types = append(types, t)
	}
	return types
}

// Len returns the total number of bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// BindingAlreadyExistsError is returned when attempting to register a duplicate binding.
type BindingAlreadyExistsError struct {
	Type reflect.Type
}

func (e *BindingAlreadyExistsError) Error() string {
	return fmt.Sprintf("binding already exists for type %v", e.Type)
}

// BindingNotFoundError is returned when a requested binding does not exist.
type BindingNotFoundError struct {
	Type reflect.Type
}

func (e *BindingNotFoundError) Error() string {
	return fmt.Sprintf("binding not found for type %v", e.Type)
}
