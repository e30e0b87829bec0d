// Package container is a dependency injection container with singleton,
// scoped and transient lifetimes. It is the registration target of
// direg.RegisterMarkedClasses, and it can also be used on its own:
//
//	c := container.New()
//	c.Singleton((*Logger)(nil), &ConsoleLogger{})
//	logger := c.Make((*Logger)(nil)).(Logger)
package container

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	direg "github.com/toutaio/toutago-direg"
	"github.com/toutaio/toutago-direg/registry"
)

// Initializable represents a service that requires initialization.
// Initialize is called once, after the instance is created and auto-wired.
type Initializable interface {
	Initialize() error
}

// Disposable represents a service that requires cleanup.
// Scoped instances implementing it are disposed with their scope.
type Disposable interface {
	Dispose() error
}

// Container is the main dependency injection container.
// It manages bindings and resolves dependencies in a thread-safe manner.
type Container struct {
	registry        *registry.Registry
	singletonCache  *singletonCache
	reflectionCache *reflectionCache
	policy          CollisionPolicy
	logger          *zap.Logger
}

var _ direg.Registrar = (*Container)(nil)

// resolver is implemented by the container and by scopes; auto-wiring
// resolves dependencies through whichever one created the instance.
type resolver interface {
	resolve(key reflect.Type, path []reflect.Type) (interface{}, error)
}

// New creates a new Container instance.
// Options can be provided to configure the container behavior.
//
// Example:
//
//	c := container.New()
//	// or with options:
//	c := container.New(container.WithCollisionPolicy(container.CollisionReject))
func New(options ...Option) *Container {
	c := &Container{
		registry:        registry.New(),
		singletonCache:  newSingletonCache(),
		reflectionCache: newReflectionCache(),
		policy:          CollisionMultiBind,
		logger:          zap.NewNop(),
	}

	for _, opt := range options {
		if err := opt(c); err != nil {
			panic(fmt.Sprintf("failed to apply option: %v", err))
		}
	}

	return c
}

// RegisterSingleton registers concrete under key with a singleton lifetime.
func (c *Container) RegisterSingleton(key, concrete reflect.Type) error {
	return c.bind(key, concrete, direg.LifetimeSingleton)
}

// RegisterScoped registers concrete under key with a scoped lifetime.
func (c *Container) RegisterScoped(key, concrete reflect.Type) error {
	return c.bind(key, concrete, direg.LifetimeScoped)
}

// RegisterTransient registers concrete under key with a transient lifetime.
func (c *Container) RegisterTransient(key, concrete reflect.Type) error {
	return c.bind(key, concrete, direg.LifetimeTransient)
}

// Singleton registers a singleton binding.
// The instance is created lazily on first resolution and reused for all subsequent resolutions.
//
// Example:
//
//	c.Singleton((*Database)(nil), &PostgresDB{})
//	db1 := c.Make((*Database)(nil)).(Database)
//	db2 := c.Make((*Database)(nil)).(Database)
//	// db1 == db2 (same instance)
func (c *Container) Singleton(abstractType, concreteType interface{}) error {
	return c.bindTokens(abstractType, concreteType, direg.LifetimeSingleton)
}

// Scoped registers a scoped binding.
// One instance is created per scope. Scoped bindings must be resolved from a Scope.
//
// Example:
//
//	c.Scoped((*UnitOfWork)(nil), &DbUnitOfWork{})
//	scope := c.CreateScope()
//	uow := scope.Make((*UnitOfWork)(nil)).(UnitOfWork)
func (c *Container) Scoped(abstractType, concreteType interface{}) error {
	return c.bindTokens(abstractType, concreteType, direg.LifetimeScoped)
}

// Transient registers a transient binding. Every resolution creates a new instance.
//
// Example:
//
//	c.Transient((*Logger)(nil), &ConsoleLogger{})
func (c *Container) Transient(abstractType, concreteType interface{}) error {
	return c.bindTokens(abstractType, concreteType, direg.LifetimeTransient)
}

func (c *Container) bindTokens(abstractType, concreteType interface{}, lifetime direg.Lifetime) error {
	if abstractType == nil {
		return &InvalidBindingError{Reason: "abstract type cannot be nil"}
	}
	if concreteType == nil {
		return &InvalidBindingError{Reason: "concrete type cannot be nil"}
	}
	return c.bind(tokenKey(abstractType), reflect.TypeOf(concreteType), lifetime)
}

func (c *Container) bind(abstractT, concreteT reflect.Type, lifetime direg.Lifetime) error {
	if abstractT == nil {
		return &InvalidBindingError{Reason: "abstract type cannot be nil"}
	}
	if concreteT == nil {
		return &InvalidBindingError{Reason: "concrete type cannot be nil"}
	}
	if concreteT.Kind() != reflect.Ptr || concreteT.Elem().Kind() != reflect.Struct {
		return &InvalidBindingError{
			Reason: fmt.Sprintf("concrete type must be pointer to struct, got %v", concreteT),
		}
	}
	if !lifetime.IsValid() {
		return &InvalidBindingError{Reason: fmt.Sprintf("unknown lifetime %q", string(lifetime))}
	}

	key := keyOf(abstractT)
	if !concreteT.AssignableTo(key) && concreteT.Elem() != key {
		return &InvalidBindingError{
			Reason: fmt.Sprintf("concrete type %v cannot be used as %v", concreteT, key),
		}
	}

	binding := &registry.Binding{
		AbstractType: key,
		ConcreteType: concreteT,
		Lifetime:     string(lifetime),
	}

	var err error
	if c.policy == CollisionReject {
		err = c.registry.Register(binding)
	} else {
		err = c.registry.Append(binding)
	}
	if err != nil {
		return err
	}

	c.logger.Debug("binding registered",
		zap.Stringer("key", key),
		zap.Stringer("concrete", concreteT),
		zap.Stringer("lifetime", lifetime))
	return nil
}

// Make resolves and returns an instance of the registered type.
// The abstractType should be a type token like (*Logger)(nil).
// Make panics when resolution fails; use MakeSafe to get an error instead.
//
// Example:
//
//	logger := c.Make((*Logger)(nil)).(Logger)
func (c *Container) Make(abstractType interface{}) interface{} {
	instance, err := c.MakeSafe(abstractType)
	if err != nil {
		panic(err.Error())
	}
	return instance
}

// MakeSafe resolves an instance of the registered type and reports failures
// as errors. Scoped bindings cannot be resolved from the container itself.
func (c *Container) MakeSafe(abstractType interface{}) (interface{}, error) {
	if abstractType == nil {
		return nil, &ResolutionError{Context: "cannot resolve nil type"}
	}
	return c.resolve(tokenKey(abstractType), nil)
}

// MakeAll resolves every binding registered for the type, oldest first.
//
// Example:
//
//	for _, h := range c.MakeAll((*Handler)(nil)) {
//	    h.(Handler).Handle()
//	}
func (c *Container) MakeAll(abstractType interface{}) []interface{} {
	if abstractType == nil {
		panic("cannot resolve nil type")
	}

	bindings := c.registry.GetAll(tokenKey(abstractType))
	instances := make([]interface{}, 0, len(bindings))
	for _, binding := range bindings {
		instance, err := c.resolveBinding(binding, nil)
		if err != nil {
			panic(err.Error())
		}
		instances = append(instances, instance)
	}
	return instances
}

// Has reports whether the type has at least one binding.
func (c *Container) Has(abstractType interface{}) bool {
	if abstractType == nil {
		return false
	}
	return c.registry.Has(tokenKey(abstractType))
}

// Bindings returns copies of the bindings registered for the type, oldest first.
func (c *Container) Bindings(abstractType interface{}) []registry.Binding {
	if abstractType == nil {
		return nil
	}
	list := c.registry.GetAll(tokenKey(abstractType))
	out := make([]registry.Binding, len(list))
	for i, b := range list {
		out[i] = *b
	}
	return out
}

// Len returns the number of bindings in the container.
func (c *Container) Len() int {
	return c.registry.Len()
}

// CreateScope creates a new dependency resolution scope.
// Scoped bindings create one instance per scope.
//
// Example:
//
//	scope := c.CreateScope()
//	defer scope.Dispose()
//	uow := scope.Make((*UnitOfWork)(nil)).(UnitOfWork)
func (c *Container) CreateScope() *Scope {
	return newScope(c)
}

func (c *Container) resolve(key reflect.Type, path []reflect.Type) (interface{}, error) {
	binding, err := c.registry.Get(key)
	if err != nil {
		return nil, &ResolutionError{Type: key, Cause: err}
	}
	return c.resolveBinding(binding, path)
}

func (c *Container) resolveBinding(binding *registry.Binding, path []reflect.Type) (interface{}, error) {
	key := binding.AbstractType
	if inPath(path, key) {
		return nil, &ResolutionError{Type: key, Cause: newCircularDependencyError(path, key)}
	}
	path = append(path, key)

	switch direg.Lifetime(binding.Lifetime) {
	case direg.LifetimeTransient:
		return c.build(binding, c, path)

	case direg.LifetimeSingleton:
		return c.singletonCache.getOrCreate(binding, func() (interface{}, error) {
			// Singletons only see the root container, never a scope.
			return c.build(binding, c, path)
		})

	case direg.LifetimeScoped:
		return nil, &ResolutionError{
			Type:    key,
			Context: "scoped binding must be resolved from a scope",
		}

	default:
		return nil, &ResolutionError{
			Type:    key,
			Context: fmt.Sprintf("unknown lifetime %q", binding.Lifetime),
		}
	}
}

// build creates, auto-wires and initializes a new instance of the binding's
// concrete type. Dependencies are resolved through r.
func (c *Container) build(binding *registry.Binding, r resolver, path []reflect.Type) (interface{}, error) {
	instance := reflect.New(binding.ConcreteType.Elem()).Interface()

	if err := c.autoWire(instance, r, path); err != nil {
		return nil, &ResolutionError{Type: binding.AbstractType, Context: "auto-wiring", Cause: err}
	}

	if initializable, ok := instance.(Initializable); ok {
		if err := initializable.Initialize(); err != nil {
			return nil, &ResolutionError{Type: binding.AbstractType, Context: "initialize", Cause: err}
		}
	}

	return instance, nil
}

// Resolver is satisfied by *Container and *Scope.
type Resolver interface {
	MakeSafe(abstractType interface{}) (interface{}, error)
}

// Resolve is a generic helper around MakeSafe:
//
//	logger, err := container.Resolve[Logger](c)
//	widget, err := container.Resolve[*Widget](scope)
func Resolve[T any](r Resolver) (T, error) {
	var zero T

	instance, err := r.MakeSafe((*T)(nil))
	if err != nil {
		return zero, err
	}

	out, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("cannot convert %T to %v", instance, reflect.TypeOf((*T)(nil)).Elem())
	}
	return out, nil
}

// tokenKey extracts the registration key named by a type token such as
// (*Logger)(nil), (*Widget)(nil) or &Widget{}.
func tokenKey(token interface{}) reflect.Type {
	t := reflect.TypeOf(token)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return keyOf(t)
}

// keyOf maps a pointer-to-struct type to its struct so that *Widget and
// Widget address the same registration.
func keyOf(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct {
		return t.Elem()
	}
	return t
}

func inPath(path []reflect.Type, t reflect.Type) bool {
	for _, p := range path {
		if p == t {
			return true
		}
	}
	return false
}
