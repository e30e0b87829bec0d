package direg

import (
	"reflect"
	"sync"
)

// TypeDecl is one declared type together with the markers attached to it
// at declaration time.
type TypeDecl struct {
	Type    reflect.Type
	Markers []Marker
}

// Catalog is the table of types known to the process. Go has no runtime
// listing of loaded types, so types are declared explicitly, usually from an
// init function next to the type itself:
//
//	func init() {
//	    direg.Declare(&Logger{}, direg.Mark(direg.LifetimeSingleton))
//	}
//
// A Catalog is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	decls []TypeDecl
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// DefaultCatalog is the process-wide catalog used by the package-level
// Declare and RegisterMarkedClasses functions.
var DefaultCatalog = NewCatalog()

// Declare records the dynamic type of concrete, normally a pointer to a
// struct such as &Widget{}, with the given markers attached. A type may be
// declared without markers; it is then known but never registered.
// Nothing is validated here; problems are reported when the catalog is
// scanned.
func (c *Catalog) Declare(concrete interface{}, markers ...Marker) {
	var t reflect.Type
	if concrete != nil {
		t = reflect.TypeOf(concrete)
	}
	c.add(t, markers)
}

func (c *Catalog) add(t reflect.Type, markers []Marker) {
	attached := make([]Marker, len(markers))
	copy(attached, markers)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.decls = append(c.decls, TypeDecl{Type: t, Markers: attached})
}

// Snapshot returns the declarations made so far, in declaration order.
// Later declarations do not show up in a snapshot already taken.
func (c *Catalog) Snapshot() []TypeDecl {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]TypeDecl, len(c.decls))
	copy(out, c.decls)
	return out
}

// Len returns the number of declarations.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.decls)
}

// Reset removes every declaration.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decls = nil
}

// Declare records concrete in DefaultCatalog.
func Declare(concrete interface{}, markers ...Marker) {
	DefaultCatalog.Declare(concrete, markers...)
}

// DeclareType records *T in DefaultCatalog.
//
//	direg.DeclareType[Widget](direg.Mark(direg.LifetimeTransient))
func DeclareType[T any](markers ...Marker) {
	DefaultCatalog.add(reflect.TypeOf((*T)(nil)), markers)
}
