package direg

import (
	"fmt"
	"reflect"
)

// Marker is the registration metadata attached to a type. It carries an
// optional abstraction the type is registered as and the lifetime it is
// registered with. Markers are values and cannot be changed once built.
type Marker struct {
	abstraction reflect.Type
	lifetime    Lifetime
}

// Mark returns a marker that registers the type under its own identity.
//
// Example:
//
//	direg.Declare(&Logger{}, direg.Mark(direg.LifetimeSingleton))
func Mark(lifetime Lifetime) Marker {
	return Marker{lifetime: lifetime}
}

// MarkAs returns a marker that registers the type as abstraction.
// The abstraction is given as a type token: (*Iface)(nil) for an interface,
// any other value for its own type. A nil token leaves the abstraction unset.
//
// Example:
//
//	direg.Declare(&Handler{}, direg.MarkAs((*RequestHandler)(nil), direg.LifetimeScoped))
func MarkAs(abstraction interface{}, lifetime Lifetime) Marker {
	return Marker{abstraction: typeOfToken(abstraction), lifetime: lifetime}
}

// As is the generic form of MarkAs.
//
//	direg.Declare(&Handler{}, direg.As[RequestHandler](direg.LifetimeScoped))
func As[I any](lifetime Lifetime) Marker {
	return Marker{abstraction: reflect.TypeOf((*I)(nil)).Elem(), lifetime: lifetime}
}

// Abstraction returns the type the marked type is registered as, or nil
// when it is registered under its own identity.
func (m Marker) Abstraction() reflect.Type {
	return m.abstraction
}

// HasAbstraction reports whether an abstraction was given.
func (m Marker) HasAbstraction() bool {
	return m.abstraction != nil
}

// Lifetime returns the lifetime the marked type is registered with.
func (m Marker) Lifetime() Lifetime {
	return m.lifetime
}

func (m Marker) String() string {
	if m.abstraction == nil {
		return fmt.Sprintf("marker %s", m.lifetime)
	}
	return fmt.Sprintf("marker %s as %v", m.lifetime, m.abstraction)
}

// Marked is implemented by types that carry their own markers. The scanner
// calls RegistrationMarkers on the zero value for value receivers and on a
// typed nil pointer for pointer receivers, so implementations must return
// constant data without touching the receiver.
//
//	func (*Logger) RegistrationMarkers() []direg.Marker {
//	    return []direg.Marker{direg.Mark(direg.LifetimeSingleton)}
//	}
type Marked interface {
	RegistrationMarkers() []Marker
}

// typeOfToken extracts the reflect.Type named by a type token.
func typeOfToken(token interface{}) reflect.Type {
	if token == nil {
		return nil
	}
	t := reflect.TypeOf(token)
	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
		return t.Elem()
	}
	return t
}
