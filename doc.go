// Package direg registers marked types with a dependency injection container.
//
// A type is marked by attaching one or more Marker values to it. Each marker
// names a lifetime and, optionally, an abstraction the type is registered as.
// A scan reads every declared type, and for each of its markers issues one
// registration against a Registrar, usually a *container.Container.
//
// # Declaring types
//
// Go cannot list the types of a running program, so marked types are
// declared in a Catalog, normally from init next to the type:
//
//	func init() {
//	    direg.Declare(&Logger{}, direg.Mark(direg.LifetimeSingleton))
//	    direg.Declare(&Handler{}, direg.As[RequestHandler](direg.LifetimeScoped))
//	    direg.Declare(&Widget{}, direg.Mark(direg.LifetimeTransient))
//	}
//
// A type can also carry its own markers by implementing Marked:
//
//	func (*Logger) RegistrationMarkers() []direg.Marker {
//	    return []direg.Marker{direg.Mark(direg.LifetimeSingleton)}
//	}
//
// # Lifetimes
//
// Singleton - one instance for the container:
//
//	direg.Mark(direg.LifetimeSingleton)
//
// Scoped - one instance per scope:
//
//	direg.As[RequestHandler](direg.LifetimeScoped)
//
// Transient - a new instance on every resolution:
//
//	direg.Mark(direg.LifetimeTransient)
//
// # Scanning
//
//	c := container.New()
//	if err := direg.RegisterMarkedClasses(c); err != nil {
//	    for _, e := range multierr.Errors(err) {
//	        log.Println(e)
//	    }
//	}
//
// A nil container fails the whole scan with ErrNilContainer. Any other
// problem, such as an unknown lifetime, an abstraction the type does not
// implement, or a registration the container refuses, is reported as a
// *ConfigurationError and the scan moves on to the next marker.
//
// # Observability
//
// Scanners log through zap and can count registrations with Prometheus:
//
//	s := direg.NewScanner(
//	    direg.WithLogger(logger),
//	    direg.WithMetrics(prometheus.DefaultRegisterer),
//	)
package direg
