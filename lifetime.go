package direg

import (
	"fmt"
	"strings"
)

// Lifetime represents the lifecycle strategy a marked type is registered with.
// The set of lifetimes is closed: only the three constants below are valid.
type Lifetime string

const (
	// LifetimeSingleton creates a single instance that is reused for all
	// resolutions for as long as the container lives.
	LifetimeSingleton Lifetime = "singleton"

	// LifetimeScoped creates one instance per scope, for example one per
	// inbound request.
	LifetimeScoped Lifetime = "scoped"

	// LifetimeTransient creates a new instance on every resolution.
	LifetimeTransient Lifetime = "transient"
)

var lifetimes = [...]Lifetime{LifetimeSingleton, LifetimeScoped, LifetimeTransient}

// Lifetimes returns every valid lifetime in declaration order.
func Lifetimes() []Lifetime {
	out := make([]Lifetime, len(lifetimes))
	copy(out, lifetimes[:])
	return out
}

// String returns the string representation of the lifetime.
func (l Lifetime) String() string {
	return string(l)
}

// IsValid reports whether l is one of the known lifetimes.
func (l Lifetime) IsValid() bool {
	for _, known := range lifetimes {
		if l == known {
			return true
		}
	}
	return false
}

// ParseLifetime converts a case-insensitive name into a Lifetime.
func ParseLifetime(s string) (Lifetime, error) {
	l := Lifetime(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", &ConfigurationError{Reason: fmt.Sprintf("unknown lifetime %q", s)}
	}
	return l, nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Lifetime) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown lifetime %q", string(l))}
	}
	return []byte(l), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects values
// outside the known set.
func (l *Lifetime) UnmarshalText(text []byte) error {
	parsed, err := ParseLifetime(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
