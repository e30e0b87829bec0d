package direg

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNilContainer is wrapped by the ConfigurationError returned when a scan
// is started without a container.
var ErrNilContainer = errors.New("container must not be nil")

// ConfigurationError reports a marker or declaration that cannot be turned
// into a registration. Type and Marker identify the offender when known.
type ConfigurationError struct {
	Type   reflect.Type
	Marker *Marker
	Reason string
	Cause  error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")

	if e.Type != nil {
		fmt.Fprintf(&b, " for %v", e.Type)
	}
	if e.Marker != nil {
		fmt.Fprintf(&b, " (%v)", e.Marker)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause error.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
