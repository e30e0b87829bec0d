package container

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/toutaio/toutago-direg/registry"
)

// BindingNotFoundError is returned when a requested binding does not exist.
type BindingNotFoundError = registry.BindingNotFoundError

// BindingAlreadyExistsError is returned by the CollisionReject policy when a
// key is registered twice.
type BindingAlreadyExistsError = registry.BindingAlreadyExistsError

// InvalidBindingError is returned when a binding has invalid parameters.
type InvalidBindingError struct {
	Reason string
}

func (e *InvalidBindingError) Error() string {
	return fmt.Sprintf("invalid binding: %s", e.Reason)
}

// ResolutionError is returned when instance resolution fails.
type ResolutionError struct {
	Type    reflect.Type
	Cause   error
	Context string
}

func (e *ResolutionError) Error() string {
	typeStr := "unknown"
	if e.Type != nil {
		typeStr = e.Type.String()
	}

	contextStr := ""
	if e.Context != "" {
		contextStr = fmt.Sprintf(": %s", e.Context)
	}

	causeStr := ""
	if e.Cause != nil {
		causeStr = fmt.Sprintf(": %v", e.Cause)
	}

	return fmt.Sprintf("failed to resolve %s%s%s", typeStr, contextStr, causeStr)
}

// Unwrap returns the underlying cause error.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// CircularDependencyError indicates a circular dependency was detected.
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return "circular dependency detected"
	}
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}

func newCircularDependencyError(path []reflect.Type, next reflect.Type) *CircularDependencyError {
	names := make([]string, 0, len(path)+1)
	for _, t := range path {
		names = append(names, t.String())
	}
	names = append(names, next.String())
	return &CircularDependencyError{Path: names}
}
