package function

import (
	"errors"
	"fmt"

	"github.com/chazu/pcgrid/pkg/matrix"
)

var (
	// ErrConfiguration is matched by every *ConfigError: a required slot is
	// unbound, a slot name is unknown, or parameter values are unusable.
	ErrConfiguration = errors.New("function: configuration error")

	// ErrRangeViolation is returned when a cell generator produces a value
	// outside the node's declared range. Values are never clamped.
	ErrRangeViolation = matrix.ErrRangeViolation

	// ErrUnsupportedOutput is matched by every *TypeError: a value was
	// requested or supplied as a type it is not.
	ErrUnsupportedOutput = errors.New("function: unsupported output type")

	// ErrCycle is returned by Bind when the binding would make the graph cyclic.
	ErrCycle = errors.New("function: binding would create a cycle")
)

// ConfigError reports a node that cannot be evaluated as configured.
type ConfigError struct {
	Kind   string
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: parameter %q: %s", e.Kind, e.Param, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// Configf builds a *ConfigError with a formatted reason.
func Configf(kind, param, format string, args ...any) error {
	return &ConfigError{Kind: kind, Param: param, Reason: fmt.Sprintf(format, args...)}
}

// TypeError reports a value whose type does not match what was asked for.
type TypeError struct {
	Kind  string // node kind, empty for free-standing conversions
	Param string
	Want  Type
	Got   string
}

func (e *TypeError) Error() string {
	switch {
	case e.Kind == "":
		return fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
	case e.Param == "":
		return fmt.Sprintf("%s: expected %s, got %s", e.Kind, e.Want, e.Got)
	default:
		return fmt.Sprintf("%s: parameter %q: expected %s, got %s", e.Kind, e.Param, e.Want, e.Got)
	}
}

func (e *TypeError) Is(target error) bool {
	return target == ErrUnsupportedOutput
}

func describe(v any) string {
	if t, ok := TypeOf(v); ok {
		return t.String()
	}
	return fmt.Sprintf("%T", v)
}
