package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownComponent means a component ID's domain prefix or type
	// code is absent from the static registry tables.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrInvalidCoupling means a dependency edge does not match any
	// recognized cross-domain coupling pattern.
	ErrInvalidCoupling = errors.New("invalid coupling")

	// ErrZeroBaseDemand means a resilience metric would divide by a zero
	// base demand. This is reported explicitly instead of producing NaN.
	ErrZeroBaseDemand = errors.New("zero base demand")

	// ErrSolverNonConvergence is returned by a domain solver that failed
	// to converge. The optimizer catches it at the trial boundary.
	ErrSolverNonConvergence = errors.New("solver failed to converge")

	// ErrUnboundComponent means a component in the repair order has no
	// node binding in the knowledge base.
	ErrUnboundComponent = errors.New("component not bound to a network node")
)

// ConfigurationError reports a missing or malformed scenario, dependency,
// or configuration file. It is fatal: the simulation cannot proceed.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %q: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
