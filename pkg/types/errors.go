package types

import (
	"errors"
	"fmt"
)

// Domain sentinel errors.
var (
	ErrEmptyDocument  = errors.New("document text cannot be empty")
	ErrNoStrategies   = errors.New("no strategies given")
	ErrRegistryFrozen = errors.New("registry is frozen")
)

// ConfigurationError reports an invalid chunking option. The offending
// option and value are carried so a failure can be diagnosed without
// re-running.
type ConfigurationError struct {
	Option string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v %s", e.Option, e.Value, e.Reason)
}

// UnknownStrategyError reports a strategy name that is not registered and
// for which no default fallback is configured.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown chunking strategy %q", e.Name)
}

// BenchmarkStrategyFailure wraps a failure of one strategy inside a
// multi-strategy benchmark.
type BenchmarkStrategyFailure struct {
	DocID    string
	Strategy string
	Cause    error
}

func (e *BenchmarkStrategyFailure) Error() string {
	return fmt.Sprintf("benchmark strategy %q failed for document %q: %v", e.Strategy, e.DocID, e.Cause)
}

func (e *BenchmarkStrategyFailure) Unwrap() error {
	return e.Cause
}
