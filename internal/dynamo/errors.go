package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfig indicates a simulation parameter outside its valid range.
	ErrConfig = errors.New("dynamo: invalid configuration")

	// ErrCompile indicates an integrand expression that does not parse.
	ErrCompile = errors.New("dynamo: integrand failed to compile")

	// ErrEvaluation indicates an integrand that failed or returned NaN/Inf.
	ErrEvaluation = errors.New("dynamo: integrand evaluation failed")

	// ErrIndex indicates a trajectory index outside the store.
	ErrIndex = errors.New("dynamo: trajectory index out of range")

	// ErrInvalidTransition indicates a driver call the current state rejects.
	ErrInvalidTransition = errors.New("dynamo: invalid state transition")
)

// ConfigError reports a single rejected configuration field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s = %v: %s", ErrConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// CompileError wraps a parser failure for integrand f or g.
type CompileError struct {
	Integrand string
	Source    string
	Err       error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v: %s = %q: %v", ErrCompile, e.Integrand, e.Source, e.Err)
}

func (e *CompileError) Unwrap() []error {
	return []error{ErrCompile, e.Err}
}

// EvaluationError carries enough context to find the failing step.
// Err is nil when the expression ran but produced a non-finite Value.
type EvaluationError struct {
	Integrand  string
	Source     string
	Step       int
	Trajectory int
	Time       float64
	B          float64
	Value      float64
	Err        error
}

func (e *EvaluationError) Error() string {
	where := fmt.Sprintf("%s = %q at step %d, trajectory %d (t=%.4f, B_t=%.4f)",
		e.Integrand, e.Source, e.Step, e.Trajectory, e.Time, e.B)
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", ErrEvaluation, where, e.Err)
	}
	return fmt.Sprintf("%v: %s: non-finite result %v", ErrEvaluation, where, e.Value)
}

func (e *EvaluationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEvaluation}
	}
	return []error{ErrEvaluation, e.Err}
}

// IndexError is internal; a correct driver never surfaces it.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: %d not in [0, %d)", ErrIndex, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndex
}
