// Package dynamo defines the error taxonomy shared by the itosim simulation
// packages.
//
// Every failure the simulation core can report wraps one of the sentinels
// below, so callers can branch with [errors.Is] and recover details with
// [errors.As]:
//
//   - [ErrConfig]: invalid or missing numeric parameters ([ConfigError])
//   - [ErrCompile]: an integrand expression failed to parse ([CompileError])
//   - [ErrEvaluation]: an integrand produced a non-finite value or failed at
//     a given (t, B_t) ([EvaluationError])
//   - [ErrIndex]: a trajectory index was out of range ([IndexError])
//   - [ErrInvalidTransition]: a driver operation was requested in a state
//     that does not allow it
//
// None of these are transient. A failing expression is a configuration
// problem and is never retried.
package dynamo
