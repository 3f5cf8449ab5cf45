// Package expression compiles the user-supplied integrands f(t, B_t) and
// g(t, B_t).
//
// Expressions are compiled once with expr-lang and evaluated many times
// against the fixed bindings t, B_t, pi and e. The math functions sin, cos,
// tan, exp, log, sqrt and pow are available alongside the expr builtins
// (abs, min, max, floor, ceil, round) and the ** / ^ power operators.
package expression

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Binding names visible inside an expression.
const (
	VarTime     = "t"
	VarBrownian = "B_t"
	ConstPi     = "pi"
	ConstE      = "e"
)

var errEmpty = errors.New("empty expression")

// Expression is a compiled integrand. It holds no mutable state and may be
// shared across trajectories and steps.
type Expression struct {
	source  string
	program *vm.Program
}

// Compile parses src once. The result of every later Eval is a float64.
func Compile(src string) (*Expression, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errEmpty
	}

	opts := []expr.Option{
		expr.Env(scope(0, 0)),
		expr.AsFloat64(),
	}
	opts = append(opts, mathFuncs...)

	program, err := expr.Compile(src, opts...)
	if err != nil {
		return nil, err
	}
	return &Expression{source: src, program: program}, nil
}

// MustCompile is Compile for constant sources; it panics on error.
func MustCompile(src string) *Expression {
	e, err := Compile(src)
	if err != nil {
		panic(fmt.Sprintf("expression: Compile(%q): %v", src, err))
	}
	return e
}

// Eval evaluates the expression at (t, B_t). A finite result is not
// guaranteed; the caller decides what to do with NaN or Inf.
func (e *Expression) Eval(t, b float64) (float64, error) {
	out, err := expr.Run(e.program, scope(t, b))
	if err != nil {
		return math.NaN(), err
	}
	return toFloat(out)
}

func (e *Expression) String() string { return e.source }

func scope(t, b float64) map[string]any {
	return map[string]any{
		VarTime:     t,
		VarBrownian: b,
		ConstPi:     math.Pi,
		ConstE:      math.E,
	}
}

var mathFuncs = []expr.Option{
	unary("sin", math.Sin),
	unary("cos", math.Cos),
	unary("tan", math.Tan),
	unary("exp", math.Exp),
	unary("log", math.Log),
	unary("sqrt", math.Sqrt),
	expr.Function("pow", func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("pow: want 2 arguments, got %d", len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		y, err := toFloat(params[1])
		if err != nil {
			return nil, err
		}
		return math.Pow(x, y), nil
	}),
}

func unary(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s: want 1 argument, got %d", name, len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn(x), nil
	})
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	default:
		return math.NaN(), fmt.Errorf("not a number: %T", v)
	}
}

// Func adapts a Go function to the integrand contract.
type Func func(t, b float64) float64

func (f Func) Eval(t, b float64) (float64, error) { return f(t, b), nil }

func (f Func) String() string { return "<func>" }
