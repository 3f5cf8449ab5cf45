package integrators

import (
	"math"

	"github.com/san-kum/itosim/internal/dynamo"
	"github.com/san-kum/itosim/internal/noise"
)

// Integrand is a compiled f or g evaluated at (t, B_t).
type Integrand interface {
	Eval(t, b float64) (float64, error)
	String() string
}

// EulerMaruyama advances a Brownian path and its stochastic integral by one
// step of the left-endpoint (Itô) scheme:
//
//	dW     = sqrt(dt) * Z,  Z ~ N(0, 1)
//	B_next = B + dW
//	I_next = I + f(t, B)*dW + g(t, B)*dt
//
// f and g always see the pre-step state.
type EulerMaruyama struct {
	normal noise.Normal
}

func NewEulerMaruyama(normal noise.Normal) *EulerMaruyama {
	return &EulerMaruyama{normal: normal}
}

// Step returns the next Brownian and integral values. A non-finite integrand
// value, or a next state that overflows, yields an *dynamo.EvaluationError
// with Step and Trajectory left for the caller to fill in.
func (e *EulerMaruyama) Step(t, b, i, dt float64, f, g Integrand) (float64, float64, error) {
	if !(dt > 0) {
		return b, i, &dynamo.ConfigError{Field: "dt", Value: dt, Reason: "must be positive"}
	}

	dW := math.Sqrt(dt) * e.normal.Sample()

	fv, err := eval("f", f, t, b)
	if err != nil {
		return b, i, err
	}
	gv, err := eval("g", g, t, b)
	if err != nil {
		return b, i, err
	}

	bNext := b + dW
	diffusion := i + fv*dW
	iNext := diffusion + gv*dt
	if !finite(bNext) || !finite(iNext) {
		name, fn := "g", g
		if !finite(bNext) || !finite(diffusion) {
			name, fn = "f", f
		}
		return b, i, &dynamo.EvaluationError{
			Integrand: name,
			Source:    fn.String(),
			Time:      t,
			B:         b,
			Value:     iNext,
		}
	}
	return bNext, iNext, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func eval(name string, fn Integrand, t, b float64) (float64, error) {
	v, err := fn.Eval(t, b)
	if err != nil || !finite(v) {
		return 0, &dynamo.EvaluationError{
			Integrand: name,
			Source:    fn.String(),
			Time:      t,
			B:         b,
			Value:     v,
			Err:       err,
		}
	}
	return v, nil
}
