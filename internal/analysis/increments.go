package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/itosim/internal/expression"
	"github.com/san-kum/itosim/internal/integrators"
)

var (
	unit = expression.Func(func(t, b float64) float64 { return 1 })
	zero = expression.Func(func(t, b float64) float64 { return 0 })
)

// IncrementStats are the sample moments of draws Brownian increments.
type IncrementStats struct {
	Draws    int
	Dt       float64
	Mean     float64
	Variance float64
}

// CheckIncrements runs draws single steps of the stepper from B = 0 and
// returns the sample mean and variance of B_next - B_prev, which should be
// close to 0 and dt.
func CheckIncrements(stepper *integrators.EulerMaruyama, dt float64, draws int) (IncrementStats, error) {
	dws := make([]float64, draws)
	for i := range dws {
		b, _, err := stepper.Step(0, 0, 0, dt, unit, zero)
		if err != nil {
			return IncrementStats{}, err
		}
		dws[i] = b
	}
	mean, variance := stat.MeanVariance(dws, nil)
	return IncrementStats{Draws: draws, Dt: dt, Mean: mean, Variance: variance}, nil
}
