// Package metrics summarizes the terminal values of a simulation run.
package metrics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ErrNoSamples is returned when there is nothing to summarize.
var ErrNoSamples = errors.New("metrics: no terminal values")

// Summary holds the population statistics of the terminal integral values.
// Step and Time record where the run was when it was finalized, which is
// before the end of the grid if the run was stopped.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Count  int     `json:"count"`
	Step   int     `json:"step"`
	Time   float64 `json:"time"`
}

// Finalize computes the population mean and standard deviation
// (divisor m, not m-1) of values.
func Finalize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrNoSamples
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return Summary{Mean: mean, StdDev: std, Count: len(values)}, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("Mean final value: %.4f, Standard Deviation: %.4f", s.Mean, s.StdDev)
}
