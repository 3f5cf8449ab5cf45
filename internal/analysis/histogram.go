package analysis

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrBins      = errors.New("analysis: bin count must be at least 1")
	ErrNonFinite = errors.New("analysis: values must be finite with a finite range")
)

// Bucket is one histogram bar covering [Lo, Hi).
// The last bucket also includes Hi.
type Bucket struct {
	Lo, Hi float64
	Count  int
}

// Bin sorts a copy of values into bins equal-width buckets spanning
// [min, max]. When every value is equal the range is widened to
// [v-0.5, v+0.5] so the buckets have non-zero width. NaN, ±Inf or a range
// too wide to represent yield ErrNonFinite.
func Bin(values []float64, bins int) ([]Bucket, error) {
	if bins < 1 {
		return nil, ErrBins
	}
	if len(values) == 0 {
		return nil, nil
	}

	if floats.HasNaN(values) {
		return nil, ErrNonFinite
	}

	x := make([]float64, len(values))
	copy(x, values)
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsInf(hi-lo, 0) {
		return nil, ErrNonFinite
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram excludes the upper bound; nudge it so max lands in
	// the last bucket.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)

	out := make([]Bucket, bins)
	for i := range out {
		out[i] = Bucket{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	out[bins-1].Hi = hi
	return out, nil
}

// MaxCount returns the tallest bucket's count.
func MaxCount(buckets []Bucket) int {
	m := 0
	for _, b := range buckets {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}
