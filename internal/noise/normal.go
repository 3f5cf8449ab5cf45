// Package noise draws the standard normal variates that drive the Brownian
// increments.
package noise

import (
	"math"

	"golang.org/x/exp/rand"
)

// Source yields uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// Normal yields draws from N(0, 1).
type Normal interface {
	Sample() float64
}

// BoxMuller turns pairs of uniforms into standard normals. Only the cosine
// branch is used, so every Sample consumes two fresh uniforms and no state
// is carried between calls.
//
// A BoxMuller is not safe for concurrent use.
type BoxMuller struct {
	src Source
}

// NewBoxMuller returns a generator over a PCG source seeded with seed.
func NewBoxMuller(seed uint64) *BoxMuller {
	return &BoxMuller{src: rand.New(rand.NewSource(seed))}
}

// NewBoxMullerSource returns a generator reading uniforms from src.
func NewBoxMullerSource(src Source) *BoxMuller {
	return &BoxMuller{src: src}
}

func (b *BoxMuller) Sample() float64 {
	u := b.open()
	v := b.open()
	return math.Sqrt(-2*math.Log(u)) * math.Cos(2*math.Pi*v)
}

// open redraws until the uniform is non-zero so log(u) stays finite.
func (b *BoxMuller) open() float64 {
	x := b.src.Float64()
	for x == 0 {
		x = b.src.Float64()
	}
	return x
}
