// Package store holds the per-trajectory Brownian and integral histories of
// a simulation run.
package store

import "github.com/san-kum/itosim/internal/dynamo"

type trajectory struct {
	brownian []float64
	integral []float64
}

// Store is an append-only container of trajectories. Every trajectory
// starts with the sample (0, 0) and the two sequences always have equal
// length.
type Store struct {
	trajs []trajectory
}

func New(numTrajectories int) *Store {
	s := &Store{trajs: make([]trajectory, numTrajectories)}
	s.Reset()
	return s
}

// Reset discards every sample except the initial zero of each trajectory.
func (s *Store) Reset() {
	for i := range s.trajs {
		s.trajs[i] = trajectory{
			brownian: []float64{0},
			integral: []float64{0},
		}
	}
}

// Grow preallocates room for n more samples per trajectory.
func (s *Store) Grow(n int) {
	for i := range s.trajs {
		tr := &s.trajs[i]
		b := make([]float64, len(tr.brownian), len(tr.brownian)+n)
		copy(b, tr.brownian)
		v := make([]float64, len(tr.integral), len(tr.integral)+n)
		copy(v, tr.integral)
		tr.brownian, tr.integral = b, v
	}
}

func (s *Store) Append(idx int, b, v float64) error {
	if idx < 0 || idx >= len(s.trajs) {
		return &dynamo.IndexError{Index: idx, Len: len(s.trajs)}
	}
	tr := &s.trajs[idx]
	tr.brownian = append(tr.brownian, b)
	tr.integral = append(tr.integral, v)
	return nil
}

// Len is the number of trajectories.
func (s *Store) Len() int { return len(s.trajs) }

// Steps is the number of completed steps of trajectory idx, or -1 if idx is
// out of range.
func (s *Store) Steps(idx int) int {
	if idx < 0 || idx >= len(s.trajs) {
		return -1
	}
	return len(s.trajs[idx].brownian) - 1
}

// Last returns the latest Brownian and integral values of trajectory idx.
func (s *Store) Last(idx int) (b, v float64, err error) {
	if idx < 0 || idx >= len(s.trajs) {
		return 0, 0, &dynamo.IndexError{Index: idx, Len: len(s.trajs)}
	}
	tr := s.trajs[idx]
	return tr.brownian[len(tr.brownian)-1], tr.integral[len(tr.integral)-1], nil
}

// Brownian returns a copy of trajectory idx's Brownian samples.
func (s *Store) Brownian(idx int) ([]float64, error) {
	if idx < 0 || idx >= len(s.trajs) {
		return nil, &dynamo.IndexError{Index: idx, Len: len(s.trajs)}
	}
	return clone(s.trajs[idx].brownian), nil
}

// Integral returns a copy of trajectory idx's integral samples.
func (s *Store) Integral(idx int) ([]float64, error) {
	if idx < 0 || idx >= len(s.trajs) {
		return nil, &dynamo.IndexError{Index: idx, Len: len(s.trajs)}
	}
	return clone(s.trajs[idx].integral), nil
}

// TerminalValues returns the last integral sample of every trajectory.
func (s *Store) TerminalValues() []float64 {
	out := make([]float64, len(s.trajs))
	for i, tr := range s.trajs {
		out[i] = tr.integral[len(tr.integral)-1]
	}
	return out
}

func clone(xs []float64) []float64 {
	c := make([]float64, len(xs))
	copy(c, xs)
	return c
}
