package store

import (
	"encoding/json"
	"io"
)

// Snapshot is an immutable copy of a run's samples on its time grid.
type Snapshot struct {
	Times    []float64   `json:"times"`
	Brownian [][]float64 `json:"brownian"`
	Integral [][]float64 `json:"integral"`
}

// Snapshot copies every trajectory. grid is copied as well; callers pass the
// run's full time grid and the snapshot keeps only the reached prefix.
func (s *Store) Snapshot(grid []float64) Snapshot {
	snap := Snapshot{
		Brownian: make([][]float64, len(s.trajs)),
		Integral: make([][]float64, len(s.trajs)),
	}
	steps := len(grid)
	for i, tr := range s.trajs {
		snap.Brownian[i] = clone(tr.brownian)
		snap.Integral[i] = clone(tr.integral)
		if n := s.Steps(i) + 1; n < steps {
			steps = n
		}
	}
	snap.Times = clone(grid[:steps])
	return snap
}

// Export is the JSON document printed by `itosim run --json`.
type Export struct {
	TMax       float64   `json:"t_max"`
	NumSamples int       `json:"num_samples"`
	Function   string    `json:"function"`
	FunctionG  string    `json:"function_g"`
	Seed       uint64    `json:"seed"`
	Step       int       `json:"step"`
	Mean       float64   `json:"mean"`
	StdDev     float64   `json:"std_dev"`
	Terminal   []float64 `json:"terminal"`
	Snapshot   Snapshot  `json:"trajectories"`
}

func WriteJSON(w io.Writer, data Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
