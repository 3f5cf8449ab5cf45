package config

import "sort"

// Preset is a named pair of integrands.
type Preset struct {
	Function    string
	FunctionG   string
	Description string
}

var Presets = map[string]Preset{
	"brownian": {
		Function: "1", FunctionG: "0",
		Description: "I_t = B_t",
	},
	"ito-square": {
		Function: "2*B_t", FunctionG: "1",
		Description: "I_t = B_t^2 by Itô's formula",
	},
	"time-weighted": {
		Function: "t", FunctionG: "0",
		Description: "I_t = int s dB_s, variance t^3/3",
	},
	"drift": {
		Function: "0", FunctionG: "1",
		Description: "I_t = t",
	},
	"exp-martingale": {
		Function: "exp(B_t - t/2)", FunctionG: "0",
		Description: "I_t = exp(B_t - t/2) - 1, mean 0",
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
