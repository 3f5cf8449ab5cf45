package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/itosim/internal/sim"
)

const (
	DefaultTMax            = 1.0
	DefaultNumSamples      = 100
	DefaultNumTrajectories = 10
	DefaultNumBins         = 20
	DefaultSpeed           = 50
	DefaultFunction        = "1"
	DefaultFunctionG       = "0"
)

type Config struct {
	TMax            float64 `yaml:"t_max"`
	NumSamples      int     `yaml:"num_samples"`
	NumTrajectories int     `yaml:"num_trajectories"`
	NumBins         int     `yaml:"num_bins"`
	AnimationSpeed  int     `yaml:"animation_speed"`
	Function        string  `yaml:"function"`
	FunctionG       string  `yaml:"function_g"`
	// Seed 0 means seed from the clock.
	Seed uint64 `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		TMax:            DefaultTMax,
		NumSamples:      DefaultNumSamples,
		NumTrajectories: DefaultNumTrajectories,
		NumBins:         DefaultNumBins,
		AnimationSpeed:  DefaultSpeed,
		Function:        DefaultFunction,
		FunctionG:       DefaultFunctionG,
	}
}

// Load reads a yaml file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Merge(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge reads a yaml file over cfg. Keys absent from the file leave cfg
// untouched.
func Merge(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToSim converts to the driver's run parameters. Validation is left to the
// driver.
func (c *Config) ToSim() sim.Config {
	return sim.Config{
		TMax:            c.TMax,
		NumSamples:      c.NumSamples,
		NumTrajectories: c.NumTrajectories,
		NumBins:         c.NumBins,
		Speed:           c.AnimationSpeed,
		F:               c.Function,
		G:               c.FunctionG,
	}
}

// Apply copies the integrands of a preset onto c.
func (c *Config) Apply(p Preset) {
	c.Function = p.Function
	c.FunctionG = p.FunctionG
}
