// Package config defines collection profiles: which beam quantities to
// pull out of a propagation run and how to present them. Profiles load
// from and save to YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kryv/flame-utils/internal/beamstate"
)

const (
	DefaultDataDir   = ".flameutil"
	DefaultPlotWidth = 80
	DefaultPlotHght  = 10
)

type Config struct {
	DataDir string     `yaml:"data_dir"`
	Fields  []string   `yaml:"fields"`
	Plot    PlotConfig `yaml:"plot"`
}

type PlotConfig struct {
	Field     string `yaml:"field"`
	Component int    `yaml:"component"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Fields:  []string{"pos", "ref_IonEk", "x0_env", "y0_env", "x0_rms", "y0_rms"},
		Plot: PlotConfig{
			Field:  "x0_rms",
			Width:  DefaultPlotWidth,
			Height: DefaultPlotHght,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects field names outside the beamstate vocabulary and
// nonsensical plot geometry.
func (c *Config) Validate() error {
	if len(c.Fields) == 0 {
		return fmt.Errorf("config: no fields requested")
	}
	for _, name := range c.Fields {
		if !beamstate.IsField(name) {
			return fmt.Errorf("config: %w: %q", beamstate.ErrUnknownField, name)
		}
	}
	if c.Plot.Field != "" && !beamstate.IsField(c.Plot.Field) {
		return fmt.Errorf("config: %w: plot field %q", beamstate.ErrUnknownField, c.Plot.Field)
	}
	if c.Plot.Width < 0 || c.Plot.Height < 0 {
		return fmt.Errorf("config: plot geometry must be non-negative")
	}
	if c.Plot.Component < 0 {
		return fmt.Errorf("config: plot component must be non-negative")
	}
	return nil
}
