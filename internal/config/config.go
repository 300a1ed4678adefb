package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/zetasim/internal/field"
	"github.com/san-kum/zetasim/internal/grid"
)

const (
	DefaultReMin            = 0.4
	DefaultReMax            = 0.6
	DefaultImMin            = 0.0
	DefaultImMax            = 50.0
	DefaultStep             = 0.1
	DefaultAlpha            = 1.0
	DefaultTerms            = 64
	DefaultZeroThreshold    = 0.1
	DefaultLineTolerance    = 0.1
	DefaultPotentialCeiling = 1e30
	DefaultPoleEpsilon      = 1e-6
	DefaultBackend          = "auto"
	DefaultOutputDir        = ".zetasim"
)

type Config struct {
	Domain  DomainConfig `yaml:"domain"`
	Field   FieldConfig  `yaml:"field"`
	Backend string       `yaml:"backend"`
	Output  OutputConfig `yaml:"output"`
}

type DomainConfig struct {
	ReMin float64 `yaml:"re_min"`
	ReMax float64 `yaml:"re_max"`
	ImMin float64 `yaml:"im_min"`
	ImMax float64 `yaml:"im_max"`
	Step  float64 `yaml:"step"`
}

type FieldConfig struct {
	Alpha            float64 `yaml:"alpha"`
	Terms            int     `yaml:"terms"`
	ZeroThreshold    float64 `yaml:"zero_threshold"`
	LineTolerance    float64 `yaml:"line_tolerance"`
	PotentialCeiling float64 `yaml:"potential_ceiling"`
	PoleEpsilon      float64 `yaml:"pole_epsilon"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Domain: DomainConfig{
			ReMin: DefaultReMin,
			ReMax: DefaultReMax,
			ImMin: DefaultImMin,
			ImMax: DefaultImMax,
			Step:  DefaultStep,
		},
		Field: FieldConfig{
			Alpha:            DefaultAlpha,
			Terms:            DefaultTerms,
			ZeroThreshold:    DefaultZeroThreshold,
			LineTolerance:    DefaultLineTolerance,
			PotentialCeiling: DefaultPotentialCeiling,
			PoleEpsilon:      DefaultPoleEpsilon,
		},
		Backend: DefaultBackend,
		Output:  OutputConfig{Dir: DefaultOutputDir},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Rect converts the domain section for grid.Build.
func (c *Config) Rect() grid.Rect {
	return grid.Rect{
		ReMin: c.Domain.ReMin,
		ReMax: c.Domain.ReMax,
		ImMin: c.Domain.ImMin,
		ImMax: c.Domain.ImMax,
		Step:  c.Domain.Step,
	}
}

// Params converts the field section for field.Evaluate.
func (c *Config) Params() field.Params {
	return field.Params{
		Alpha:            c.Field.Alpha,
		Terms:            c.Field.Terms,
		ZeroThreshold:    c.Field.ZeroThreshold,
		LineTolerance:    c.Field.LineTolerance,
		PotentialCeiling: c.Field.PotentialCeiling,
		PoleEpsilon:      c.Field.PoleEpsilon,
	}
}

// Validate checks the domain and field sections with the same rules the
// engine applies, so a bad config fails before any run starts.
func (c *Config) Validate() error {
	if err := c.Rect().Validate(); err != nil {
		return err
	}
	return c.Params().Validate()
}
