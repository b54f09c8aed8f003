// Package config holds the YAML configuration of the boostlab walkthroughs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// MinPlotStep is the smallest accepted adaboost.plot_step.
const MinPlotStep = 1e-3

// Config holds all boostlab configuration.
type Config struct {
	AdaBoost      AdaBoostConfig      `yaml:"adaboost"`
	Extrapolation ExtrapolationConfig `yaml:"extrapolation"`
	Output        OutputConfig        `yaml:"output"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// AdaBoostConfig configures the manual rounds and the SAMME comparison.
type AdaBoostConfig struct {
	Data     string   `yaml:"data"`
	Features []string `yaml:"features"` // exactly two, plotted as x and y
	Target   string   `yaml:"target"`

	TreeDepth    int     `yaml:"tree_depth"`  // depth of the manual-round trees
	BoostDepth   int     `yaml:"boost_depth"` // depth of the SAMME base trees
	NEstimators  int     `yaml:"n_estimators"`
	LearningRate float64 `yaml:"learning_rate"`
	RandomState  int64   `yaml:"random_state"`
	PlotStep     float64 `yaml:"plot_step"`
}

// ExtrapolationConfig configures the linear-vs-tree regression comparison.
type ExtrapolationConfig struct {
	Data      string  `yaml:"data"`
	Feature   string  `yaml:"feature"`
	Target    string  `yaml:"target"`
	TreeDepth int     `yaml:"tree_depth"`
	Offset    float64 `yaml:"offset"`
}

// OutputConfig controls which artifacts are written and where.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Format   string `yaml:"format"`   // png, svg or pdf
	Graphviz string `yaml:"graphviz"` // "" disables tree renders; dot, svg, png
	Npy      bool   `yaml:"npy"`
}

// LoggingConfig configures pkg/log.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// DefaultConfig returns the settings of the original notebooks.
func DefaultConfig() *Config {
	return &Config{
		AdaBoost: AdaBoostConfig{
			Data:         filepath.Join("datasets", "penguins_classification.csv"),
			Features:     []string{"Culmen Length (mm)", "Culmen Depth (mm)"},
			Target:       "Species",
			TreeDepth:    2,
			BoostDepth:   3,
			NEstimators:  3,
			LearningRate: 1.0,
			RandomState:  0,
			PlotStep:     0.02,
		},
		Extrapolation: ExtrapolationConfig{
			Data:      filepath.Join("datasets", "penguins_regression.csv"),
			Feature:   "Flipper Length (mm)",
			Target:    "Body Mass (g)",
			TreeDepth: 3,
			Offset:    30,
		},
		Output: OutputConfig{
			Dir:    "out",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load overlays the YAML file at path on DefaultConfig. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
		case os.IsNotExist(err):
		default:
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}

// applyEnvOverrides applies BOOSTLAB_* environment overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BOOSTLAB_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("BOOSTLAB_OUT"); v != "" {
		c.Output.Dir = v
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	a := c.AdaBoost
	if len(a.Features) != 2 {
		return errors.NewValidationError("adaboost.features", "exactly two feature columns are required", a.Features)
	}
	if a.Target == "" {
		return errors.NewValidationError("adaboost.target", "must not be empty", a.Target)
	}
	if a.TreeDepth < 1 {
		return errors.NewValidationError("adaboost.tree_depth", "must be at least 1", a.TreeDepth)
	}
	if a.BoostDepth < 1 {
		return errors.NewValidationError("adaboost.boost_depth", "must be at least 1", a.BoostDepth)
	}
	if a.NEstimators < 1 {
		return errors.NewValidationError("adaboost.n_estimators", "must be at least 1", a.NEstimators)
	}
	if a.LearningRate <= 0 {
		return errors.NewValidationError("adaboost.learning_rate", "must be positive", a.LearningRate)
	}
	if !(a.PlotStep >= MinPlotStep) {
		return errors.NewValidationError("adaboost.plot_step", fmt.Sprintf("must be at least %g", MinPlotStep), a.PlotStep)
	}

	e := c.Extrapolation
	if e.Feature == "" || e.Target == "" {
		return errors.NewValidationError("extrapolation", "feature and target are required", e)
	}
	if e.TreeDepth < 1 {
		return errors.NewValidationError("extrapolation.tree_depth", "must be at least 1", e.TreeDepth)
	}
	if e.Offset < 0 {
		return errors.NewValidationError("extrapolation.offset", "must be non-negative", e.Offset)
	}

	switch strings.ToLower(c.Output.Format) {
	case "png", "svg", "pdf":
	default:
		return errors.NewValidationError("output.format", "must be png, svg or pdf", c.Output.Format)
	}
	switch strings.ToLower(c.Output.Graphviz) {
	case "", "dot", "svg", "png":
	default:
		return errors.NewValidationError("output.graphviz", "must be empty, dot, svg or png", c.Output.Graphviz)
	}
	return nil
}
