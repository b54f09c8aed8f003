package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/boostlab/internal/config"
	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// writeConfig points both walkthroughs at the small fixtures of the
// walkthrough package and returns the config path and output directory.
func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv("BOOSTLAB_OUT", "")
	t.Setenv("BOOSTLAB_LOG_LEVEL", "")

	dir := t.TempDir()
	testdata := filepath.Join("..", "..", "walkthrough", "testdata")

	cfg := config.DefaultConfig()
	cfg.AdaBoost.Data = filepath.Join(testdata, "penguins_classification.csv")
	cfg.AdaBoost.TreeDepth = 1
	cfg.AdaBoost.BoostDepth = 2
	cfg.AdaBoost.PlotStep = 0.5
	cfg.Extrapolation.Data = filepath.Join(testdata, "penguins_regression.csv")
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Output.Format = "svg"
	cfg.Logging.Level = "warn"

	path := filepath.Join(dir, "boostlab.yaml")
	require.NoError(t, cfg.Save(path))
	return path, cfg.Output.Dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAdaBoostCmd(t *testing.T) {
	cfgPath, outDir := writeConfig(t)

	out, err := run(t, "adaboost", "--config", cfgPath, "--graphviz", "dot")
	require.NoError(t, err)

	assert.Contains(t, out, "samples: 12, classes: Adelie, Chinstrap, Gentoo")
	assert.Contains(t, out, "round 0:")
	assert.Contains(t, out, "round 1:")
	assert.Contains(t, out, "boosted training accuracy: 1.000")

	_, err = os.Stat(filepath.Join(outDir, "manual_round0.svg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "samme_tree0.dot"))
	assert.NoError(t, err)
}

func TestExtrapolateCmd(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	outDir := filepath.Join(t.TempDir(), "figures")

	out, err := run(t, "extrapolate", "--config", cfgPath, "--out", outDir, "--offset", "10")
	require.NoError(t, err)

	assert.Contains(t, out, "samples: 11, training range [181.0, 230.0]")
	assert.Contains(t, out, "flat: true")
	_, err = os.Stat(filepath.Join(outDir, "extrapolation_outside.svg"))
	assert.NoError(t, err)
}

func TestConfigCmd(t *testing.T) {
	t.Setenv("BOOSTLAB_OUT", "")
	path := filepath.Join(t.TempDir(), "conf", "boostlab.yaml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	out, err = run(t, "config", "show", "--config", path, "--out", "elsewhere")
	require.NoError(t, err)
	assert.Contains(t, out, "dir: elsewhere")
	assert.Contains(t, out, "n_estimators: 3")
}

func TestRootCmd_Errors(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	_, err := run(t, "adaboost", "--config", cfgPath, "--log-level", "loud")
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = run(t, "adaboost", "--config", cfgPath, "--n-estimators", "0")
	assert.True(t, errors.As(err, &valErr))

	_, err = run(t, "extrapolate", "--config", cfgPath, "extra")
	assert.Error(t, err)

	_, err = run(t, "config", "init")
	assert.Error(t, err)
}
