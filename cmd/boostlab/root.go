package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/boostlab/internal/config"
	"github.com/YuminosukeSato/boostlab/pkg/log"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	outDir     string
	jsonLogs   bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "boostlab",
		Short: "AdaBoost and decision tree teaching walkthroughs",
		Long: `boostlab reproduces two teaching walkthroughs on the penguins data:

  adaboost     fit decision trees by hand on binary sample weights that
               select the previous round's mistakes, then compare with
               SAMME AdaBoost
  extrapolate  compare a linear model and a regression tree inside and
               beyond the training range

Settings come from a YAML file (--config), BOOSTLAB_* environment
variables and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&flags.outDir, "out", "o", "", "output directory for figures")
	pf.BoolVar(&flags.jsonLogs, "json-logs", false, "emit JSON log lines instead of console output")

	root.AddCommand(
		newAdaBoostCmd(flags),
		newExtrapolateCmd(flags),
		newConfigCmd(flags),
	)
	return root
}

// load resolves the configuration and installs the logger.
func (f *globalFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if cmd.Flags().Changed("out") {
		cfg.Output.Dir = f.outDir
	}
	if cmd.Flags().Changed("json-logs") {
		cfg.Logging.Console = !f.jsonLogs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := log.SetupLogger(cfg.Logging.Level, os.Stderr, cfg.Logging.Console); err != nil {
		return nil, err
	}
	return cfg, nil
}
