package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/boostlab/walkthrough"
)

func newExtrapolateCmd(flags *globalFlags) *cobra.Command {
	var offset float64
	cmd := &cobra.Command{
		Use:   "extrapolate",
		Short: "Compare a linear model and a regression tree beyond the data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("offset") {
				cfg.Extrapolation.Offset = offset
			}
			report, err := walkthrough.RunExtrapolation(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			printExtrapolation(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().Float64Var(&offset, "offset", 0, "how far the grid extends past the training range")
	return cmd
}

func printExtrapolation(w io.Writer, r *walkthrough.ExtrapolationReport) {
	fmt.Fprintf(w, "samples: %d, training range [%.1f, %.1f]\n", r.Samples, r.FeatureMin, r.FeatureMax)
	fmt.Fprintf(w, "linear model: y = %.3f x %+.3f (R2 %.3f)\n", r.Coef, r.Intercept, r.LinearR2)
	fmt.Fprintf(w, "decision tree: R2 %.3f, predicts %.1f below and %.1f above the data (flat: %t)\n",
		r.TreeR2, r.TreeLow, r.TreeHigh, r.TreeFlat)
	printArtifacts(w, r.Artifacts)
}
