package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/boostlab/walkthrough"
)

func newAdaBoostCmd(flags *globalFlags) *cobra.Command {
	var (
		nEstimators int
		graphviz    string
		npy         bool
	)
	cmd := &cobra.Command{
		Use:   "adaboost",
		Short: "Run the manual boosting rounds and SAMME AdaBoost",
		Long: `Fits a shallow decision tree, refits it with binary sample weights on the
samples it misclassified, reports the accuracy-derived learner weights,
then fits SAMME AdaBoost and plots the decision regions of every round.

Example:
  boostlab adaboost --out figures --graphviz svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("n-estimators") {
				cfg.AdaBoost.NEstimators = nEstimators
			}
			if cmd.Flags().Changed("graphviz") {
				cfg.Output.Graphviz = graphviz
			}
			if cmd.Flags().Changed("npy") {
				cfg.Output.Npy = npy
			}
			report, err := walkthrough.RunAdaBoost(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			printAdaBoost(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().IntVar(&nEstimators, "n-estimators", 0, "number of SAMME rounds")
	cmd.Flags().StringVar(&graphviz, "graphviz", "", "also render every tree: dot, svg or png")
	cmd.Flags().BoolVar(&npy, "npy", false, "also save predictions as .npy arrays")
	return cmd
}

func printAdaBoost(w io.Writer, r *walkthrough.AdaBoostReport) {
	fmt.Fprintf(w, "samples: %d, classes: %s\n", r.Samples, strings.Join(r.ClassNames, ", "))
	for _, round := range r.Rounds {
		fmt.Fprintf(w, "round %d: %d misclassified, learner weight %.3f\n",
			round.Index, len(round.Misclassified), round.LearnerWeight)
	}
	fmt.Fprintf(w, "misclassified in both rounds: %d\n", len(r.Remaining))
	fmt.Fprintf(w, "SAMME estimator weights: %s\n", formatFloats(r.EstimatorWeights))
	fmt.Fprintf(w, "SAMME estimator errors:  %s\n", formatFloats(r.EstimatorErrors))
	fmt.Fprintf(w, "boosted training accuracy: %.3f\n", r.BoostedAccuracy)
	printArtifacts(w, r.Artifacts)
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.3f", x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func printArtifacts(w io.Writer, paths []string) {
	for _, p := range paths {
		fmt.Fprintf(w, "wrote %s\n", p)
	}
}
