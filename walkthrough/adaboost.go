// Package walkthrough runs the two teaching walkthroughs end to end: the
// manual AdaBoost rounds compared with SAMME, and the extrapolation of a
// linear model versus a regression tree.
package walkthrough

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/boosting"
	"github.com/YuminosukeSato/boostlab/core/model"
	"github.com/YuminosukeSato/boostlab/dataset"
	"github.com/YuminosukeSato/boostlab/internal/config"
	"github.com/YuminosukeSato/boostlab/metrics"
	"github.com/YuminosukeSato/boostlab/pkg/errors"
	"github.com/YuminosukeSato/boostlab/pkg/log"
	"github.com/YuminosukeSato/boostlab/preprocessing"
	"github.com/YuminosukeSato/boostlab/sklearn/ensemble"
	"github.com/YuminosukeSato/boostlab/sklearn/tree"
	"github.com/YuminosukeSato/boostlab/viz"
)

// manualRounds is the number of hand-unrolled rounds before SAMME takes over.
const manualRounds = 2

// RoundSummary is one manual round of the AdaBoost walkthrough.
type RoundSummary struct {
	Index         int
	Misclassified []int
	// LearnerWeight is the round's training accuracy.
	LearnerWeight float64
}

// AdaBoostReport is the outcome of RunAdaBoost.
type AdaBoostReport struct {
	Samples    int
	ClassNames []string

	Rounds []RoundSummary
	// Remaining are samples misclassified in both manual rounds.
	Remaining       []int
	EnsembleWeights []float64

	// EstimatorWeights and EstimatorErrors have one entry per configured
	// round; FittedEstimators counts the rounds that kept a tree.
	EstimatorWeights []float64
	EstimatorErrors  []float64
	FittedEstimators int
	BoostedAccuracy  float64

	Artifacts []string
}

// RunAdaBoost fits two trees by hand, the second on binary weights that
// select the first tree's mistakes, then fits SAMME AdaBoost on the same
// data and renders every step.
func RunAdaBoost(ctx context.Context, cfg *config.Config, logger log.Logger) (*AdaBoostReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.GetLoggerWithName("walkthrough.adaboost")
	}
	ac := cfg.AdaBoost

	tbl, err := dataset.LoadCSV(ac.Data)
	if err != nil {
		return nil, err
	}
	X, err := tbl.Features(ac.Features...)
	if err != nil {
		return nil, err
	}
	labels, err := tbl.Strings(ac.Target)
	if err != nil {
		return nil, err
	}
	enc := preprocessing.NewLabelEncoder()
	y, err := enc.FitTransform(labels)
	if err != nil {
		return nil, err
	}
	n, _ := X.Dims()
	logger.Info("Dataset ready",
		log.DataPathKey, ac.Data,
		log.SamplesKey, n,
		log.ClassesKey, len(enc.Classes()),
	)

	report := &AdaBoostReport{Samples: n, ClassNames: enc.Classes()}
	out := newArtifacts(cfg, logger)

	// Manual rounds.
	newTree := func(int) model.WeightedClassifier {
		return tree.NewDecisionTreeClassifier(
			tree.WithMaxDepth(ac.TreeDepth),
			tree.WithRandomState(ac.RandomState),
		)
	}
	rounds, err := boosting.RunManualRounds(ctx, X, y, newTree, manualRounds)
	if err != nil {
		return nil, err
	}

	misclassified := make([][]int, len(rounds))
	for k, r := range rounds {
		misclassified[k] = r.Misclassified
		report.Rounds = append(report.Rounds, RoundSummary{
			Index:         r.Index,
			Misclassified: r.Misclassified,
			LearnerWeight: r.LearnerWeight,
		})
	}
	if len(rounds) == manualRounds {
		report.Remaining = boosting.Intersect(rounds[0].Misclassified, rounds[1].Misclassified)
		logger.Info("Previously misclassified and still misclassified",
			log.RemainingKey, len(report.Remaining),
		)
	}
	if report.EnsembleWeights, err = boosting.EnsembleWeights(n, misclassified...); err != nil {
		return nil, err
	}

	ranges, err := dataset.FeatureRanges(X, ac.Features, 1)
	if err != nil {
		return nil, err
	}
	codes := classCodes(y)

	for k, r := range rounds {
		plot := viz.DecisionRegionPlot{
			XLabel:     ac.Features[0],
			YLabel:     ac.Features[1],
			X:          X,
			Labels:     codes,
			ClassNames: report.ClassNames,
		}
		if k == 0 {
			plot.Title = "Decision tree predictions\nwith misclassified samples highlighted"
			plot.Misclassified = r.Misclassified
		} else {
			plot.Title = "Decision tree by changing sample weights"
			plot.Misclassified = rounds[k-1].Misclassified
			plot.MisclassifiedLabel = "Previously misclassified samples"
		}
		if plot.Grid, err = viz.PredictGrid(ctx, r.Learner, ranges[0], ranges[1], ac.PlotStep); err != nil {
			return nil, err
		}
		if err := out.plot(fmt.Sprintf("manual_round%d", k), plot); err != nil {
			return nil, err
		}
		if dt, ok := r.Learner.(*tree.DecisionTreeClassifier); ok {
			if err := out.graph(fmt.Sprintf("manual_tree%d", k), dt.Tree(), ac.Features, report.ClassNames); err != nil {
				return nil, err
			}
		}
	}
	if cfg.Output.Npy && len(rounds) > 0 {
		preds := mat.NewDense(n, len(rounds), nil)
		for k, r := range rounds {
			preds.SetCol(k, mat.Col(nil, 0, r.Predictions))
		}
		if err := out.npy("manual_predictions", preds); err != nil {
			return nil, err
		}
	}

	// SAMME.
	ada := ensemble.NewAdaBoostClassifier(
		ensemble.WithEstimator(tree.NewDecisionTreeClassifier(
			tree.WithMaxDepth(ac.BoostDepth),
			tree.WithRandomState(ac.RandomState),
		)),
		ensemble.WithNEstimators(ac.NEstimators),
		ensemble.WithLearningRate(ac.LearningRate),
		ensemble.WithRandomState(ac.RandomState),
	)
	if err := ada.Fit(X, y); err != nil {
		return nil, err
	}
	report.EstimatorWeights = ada.EstimatorWeights()
	report.EstimatorErrors = ada.EstimatorErrors()
	report.FittedEstimators = len(ada.Estimators())

	pred, err := ada.Predict(X)
	if err != nil {
		return nil, err
	}
	if report.BoostedAccuracy, err = metrics.AccuracyScore(y, pred, nil); err != nil {
		return nil, err
	}
	logger.Info("Boosted ensemble scored",
		log.NEstimatorsKey, ac.NEstimators,
		"ensemble.fitted_estimators", report.FittedEstimators,
		log.AccuracyKey, report.BoostedAccuracy,
		"boosting.estimator_weights", report.EstimatorWeights,
		"boosting.estimator_errors", report.EstimatorErrors,
	)

	for k, est := range ada.Estimators() {
		grid, err := viz.PredictGrid(ctx, est, ranges[0], ranges[1], ac.PlotStep)
		if err != nil {
			return nil, err
		}
		err = out.plot(fmt.Sprintf("samme_round%d", k), viz.DecisionRegionPlot{
			Title:      fmt.Sprintf("Decision tree trained at round %d", k),
			XLabel:     ac.Features[0],
			YLabel:     ac.Features[1],
			Grid:       grid,
			X:          X,
			Labels:     codes,
			ClassNames: report.ClassNames,
		})
		if err != nil {
			return nil, err
		}
		if err := out.graph(fmt.Sprintf("samme_tree%d", k), est.Tree(), ac.Features, report.ClassNames); err != nil {
			return nil, err
		}
	}
	if cfg.Output.Npy {
		proba, err := ada.PredictProba(X)
		if err != nil {
			return nil, err
		}
		if err := out.npy("samme_proba", mat.DenseCopyOf(proba)); err != nil {
			return nil, err
		}
	}

	report.Artifacts = out.paths
	return report, nil
}

func classCodes(y mat.Matrix) []int {
	n, _ := y.Dims()
	out := make([]int, n)
	for i := range out {
		out[i] = int(y.At(i, 0))
	}
	return out
}

// artifacts writes plots, graphs and arrays under the output directory and
// remembers their paths.
type artifacts struct {
	cfg    config.OutputConfig
	logger log.Logger
	paths  []string
}

func newArtifacts(cfg *config.Config, logger log.Logger) *artifacts {
	return &artifacts{cfg: cfg.Output, logger: logger}
}

func (a *artifacts) path(name, ext string) string {
	return filepath.Join(a.cfg.Dir, name+"."+ext)
}

func (a *artifacts) record(path string) {
	a.paths = append(a.paths, path)
	a.logger.Debug("Artifact written", log.ArtifactKey, path)
}

type saver interface {
	Save(path string) error
}

func (a *artifacts) plot(name string, p saver) error {
	path := a.path(name, strings.ToLower(a.cfg.Format))
	if err := p.Save(path); err != nil {
		a.logger.Error("Plot failed", err, log.OperationKey, log.OperationRender, log.ArtifactKey, path)
		return err
	}
	a.record(path)
	return nil
}

func (a *artifacts) graph(name string, t *tree.Tree, features, classes []string) (err error) {
	format := strings.ToLower(a.cfg.Graphviz)
	if format == "" {
		return nil
	}
	if err := os.MkdirAll(a.cfg.Dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", a.cfg.Dir)
	}
	path := a.path(name, format)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	opts := tree.ExportOptions{FeatureNames: features, ClassNames: classes, Format: format}
	if err := tree.ExportGraphviz(f, t, opts); err != nil {
		return err
	}
	a.record(path)
	return nil
}

func (a *artifacts) npy(name string, m *mat.Dense) error {
	if err := os.MkdirAll(a.cfg.Dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", a.cfg.Dir)
	}
	path := a.path(name, "npy")
	if err := dataset.SaveNpy(path, m); err != nil {
		return err
	}
	a.record(path)
	return nil
}
