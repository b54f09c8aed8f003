package walkthrough

import (
	"context"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/dataset"
	"github.com/YuminosukeSato/boostlab/internal/config"
	"github.com/YuminosukeSato/boostlab/pkg/errors"
	"github.com/YuminosukeSato/boostlab/pkg/log"
	"github.com/YuminosukeSato/boostlab/sklearn/linear_model"
	"github.com/YuminosukeSato/boostlab/sklearn/tree"
	"github.com/YuminosukeSato/boostlab/viz"
)

// ExtrapolationReport is the outcome of RunExtrapolation.
type ExtrapolationReport struct {
	Samples    int
	FeatureMin float64
	FeatureMax float64

	Coef      float64
	Intercept float64
	LinearR2  float64
	TreeR2    float64

	// TreeLow and TreeHigh are the tree predictions at the two ends of the
	// widened grid.
	TreeLow  float64
	TreeHigh float64
	// TreeFlat reports that the tree predicts a constant beyond each end of
	// the training range.
	TreeFlat bool

	Artifacts []string
}

// RunExtrapolation fits a linear regression and a regression tree on one
// feature and compares their predictions inside the training range and on a
// grid widened by the configured offset on both sides.
func RunExtrapolation(ctx context.Context, cfg *config.Config, logger log.Logger) (*ExtrapolationReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.GetLoggerWithName("walkthrough.extrapolation")
	}
	ec := cfg.Extrapolation

	tbl, err := dataset.LoadCSV(ec.Data)
	if err != nil {
		return nil, err
	}
	X, err := tbl.Features(ec.Feature)
	if err != nil {
		return nil, err
	}
	y, err := tbl.Target(ec.Target)
	if err != nil {
		return nil, err
	}
	xs := mat.Col(nil, 0, X)
	ys := mat.Col(nil, 0, y)

	report := &ExtrapolationReport{
		Samples:    len(xs),
		FeatureMin: floats.Min(xs),
		FeatureMax: floats.Max(xs),
	}
	logger.Info("Dataset ready",
		log.DataPathKey, ec.Data,
		log.SamplesKey, report.Samples,
	)

	lin := linear_model.NewLinearRegression()
	if err := lin.Fit(X, y); err != nil {
		return nil, err
	}
	dt := tree.NewDecisionTreeRegressor(tree.WithMaxDepth(ec.TreeDepth))
	if err := dt.Fit(X, y); err != nil {
		return nil, err
	}
	report.Coef = lin.Coef()[0]
	report.Intercept = lin.Intercept()
	report.LinearR2 = lin.Score(X, y)
	report.TreeR2 = dt.Score(X, y)
	logger.Info("Models fitted",
		"linear.coef", report.Coef,
		"linear.intercept", report.Intercept,
		log.R2ScoreKey, report.LinearR2,
		log.MaxDepthKey, ec.TreeDepth,
		"tree.r2_score", report.TreeR2,
	)

	out := newArtifacts(cfg, logger)

	inside, err := dataset.Arange(report.FeatureMin, report.FeatureMax, 1)
	if err != nil {
		return nil, err
	}
	wide, err := dataset.Arange(report.FeatureMin-ec.Offset, report.FeatureMax+ec.Offset, 1)
	if err != nil {
		return nil, err
	}

	figures := []struct {
		name  string
		title string
		grid  []float64
	}{
		{"extrapolation_inside", "Prediction of linear model and a decision tree", inside},
		{"extrapolation_outside", "Prediction of linear model and a decision tree\nbeyond the training range", wide},
	}
	for _, fig := range figures {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "extrapolation")
		}
		if len(fig.grid) == 0 {
			continue
		}
		linPred, treePred, err := predictBoth(lin, dt, fig.grid)
		if err != nil {
			return nil, err
		}
		if fig.name == "extrapolation_outside" {
			report.TreeLow = treePred[0]
			report.TreeHigh = treePred[len(treePred)-1]
			report.TreeFlat = flatBeyond(fig.grid, treePred, report.FeatureMin, report.FeatureMax)
			logger.Info("Tree predictions beyond the training range",
				"tree.low", report.TreeLow,
				"tree.high", report.TreeHigh,
				"tree.flat", report.TreeFlat,
			)
		}
		err = out.plot(fig.name, viz.ExtrapolationPlot{
			Title:  fig.title,
			XLabel: ec.Feature,
			YLabel: ec.Target,
			TrainX: xs,
			TrainY: ys,
			Curves: []viz.Series{
				{Name: "Linear regression", X: fig.grid, Y: linPred},
				{Name: "Decision tree", X: fig.grid, Y: treePred},
			},
		})
		if err != nil {
			return nil, err
		}
	}

	if err := out.graph("extrapolation_tree", dt.Tree(), []string{ec.Feature}, nil); err != nil {
		return nil, err
	}

	report.Artifacts = out.paths
	return report, nil
}

func predictBoth(lin *linear_model.LinearRegression, dt *tree.DecisionTreeRegressor, grid []float64) ([]float64, []float64, error) {
	Xg := dataset.Column(grid)
	lp, err := lin.Predict(Xg)
	if err != nil {
		return nil, nil, err
	}
	tp, err := dt.Predict(Xg)
	if err != nil {
		return nil, nil, err
	}
	return mat.Col(nil, 0, lp), mat.Col(nil, 0, tp), nil
}

// flatBeyond reports whether pred is constant on grid points below lo and
// constant on grid points above hi.
func flatBeyond(grid, pred []float64, lo, hi float64) bool {
	var below, above []float64
	for i, x := range grid {
		switch {
		case x < lo:
			below = append(below, pred[i])
		case x > hi:
			above = append(above, pred[i])
		}
	}
	return constant(below) && constant(above)
}

func constant(v []float64) bool {
	for _, x := range v {
		if x != v[0] {
			return false
		}
	}
	return true
}
