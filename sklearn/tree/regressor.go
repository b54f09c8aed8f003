package tree

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/core/model"
	"github.com/YuminosukeSato/boostlab/metrics"
	"github.com/YuminosukeSato/boostlab/pkg/log"
)

// DecisionTreeRegressor is a CART regressor with the squared-error criterion.
// Each leaf predicts the weighted mean of its training targets, so
// predictions are piecewise constant and never leave the training target range.
type DecisionTreeRegressor struct {
	params
	state *model.StateManager

	tree_               *Tree
	featureImportances_ []float64
}

// NewDecisionTreeRegressor は新しい回帰木を作成
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	dt := &DecisionTreeRegressor{
		params: defaultParams("squared_error"),
		state:  model.NewStateManager(),
	}
	for _, opt := range opts {
		opt(&dt.params)
	}
	return dt
}

// Fit はモデルを訓練データで学習
func (dt *DecisionTreeRegressor) Fit(X, y mat.Matrix) error {
	return dt.FitWeighted(X, y, nil)
}

// FitWeighted fits the tree with one non-negative weight per row.
func (dt *DecisionTreeRegressor) FitWeighted(X, y mat.Matrix, sampleWeight []float64) error {
	const op = "DecisionTreeRegressor.Fit"
	if err := dt.params.validate("squared_error"); err != nil {
		return err
	}
	Xd, target, weights, err := checkFitInput(op, X, y, sampleWeight)
	if err != nil {
		return err
	}

	tree, importances := newBuilder(Xd, weights, &squaredErrorCriterion{y: target}, dt.params).build()
	dt.tree_ = tree
	dt.featureImportances_ = normalizeImportances(importances)

	rows, cols := Xd.Dims()
	dt.state.SetFitted(cols, rows)

	log.GetLoggerWithName("tree.regressor").Debug("Tree fitted",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		"tree.depth", tree.MaxDepth(),
		"tree.leaves", tree.NLeaves(),
	)
	return nil
}

// Predict は予測値を返す（n×1）
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.state.RequireFitted("DecisionTreeRegressor", "Predict"); err != nil {
		return nil, err
	}
	if err := dt.state.CheckFeatures("DecisionTreeRegressor.Predict", X); err != nil {
		return nil, err
	}
	rows, _ := X.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i, row := range rowsOf(X) {
		out.Set(i, 0, dt.tree_.nodes[dt.tree_.apply(row)].value[0])
	}
	return out, nil
}

// Score は決定係数R²を返す。計算できない場合はNaN
func (dt *DecisionTreeRegressor) Score(X, y mat.Matrix) float64 {
	pred, err := dt.Predict(X)
	if err != nil {
		return math.NaN()
	}
	r2, err := metrics.R2Score(y, pred)
	if err != nil {
		return math.NaN()
	}
	return r2
}

// Tree returns the fitted structure, or nil before Fit.
func (dt *DecisionTreeRegressor) Tree() *Tree { return dt.tree_ }

// GetFeatureImportances は正規化された特徴量重要度を返す
func (dt *DecisionTreeRegressor) GetFeatureImportances() []float64 {
	out := make([]float64, len(dt.featureImportances_))
	copy(out, dt.featureImportances_)
	return out
}

// GetDepth は木の深さを返す
func (dt *DecisionTreeRegressor) GetDepth() int {
	if dt.tree_ == nil {
		return 0
	}
	return dt.tree_.MaxDepth()
}

// GetNLeaves は葉の数を返す
func (dt *DecisionTreeRegressor) GetNLeaves() int {
	if dt.tree_ == nil {
		return 0
	}
	return dt.tree_.NLeaves()
}

// GetParams はハイパーパラメータを返す
func (dt *DecisionTreeRegressor) GetParams() map[string]interface{} {
	return dt.params.getParams()
}

// SetParams はハイパーパラメータを設定
func (dt *DecisionTreeRegressor) SetParams(p map[string]interface{}) error {
	return dt.params.setParams(p)
}

// IsFitted returns whether the model has been fitted.
func (dt *DecisionTreeRegressor) IsFitted() bool { return dt.state.IsFitted() }

var _ model.Regressor = (*DecisionTreeRegressor)(nil)
