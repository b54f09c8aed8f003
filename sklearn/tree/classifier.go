package tree

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/core/model"
	"github.com/YuminosukeSato/boostlab/metrics"
	"github.com/YuminosukeSato/boostlab/pkg/log"
)

// DecisionTreeClassifier is a CART classifier.
//
// Leaves store weighted class totals, so a tree fitted with sample weights
// predicts the class carrying the most weight in each leaf. Rows with weight
// zero still count toward min_samples_* but never influence a split choice.
type DecisionTreeClassifier struct {
	params
	state *model.StateManager

	// 学習済みパラメータ
	tree_               *Tree
	classes_            []float64
	nClasses_           int
	featureImportances_ []float64
}

// NewDecisionTreeClassifier は新しい分類木を作成
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		params: defaultParams("gini"),
		state:  model.NewStateManager(),
	}
	for _, opt := range opts {
		opt(&dt.params)
	}
	return dt
}

// Fit はモデルを訓練データで学習
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	return dt.FitWeighted(X, y, nil)
}

// FitWeighted fits the tree with one non-negative weight per row. A nil
// sampleWeight means uniform weights.
func (dt *DecisionTreeClassifier) FitWeighted(X, y mat.Matrix, sampleWeight []float64) error {
	const op = "DecisionTreeClassifier.Fit"
	if err := dt.params.validate("gini", "entropy"); err != nil {
		return err
	}
	Xd, target, weights, err := checkFitInput(op, X, y, sampleWeight)
	if err != nil {
		return err
	}

	classes := uniqueSorted(target)
	codeOf := make(map[float64]int, len(classes))
	for i, c := range classes {
		codeOf[c] = i
	}
	codes := make([]int, len(target))
	for i, v := range target {
		codes[i] = codeOf[v]
	}

	crit := &classificationCriterion{y: codes, nClasses: len(classes), entropy: dt.criterion == "entropy"}
	tree, importances := newBuilder(Xd, weights, crit, dt.params).build()

	dt.tree_ = tree
	dt.classes_ = classes
	dt.nClasses_ = len(classes)
	dt.featureImportances_ = normalizeImportances(importances)

	rows, cols := Xd.Dims()
	dt.state.SetFitted(cols, rows)

	log.GetLoggerWithName("tree.classifier").Debug("Tree fitted",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, dt.nClasses_,
		"tree.depth", tree.MaxDepth(),
		"tree.leaves", tree.NLeaves(),
	)
	return nil
}

// PredictProba は各クラスの確率を返す（列はClasses()の順）
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.checkPredict(X); err != nil {
		return nil, err
	}
	rows, _ := X.Dims()
	out := mat.NewDense(rows, dt.nClasses_, nil)
	for i, row := range rowsOf(X) {
		out.SetRow(i, leafProba(dt.tree_.nodes[dt.tree_.apply(row)].value))
	}
	return out, nil
}

// Predict は予測クラスを返す（n×1）
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.checkPredict(X); err != nil {
		return nil, err
	}
	rows, _ := X.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i, row := range rowsOf(X) {
		value := dt.tree_.nodes[dt.tree_.apply(row)].value
		out.Set(i, 0, dt.classes_[argmax(value)])
	}
	return out, nil
}

// Score は正解率を返す。入力が不正な場合はNaN
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	pred, err := dt.Predict(X)
	if err != nil {
		return math.NaN()
	}
	acc, err := metrics.AccuracyScore(y, pred, nil)
	if err != nil {
		return math.NaN()
	}
	return acc
}

func (dt *DecisionTreeClassifier) checkPredict(X mat.Matrix) error {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "Predict"); err != nil {
		return err
	}
	return dt.state.CheckFeatures("DecisionTreeClassifier.Predict", X)
}

// Classes returns the sorted class labels seen during fitting.
func (dt *DecisionTreeClassifier) Classes() []float64 {
	out := make([]float64, len(dt.classes_))
	copy(out, dt.classes_)
	return out
}

// Tree returns the fitted structure, or nil before Fit.
func (dt *DecisionTreeClassifier) Tree() *Tree { return dt.tree_ }

// GetFeatureImportances は正規化された特徴量重要度を返す
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	out := make([]float64, len(dt.featureImportances_))
	copy(out, dt.featureImportances_)
	return out
}

// GetDepth は木の深さを返す
func (dt *DecisionTreeClassifier) GetDepth() int {
	if dt.tree_ == nil {
		return 0
	}
	return dt.tree_.MaxDepth()
}

// GetNLeaves は葉の数を返す
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	if dt.tree_ == nil {
		return 0
	}
	return dt.tree_.NLeaves()
}

// GetParams はハイパーパラメータを返す
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return dt.params.getParams()
}

// SetParams はハイパーパラメータを設定
func (dt *DecisionTreeClassifier) SetParams(p map[string]interface{}) error {
	return dt.params.setParams(p)
}

// Clone returns an unfitted classifier with the same hyperparameters and the
// given seed.
func (dt *DecisionTreeClassifier) Clone(randomState int64) *DecisionTreeClassifier {
	c := NewDecisionTreeClassifier()
	c.params = dt.params
	c.randomState = randomState
	return c
}

// IsFitted returns whether the model has been fitted.
func (dt *DecisionTreeClassifier) IsFitted() bool { return dt.state.IsFitted() }

var _ model.WeightedClassifier = (*DecisionTreeClassifier)(nil)

// leafProba normalizes weighted class totals; a leaf without weight is uniform.
func leafProba(value []float64) []float64 {
	out := make([]float64, len(value))
	var sum float64
	for _, v := range value {
		sum += v
	}
	for i, v := range value {
		if sum > 0 {
			out[i] = v / sum
		} else {
			out[i] = 1 / float64(len(value))
		}
	}
	return out
}

// argmax returns the first index of the largest value.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func uniqueSorted(values []float64) []float64 {
	seen := make(map[float64]struct{}, len(values))
	out := make([]float64, 0)
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
