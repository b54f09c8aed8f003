// Package ensemble provides boosting ensembles built on sklearn/tree.
package ensemble

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/core/model"
	"github.com/YuminosukeSato/boostlab/metrics"
	"github.com/YuminosukeSato/boostlab/pkg/errors"
	"github.com/YuminosukeSato/boostlab/pkg/log"
	"github.com/YuminosukeSato/boostlab/sklearn/tree"
)

// AdaBoostClassifier is a multi-class AdaBoost ensemble using the SAMME
// update.
//
// Each round fits a clone of the base tree on the current sample weights,
// scores it by weighted training error and boosts the weight of every
// sample it got wrong. Fitting stops early on a perfect round, or when a
// round is no better than chance (error >= 1 - 1/K).
type AdaBoostClassifier struct {
	state *model.StateManager

	// ハイパーパラメータ
	estimator    *tree.DecisionTreeClassifier
	nEstimators  int
	learningRate float64
	randomState  int64

	// 学習済みパラメータ
	estimators_       []*tree.DecisionTreeClassifier
	estimatorWeights_ []float64
	estimatorErrors_  []float64
	classes_          []float64
	nClasses_         int
}

// Option はAdaBoostClassifierの設定オプション
type Option func(*AdaBoostClassifier)

// WithEstimator sets the base tree; each round fits a clone of it. The
// default is a depth-1 stump.
func WithEstimator(base *tree.DecisionTreeClassifier) Option {
	return func(a *AdaBoostClassifier) {
		a.estimator = base
	}
}

// WithNEstimators はブースティングの最大ラウンド数を設定
func WithNEstimators(n int) Option {
	return func(a *AdaBoostClassifier) {
		a.nEstimators = n
	}
}

// WithLearningRate は各推定器の重みに掛ける学習率を設定
func WithLearningRate(lr float64) Option {
	return func(a *AdaBoostClassifier) {
		a.learningRate = lr
	}
}

// WithRandomState は各ラウンドの木に渡すシードの元を設定
func WithRandomState(seed int64) Option {
	return func(a *AdaBoostClassifier) {
		a.randomState = seed
	}
}

// NewAdaBoostClassifier は新しいAdaBoostClassifierを作成
func NewAdaBoostClassifier(opts ...Option) *AdaBoostClassifier {
	a := &AdaBoostClassifier{
		state:        model.NewStateManager(),
		estimator:    tree.NewDecisionTreeClassifier(tree.WithMaxDepth(1)),
		nEstimators:  50,
		learningRate: 1.0,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *AdaBoostClassifier) validate() error {
	if a.estimator == nil {
		return errors.NewValidationError("estimator", "base estimator is required", nil)
	}
	if a.nEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be at least 1", a.nEstimators)
	}
	if !(a.learningRate > 0) || math.IsInf(a.learningRate, 0) {
		return errors.NewValidationError("learning_rate", "must be positive and finite", a.learningRate)
	}
	return nil
}

// Fit はモデルを訓練データで学習
func (a *AdaBoostClassifier) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "AdaBoostClassifier.Fit")

	if err := a.validate(); err != nil {
		return err
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.Wrap(errors.ErrEmptyData, "AdaBoostClassifier.Fit")
	}
	yRows, yCols := y.Dims()
	if yRows != rows {
		return errors.NewDimensionError("AdaBoostClassifier.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("AdaBoostClassifier.Fit", 1, yCols, 1)
	}

	target := make([]float64, rows)
	for i := range target {
		target[i] = y.At(i, 0)
	}
	classes := uniqueSorted(target)
	if len(classes) < 2 {
		return errors.NewValidationError("y", "at least two classes are required", len(classes))
	}
	k := float64(len(classes))

	logger := log.GetLoggerWithName("ensemble.adaboost").With(
		log.ModelNameKey, "AdaBoostClassifier",
		log.NEstimatorsKey, a.nEstimators,
		log.LearningRateKey, a.learningRate,
	)

	a.state.Reset()
	a.classes_ = classes
	a.nClasses_ = len(classes)
	a.estimators_ = a.estimators_[:0]
	a.estimatorWeights_ = make([]float64, a.nEstimators)
	a.estimatorErrors_ = make([]float64, a.nEstimators)
	for i := range a.estimatorErrors_ {
		a.estimatorErrors_[i] = 1
	}

	sampleWeight := make([]float64, rows)
	for i := range sampleWeight {
		sampleWeight[i] = 1 / float64(rows)
	}

	rng := rand.New(rand.NewPCG(uint64(a.randomState), 0xada))
	incorrect := make([]bool, rows)

	for iboost := 0; iboost < a.nEstimators; iboost++ {
		est := a.estimator.Clone(rng.Int64N(math.MaxInt32))
		if err := est.FitWeighted(X, y, sampleWeight); err != nil {
			return errors.Wrapf(err, "round %d", iboost)
		}
		a.estimators_ = append(a.estimators_, est)

		pred, err := est.Predict(X)
		if err != nil {
			return errors.Wrapf(err, "round %d", iboost)
		}
		var errWeight, total float64
		for i := range incorrect {
			incorrect[i] = pred.At(i, 0) != target[i]
			if incorrect[i] {
				errWeight += sampleWeight[i]
			}
			total += sampleWeight[i]
		}
		estimatorError := errWeight / total

		if estimatorError <= 0 {
			a.estimatorWeights_[iboost] = 1
			a.estimatorErrors_[iboost] = 0
			errors.Warn(errors.NewEarlyStopWarning("SAMME", iboost, "perfect fit on the training set"))
			break
		}

		if estimatorError >= 1-1/k {
			a.estimators_ = a.estimators_[:len(a.estimators_)-1]
			if len(a.estimators_) == 0 {
				return errors.NewModelError("AdaBoostClassifier.Fit", "base estimator",
					errors.Newf("BaseClassifier in AdaBoostClassifier ensemble is worse than random, ensemble can not be fit (error %.4f)", estimatorError))
			}
			errors.Warn(errors.NewEarlyStopWarning("SAMME", iboost, "estimator no better than chance"))
			break
		}

		weight := a.learningRate * (math.Log((1-estimatorError)/estimatorError) + math.Log(k-1))
		if err := errors.CheckScalar("AdaBoostClassifier.Fit", weight, iboost); err != nil {
			return err
		}
		a.estimatorWeights_[iboost] = weight
		a.estimatorErrors_[iboost] = estimatorError

		logger.Debug("Boosting round",
			log.RoundKey, iboost,
			log.EstimatorErrorKey, estimatorError,
			log.LearnerWeightKey, weight,
		)

		if iboost == a.nEstimators-1 {
			break
		}
		for i, bad := range incorrect {
			if bad && sampleWeight[i] > 0 {
				sampleWeight[i] *= math.Exp(weight)
			}
		}
		sum := floats.Sum(sampleWeight)
		if math.IsInf(sum, 0) || math.IsNaN(sum) {
			errors.Warn(errors.NewEarlyStopWarning("SAMME", iboost, "sample weights overflowed"))
			break
		}
		if sum <= 0 {
			break
		}
		floats.Scale(1/sum, sampleWeight)
	}

	a.state.SetFitted(cols, rows)
	logger.Info("AdaBoost fitted",
		log.SamplesKey, rows,
		log.ClassesKey, a.nClasses_,
		"ensemble.fitted_estimators", len(a.estimators_),
	)
	return nil
}

// DecisionFunction returns the weight-normalized class votes, one column
// per class in Classes() order.
func (a *AdaBoostClassifier) DecisionFunction(X mat.Matrix) (*mat.Dense, error) {
	if err := a.state.RequireFitted("AdaBoostClassifier", "DecisionFunction"); err != nil {
		return nil, err
	}
	if err := a.state.CheckFeatures("AdaBoostClassifier.DecisionFunction", X); err != nil {
		return nil, err
	}
	rows, _ := X.Dims()
	votes := mat.NewDense(rows, a.nClasses_, nil)
	for m, est := range a.estimators_ {
		pred, err := est.Predict(X)
		if err != nil {
			return nil, errors.Wrapf(err, "estimator %d", m)
		}
		w := a.estimatorWeights_[m]
		for i := 0; i < rows; i++ {
			if c := a.classIndex(pred.At(i, 0)); c >= 0 {
				votes.Set(i, c, votes.At(i, c)+w)
			}
		}
	}
	if total := floats.Sum(a.estimatorWeights_); total > 0 {
		votes.Scale(1/total, votes)
	}
	return votes, nil
}

// Predict は予測クラスを返す（n×1）
func (a *AdaBoostClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	votes, err := a.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	rows, _ := votes.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, a.classes_[floats.MaxIdx(votes.RawRowView(i))])
	}
	return out, nil
}

// PredictProba returns softmax(votes / (K-1)) per row.
func (a *AdaBoostClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	votes, err := a.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	rows, cols := votes.Dims()
	scale := float64(a.nClasses_ - 1)
	for i := 0; i < rows; i++ {
		row := votes.RawRowView(i)
		maxV := floats.Max(row)
		var sum float64
		for j := range row {
			row[j] = math.Exp((row[j] - maxV) / scale)
			sum += row[j]
		}
		floats.Scale(1/sum, row[:cols])
	}
	return votes, nil
}

// Score は正解率を返す。入力が不正な場合はNaN
func (a *AdaBoostClassifier) Score(X, y mat.Matrix) float64 {
	pred, err := a.Predict(X)
	if err != nil {
		return math.NaN()
	}
	acc, err := metrics.AccuracyScore(y, pred, nil)
	if err != nil {
		return math.NaN()
	}
	return acc
}

func (a *AdaBoostClassifier) classIndex(label float64) int {
	for i, c := range a.classes_ {
		if c == label {
			return i
		}
	}
	return -1
}

// Estimators returns the fitted trees in round order. Rounds that were
// discarded or never run are absent.
func (a *AdaBoostClassifier) Estimators() []*tree.DecisionTreeClassifier {
	out := make([]*tree.DecisionTreeClassifier, len(a.estimators_))
	copy(out, a.estimators_)
	return out
}

// EstimatorWeights has one entry per configured round; rounds not fitted
// keep weight 0.
func (a *AdaBoostClassifier) EstimatorWeights() []float64 {
	out := make([]float64, len(a.estimatorWeights_))
	copy(out, a.estimatorWeights_)
	return out
}

// EstimatorErrors has one entry per configured round; rounds not fitted
// keep error 1.
func (a *AdaBoostClassifier) EstimatorErrors() []float64 {
	out := make([]float64, len(a.estimatorErrors_))
	copy(out, a.estimatorErrors_)
	return out
}

// Classes returns the sorted class labels seen during fitting.
func (a *AdaBoostClassifier) Classes() []float64 {
	out := make([]float64, len(a.classes_))
	copy(out, a.classes_)
	return out
}

// IsFitted returns whether the model has been fitted.
func (a *AdaBoostClassifier) IsFitted() bool { return a.state.IsFitted() }

// GetParams はハイパーパラメータを返す
func (a *AdaBoostClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":  a.nEstimators,
		"learning_rate": a.learningRate,
		"random_state":  a.randomState,
	}
}

// SetParams はハイパーパラメータを設定
func (a *AdaBoostClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "n_estimators":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			a.nEstimators = v
		case "learning_rate":
			v, ok := value.(float64)
			if !ok {
				return errors.NewValidationError(key, "must be a float64", value)
			}
			a.learningRate = v
		case "random_state":
			switch v := value.(type) {
			case int:
				a.randomState = int64(v)
			case int64:
				a.randomState = v
			default:
				return errors.NewValidationError(key, "must be an integer", value)
			}
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

var _ model.Classifier = (*AdaBoostClassifier)(nil)

func uniqueSorted(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}
