// Package linear_model provides ordinary least squares regression.
package linear_model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/core/model"
	"github.com/YuminosukeSato/boostlab/metrics"
	"github.com/YuminosukeSato/boostlab/pkg/errors"
	"github.com/YuminosukeSato/boostlab/pkg/log"
)

// LinearRegression is a linear regression model using ordinary least squares.
// Unlike a tree, its predictions follow the fitted line outside the training
// range.
type LinearRegression struct {
	state *model.StateManager

	fitIntercept bool // 切片を学習するか

	// 学習済みパラメータ
	coef_      []float64
	intercept_ float64
}

// NewLinearRegression は新しいLinearRegressionモデルを作成
func NewLinearRegression(options ...LinearRegressionOption) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager(),
		fitIntercept: true,
	}
	for _, opt := range options {
		opt(lr)
	}
	return lr
}

// LinearRegressionOption は設定オプション
type LinearRegressionOption func(*LinearRegression)

// WithFitIntercept は切片の学習有無を設定
func WithFitIntercept(fit bool) LinearRegressionOption {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// Fit はモデルを訓練データで学習
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LinearRegression.Fit")
	}
	yRows, yCols := y.Dims()
	if rows != yRows {
		return errors.NewDimensionError("LinearRegression.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LinearRegression.Fit", 1, yCols, 1)
	}

	// 切片の処理: [1 | X]
	offset := 0
	if lr.fitIntercept {
		offset = 1
	}
	XFit := mat.NewDense(rows, cols+offset, nil)
	for i := 0; i < rows; i++ {
		if lr.fitIntercept {
			XFit.Set(i, 0, 1.0)
		}
		for j := 0; j < cols; j++ {
			XFit.Set(i, j+offset, X.At(i, j))
		}
	}
	if rows < cols+offset {
		return errors.NewValueError("LinearRegression.Fit",
			fmt.Sprintf("need at least %d samples for %d coefficients, got %d", cols+offset, cols+offset, rows))
	}

	// 正規方程式より数値的に安定なQR分解を使用
	var qr mat.QR
	qr.Factorize(XFit)
	coefficients := mat.NewDense(cols+offset, 1, nil)
	if err := qr.SolveTo(coefficients, false, y); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "solve", err)
	}

	lr.coef_ = make([]float64, cols)
	for j := 0; j < cols; j++ {
		lr.coef_[j] = coefficients.At(j+offset, 0)
	}
	lr.intercept_ = 0
	if lr.fitIntercept {
		lr.intercept_ = coefficients.At(0, 0)
	}
	if err := errors.CheckNumericalStability("LinearRegression.Fit", append(lr.Coef(), lr.intercept_), 0); err != nil {
		return err
	}

	lr.state.SetFitted(cols, rows)
	log.GetLoggerWithName("linear_model.regression").Debug("Linear regression fitted",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}
	if err := lr.state.CheckFeatures("LinearRegression.Predict", X); err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		pred := lr.intercept_
		for j := 0; j < cols; j++ {
			pred += X.At(i, j) * lr.coef_[j]
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// Score はモデルの決定係数（R²）を返す。計算できない場合はNaN
func (lr *LinearRegression) Score(X, y mat.Matrix) float64 {
	predictions, err := lr.Predict(X)
	if err != nil {
		return math.NaN()
	}
	r2, err := metrics.R2Score(y, predictions)
	if err != nil {
		return math.NaN()
	}
	return r2
}

// Coef は学習された重み係数を返す
func (lr *LinearRegression) Coef() []float64 {
	if lr.coef_ == nil {
		return nil
	}
	coef := make([]float64, len(lr.coef_))
	copy(coef, lr.coef_)
	return coef
}

// Intercept は学習された切片を返す
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept_
}

// GetParams returns the model's hyperparameters.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.fitIntercept,
	}
}

// SetParams sets the model's hyperparameters.
func (lr *LinearRegression) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "fit_intercept":
			v, ok := value.(bool)
			if !ok {
				return errors.NewValidationError(key, "must be a bool", value)
			}
			lr.fitIntercept = v
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

// IsFitted returns whether the model has been fitted.
func (lr *LinearRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// Clone はモデルの新しいインスタンスを作成（同じハイパーパラメータ、未学習）
func (lr *LinearRegression) Clone() *LinearRegression {
	return NewLinearRegression(WithFitIntercept(lr.fitIntercept))
}

// String returns the string representation of the model.
func (lr *LinearRegression) String() string {
	if !lr.state.IsFitted() {
		return fmt.Sprintf("LinearRegression(fit_intercept=%t)", lr.fitIntercept)
	}
	nFeatures, _ := lr.state.GetDimensions()
	return fmt.Sprintf("LinearRegression(fit_intercept=%t, n_features=%d, fitted=true)",
		lr.fitIntercept, nFeatures)
}

var _ model.Regressor = (*LinearRegression)(nil)
