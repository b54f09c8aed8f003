package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// MeanSquaredError は平均二乗誤差を計算する
func MeanSquaredError(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := pairColumns("MeanSquaredError", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := range t {
		d := t[i] - p[i]
		sum += d * d
	}
	return sum / float64(len(t)), nil
}

// MeanAbsoluteError は平均絶対誤差を計算する
func MeanAbsoluteError(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := pairColumns("MeanAbsoluteError", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := range t {
		sum += math.Abs(t[i] - p[i])
	}
	return sum / float64(len(t)), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := pairColumns("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	mean := stat.Mean(t, nil)
	var tss, rss float64
	for i := range t {
		tss += (t[i] - mean) * (t[i] - mean)
		rss += (t[i] - p[i]) * (t[i] - p[i])
	}
	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}
