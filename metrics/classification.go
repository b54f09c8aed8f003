package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// AccuracyScore は正解率を計算する。sampleWeight が nil でなければ重み付き平均になる
func AccuracyScore(yTrue, yPred mat.Matrix, sampleWeight []float64) (float64, error) {
	t, p, err := pairColumns("AccuracyScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if sampleWeight != nil && len(sampleWeight) != len(t) {
		return 0, errors.NewDimensionError("AccuracyScore", len(t), len(sampleWeight), 0)
	}

	var correct, total float64
	for i := range t {
		w := 1.0
		if sampleWeight != nil {
			w = sampleWeight[i]
		}
		if t[i] == p[i] {
			correct += w
		}
		total += w
	}
	if total == 0 {
		return 0, nil
	}
	return correct / total, nil
}
