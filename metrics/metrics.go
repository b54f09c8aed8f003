// Package metrics provides scoring functions over n×1 target matrices, the
// shape every estimator's Predict returns.
package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// pairColumns validates that yTrue and yPred are non-empty column vectors of
// equal length and returns their values.
func pairColumns(op string, yTrue, yPred mat.Matrix) ([]float64, []float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	if cTrue != 1 {
		return nil, nil, errors.NewDimensionError(op, 1, cTrue, 1)
	}
	if cPred != 1 {
		return nil, nil, errors.NewDimensionError(op, 1, cPred, 1)
	}
	if rTrue != rPred {
		return nil, nil, errors.NewDimensionError(op, rTrue, rPred, 0)
	}
	return mat.Col(nil, 0, yTrue), mat.Col(nil, 0, yPred), nil
}
