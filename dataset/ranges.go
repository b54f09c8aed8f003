package dataset

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// Range is the plotting extent of one feature.
type Range struct {
	Name string
	Min  float64
	Max  float64
}

// FeatureRanges returns, for each column of X, its min - margin and
// max + margin.
func FeatureRanges(X mat.Matrix, names []string, margin float64) ([]Range, error) {
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "FeatureRanges")
	}
	if len(names) != cols {
		return nil, errors.NewDimensionError("FeatureRanges", cols, len(names), 1)
	}
	out := make([]Range, cols)
	colBuf := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(colBuf, j, X)
		out[j] = Range{
			Name: names[j],
			Min:  floats.Min(colBuf) - margin,
			Max:  floats.Max(colBuf) + margin,
		}
	}
	return out, nil
}

// Arange returns start, start+step, ... up to but excluding stop.
func Arange(start, stop, step float64) ([]float64, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, errors.NewValidationError("step", "must be positive and finite", step)
	}
	if stop <= start {
		return []float64{}, nil
	}
	n := int(math.Ceil((stop - start) / step))
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out, nil
}

// Column wraps values as an n×1 matrix.
func Column(values []float64) *mat.Dense {
	if len(values) == 0 {
		return &mat.Dense{}
	}
	v := make([]float64, len(values))
	copy(v, values)
	return mat.NewDense(len(v), 1, v)
}
