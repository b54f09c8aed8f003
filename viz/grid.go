// Package viz renders decision regions and prediction curves with gonum/plot.
package viz

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/core/model"
	"github.com/YuminosukeSato/boostlab/core/parallel"
	"github.com/YuminosukeSato/boostlab/dataset"
	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// gridParallelThreshold is the number of grid rows below which prediction
// runs on the calling goroutine.
const gridParallelThreshold = 16

// MaxGridPoints bounds the number of mesh points PredictGrid will evaluate.
const MaxGridPoints = 1 << 22

// ClassGrid holds classifier predictions on a regular 2-D mesh. Z is the
// index of the predicted label in the classifier's Classes(). It implements
// plotter.GridXYZ.
type ClassGrid struct {
	xs, ys []float64
	z      []float64 // row-major: z[r*len(xs)+c]
	k      int
}

// Dims returns the number of columns and rows of the grid.
func (g *ClassGrid) Dims() (c, r int) { return len(g.xs), len(g.ys) }

// Z returns the class index predicted at column c, row r.
func (g *ClassGrid) Z(c, r int) float64 { return g.z[r*len(g.xs)+c] }

// X returns the coordinate of column c.
func (g *ClassGrid) X(c int) float64 { return g.xs[c] }

// Y returns the coordinate of row r.
func (g *ClassGrid) Y(r int) float64 { return g.ys[r] }

// NClasses returns the number of classes of the classifier behind the grid.
func (g *ClassGrid) NClasses() int { return g.k }

// PredictGrid evaluates clf on every point of arange(xr) × arange(yr) with
// the given step. Rows of the mesh are predicted concurrently.
func PredictGrid(ctx context.Context, clf model.Classifier, xr, yr dataset.Range, step float64) (*ClassGrid, error) {
	if step > 0 && !math.IsInf(step, 0) {
		if points := gridSteps(xr, step) * gridSteps(yr, step); points > MaxGridPoints {
			return nil, errors.NewValidationError("step",
				fmt.Sprintf("mesh of %.0f points exceeds the limit of %d", points, MaxGridPoints), step)
		}
	}
	xs, err := dataset.Arange(xr.Min, xr.Max, step)
	if err != nil {
		return nil, err
	}
	ys, err := dataset.Arange(yr.Min, yr.Max, step)
	if err != nil {
		return nil, err
	}
	if len(xs) == 0 || len(ys) == 0 {
		return nil, errors.NewValidationError("range", "grid range must contain at least one step", []dataset.Range{xr, yr})
	}

	classes := clf.Classes()
	index := make(map[float64]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	g := &ClassGrid{xs: xs, ys: ys, z: make([]float64, len(xs)*len(ys)), k: len(classes)}
	err = parallel.ParallelizeWithThreshold(ctx, len(ys), gridParallelThreshold, func(start, end int) error {
		nRows := (end - start) * len(xs)
		points := mat.NewDense(nRows, 2, nil)
		for r := start; r < end; r++ {
			for c, x := range xs {
				i := (r-start)*len(xs) + c
				points.Set(i, 0, x)
				points.Set(i, 1, ys[r])
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		pred, err := clf.Predict(points)
		if err != nil {
			return err
		}
		offset := start * len(xs)
		for i := 0; i < nRows; i++ {
			k, ok := index[pred.At(i, 0)]
			if !ok {
				return errors.NewValueError("PredictGrid", "classifier predicted a label outside Classes()")
			}
			g.z[offset+i] = float64(k)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "predict grid")
	}
	return g, nil
}

// gridSteps is len(dataset.Arange(r.Min, r.Max, step)) without allocating.
func gridSteps(r dataset.Range, step float64) float64 {
	if r.Max <= r.Min {
		return 0
	}
	return math.Ceil((r.Max - r.Min) / step)
}
