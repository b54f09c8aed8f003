package tree

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

func TestDecisionTreeClassifier_ZeroWeightsIgnored(t *testing.T) {
	// 1D data: only rows 4 and 5 carry weight, and they disagree with the
	// unweighted majority on each side.
	X := mat.NewDense(8, 1, []float64{0, 1, 2, 3, 4, 5, 6, 7})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 0, 1, 1})
	w := []float64{0, 0, 0, 0, 1, 1, 0, 0}

	dt := NewDecisionTreeClassifier(WithMaxDepth(1))
	require.NoError(t, dt.FitWeighted(X, y, w))

	pred, err := dt.Predict(mat.NewDense(2, 1, []float64{4, 5}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, pred.At(0, 0))
	assert.Equal(t, 0.0, pred.At(1, 0))

	tr := dt.Tree()
	assert.Equal(t, 8, tr.NSamples(0))
	assert.InDelta(t, 2.0, tr.WeightedNSamples(0), 1e-12)
}

func TestDecisionTreeClassifier_WeightValidation(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{0, 1, 2})
	y := mat.NewDense(3, 1, []float64{0, 1, 0})
	dt := NewDecisionTreeClassifier()

	var dimErr *errors.DimensionError
	assert.True(t, errors.As(dt.FitWeighted(X, y, []float64{1, 1}), &dimErr))

	var valErr *errors.ValidationError
	assert.True(t, errors.As(dt.FitWeighted(X, y, []float64{1, -1, 1}), &valErr))

	assert.True(t, errors.Is(dt.Fit(&mat.Dense{}, &mat.Dense{}), errors.ErrEmptyData))

	bad := NewDecisionTreeClassifier(WithCriterion("squared_error"))
	assert.True(t, errors.As(bad.Fit(X, y), &valErr))
}

func TestDecisionTreeClassifier_SeedDeterminism(t *testing.T) {
	// Two features that split the data equally well: the chosen root
	// feature depends only on the seed.
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		0, 0,
		1, 1,
		1, 1,
	})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	roots := func(seed int64) int {
		dt := NewDecisionTreeClassifier(WithRandomState(seed), WithMaxDepth(1))
		require.NoError(t, dt.Fit(X, y))
		f, thr := dt.Tree().Split(0)
		assert.Equal(t, 0.5, thr)
		return f
	}
	for seed := int64(0); seed < 5; seed++ {
		assert.Equal(t, roots(seed), roots(seed))
	}
}

func TestDecisionTreeClassifier_Clone(t *testing.T) {
	dt := NewDecisionTreeClassifier(WithMaxDepth(2), WithCriterion("entropy"))
	c := dt.Clone(42)
	assert.False(t, c.IsFitted())
	assert.Equal(t, 2, c.maxDepth)
	assert.Equal(t, "entropy", c.criterion)
	assert.Equal(t, int64(42), c.GetParams()["random_state"])
	assert.Equal(t, int64(0), dt.randomState)
}

func TestDecisionTreeRegressor_PiecewiseConstant(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 10, 11, 12})
	y := mat.NewDense(6, 1, []float64{5, 5, 5, 20, 20, 20})

	dt := NewDecisionTreeRegressor(WithMaxDepth(3))
	require.NoError(t, dt.Fit(X, y))
	assert.Equal(t, 1, dt.GetDepth())
	assert.Equal(t, 2, dt.GetNLeaves())
	assert.InDelta(t, 1.0, dt.Score(X, y), 1e-12)

	// Far outside the training range the prediction stays at the edge leaves.
	pred, err := dt.Predict(mat.NewDense(3, 1, []float64{-100, 6.5, 1000}))
	require.NoError(t, err)
	assert.Equal(t, 5.0, pred.At(0, 0))
	assert.Equal(t, 5.0, pred.At(1, 0))
	assert.Equal(t, 20.0, pred.At(2, 0))

	f, thr := dt.Tree().Split(0)
	assert.Equal(t, 0, f)
	assert.Equal(t, 6.5, thr)
}

func TestDecisionTreeRegressor_WeightedMeanLeaf(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 1, 1})
	y := mat.NewDense(3, 1, []float64{0, 3, 9})

	dt := NewDecisionTreeRegressor()
	require.NoError(t, dt.FitWeighted(X, y, []float64{1, 2, 0}))
	pred, err := dt.Predict(mat.NewDense(1, 1, []float64{1}))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, pred.At(0, 0), 1e-12)

	assert.True(t, math.IsNaN(NewDecisionTreeRegressor().Score(X, y)))
}

func TestDecisionTreeRegressor_NotFitted(t *testing.T) {
	_, err := NewDecisionTreeRegressor().Predict(mat.NewDense(1, 1, []float64{0}))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestExportGraphviz(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	dt := NewDecisionTreeClassifier()
	require.NoError(t, dt.Fit(X, y))

	var buf bytes.Buffer
	err := ExportGraphviz(&buf, dt.Tree(), ExportOptions{
		FeatureNames: []string{"Culmen Length (mm)"},
		ClassNames:   []string{"Adelie", "Gentoo"},
	})
	require.NoError(t, err)

	dot := buf.String()
	assert.True(t, strings.Contains(dot, "digraph") || strings.Contains(dot, "graph"))
	assert.Contains(t, dot, "Culmen Length (mm) <= 1.500")
	assert.Contains(t, dot, "class = Gentoo")
	// one box per leaf, the split node keeps the default shape
	assert.Equal(t, 2, strings.Count(dot, "shape=box"))

	assert.Error(t, ExportGraphviz(&buf, nil, ExportOptions{}))
	assert.Error(t, ExportGraphviz(&buf, dt.Tree(), ExportOptions{Format: "bmp"}))
}
