package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// twoClusters is linearly separable on either feature at 2.
func twoClusters() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
		3, 3,
		3, 4,
		4, 3,
		4, 4,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return X, y
}

func TestDecisionTreeClassifier_FitPredict(t *testing.T) {
	X, y := twoClusters()
	dt := NewDecisionTreeClassifier(WithCriterion("gini"), WithMaxDepth(5))
	require.NoError(t, dt.Fit(X, y))

	pred, err := dt.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, mat.Col(nil, 0, y), mat.Col(nil, 0, pred))

	pred, err = dt.Predict(mat.NewDense(2, 2, []float64{0.5, 0.5, 3.5, 3.5}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, mat.Col(nil, 0, pred))
	assert.Equal(t, 1.0, dt.Score(X, y))
}

func TestDecisionTreeClassifier_TreeStructure(t *testing.T) {
	X, y := twoClusters()
	dt := NewDecisionTreeClassifier()
	require.NoError(t, dt.Fit(X, y))

	tr := dt.Tree()
	require.Equal(t, 3, tr.NodeCount())
	assert.False(t, tr.IsLeaf(0))
	assert.InDelta(t, 0.5, tr.Impurity(0), 1e-12)
	assert.Equal(t, []float64{4, 4}, tr.Value(0))
	assert.Equal(t, 8, tr.NSamples(0))

	_, threshold := tr.Split(0)
	assert.Equal(t, 2.0, threshold)

	l, r := tr.Children(0)
	assert.Equal(t, []float64{4, 0}, tr.Value(l))
	assert.Equal(t, []float64{0, 4}, tr.Value(r))
	assert.True(t, tr.IsLeaf(l))
	l, r = tr.Children(l)
	assert.Equal(t, -1, l)
	assert.Equal(t, -1, r)

	assert.Equal(t, 1, dt.GetDepth())
	assert.Equal(t, 2, dt.GetNLeaves())
}

func TestDecisionTreeClassifier_PredictProba(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		2, 2,
		2, 3,
		3, 2,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	dt := NewDecisionTreeClassifier(WithMaxDepth(3))
	require.NoError(t, dt.Fit(X, y))

	proba, err := dt.PredictProba(X)
	require.NoError(t, err)
	rows, cols := proba.Dims()
	require.Equal(t, 6, rows)
	require.Equal(t, 2, cols)
	for i := 0; i < rows; i++ {
		assert.InDelta(t, 1, proba.At(i, 0)+proba.At(i, 1), 1e-12)
		assert.Equal(t, y.At(i, 0), proba.At(i, 1))
	}
}

func TestDecisionTreeClassifier_XOR(t *testing.T) {
	// class 0 when both features are low or both high
	X := mat.NewDense(8, 2, []float64{
		0.0, 0.0,
		0.0, 0.1,
		0.1, 1.0,
		0.0, 0.9,
		1.0, 0.0,
		0.9, 0.0,
		1.0, 1.0,
		0.9, 0.9,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 1, 1, 1, 1, 0, 0})

	dt := NewDecisionTreeClassifier(WithMaxDepth(5), WithMinSamplesLeaf(1))
	require.NoError(t, dt.Fit(X, y))
	assert.Equal(t, 1.0, dt.Score(X, y))
	assert.LessOrEqual(t, dt.GetDepth(), 5)
}

func TestDecisionTreeClassifier_Multiclass(t *testing.T) {
	X := mat.NewDense(9, 2, []float64{
		39.1, 18.7,
		38.6, 17.2,
		40.3, 18.0,
		46.5, 17.9,
		50.0, 19.5,
		49.5, 19.0,
		46.1, 13.2,
		50.0, 16.3,
		47.6, 14.5,
	})
	y := mat.NewDense(9, 1, []float64{0, 0, 0, 1, 1, 1, 2, 2, 2})

	dt := NewDecisionTreeClassifier(WithMaxDepth(5))
	require.NoError(t, dt.Fit(X, y))
	assert.Equal(t, 3, dt.nClasses_)
	assert.Equal(t, []float64{0, 1, 2}, dt.Classes())
	assert.Equal(t, 1.0, dt.Score(X, y))

	proba, err := dt.PredictProba(X)
	require.NoError(t, err)
	_, cols := proba.Dims()
	assert.Equal(t, 3, cols)
}

func TestDecisionTreeClassifier_NonContiguousLabels(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{-1, -1, 5, 5})

	dt := NewDecisionTreeClassifier()
	require.NoError(t, dt.Fit(X, y))
	assert.Equal(t, []float64{-1, 5}, dt.Classes())

	pred, err := dt.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -1, 5, 5}, mat.Col(nil, 0, pred))
}

func TestDecisionTreeClassifier_Entropy(t *testing.T) {
	X, y := twoClusters()
	dt := NewDecisionTreeClassifier(WithCriterion("entropy"), WithMaxDepth(3))
	require.NoError(t, dt.Fit(X, y))

	assert.InDelta(t, 1.0, dt.Tree().Impurity(0), 1e-12)
	assert.Equal(t, 1.0, dt.Score(X, y))
}

func TestDecisionTreeClassifier_FeatureImportance(t *testing.T) {
	// feature 0 alone determines the class
	X := mat.NewDense(8, 3, []float64{
		0, 0, 0,
		0, 1, 1,
		0, 0, 1,
		0, 1, 0,
		1, 0, 0,
		1, 1, 1,
		1, 0, 1,
		1, 1, 0,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})

	dt := NewDecisionTreeClassifier()
	require.NoError(t, dt.Fit(X, y))
	assert.Equal(t, []float64{1, 0, 0}, dt.GetFeatureImportances())
}

func TestDecisionTreeClassifier_MaxDepth(t *testing.T) {
	X := mat.NewDense(16, 2, nil)
	y := mat.NewDense(16, 1, nil)
	for i := 0; i < 16; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i%4))
		y.Set(i, 0, float64(i%2))
	}

	dt := NewDecisionTreeClassifier(WithMaxDepth(2))
	require.NoError(t, dt.Fit(X, y))
	assert.LessOrEqual(t, dt.GetDepth(), 2)
	assert.LessOrEqual(t, dt.GetNLeaves(), 4)
}

func TestDecisionTreeClassifier_MinSamples(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i%3))
		y.Set(i, 0, float64(i%2))
	}

	dt := NewDecisionTreeClassifier(WithMinSamplesSplit(5), WithMinSamplesLeaf(2))
	require.NoError(t, dt.Fit(X, y))
	assert.LessOrEqual(t, dt.GetNLeaves(), 5)

	tr := dt.Tree()
	for i := 0; i < tr.NodeCount(); i++ {
		if tr.IsLeaf(i) {
			assert.GreaterOrEqual(t, tr.NSamples(i), 2)
		}
	}
}

func TestDecisionTreeClassifier_GetSetParams(t *testing.T) {
	dt := NewDecisionTreeClassifier()

	params := dt.GetParams()
	assert.Equal(t, "gini", params["criterion"])
	assert.Equal(t, 2, params["min_samples_split"])

	require.NoError(t, dt.SetParams(map[string]interface{}{
		"criterion":         "entropy",
		"max_depth":         5,
		"min_samples_split": 4,
		"min_samples_leaf":  2,
	}))
	assert.Equal(t, "entropy", dt.criterion)
	assert.Equal(t, 5, dt.maxDepth)
	assert.Equal(t, 4, dt.minSamplesSplit)
	assert.Equal(t, 2, dt.minSamplesLeaf)

	var valErr *errors.ValidationError
	err := dt.SetParams(map[string]interface{}{"splitter": "random"})
	assert.True(t, errors.As(err, &valErr))
	err = dt.SetParams(map[string]interface{}{"max_depth": "deep"})
	assert.True(t, errors.As(err, &valErr))
}

func TestDecisionTreeClassifier_InvalidParams(t *testing.T) {
	X, y := twoClusters()
	var valErr *errors.ValidationError

	for _, dt := range []*DecisionTreeClassifier{
		NewDecisionTreeClassifier(WithCriterion("squared_error")),
		NewDecisionTreeClassifier(WithMinSamplesSplit(1)),
		NewDecisionTreeClassifier(WithMinSamplesLeaf(0)),
		NewDecisionTreeClassifier(WithMaxDepth(-1)),
	} {
		assert.True(t, errors.As(dt.Fit(X, y), &valErr))
	}
}

func TestDecisionTreeClassifier_NotFitted(t *testing.T) {
	dt := NewDecisionTreeClassifier()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	var nf *errors.NotFittedError
	_, err := dt.Predict(X)
	assert.True(t, errors.As(err, &nf))
	_, err = dt.PredictProba(X)
	assert.True(t, errors.As(err, &nf))
	assert.True(t, math.IsNaN(dt.Score(X, mat.NewDense(2, 1, nil))))
	assert.False(t, dt.IsFitted())
}

func TestDecisionTreeClassifier_FeatureMismatch(t *testing.T) {
	X, y := twoClusters()
	dt := NewDecisionTreeClassifier()
	require.NoError(t, dt.Fit(X, y))

	_, err := dt.Predict(mat.NewDense(1, 3, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}
