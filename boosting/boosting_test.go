package boosting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/core/model"
	"github.com/YuminosukeSato/boostlab/pkg/errors"
	"github.com/YuminosukeSato/boostlab/sklearn/tree"
)

func col(vals ...float64) *mat.Dense {
	return mat.NewDense(len(vals), 1, vals)
}

func TestMisclassified(t *testing.T) {
	yTrue := col(0, 1, 1, 0, 2, 2)
	yPred := col(0, 0, 1, 1, 2, 0)

	got, err := Misclassified(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, got)

	again, err := Misclassified(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	none, err := Misclassified(col(1, 2), col(1, 2))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = Misclassified(col(1, 2, 3), col(1, 2))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestMisclassifiedLabels(t *testing.T) {
	got, err := MisclassifiedLabels(
		[]string{"Adelie", "Gentoo", "Chinstrap"},
		[]string{"Adelie", "Chinstrap", "Chinstrap"},
	)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)

	_, err = MisclassifiedLabels([]int{1}, []int{})
	assert.Error(t, err)
}

func TestBinarySampleWeights(t *testing.T) {
	w, err := BinarySampleWeights(10, []int{2, 5, 7})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 0, 0, 1, 0, 1, 0, 0}, w)

	w, err = BinarySampleWeights(4, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, w)

	dup, err := BinarySampleWeights(3, []int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, dup)

	var valErr *errors.ValidationError
	_, err = BinarySampleWeights(3, []int{3})
	assert.True(t, errors.As(err, &valErr))
	_, err = BinarySampleWeights(-1, nil)
	assert.True(t, errors.As(err, &valErr))
}

func TestLearnerWeight(t *testing.T) {
	w, err := LearnerWeight(10, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, w, 1e-12)

	w, err = LearnerWeight(4, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, w)

	w, err = LearnerWeight(5, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, w)

	_, err = LearnerWeight(0, 0)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	var valErr *errors.ValidationError
	_, err = LearnerWeight(3, 4)
	assert.True(t, errors.As(err, &valErr))
	_, err = LearnerWeight(3, -1)
	assert.True(t, errors.As(err, &valErr))
}

func TestEnsembleWeightsAndIntersect(t *testing.T) {
	w, err := EnsembleWeights(10, []int{2, 5, 7}, []int{5}, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.7, 0.9, 1.0}, w, 1e-12)

	_, err = EnsembleWeights(0, []int{})
	assert.Error(t, err)

	assert.Equal(t, []int{5, 7}, Intersect([]int{7, 2, 5}, []int{5, 9, 7, 5}))
	assert.Empty(t, Intersect([]int{1}, []int{2}))
}

// bump has class 1 in the middle of a line, which a stump cannot isolate.
func bump() (*mat.Dense, *mat.Dense) {
	return col(0, 1, 2, 3, 4, 5, 6, 7, 8, 9), col(0, 0, 0, 1, 1, 1, 0, 0, 0, 0)
}

func stumps(k int) model.WeightedClassifier {
	return tree.NewDecisionTreeClassifier(tree.WithMaxDepth(1), tree.WithRandomState(int64(k)))
}

func TestRunManualRounds(t *testing.T) {
	X, y := bump()

	rounds, err := RunManualRounds(context.Background(), X, y, stumps, 3)
	require.NoError(t, err)
	require.Len(t, rounds, 3)

	// Round 0 predicts the majority class everywhere.
	assert.Equal(t, []int{3, 4, 5}, rounds[0].Misclassified)
	assert.InDelta(t, 0.7, rounds[0].LearnerWeight, 1e-12)
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, rounds[0].SampleWeight)

	// Round 1 only sees rows 3..5 and flips to class 1.
	assert.Equal(t, []float64{0, 0, 0, 1, 1, 1, 0, 0, 0, 0}, rounds[1].SampleWeight)
	assert.Equal(t, []int{0, 1, 2, 6, 7, 8, 9}, rounds[1].Misclassified)
	assert.InDelta(t, 0.3, rounds[1].LearnerWeight, 1e-12)
	assert.Empty(t, Intersect(rounds[0].Misclassified, rounds[1].Misclassified))

	assert.Equal(t, []int{3, 4, 5}, rounds[2].Misclassified)
}

func TestRunManualRounds_StopsAfterPerfectRound(t *testing.T) {
	var warned []error
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
	defer errors.SetWarningHandler(nil)

	X, y := col(0, 1, 2, 3), col(0, 0, 1, 1)
	rounds, err := RunManualRounds(context.Background(), X, y, stumps, 2)
	require.NoError(t, err)
	assert.Len(t, rounds, 1)
	assert.Equal(t, 1.0, rounds[0].LearnerWeight)
	assert.Len(t, warned, 1)
}

func TestRunManualRounds_Errors(t *testing.T) {
	X, y := bump()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunManualRounds(ctx, X, y, stumps, 2)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = RunManualRounds(context.Background(), X, y, stumps, 0)
	assert.Error(t, err)

	_, err = RunManualRounds(context.Background(), X, col(0, 1), stumps, 1)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}
