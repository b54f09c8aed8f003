// Package boosting holds the hand-unrolled building blocks of AdaBoost:
// finding the samples a learner got wrong, turning them into a 0/1 sample
// weight vector for the next learner, and scoring a learner by accuracy.
//
// The weighting here is the simplified, non-multiplicative scheme: the next
// learner sees only the previous round's mistakes, each with weight 1. The
// full SAMME update lives in sklearn/ensemble.
package boosting

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// Misclassified returns the ascending row positions where yPred differs
// from yTrue. Both must be n×1 column vectors of the same length.
func Misclassified(yTrue, yPred mat.Matrix) ([]int, error) {
	tr, tc := yTrue.Dims()
	pr, pc := yPred.Dims()
	if tc != 1 {
		return nil, errors.NewDimensionError("Misclassified", 1, tc, 1)
	}
	if pc != 1 {
		return nil, errors.NewDimensionError("Misclassified", 1, pc, 1)
	}
	if tr != pr {
		return nil, errors.NewDimensionError("Misclassified", tr, pr, 0)
	}
	idx := make([]int, 0)
	for i := 0; i < tr; i++ {
		if yTrue.At(i, 0) != yPred.At(i, 0) {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

// MisclassifiedLabels is Misclassified for label slices of any comparable type,
// e.g. species names before encoding.
func MisclassifiedLabels[T comparable](yTrue, yPred []T) ([]int, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.NewDimensionError("MisclassifiedLabels", len(yTrue), len(yPred), 0)
	}
	idx := make([]int, 0)
	for i := range yTrue {
		if yTrue[i] != yPred[i] {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

// BinarySampleWeights returns a length-n vector with 1 at every position in
// misclassified and 0 elsewhere. Duplicate indices are harmless.
func BinarySampleWeights(n int, misclassified []int) ([]float64, error) {
	if n < 0 {
		return nil, errors.NewValidationError("n", "must be non-negative", n)
	}
	w := make([]float64, n)
	for _, i := range misclassified {
		if i < 0 || i >= n {
			return nil, errors.NewValidationError("misclassified", "index out of range [0, n)", i)
		}
		w[i] = 1
	}
	return w, nil
}

// LearnerWeight returns the accuracy (n - misclassified) / n of a learner
// evaluated on n samples. It is always in [0, 1].
func LearnerWeight(n, misclassified int) (float64, error) {
	if n == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "LearnerWeight")
	}
	if n < 0 {
		return 0, errors.NewValidationError("n", "must be non-negative", n)
	}
	if misclassified < 0 || misclassified > n {
		return 0, errors.NewValidationError("misclassified", "must be within [0, n]", misclassified)
	}
	return float64(n-misclassified) / float64(n), nil
}

// EnsembleWeights returns LearnerWeight for each round's misclassified set.
func EnsembleWeights(n int, rounds ...[]int) ([]float64, error) {
	out := make([]float64, len(rounds))
	for k, m := range rounds {
		w, err := LearnerWeight(n, len(uniqueSorted(m)))
		if err != nil {
			return nil, errors.Wrapf(err, "round %d", k)
		}
		out[k] = w
	}
	return out, nil
}

// Intersect returns the sorted unique values present in both a and b.
func Intersect(a, b []int) []int {
	in := make(map[int]struct{}, len(a))
	for _, v := range a {
		in[v] = struct{}{}
	}
	out := make([]int, 0)
	for _, v := range uniqueSorted(b) {
		if _, ok := in[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func uniqueSorted(v []int) []int {
	out := make([]int, len(v))
	copy(out, v)
	sort.Ints(out)
	n := 0
	for i, x := range out {
		if i == 0 || x != out[n-1] {
			out[n] = x
			n++
		}
	}
	return out[:n]
}
