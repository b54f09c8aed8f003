package boosting

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/core/model"
	"github.com/YuminosukeSato/boostlab/pkg/errors"
	"github.com/YuminosukeSato/boostlab/pkg/log"
)

// Round is one manually unrolled boosting step.
type Round struct {
	Index int
	// Learner is the fitted classifier of this round.
	Learner model.WeightedClassifier
	// SampleWeight is what Learner was trained with.
	SampleWeight  []float64
	Predictions   mat.Matrix
	Misclassified []int
	// LearnerWeight is the training accuracy of Learner.
	LearnerWeight float64
}

// LearnerFactory returns a fresh, unfitted classifier for round k.
type LearnerFactory func(k int) model.WeightedClassifier

// RunManualRounds fits up to rounds learners on (X, y). Round 0 trains on
// unit weights; round k > 0 trains with BinarySampleWeights of round k-1's
// misclassified set, so it only sees the previous mistakes.
//
// A round with no mistakes ends the loop early with an EarlyStopWarning,
// since the next round would have no weighted samples to learn from.
func RunManualRounds(ctx context.Context, X, y mat.Matrix, newLearner LearnerFactory, rounds int) ([]Round, error) {
	if rounds < 1 {
		return nil, errors.NewValidationError("rounds", "must be at least 1", rounds)
	}
	n, _ := X.Dims()
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "RunManualRounds")
	}

	logger := log.GetLoggerWithName("boosting.rounds")
	out := make([]Round, 0, rounds)

	for k := 0; k < rounds; k++ {
		if err := ctx.Err(); err != nil {
			return out, errors.Wrapf(err, "round %d", k)
		}

		var weights []float64
		if k == 0 {
			weights = make([]float64, n)
			for i := range weights {
				weights[i] = 1
			}
		} else {
			prev := out[k-1].Misclassified
			if len(prev) == 0 {
				errors.Warn(errors.NewEarlyStopWarning("manual boosting", k, "previous round made no mistakes"))
				break
			}
			var err error
			if weights, err = BinarySampleWeights(n, prev); err != nil {
				return out, err
			}
		}

		learner := newLearner(k)
		if err := learner.FitWeighted(X, y, weights); err != nil {
			return out, errors.Wrapf(err, "round %d: fit", k)
		}
		pred, err := learner.Predict(X)
		if err != nil {
			return out, errors.Wrapf(err, "round %d: predict", k)
		}
		miss, err := Misclassified(y, pred)
		if err != nil {
			return out, errors.Wrapf(err, "round %d", k)
		}
		lw, err := LearnerWeight(n, len(miss))
		if err != nil {
			return out, err
		}

		logger.Info("Manual round fitted",
			log.RoundKey, k,
			log.MisclassifiedKey, len(miss),
			log.LearnerWeightKey, lw,
		)
		out = append(out, Round{
			Index:         k,
			Learner:       learner,
			SampleWeight:  weights,
			Predictions:   pred,
			Misclassified: miss,
			LearnerWeight: lw,
		})
	}
	return out, nil
}
