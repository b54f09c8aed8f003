// Package model provides the estimator interfaces shared by the sklearn
// packages and the fitted-state bookkeeping they embed.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Classifier is a fitted-or-not classification estimator.
type Classifier interface {
	Fitter
	Predictor

	// PredictProba returns one column per class, in Classes() order.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the sorted class labels seen during fitting.
	Classes() []float64
}

// WeightedClassifier is a classifier usable as a boosting base learner.
type WeightedClassifier interface {
	Classifier
	WeightedFitter
}

// Regressor is a regression estimator.
type Regressor interface {
	Fitter
	Predictor
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}
