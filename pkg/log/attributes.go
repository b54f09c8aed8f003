package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "DecisionTreeClassifier".
	ModelNameKey = "model.name"
	// OperationKey is one of the Operation* values below.
	OperationKey = "ml.operation"
	// ComponentKey names the logging component, e.g. "walkthrough.adaboost".
	ComponentKey = "ml.component"
	// PhaseKey is one of the Phase* values below.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ClassesKey  = "data.classes"
	// DataPathKey is the file a dataset was read from.
	DataPathKey = "data.path"
)

// Metrics.
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	R2ScoreKey    = "metrics.r2_score"
	MSEKey        = "metrics.mse"
)

// Boosting rounds.
const (
	// RoundKey is the zero-based boosting round.
	RoundKey = "boosting.round"
	// MisclassifiedKey is the size of a round's misclassified-index set.
	MisclassifiedKey = "boosting.misclassified"
	// RemainingKey counts samples misclassified in both manual rounds.
	RemainingKey = "boosting.remaining"
	// LearnerWeightKey is the accuracy-derived or SAMME estimator weight.
	LearnerWeightKey = "boosting.learner_weight"
	// EstimatorErrorKey is the weighted training error of a round.
	EstimatorErrorKey = "boosting.estimator_error"
)

// Hyperparameters.
const (
	MaxDepthKey     = "hyperparams.max_depth"
	NEstimatorsKey  = "hyperparams.n_estimators"
	LearningRateKey = "hyperparams.learning_rate"
	RandomSeedKey   = "config.random_seed"
)

// Output artifacts.
const (
	// ArtifactKey is the path of a written plot, graph or array file.
	ArtifactKey = "output.artifact"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
	OperationLoad    = "load"
	OperationRender  = "render"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
)
