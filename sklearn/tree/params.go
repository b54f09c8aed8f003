package tree

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// params は分類木・回帰木で共通のハイパーパラメータ
type params struct {
	criterion       string
	maxDepth        int // 0以下は無制限
	minSamplesSplit int
	minSamplesLeaf  int
	randomState     int64
}

func defaultParams(criterion string) params {
	return params{
		criterion:       criterion,
		maxDepth:        0,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		randomState:     0,
	}
}

// Option は決定木の設定オプション
type Option func(*params)

// WithCriterion は分割基準を設定（分類: "gini" / "entropy"、回帰: "squared_error"）
func WithCriterion(criterion string) Option {
	return func(p *params) {
		p.criterion = criterion
	}
}

// WithMaxDepth は木の最大深さを設定（0以下で無制限）
func WithMaxDepth(depth int) Option {
	return func(p *params) {
		p.maxDepth = depth
	}
}

// WithMinSamplesSplit は分割に必要な最小サンプル数を設定
func WithMinSamplesSplit(n int) Option {
	return func(p *params) {
		p.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf は葉に必要な最小サンプル数を設定
func WithMinSamplesLeaf(n int) Option {
	return func(p *params) {
		p.minSamplesLeaf = n
	}
}

// WithRandomState sets the seed for the per-node feature order. Two trees
// with the same seed and data are identical.
func WithRandomState(seed int64) Option {
	return func(p *params) {
		p.randomState = seed
	}
}

func (p *params) validate(allowed ...string) error {
	ok := false
	for _, c := range allowed {
		if p.criterion == c {
			ok = true
			break
		}
	}
	if !ok {
		return errors.NewValidationError("criterion", "unsupported criterion", p.criterion)
	}
	if p.maxDepth < 0 {
		return errors.NewValidationError("max_depth", "must be non-negative (0 means unlimited)", p.maxDepth)
	}
	if p.minSamplesSplit < 2 {
		return errors.NewValidationError("min_samples_split", "must be at least 2", p.minSamplesSplit)
	}
	if p.minSamplesLeaf < 1 {
		return errors.NewValidationError("min_samples_leaf", "must be at least 1", p.minSamplesLeaf)
	}
	return nil
}

func (p *params) getParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         p.criterion,
		"max_depth":         p.maxDepth,
		"min_samples_split": p.minSamplesSplit,
		"min_samples_leaf":  p.minSamplesLeaf,
		"random_state":      p.randomState,
	}
}

func (p *params) setParams(values map[string]interface{}) error {
	for key, value := range values {
		switch key {
		case "criterion":
			v, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			p.criterion = v
		case "max_depth", "min_samples_split", "min_samples_leaf":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			switch key {
			case "max_depth":
				p.maxDepth = v
			case "min_samples_split":
				p.minSamplesSplit = v
			default:
				p.minSamplesLeaf = v
			}
		case "random_state":
			switch v := value.(type) {
			case int:
				p.randomState = int64(v)
			case int64:
				p.randomState = v
			default:
				return errors.NewValidationError(key, "must be an integer", value)
			}
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

// checkFitInput validates X, y and sampleWeight and returns X as a Dense, y as
// a flat slice and the weights (all ones when sampleWeight is nil).
func checkFitInput(op string, X, y mat.Matrix, sampleWeight []float64) (*mat.Dense, []float64, []float64, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, nil, nil, errors.Wrapf(errors.ErrEmptyData, "%s", op)
	}
	yRows, yCols := y.Dims()
	if yRows != rows {
		return nil, nil, nil, errors.NewDimensionError(op, rows, yRows, 0)
	}
	if yCols != 1 {
		return nil, nil, nil, errors.NewDimensionError(op, 1, yCols, 1)
	}

	weights := make([]float64, rows)
	if sampleWeight == nil {
		for i := range weights {
			weights[i] = 1
		}
	} else {
		if len(sampleWeight) != rows {
			return nil, nil, nil, errors.NewDimensionError(op, rows, len(sampleWeight), 0)
		}
		for i, w := range sampleWeight {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, nil, nil, errors.NewValidationError("sample_weight", "weights must be finite and non-negative", w)
			}
			weights[i] = w
		}
	}

	target := make([]float64, rows)
	for i := range target {
		target[i] = y.At(i, 0)
	}
	return mat.DenseCopyOf(X), target, weights, nil
}

func rowsOf(X mat.Matrix) [][]float64 {
	rows, cols := X.Dims()
	out := make([][]float64, rows)
	for i := range out {
		r := make([]float64, cols)
		for j := range r {
			r[j] = X.At(i, j)
		}
		out[i] = r
	}
	return out
}
