// Package preprocessing provides target encoders.
package preprocessing

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/core/model"
	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// LabelEncoder maps string labels to codes 0..K-1 in sorted label order, as
// scikit-learn's LabelEncoder does.
type LabelEncoder struct {
	state    *model.StateManager
	classes_ []string
	index_   map[string]int
}

// NewLabelEncoder creates an unfitted LabelEncoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{state: model.NewStateManager()}
}

// Fit learns the sorted set of distinct labels.
func (le *LabelEncoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LabelEncoder.Fit")
	}
	seen := make(map[string]struct{}, 8)
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	le.classes_ = make([]string, 0, len(seen))
	for l := range seen {
		le.classes_ = append(le.classes_, l)
	}
	sort.Strings(le.classes_)

	le.index_ = make(map[string]int, len(le.classes_))
	for i, l := range le.classes_ {
		le.index_[l] = i
	}
	le.state.SetFitted(1, len(labels))
	return nil
}

// Transform encodes labels into an n×1 matrix of class codes.
func (le *LabelEncoder) Transform(labels []string) (*mat.Dense, error) {
	if err := le.state.RequireFitted("LabelEncoder", "Transform"); err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "LabelEncoder.Transform")
	}
	out := mat.NewDense(len(labels), 1, nil)
	for i, l := range labels {
		code, ok := le.index_[l]
		if !ok {
			return nil, errors.NewValidationError("label", "unseen during Fit", l)
		}
		out.Set(i, 0, float64(code))
	}
	return out, nil
}

// FitTransform is Fit followed by Transform.
func (le *LabelEncoder) FitTransform(labels []string) (*mat.Dense, error) {
	if err := le.Fit(labels); err != nil {
		return nil, err
	}
	return le.Transform(labels)
}

// InverseTransform maps codes back to labels.
func (le *LabelEncoder) InverseTransform(codes mat.Matrix) ([]string, error) {
	if err := le.state.RequireFitted("LabelEncoder", "InverseTransform"); err != nil {
		return nil, err
	}
	rows, _ := codes.Dims()
	out := make([]string, rows)
	for i := 0; i < rows; i++ {
		c := int(codes.At(i, 0))
		if c < 0 || c >= len(le.classes_) || float64(c) != codes.At(i, 0) {
			return nil, errors.NewValidationError("code", "not a fitted class code", codes.At(i, 0))
		}
		out[i] = le.classes_[c]
	}
	return out, nil
}

// Classes returns the fitted labels in code order.
func (le *LabelEncoder) Classes() []string {
	out := make([]string, len(le.classes_))
	copy(out, le.classes_)
	return out
}
