package errors

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Round     int
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("boostlab: numerical instability detected in %s at round %d. Values: [%s]",
		e.Operation, e.Round, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, round int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Round:     round,
	}
	return errors.WithStack(err)
}

// CheckScalar checks a single scalar value for NaN or Inf.
func CheckScalar(operation string, value float64, round int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, round)
	}
	return nil
}

// CheckNumericalStability checks if values contain NaN or Inf.
func CheckNumericalStability(operation string, values []float64, round int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, round)
		}
	}
	return nil
}
