package linear_model

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

func TestLinearRegression_FitPredict(t *testing.T) {
	// y = 2x + 1
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{3, 5, 7, 9, 11})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if math.Abs(lr.Coef()[0]-2) > 1e-9 {
		t.Errorf("coef = %v, want 2", lr.Coef()[0])
	}
	if math.Abs(lr.Intercept()-1) > 1e-9 {
		t.Errorf("intercept = %v, want 1", lr.Intercept())
	}
	if score := lr.Score(X, y); math.Abs(score-1) > 1e-9 {
		t.Errorf("Score() = %v, want 1", score)
	}

	// Predictions continue the line beyond the training range.
	pred, err := lr.Predict(mat.NewDense(2, 1, []float64{-10, 100}))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pred.At(0, 0)-(-19)) > 1e-9 || math.Abs(pred.At(1, 0)-201) > 1e-9 {
		t.Errorf("extrapolated predictions = %v, %v", pred.At(0, 0), pred.At(1, 0))
	}
}

func TestLinearRegression_NoIntercept(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})

	lr := NewLinearRegression(WithFitIntercept(false))
	if err := lr.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if lr.Intercept() != 0 || math.Abs(lr.Coef()[0]-2) > 1e-9 {
		t.Errorf("got coef %v intercept %v", lr.Coef(), lr.Intercept())
	}
}

func TestLinearRegression_Errors(t *testing.T) {
	lr := NewLinearRegression()

	_, err := lr.Predict(mat.NewDense(1, 1, []float64{1}))
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFittedError, got %v", err)
	}

	err = lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(2, 1, []float64{1, 2}))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %v", err)
	}

	if err := lr.Fit(&mat.Dense{}, &mat.Dense{}); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData, got %v", err)
	}

	if err := lr.SetParams(map[string]interface{}{"positive": true}); err == nil {
		t.Error("expected unknown parameter error")
	}
}

func TestLinearRegression_CloneAndParams(t *testing.T) {
	lr := NewLinearRegression()
	if err := lr.SetParams(map[string]interface{}{"fit_intercept": false}); err != nil {
		t.Fatal(err)
	}
	c := lr.Clone()
	if c.IsFitted() {
		t.Error("clone must be unfitted")
	}
	if c.GetParams()["fit_intercept"] != false {
		t.Errorf("clone params = %v", c.GetParams())
	}
	if c.String() != "LinearRegression(fit_intercept=false)" {
		t.Errorf("String() = %q", c.String())
	}
}
