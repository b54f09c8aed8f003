// Package boostlab is a small library for studying AdaBoost on top of
// scikit-learn style decision trees in Go.
//
// It reproduces two teaching walkthroughs on the Palmer penguins data. The
// first fits a shallow tree, marks the samples it misclassified, and refits
// a second tree with binary sample weights so that only those samples count.
// Each learner is weighted by its training accuracy, and the same data is
// then given to SAMME AdaBoost for comparison. The second walkthrough shows
// that a regression tree predicts a constant outside its training range
// while a linear model keeps extrapolating.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/boostlab/boosting"
//	    "github.com/YuminosukeSato/boostlab/sklearn/tree"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 1, []float64{0, 1, 2, 3, 4, 5})
//	    y := mat.NewDense(6, 1, []float64{0, 0, 1, 1, 0, 0})
//
//	    dt := tree.NewDecisionTreeClassifier(tree.WithMaxDepth(1))
//	    if err := dt.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//	    pred, _ := dt.Predict(X)
//
//	    idx, _ := boosting.Misclassified(y, pred)
//	    w, _ := boosting.BinarySampleWeights(6, idx)
//	    alpha, _ := boosting.LearnerWeight(6, len(idx))
//	    fmt.Println(idx, w, alpha)
//	}
//
// # Packages
//
//   - boosting: misclassified sets, binary sample weights, learner weights
//     and manually unrolled rounds
//   - sklearn/tree: CART classifier and regressor with Graphviz export
//   - sklearn/ensemble: SAMME AdaBoostClassifier
//   - sklearn/linear_model: ordinary least squares LinearRegression
//   - dataset: CSV tables, feature ranges and .npy arrays
//   - viz: decision region and extrapolation figures
//   - walkthrough: the two end-to-end walkthroughs
//   - metrics, preprocessing: accuracy, R² and label encoding
//   - core/model, core/parallel: estimator interfaces and row parallelism
//   - pkg/errors, pkg/log: error types and structured logging
//
// The boostlab command in cmd/boostlab runs both walkthroughs from a YAML
// configuration.
package boostlab
