package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// WeightedFitter はサンプル重み付きで学習可能なモデルのインターフェース
type WeightedFitter interface {
	Fitter
	// FitWeighted は各行に重みを付けて学習する。重み0の行は学習に影響しない
	FitWeighted(X, y mat.Matrix, sampleWeight []float64) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う（n×1）
	Predict(X mat.Matrix) (mat.Matrix, error)
}
