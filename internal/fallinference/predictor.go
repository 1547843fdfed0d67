// Package fallinference implements the fixed-weight stand-in for the real
// fall-detection model, which is an out-of-scope external collaborator: a
// PyTorch classifier trained and shipped separately. This predictor exists
// so FallInferenceService has something deterministic to serve behind the
// same wire contract the real model will eventually fill.
package fallinference

import (
	"fmt"
	"math"
)

// FeatureCount is the exact input vector length Predict requires.
const FeatureCount = 9

// weights and bias were chosen to produce a plausible, stable spread of
// probabilities across typical accelerometer/gyroscope feature ranges; they
// carry no trained significance.
var weights = [FeatureCount]float64{
	0.42, -0.18, 0.31, 0.55, -0.27, 0.12, -0.44, 0.08, 0.19,
}

const bias = -0.35

// Predict turns a 9-feature vector into a fall-probability percentage in
// [0, 100], rounded to 3 decimals. It returns an error if features is not
// exactly length 9.
func Predict(features []float64) (float64, error) {
	if len(features) != FeatureCount {
		return 0, fmt.Errorf("fallinference: expected %d features, got %d", FeatureCount, len(features))
	}

	var z float64
	for i, f := range features {
		z += weights[i] * f
	}
	z += bias

	probability := sigmoid(z) * 100
	return round3(probability), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
