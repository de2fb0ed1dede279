package inference

import "github.com/chewxy/math32"

// Prediction is a classification result.
type Prediction struct {
	// ClassIndex is the index of the highest-scoring class, -1 for empty
	// output.
	ClassIndex int
	// Confidence is the softmax probability of the winning class.
	Confidence float32
}

// Classify finds the highest-scoring class in the raw output scores.
func Classify(scores []float32) Prediction {
	if len(scores) == 0 {
		return Prediction{ClassIndex: -1}
	}

	best := 0
	for i, v := range scores {
		if v > scores[best] {
			best = i
		}
	}

	// Softmax shifted by the winning score for numerical stability; the
	// winning term contributes exactly 1 to the sum.
	var sum float32
	for _, v := range scores {
		sum += math32.Exp(v - scores[best])
	}

	return Prediction{ClassIndex: best, Confidence: 1 / sum}
}
