package audio

import "math"

// smoothingAlpha is the fixed coefficient of the first-order smoothing
// filter: y[i] = alpha*x[i] + (1-alpha)*y[i-1]
const smoothingAlpha = 0.1

// ReduceNoise runs the two conditioning passes over the sequence, in order:
// a noise gate that zeroes every sample strictly below the silence
// threshold, then a first-order exponential moving average over the gated
// result. The input is never mutated; a new sequence is returned.
func ReduceNoise(samples []float64, silenceThreshold float64) []float64 {
	if len(samples) == 0 {
		return []float64{}
	}

	gated := make([]float64, len(samples))
	for i, x := range samples {
		if math.Abs(x) < silenceThreshold {
			gated[i] = 0.0
		} else {
			gated[i] = x
		}
	}

	filtered := make([]float64, len(gated))
	filtered[0] = gated[0]
	for i := 1; i < len(gated); i++ {
		filtered[i] = smoothingAlpha*gated[i] + (1-smoothingAlpha)*filtered[i-1]
	}

	return filtered
}
