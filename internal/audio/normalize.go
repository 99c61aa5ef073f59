package audio

import "math"

// normalizationPeak leaves 5% headroom below full scale
const normalizationPeak = 0.95

// Normalize scales the sequence so its absolute peak lands at
// normalizationPeak. A zero peak (silence or empty input) returns the
// input unchanged; there is never a division by zero.
func Normalize(samples []float64) []float64 {
	peak := 0.0
	for _, x := range samples {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	out := append([]float64(nil), samples...)
	if peak > 0 {
		scale := normalizationPeak / peak
		for i := range out {
			out[i] *= scale
		}
	}
	return out
}
