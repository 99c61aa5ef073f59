package audio

import "time"

// Features is the scalar acoustic description derived from a processed
// sample sequence. Features are recomputed per invocation and never
// persisted.
type Features struct {
	// Energy is the mean-square amplitude over the sequence, >= 0
	Energy float64

	// ZeroCrossingRate is the fraction of adjacent sample pairs whose sign
	// differs, in [0, 1]. Zero is treated as non-negative.
	ZeroCrossingRate float64

	// Centroid is the time-weighted energy centroid in [0, 1]: sample
	// energy weighted by normalized position in time. It describes where
	// energy concentrates along the clip, not a frequency-domain spectral
	// centroid - no transform is involved.
	Centroid float64

	// Duration is sample count over sample rate
	Duration time.Duration
}

// ExtractFeatures computes the feature set for a sample sequence at the
// given rate. Every division is guarded; empty and all-zero input yield
// zero-valued features without numerical errors.
func ExtractFeatures(samples []float64, sampleRate int) Features {
	f := Features{
		Duration: time.Duration(float64(len(samples)) / float64(sampleRate) * float64(time.Second)),
	}

	n := len(samples)
	if n == 0 {
		return f
	}

	var totalEnergy, weighted float64
	for i, x := range samples {
		e := x * x
		totalEnergy += e
		weighted += e * float64(i) / float64(n)
	}
	f.Energy = totalEnergy / float64(n)

	if totalEnergy > 0 {
		f.Centroid = weighted / totalEnergy
	}

	if n >= 2 {
		crossings := 0
		for i := 0; i < n-1; i++ {
			if (samples[i] >= 0) != (samples[i+1] >= 0) {
				crossings++
			}
		}
		f.ZeroCrossingRate = float64(crossings) / float64(n-1)
	}

	return f
}
