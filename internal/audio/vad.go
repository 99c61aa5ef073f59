package audio

import (
	"fmt"
	"sort"
)

const (
	// defaultEnergyThreshold is used when the signal is too short to
	// calibrate from (shorter than one window)
	defaultEnergyThreshold = 0.01

	// calibrationSeconds bounds the prefix of the signal examined during
	// threshold calibration
	calibrationSeconds = 3
)

// Detector performs energy-based voice activity detection over
// non-overlapping 10ms windows. Windows whose mean-square energy falls
// below an adaptively calibrated threshold are zeroed in full.
type Detector struct {
	sampleRate int
	windowSize int // samples per 10ms window
}

// NewDetector creates a detector for the given sample rate. Rates below
// 100 Hz make the 10ms window size zero and are rejected here rather than
// at call time.
func NewDetector(sampleRate int) (*Detector, error) {
	if sampleRate < 100 {
		return nil, fmt.Errorf("sample rate %d too low for 10ms windows, need at least 100 Hz", sampleRate)
	}
	return &Detector{
		sampleRate: sampleRate,
		windowSize: sampleRate / 100,
	}, nil
}

// WindowSize returns the detection window length in samples
func (d *Detector) WindowSize() int {
	return d.windowSize
}

// Calibrate derives the energy threshold from at most the first three
// seconds of the reference signal: window energies over that prefix are
// sorted ascending and the value at the 25th percentile index, doubled,
// becomes the threshold. A signal shorter than one window produces no
// calibration windows and falls back to defaultEnergyThreshold.
func (d *Detector) Calibrate(reference []float64) float64 {
	limit := calibrationSeconds * d.sampleRate
	if limit > len(reference) {
		limit = len(reference)
	}
	if limit < d.windowSize {
		return defaultEnergyThreshold
	}

	var energies []float64
	for start := 0; start < limit; start += d.windowSize {
		end := start + d.windowSize
		if end > limit {
			end = limit // last partial window uses the remaining samples
		}
		energies = append(energies, meanSquareEnergy(reference[start:end]))
	}

	sort.Float64s(energies)
	return energies[len(energies)/4] * 2
}

// Apply zeroes every window of samples whose energy falls below the
// calibrated threshold and returns the result as a new sequence.
//
// Window energies are measured from reference, the signal as it was before
// the noise gate and smoothing filter, so the VAD decision is not compounded
// by the reducer's suppression. Calibration and application are two
// independent passes: calibration examines only a bounded prefix while
// application covers the whole signal.
func (d *Detector) Apply(samples, reference []float64) []float64 {
	out := append([]float64(nil), samples...)
	if len(out) == 0 {
		return out
	}

	threshold := d.Calibrate(reference)

	for start := 0; start < len(out); start += d.windowSize {
		end := start + d.windowSize
		if end > len(out) {
			end = len(out)
		}

		refStart, refEnd := start, end
		if refEnd > len(reference) {
			refEnd = len(reference)
		}
		if refStart > refEnd {
			refStart = refEnd
		}

		if meanSquareEnergy(reference[refStart:refEnd]) < threshold {
			for i := start; i < end; i++ {
				out[i] = 0.0
			}
		}
	}

	return out
}

// meanSquareEnergy computes the mean of squared amplitudes, 0.0 for an
// empty window
func meanSquareEnergy(samples []float64) float64 {
	if len(samples) == 0 {
		return 0.0
	}
	var sum float64
	for _, x := range samples {
		sum += x * x
	}
	return sum / float64(len(samples))
}
