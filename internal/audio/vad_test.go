package audio

import (
	"math"
	"testing"
)

func TestNewDetector_RejectsLowSampleRate(t *testing.T) {
	if _, err := NewDetector(50); err == nil {
		t.Error("Expected error for sample rate below 100 Hz")
	}
	if _, err := NewDetector(0); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}

func TestNewDetector_WindowSize(t *testing.T) {
	d, err := NewDetector(16000)
	if err != nil {
		t.Fatalf("NewDetector() failed: %v", err)
	}
	if d.WindowSize() != 160 {
		t.Errorf("Expected 160-sample windows at 16 kHz, got %d", d.WindowSize())
	}
}

func TestCalibrate_FallbackOnSubWindowSignal(t *testing.T) {
	d, err := NewDetector(16000)
	if err != nil {
		t.Fatalf("NewDetector() failed: %v", err)
	}

	// 100 samples is shorter than one 160-sample window: zero calibration
	// windows, so the threshold falls back to the fixed default
	short := make([]float64, 100)
	if got := d.Calibrate(short); got != 0.01 {
		t.Errorf("Expected fallback threshold 0.01, got %g", got)
	}

	if got := d.Calibrate(nil); got != 0.01 {
		t.Errorf("Expected fallback threshold 0.01 for empty signal, got %g", got)
	}
}

func TestCalibrate_PercentileDoubled(t *testing.T) {
	d, err := NewDetector(16000)
	if err != nil {
		t.Fatalf("NewDetector() failed: %v", err)
	}

	// Constant amplitude 0.1 gives every window energy 0.01, so the
	// 25th-percentile energy doubled is 0.02
	signal := make([]float64, 16000)
	for i := range signal {
		signal[i] = 0.1
	}

	if got := d.Calibrate(signal); math.Abs(got-0.02) > 1e-12 {
		t.Errorf("Expected calibrated threshold 0.02, got %g", got)
	}
}

func TestApply_ZeroesQuietWindows(t *testing.T) {
	d, err := NewDetector(16000)
	if err != nil {
		t.Fatalf("NewDetector() failed: %v", err)
	}

	// First half loud (energy 0.25), second half near-silent (energy 1e-6).
	// Calibration sees 50 loud and 50 quiet windows; the threshold lands at
	// 2e-6, keeping loud windows and zeroing quiet ones.
	signal := make([]float64, 16000)
	for i := 0; i < 8000; i++ {
		if i%2 == 0 {
			signal[i] = 0.5
		} else {
			signal[i] = -0.5
		}
	}
	for i := 8000; i < 16000; i++ {
		signal[i] = 0.001
	}

	out := d.Apply(signal, signal)

	if out[100] == 0.0 {
		t.Error("Expected loud window to be preserved")
	}
	for i := 8000; i < 16000; i++ {
		if out[i] != 0.0 {
			t.Fatalf("Expected quiet window sample %d to be zeroed, got %g", i, out[i])
		}
	}
}

func TestApply_MeasuresEnergyFromReference(t *testing.T) {
	d, err := NewDetector(16000)
	if err != nil {
		t.Fatalf("NewDetector() failed: %v", err)
	}

	// The masked signal is uniformly loud, but the reference decides: its
	// quiet second half drags those windows below the threshold
	reference := make([]float64, 16000)
	samples := make([]float64, 16000)
	for i := range reference {
		samples[i] = 0.3
		if i < 8000 {
			reference[i] = 0.5
		} else {
			reference[i] = 0.01
		}
	}

	out := d.Apply(samples, reference)

	if out[4000] != 0.3 {
		t.Errorf("Expected loud-reference window to keep its samples, got %g", out[4000])
	}
	if out[12000] != 0.0 {
		t.Errorf("Expected quiet-reference window to be zeroed, got %g", out[12000])
	}
}

func TestApply_EmptySignal(t *testing.T) {
	d, err := NewDetector(16000)
	if err != nil {
		t.Fatalf("NewDetector() failed: %v", err)
	}

	out := d.Apply(nil, nil)
	if len(out) != 0 {
		t.Errorf("Expected empty output for empty input, got %d samples", len(out))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	d, err := NewDetector(16000)
	if err != nil {
		t.Fatalf("NewDetector() failed: %v", err)
	}

	signal := make([]float64, 16000)
	signal[0] = 0.0001
	d.Apply(signal, signal)

	if signal[0] != 0.0001 {
		t.Error("Apply mutated its input")
	}
}
