package capture

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lexiqai/speech-pipeline/internal/config"
	"github.com/lexiqai/speech-pipeline/internal/stt"
)

type fakeDevice struct {
	stopped bool
}

func (d *fakeDevice) Stop() error {
	d.stopped = true
	return nil
}

// newFakeOpener returns an opener that hands the session's callback to the
// test so it can play the hardware's role
func newFakeOpener(device *fakeDevice, callback *func([]float64)) DeviceOpener {
	return func(_ *config.Config, onSamples func([]float64)) (Device, error) {
		*callback = onSamples
		return device, nil
	}
}

func newTestEngine(t *testing.T) *stt.Engine {
	t.Helper()
	engine, err := stt.NewEngine(config.Default())
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}
	return engine
}

func TestSession_StartFailure_RemainsIdle(t *testing.T) {
	opener := func(_ *config.Config, _ func([]float64)) (Device, error) {
		return nil, ErrDeviceUnavailable
	}

	session := NewSession(config.Default(), newTestEngine(t), opener)

	err := session.Start()
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("Expected ErrDeviceUnavailable, got %v", err)
	}
	if session.State() != StateIdle {
		t.Errorf("Expected session to remain idle after failed start, got %s", session.State())
	}
}

func TestSession_Lifecycle(t *testing.T) {
	device := &fakeDevice{}
	var callback func([]float64)

	session := NewSession(config.Default(), newTestEngine(t), newFakeOpener(device, &callback))

	if session.State() != StateIdle {
		t.Fatalf("Expected new session to be idle, got %s", session.State())
	}

	if err := session.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if session.State() != StateCapturing {
		t.Errorf("Expected capturing state after start, got %s", session.State())
	}

	if err := session.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if session.State() != StateIdle {
		t.Errorf("Expected idle state after stop, got %s", session.State())
	}
	if !device.stopped {
		t.Error("Expected device to be stopped")
	}
}

func TestSession_DoubleStartRejected(t *testing.T) {
	device := &fakeDevice{}
	var callback func([]float64)

	session := NewSession(config.Default(), newTestEngine(t), newFakeOpener(device, &callback))

	if err := session.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer session.Stop()

	if err := session.Start(); err == nil {
		t.Error("Expected second Start() to be rejected")
	}
}

func TestSession_StopWhenIdleRejected(t *testing.T) {
	session := NewSession(config.Default(), newTestEngine(t), newFakeOpener(&fakeDevice{}, new(func([]float64))))

	if err := session.Stop(); err == nil {
		t.Error("Expected Stop() on an idle session to be rejected")
	}
}

func TestSession_EmitsTextForFullBatch(t *testing.T) {
	device := &fakeDevice{}
	var callback func([]float64)

	session := NewSession(config.Default(), newTestEngine(t), newFakeOpener(device, &callback))
	if err := session.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Deliver one second of silence in hardware-sized chunks
	for i := 0; i < 4; i++ {
		callback(make([]float64, 4000))
	}

	select {
	case text := <-session.Results():
		if !strings.HasPrefix(text, "Silence or very low audio detected.") {
			t.Errorf("Expected silence transcription, got %q", text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a transcription result")
	}

	if err := session.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
}

func TestSession_PartialBatchDiscardedOnStop(t *testing.T) {
	device := &fakeDevice{}
	var callback func([]float64)

	session := NewSession(config.Default(), newTestEngine(t), newFakeOpener(device, &callback))
	if err := session.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Half a second: below the one-second batch threshold
	callback(make([]float64, 8000))

	if err := session.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	// The results channel closes after the consumer's final sweep; the
	// partial batch must not have produced any text
	count := 0
	for range session.Results() {
		count++
	}
	if count != 0 {
		t.Errorf("Expected zero results for a partial batch, got %d", count)
	}
}

func TestSession_CallbackAfterStopIgnored(t *testing.T) {
	device := &fakeDevice{}
	var callback func([]float64)

	session := NewSession(config.Default(), newTestEngine(t), newFakeOpener(device, &callback))
	if err := session.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := session.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	// A straggling driver callback after stop must be dropped silently
	callback(make([]float64, 16000))

	count := 0
	for range session.Results() {
		count++
	}
	if count != 0 {
		t.Errorf("Expected no results from a post-stop callback, got %d", count)
	}
}

func TestSession_HasUniqueID(t *testing.T) {
	a := NewSession(config.Default(), newTestEngine(t), newFakeOpener(&fakeDevice{}, new(func([]float64))))
	b := NewSession(config.Default(), newTestEngine(t), newFakeOpener(&fakeDevice{}, new(func([]float64))))

	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("Expected distinct non-empty session IDs, got %q and %q", a.ID(), b.ID())
	}
}
