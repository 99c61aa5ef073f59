package audio

import "sync"

// SampleBuffer is a lock-protected growable buffer shared between a
// hardware capture callback (producer) and a batch consumer. The lock is
// held only for append and drain bookkeeping, never across processing.
type SampleBuffer struct {
	mu      sync.Mutex
	samples []float64
}

// NewSampleBuffer creates an empty sample buffer
func NewSampleBuffer() *SampleBuffer {
	return &SampleBuffer{}
}

// Append adds samples to the buffer and returns the buffered length after
// the append
func (b *SampleBuffer) Append(samples []float64) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.samples = append(b.samples, samples...)
	return len(b.samples)
}

// DrainAtLeast empties the buffer and returns its contents if at least min
// samples are buffered; otherwise it returns nil and leaves the buffer
// untouched. The returned slice is exclusively owned by the caller.
func (b *SampleBuffer) DrainAtLeast(min int) []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.samples) < min {
		return nil
	}
	drained := b.samples
	b.samples = nil
	return drained
}

// Len returns the number of buffered samples
func (b *SampleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// Clear discards the buffered samples and returns how many were dropped
func (b *SampleBuffer) Clear() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := len(b.samples)
	b.samples = nil
	return dropped
}
