package capture

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lexiqai/speech-pipeline/internal/audio"
	"github.com/lexiqai/speech-pipeline/internal/config"
	"github.com/lexiqai/speech-pipeline/internal/observability"
	"github.com/lexiqai/speech-pipeline/internal/stt"
)

// State is the capture session lifecycle state
type State int32

const (
	StateIdle State = iota
	StateCapturing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	default:
		return "unknown"
	}
}

// resultsCapacity bounds the output channel. When the caller stops
// consuming, batch sends block rather than queueing without limit.
const resultsCapacity = 100

// Session owns one realtime capture lifecycle: the hardware callback
// appends frames to a lock-protected buffer, and a consumer goroutine
// drains whole-second batches through the processing chain, pushing the
// resulting text onto a bounded channel.
//
// Two execution contexts touch the session: the driver-owned callback
// thread and the consumer goroutine. The buffer's lock is held only for
// append and drain bookkeeping; processing happens on drained batches the
// consumer exclusively owns. Sessions are not reentrant and there is no
// sharing between sessions.
type Session struct {
	id     string
	cfg    *config.Config
	engine *stt.Engine
	open   DeviceOpener
	logger zerolog.Logger

	state atomic.Int32

	mu      sync.Mutex // serializes Start and Stop
	device  Device
	buffer  *audio.SampleBuffer
	notify  chan struct{}
	quit    chan struct{}
	results chan string
}

// NewSession creates an idle capture session. A nil opener uses the
// default hardware device.
func NewSession(cfg *config.Config, engine *stt.Engine, open DeviceOpener) *Session {
	if open == nil {
		open = OpenDefaultDevice
	}
	id := observability.NewSessionID()
	return &Session{
		id:     id,
		cfg:    cfg,
		engine: engine,
		open:   open,
		logger: observability.WithSessionID(id),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state
func (s *Session) State() State {
	return State(s.state.Load())
}

// Results returns the bounded channel transcribed text is delivered on.
// The channel is created by Start and closed after Stop once the consumer
// has finished its in-flight batch.
func (s *Session) Results() <-chan string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Start acquires the input device and transitions Idle -> Capturing. On
// any failure the session remains Idle and the error reports whether the
// device was missing or the stream could not be built.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if State(s.state.Load()) != StateIdle {
		return fmt.Errorf("session %s already capturing", s.id)
	}

	s.buffer = audio.NewSampleBuffer()
	s.notify = make(chan struct{}, 1)
	s.quit = make(chan struct{})
	s.results = make(chan string, resultsCapacity)

	device, err := s.open(s.cfg, s.appendSamples)
	if err != nil {
		observability.RecordError("device", "capture")
		return err
	}

	s.device = device
	s.state.Store(int32(StateCapturing))
	observability.RecordSessionStart()

	go s.consume(s.buffer, s.notify, s.quit, s.results)

	s.logger.Info().
		Int("sample_rate", s.cfg.SampleRate).
		Int("channels", s.cfg.Channels).
		Int("buffer_size", s.cfg.CaptureBufferSize).
		Msg("Capture session started")

	return nil
}

// Stop detaches the hardware stream and transitions Capturing -> Idle.
// The consumer may still finish one in-flight batch; buffered samples
// below the one-second threshold are discarded.
func (s *Session) Stop() error {
	s.mu.Lock()
	if State(s.state.Load()) != StateCapturing {
		s.mu.Unlock()
		return fmt.Errorf("session %s is not capturing", s.id)
	}
	device := s.device
	s.device = nil
	s.state.Store(int32(StateIdle))
	quit := s.quit
	s.mu.Unlock()

	// Halt callbacks before releasing the consumer so no append races the
	// final drain
	err := device.Stop()
	close(quit)

	observability.RecordSessionEnd()
	s.logger.Info().Msg("Capture session stopped")

	if err != nil {
		return fmt.Errorf("stopping capture device: %w", err)
	}
	return nil
}

// appendSamples runs on the driver's thread. It holds the buffer lock only
// for the append, then signals the consumer when a full batch is ready.
func (s *Session) appendSamples(samples []float64) {
	if State(s.state.Load()) != StateCapturing {
		return
	}

	buffered := s.buffer.Append(samples)
	if buffered >= s.cfg.SampleRate {
		select {
		case s.notify <- struct{}{}:
		default:
		}
	}
}

// consume drains whole-second batches and runs them through the
// processing chain until the session stops
func (s *Session) consume(buffer *audio.SampleBuffer, notify, quit <-chan struct{}, results chan string) {
	defer close(results)

	for {
		select {
		case <-notify:
			s.processBatches(buffer, results)
		case <-quit:
			// Final sweep for a complete batch that raced the stop; the
			// sub-second remainder is dropped by design
			s.processBatches(buffer, results)
			if dropped := buffer.Clear(); dropped > 0 {
				s.logger.Debug().
					Int("samples", dropped).
					Msg("Discarded partial batch on stop")
			}
			return
		}
	}
}

func (s *Session) processBatches(buffer *audio.SampleBuffer, results chan<- string) {
	for {
		batch := buffer.DrainAtLeast(s.cfg.SampleRate)
		if batch == nil {
			return
		}

		observability.RecordBatch()
		text := s.engine.TranscribeSamples(batch)

		// Bounded send: if the caller stops reading, this applies
		// backpressure instead of queueing without limit
		results <- text
	}
}
