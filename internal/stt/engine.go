package stt

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lexiqai/speech-pipeline/internal/audio"
	"github.com/lexiqai/speech-pipeline/internal/config"
	"github.com/lexiqai/speech-pipeline/internal/observability"
)

// Engine runs the full processing chain: loader, noise reducer, VAD,
// normalizer, feature extractor, transcriber. Each stage is a pure
// function of (config, input); the engine only wires them together.
type Engine struct {
	cfg         *config.Config
	detector    *audio.Detector // nil when VAD is disabled
	transcriber Transcriber
	logger      zerolog.Logger
}

// NewEngine creates an engine for the given configuration. Configuration
// invariants (positive sample rate, VAD window arithmetic) are enforced
// here so no stage can be called with undefined parameters.
func NewEngine(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var detector *audio.Detector
	if cfg.VADEnabled {
		var err error
		detector, err = audio.NewDetector(cfg.SampleRate)
		if err != nil {
			return nil, err
		}
	}

	return &Engine{
		cfg:         cfg,
		detector:    detector,
		transcriber: NewPlaceholderTranscriber(cfg.MinAudioDuration),
		logger:      observability.WithComponent("engine"),
	}, nil
}

// SetTranscriber swaps the text-generation policy. The default is the
// placeholder policy; a real acoustic model can be dropped in behind the
// same contract.
func (e *Engine) SetTranscriber(t Transcriber) {
	e.transcriber = t
}

// Transcribe loads an audio file and runs it through the processing chain
func (e *Engine) Transcribe(path string) (string, error) {
	samples, err := audio.LoadFile(path)
	if err != nil {
		observability.RecordTranscription("file", false)
		observability.RecordError("load", "engine")
		return "", err
	}

	text := e.run(samples)
	observability.RecordTranscription("file", true)
	return text, nil
}

// TranscribeBytes runs an in-memory audio buffer (assumed WAV) through the
// processing chain
func (e *Engine) TranscribeBytes(data []byte) (string, error) {
	samples, err := audio.LoadBytes(data)
	if err != nil {
		observability.RecordTranscription("bytes", false)
		observability.RecordError("load", "engine")
		return "", err
	}

	text := e.run(samples)
	observability.RecordTranscription("bytes", true)
	return text, nil
}

// TranscribeSamples runs an already-decoded sample sequence through the
// processing chain. This is the entry point the realtime capture path uses
// for each drained batch.
func (e *Engine) TranscribeSamples(samples []float64) string {
	text := e.run(samples)
	observability.RecordTranscription("realtime", true)
	return text
}

// Preprocess applies the conditioning stages in pipeline order: noise
// reduction (if enabled), VAD (if enabled), then normalization. The VAD
// measures window energy from the original un-filtered signal so gate and
// filter suppression is not compounded into the speech decision.
func (e *Engine) Preprocess(samples []float64) []float64 {
	processed := samples

	if e.cfg.NoiseReduction {
		processed = audio.ReduceNoise(processed, e.cfg.SilenceThreshold)
	}

	if e.detector != nil {
		processed = e.detector.Apply(processed, samples)
	}

	return audio.Normalize(processed)
}

// SaveAudio writes a sample sequence to a PCM16 WAV file using the
// configured sample rate and channel count
func (e *Engine) SaveAudio(samples []float64, path string) error {
	if err := audio.WriteFile(path, samples, e.cfg.SampleRate, e.cfg.Channels); err != nil {
		observability.RecordError("save", "engine")
		return err
	}
	return nil
}

func (e *Engine) run(samples []float64) string {
	start := time.Now()

	processed := e.Preprocess(samples)
	features := audio.ExtractFeatures(processed, e.cfg.SampleRate)
	text := e.transcriber.Transcribe(features)

	observability.ObserveProcessing(len(samples), time.Since(start))

	e.logger.Debug().
		Int("samples", len(samples)).
		Float64("energy", features.Energy).
		Float64("zero_crossing_rate", features.ZeroCrossingRate).
		Float64("centroid", features.Centroid).
		Dur("duration", features.Duration).
		Msg("Processed audio clip")

	return text
}
