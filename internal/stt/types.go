package stt

import "github.com/lexiqai/speech-pipeline/internal/audio"

// Transcriber turns an acoustic feature set into text. It is deliberately
// a separate, swappable component: a genuine acoustic model can later be
// substituted behind the same contract without touching the upstream
// conditioning stages.
type Transcriber interface {
	// Transcribe produces text for one processed clip. Implementations
	// must be deterministic functions of the feature set and never return
	// an empty string.
	Transcribe(features audio.Features) string
}
