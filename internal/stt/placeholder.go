package stt

import (
	"fmt"
	"strings"
	"time"

	"github.com/lexiqai/speech-pipeline/internal/audio"
)

// Word-rate estimates (words per second of audio) keyed off the
// zero-crossing rate, a coarse proxy for speech tempo.
const (
	fastSpeechWordsPerSecond   = 150
	normalSpeechWordsPerSecond = 120
	slowSpeechWordsPerSecond   = 80
)

// PlaceholderTranscriber is a rule-based stand-in for an acoustic model.
// Its output is a deterministic description of the clip's features, which
// makes the whole pipeline testable end to end; it makes no attempt at
// linguistic realism.
type PlaceholderTranscriber struct {
	minAudioDuration time.Duration
}

// NewPlaceholderTranscriber creates the placeholder policy. Clips shorter
// than minAudioDuration are reported as too short instead of described.
func NewPlaceholderTranscriber(minAudioDuration time.Duration) *PlaceholderTranscriber {
	return &PlaceholderTranscriber{minAudioDuration: minAudioDuration}
}

// Transcribe implements the Transcriber contract
func (p *PlaceholderTranscriber) Transcribe(features audio.Features) string {
	if features.Duration < p.minAudioDuration {
		return "Audio too short to transcribe"
	}

	seconds := features.Duration.Seconds()

	var estimatedWords int
	switch {
	case features.ZeroCrossingRate > 0.10:
		estimatedWords = int(seconds * fastSpeechWordsPerSecond)
	case features.ZeroCrossingRate > 0.05:
		estimatedWords = int(seconds * normalSpeechWordsPerSecond)
	default:
		estimatedWords = int(seconds * slowSpeechWordsPerSecond)
	}

	var b strings.Builder
	if features.Energy > 0.01 {
		b.WriteString("Detected speech content. ")
		fmt.Fprintf(&b, "Duration: %.1f seconds. ", seconds)
		fmt.Fprintf(&b, "Estimated words: %d. ", estimatedWords)

		if features.Centroid > 0.5 {
			b.WriteString("High-frequency speech detected. ")
		} else {
			b.WriteString("Low-frequency speech detected. ")
		}
	} else {
		b.WriteString("Silence or very low audio detected. ")
	}

	return b.String()
}
