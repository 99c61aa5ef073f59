package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the speech pipeline.
// Every downstream stage (loader, noise reducer, VAD, normalizer,
// transcriber, capture session) reads its parameters from here; the
// struct is treated as immutable after Load/Validate.
type Config struct {
	// Audio format configuration
	SampleRate int `envconfig:"SAMPLE_RATE" default:"16000"` // Hz, must be > 0
	Channels   int `envconfig:"CHANNELS" default:"1"`        // Channel count, must be >= 1

	// Realtime capture configuration
	CaptureBufferSize int `envconfig:"CAPTURE_BUFFER_SIZE" default:"4096"` // Hardware callback chunk size in frames

	// Signal conditioning configuration
	SilenceThreshold float64       `envconfig:"SILENCE_THRESHOLD" default:"0.01"`   // Noise-gate cutoff amplitude
	MinAudioDuration time.Duration `envconfig:"MIN_AUDIO_DURATION" default:"500ms"` // Below this the transcriber reports "too short"
	NoiseReduction   bool          `envconfig:"NOISE_REDUCTION" default:"true"`     // Toggles gate + smoothing filter
	VADEnabled       bool          `envconfig:"VAD_ENABLED" default:"true"`         // Toggles voice activity detection

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics
	MetricsPort    string `envconfig:"METRICS_PORT" default:"9090"`    // Port for the metrics/health listener in live mode
}

// Load reads configuration from environment variables.
// It first attempts to load from .env file if it exists, then from environment.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments).
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration the pipeline ships with:
// 16 kHz mono capture with all conditioning stages enabled.
func Default() *Config {
	return &Config{
		SampleRate:        16000,
		Channels:          1,
		CaptureBufferSize: 4096,
		SilenceThreshold:  0.01,
		MinAudioDuration:  500 * time.Millisecond,
		NoiseReduction:    true,
		VADEnabled:        true,
		LogLevel:          "info",
		MetricsEnabled:    true,
		MetricsPort:       "9090",
	}
}

// Validate enforces the invariants every downstream stage relies on.
// A zero sample rate makes the VAD window arithmetic undefined, so it is
// rejected here rather than at call time.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.VADEnabled && c.SampleRate < 100 {
		return fmt.Errorf("sample rate %d too low for VAD: 10ms windows require at least 100 Hz", c.SampleRate)
	}
	if c.Channels < 1 {
		return fmt.Errorf("channel count must be at least 1, got %d", c.Channels)
	}
	if c.CaptureBufferSize <= 0 {
		return fmt.Errorf("capture buffer size must be positive, got %d", c.CaptureBufferSize)
	}
	if c.SilenceThreshold < 0 {
		return fmt.Errorf("silence threshold must be non-negative, got %f", c.SilenceThreshold)
	}
	if c.MinAudioDuration < 0 {
		return fmt.Errorf("minimum audio duration must be non-negative, got %s", c.MinAudioDuration)
	}
	return nil
}
