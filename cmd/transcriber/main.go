package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lexiqai/speech-pipeline/internal/capture"
	"github.com/lexiqai/speech-pipeline/internal/config"
	"github.com/lexiqai/speech-pipeline/internal/observability"
	"github.com/lexiqai/speech-pipeline/internal/stt"
)

func main() {
	live := flag.Bool("live", false, "capture from the default input device instead of transcribing files")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Int("sample_rate", cfg.SampleRate).
		Int("channels", cfg.Channels).
		Bool("noise_reduction", cfg.NoiseReduction).
		Bool("vad_enabled", cfg.VADEnabled).
		Str("log_level", cfg.LogLevel).
		Msg("Speech pipeline starting")

	engine, err := stt.NewEngine(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build processing engine")
	}

	if *live {
		runLive(cfg, engine)
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: transcriber [-live] <audio file>...")
		os.Exit(2)
	}

	exitCode := 0
	for _, path := range flag.Args() {
		text, err := engine.Transcribe(path)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Transcription failed")
			exitCode = 1
			continue
		}
		fmt.Printf("%s: %s\n", path, text)
	}
	os.Exit(exitCode)
}

// runLive captures from the default input device until SIGINT/SIGTERM,
// printing each emitted transcript
func runLive(cfg *config.Config, engine *stt.Engine) {
	logger := observability.GetLogger()

	// Metrics and health listener
	if cfg.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/health", observability.HealthCheckHandler())

		server := &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.MetricsPort),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}

		go func() {
			logger.Info().Str("port", cfg.MetricsPort).Msg("Prometheus metrics enabled at /metrics")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	session := capture.NewSession(cfg, engine, nil)
	if err := session.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start capture session")
	}

	logger.Info().Str("session_id", session.ID()).Msg("Listening; press Ctrl+C to stop")

	results := session.Results()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for text := range results {
			fmt.Println(text)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Stopping capture session...")
	if err := session.Stop(); err != nil {
		logger.Error().Err(err).Msg("Capture session stop reported an error")
	}

	// Drain any in-flight transcript before exiting
	<-done
	logger.Info().Msg("Capture session exited")
}
