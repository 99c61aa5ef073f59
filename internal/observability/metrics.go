package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Capture session metrics
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "speech_pipeline_active_capture_sessions",
		Help: "Number of capture sessions currently in the Capturing state",
	})

	sessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speech_pipeline_capture_sessions_total",
		Help: "Total number of capture sessions started",
	})

	// Transcription metrics
	transcriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speech_pipeline_transcriptions_total",
		Help: "Total number of transcription requests",
	}, []string{"mode", "status"}) // mode: "file", "bytes", "realtime"

	processingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "speech_pipeline_processing_seconds",
		Help:    "Latency of the full processing chain per invocation",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	})

	// Audio metrics
	samplesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speech_pipeline_samples_processed_total",
		Help: "Total audio samples pushed through the processing chain",
	})

	batchesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speech_pipeline_realtime_batches_total",
		Help: "Total realtime batches drained from capture buffers",
	})

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speech_pipeline_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})
)

// RecordSessionStart records a capture session transitioning to Capturing
func RecordSessionStart() {
	activeSessions.Inc()
	sessionsTotal.Inc()
}

// RecordSessionEnd records a capture session transitioning back to Idle
func RecordSessionEnd() {
	activeSessions.Dec()
}

// RecordTranscription records the outcome of a transcription request
func RecordTranscription(mode string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	transcriptionsTotal.WithLabelValues(mode, status).Inc()
}

// ObserveProcessing records the latency of one run of the processing chain
// together with the number of samples it consumed
func ObserveProcessing(sampleCount int, elapsed time.Duration) {
	samplesProcessed.Add(float64(sampleCount))
	processingLatency.Observe(elapsed.Seconds())
}

// RecordBatch records one realtime batch drained from a capture buffer
func RecordBatch() {
	batchesProcessed.Inc()
}

// RecordError records an error
func RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}
