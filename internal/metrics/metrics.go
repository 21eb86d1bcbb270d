// Package metrics provides Prometheus metrics for the sign-to-speech pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "signspeak"

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	// Frame metrics
	FramesTotal     *prometheus.CounterVec
	DetectErrors    prometheus.Counter
	FPS             prometheus.Gauge
	FrameDuration   prometheus.Histogram
	Classifications *prometheus.CounterVec

	// Word and sentence metrics
	WordsEmitted       *prometheus.CounterVec
	SentencesFinalized prometheus.Counter
	SentenceWords      prometheus.Histogram

	// Speech metrics
	SpeechEnqueued   prometheus.Counter
	SpeechDropped    *prometheus.CounterVec
	SpeechUtterances *prometheus.CounterVec
	SpeechDuration   prometheus.Histogram
	SpeechQueueDepth prometheus.Gauge

	// Event publishing metrics
	EventsPublished *prometheus.CounterVec

	// Plugin hook metrics
	PluginRuns *prometheus.CounterVec
}

// DefaultMetrics is registered against the default Prometheus registry.
var DefaultMetrics = New(prometheus.DefaultRegisterer)

// New creates all collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		FramesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames processed, partitioned by hand presence",
		}, []string{"hand"}),
		DetectErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detect_errors_total",
			Help:      "Frames whose hand detection failed",
		}),
		FPS: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fps",
			Help:      "Most recent frame rate of the processing loop",
		}),
		FrameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent detecting and classifying one frame",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.033, 0.05, 0.1, 0.25},
		}),
		Classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Raw per-frame classifier results by label",
		}, []string{"label"}),
		WordsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "words_emitted_total",
			Help:      "Finalized word events by label",
		}, []string{"label"}),
		SentencesFinalized: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_finalized_total",
			Help:      "Sentences closed out after sustained silence",
		}),
		SentenceWords: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sentence_words",
			Help:      "Number of words in finalized sentences",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		SpeechEnqueued: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_enqueued_total",
			Help:      "Speech requests accepted by the dispatcher",
		}),
		SpeechDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_dropped_total",
			Help:      "Speech requests dropped before synthesis",
		}, []string{"reason"}),
		SpeechUtterances: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_utterances_total",
			Help:      "Completed synthesis calls by result",
		}, []string{"result"}),
		SpeechDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "speech_duration_seconds",
			Help:      "Duration of blocking synthesis calls",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		SpeechQueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "speech_queue_depth",
			Help:      "Speech requests waiting for the worker",
		}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Word and sentence events handed to the publisher",
		}, []string{"type", "status"}),
		PluginRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_runs_total",
			Help:      "Plugin hook invocations by plugin and result (success, error, rejected, dropped)",
		}, []string{"plugin", "result"}),
	}
}

// RecordFrame records one processed frame.
func (m *Metrics) RecordFrame(handPresent bool, seconds float64) {
	hand := "absent"
	if handPresent {
		hand = "present"
	}
	m.FramesTotal.WithLabelValues(hand).Inc()
	m.FrameDuration.Observe(seconds)
}

// RecordUtterance records the outcome of one synthesis call.
func (m *Metrics) RecordUtterance(err error, seconds float64) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.SpeechUtterances.WithLabelValues(result).Inc()
	m.SpeechDuration.Observe(seconds)
}

// RecordEvent records an event publish attempt.
func (m *Metrics) RecordEvent(eventType string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, status).Inc()
}
