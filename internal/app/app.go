// Package app drives the SignSpeak recognition pipeline: camera frames in,
// words and sentences out to speech, events, the overlay and the tray.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/signspeak/internal/capture"
	"github.com/ayusman/signspeak/internal/detector"
	"github.com/ayusman/signspeak/internal/events"
	"github.com/ayusman/signspeak/internal/gesture"
	"github.com/ayusman/signspeak/internal/logging"
	"github.com/ayusman/signspeak/internal/metrics"
	"github.com/ayusman/signspeak/internal/speech"
	"github.com/ayusman/signspeak/internal/store"
)

// DefaultSentencePrefix is spoken before a finalized sentence.
const DefaultSentencePrefix = "Sentence completed: "

// Speaker queues text for speech without blocking.
type Speaker interface {
	Enqueue(text string) bool
}

// EventPublisher receives word and sentence events.
type EventPublisher interface {
	PublishWord(ctx context.Context, event events.WordEvent) error
	PublishSentence(ctx context.Context, event events.SentenceEvent) error
	SessionID() string
}

// Config holds the collaborators and tunables of an App. Only Pipeline is
// required; nil collaborators are created from their configs or disabled.
type Config struct {
	Store          *store.Store
	Camera         capture.Camera
	CameraConfig   capture.Config
	Detector       detector.Detector
	DetectorConfig detector.Config
	Pipeline       gesture.PipelineConfig
	Speech         Speaker
	Events         EventPublisher
	SentencePrefix string
	Metrics        *metrics.Metrics
}

// App orchestrates capture, recognition and the downstream side effects.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	speaker  Speaker
	events   EventPublisher
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	// pipeMu guards the pipeline, which the frame loop and HTTP handlers share.
	pipeMu   sync.Mutex
	pipeline *gesture.Pipeline
	pipeCfg  gesture.PipelineConfig
	fps      FPSCounter

	phrasesMu sync.RWMutex
	phrases   map[gesture.Label]string

	snapMu   sync.RWMutex
	snapshot Snapshot

	preview preview
	history *sentenceLog

	cbMu       sync.RWMutex
	onWord     []func(events.WordEvent)
	onSentence []func(events.SentenceEvent)
	onReset    []func()
	enabled    bool
	mu         sync.RWMutex
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// New creates an App. When cfg.Detector is nil the MediaPipe detector is
// started; a failure to start it is returned since nothing works without it.
func New(cfg Config) (*App, error) {
	if cfg.SentencePrefix == "" {
		cfg.SentencePrefix = DefaultSentencePrefix
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.DefaultMetrics
	}

	a := &App{
		config:  cfg,
		camera:  cfg.Camera,
		speaker: cfg.Speech,
		events:  cfg.Events,
		metrics: cfg.Metrics,
		logger:  logging.WithComponent("app"),
		phrases: make(map[gesture.Label]string),
		enabled: true,
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(cfg.CameraConfig)
	}

	if cfg.Detector != nil {
		a.detector = cfg.Detector
	} else {
		mp, err := detector.NewMediaPipeDetector(cfg.DetectorConfig)
		if err != nil {
			return nil, fmt.Errorf("start hand detector: %w", err)
		}
		a.detector = mp
		a.logger.Info().Msg("Using MediaPipe hand detection")
	}

	a.pipeCfg = cfg.Pipeline
	a.pipeCfg.Phrase = a.Phrase
	a.pipeline = gesture.NewPipeline(a.pipeCfg)
	a.snapshot = Snapshot{Enabled: true}

	if cfg.Store != nil {
		a.history = newSentenceLog(cfg.Store.Sentences(), a.logger)
	}

	return a, nil
}

// SetEnabled enables or disables recognition. Disabling clears the
// in-progress sentence so a pause never produces a stale sentence.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.mu.Unlock()

	if changed && !enabled {
		a.ResetSentence()
	}

	a.snapMu.Lock()
	a.snapshot.Enabled = enabled
	a.snapMu.Unlock()

	a.logger.Info().Bool("enabled", enabled).Msg("Recognition toggled")
}

// IsEnabled returns whether recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnWord registers a callback invoked for every emitted word.
func (a *App) OnWord(fn func(events.WordEvent)) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.onWord = append(a.onWord, fn)
}

// OnSentence registers a callback invoked for every finalized sentence.
func (a *App) OnSentence(fn func(events.SentenceEvent)) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.onSentence = append(a.onSentence, fn)
}

// OnReset registers a callback invoked whenever the sentence in progress is
// discarded without being finalized.
func (a *App) OnReset(fn func()) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.onReset = append(a.onReset, fn)
}

// ResetSentence discards the sentence in progress and the stabilization and
// debounce state.
func (a *App) ResetSentence() {
	a.pipeMu.Lock()
	a.pipeline.Reset()
	a.pipeMu.Unlock()

	a.snapMu.Lock()
	a.snapshot.Sentence = ""
	a.snapshot.Label = ""
	a.snapMu.Unlock()

	a.notifyReset()
}

// Reconfigure replaces the pipeline tunables. The recognition state starts
// over.
func (a *App) Reconfigure(cfg gesture.PipelineConfig) {
	cfg.Phrase = a.Phrase

	a.pipeMu.Lock()
	a.pipeCfg = cfg
	a.pipeline = gesture.NewPipeline(cfg)
	a.pipeMu.Unlock()

	a.snapMu.Lock()
	a.snapshot.Sentence = ""
	a.snapshot.Label = ""
	a.snapMu.Unlock()

	a.notifyReset()

	a.logger.Info().
		Int("windowSize", cfg.WindowSize).
		Dur("cooldown", cfg.Cooldown).
		Int("silenceFrames", cfg.SilenceFrames).
		Msg("Pipeline reconfigured")
}

// PipelineConfig returns the tunables in effect.
func (a *App) PipelineConfig() gesture.PipelineConfig {
	a.pipeMu.Lock()
	defer a.pipeMu.Unlock()
	cfg := a.pipeCfg
	cfg.Phrase = nil
	return cfg
}

// Start opens the camera and begins the frame loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.logger.Info().Int("fps", a.camera.FPS()).Msg("Recognition pipeline started")
	return nil
}

// Stop halts the frame loop and closes the camera. The App can be started
// again.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	<-doneCh

	if err := a.camera.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Error closing camera")
	}

	a.logger.Info().Msg("Recognition pipeline stopped")
}

// Running reports whether the frame loop is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Close stops the loop, flushes the sentence log and releases the detector.
// It also shuts down the speech dispatcher when the App was given one.
func (a *App) Close() error {
	a.Stop()

	if d, ok := a.speaker.(*speech.Dispatcher); ok {
		d.Shutdown()
	}

	if a.history != nil {
		a.history.close()
	}

	if err := a.detector.Close(); err != nil {
		return fmt.Errorf("close detector: %w", err)
	}
	return nil
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}

// SessionID returns the event session ID, or an empty string without a
// publisher.
func (a *App) SessionID() string {
	if a.events == nil {
		return ""
	}
	return a.events.SessionID()
}

func (a *App) notifyReset() {
	a.cbMu.RLock()
	fns := append(([]func())(nil), a.onReset...)
	a.cbMu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

func (a *App) wordCallbacks() []func(events.WordEvent) {
	a.cbMu.RLock()
	defer a.cbMu.RUnlock()
	return append(([]func(events.WordEvent))(nil), a.onWord...)
}

func (a *App) sentenceCallbacks() []func(events.SentenceEvent) {
	a.cbMu.RLock()
	defer a.cbMu.RUnlock()
	return append(([]func(events.SentenceEvent))(nil), a.onSentence...)
}

// publishTimeout bounds a single event hand-off.
const publishTimeout = 2 * time.Second
