package speech

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayusman/signspeak/internal/logging"
	"github.com/ayusman/signspeak/internal/metrics"
)

// Dispatcher defaults.
const (
	DefaultQueueSize       = 64
	DefaultSpeakTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 500 * time.Millisecond
)

// Drop reasons reported to metrics.
const (
	dropQueueFull = "queue_full"
	dropShutdown  = "shutdown"
)

// Config holds dispatcher settings.
type Config struct {
	QueueSize       int
	SpeakTimeout    time.Duration // per-utterance limit
	ShutdownTimeout time.Duration // how long Shutdown waits for the worker
	Metrics         *metrics.Metrics
}

// DefaultConfig returns the dispatcher defaults.
func DefaultConfig() Config {
	return Config{
		QueueSize:       DefaultQueueSize,
		SpeakTimeout:    DefaultSpeakTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Request is one queued utterance.
type Request struct {
	ID         uuid.UUID
	Text       string
	EnqueuedAt time.Time
}

// Dispatcher queues text and speaks it one request at a time, in order.
type Dispatcher struct {
	cfg     Config
	synth   Synthesizer
	queue   chan Request
	logger  zerolog.Logger
	metrics *metrics.Metrics

	// stop ends the worker loop; abort cancels an in-flight utterance.
	stopCtx   context.Context
	stop      context.CancelFunc
	abortCtx  context.Context
	abort     context.CancelFunc
	done      chan struct{}
	mu        sync.RWMutex
	stopped   bool
	closeOnce sync.Once
}

// NewDispatcher initializes the synthesizer and starts the worker.
//
// When init fails the error is logged and a disabled dispatcher is returned;
// its Enqueue and Shutdown are no-ops.
func NewDispatcher(cfg Config, init func() (Synthesizer, error)) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.SpeakTimeout <= 0 {
		cfg.SpeakTimeout = DefaultSpeakTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.DefaultMetrics
	}

	d := &Dispatcher{
		cfg:     cfg,
		logger:  logging.WithComponent("speech"),
		metrics: cfg.Metrics,
	}

	if init == nil {
		d.logger.Warn().Msg("No speech synthesizer configured, speech disabled")
		return d
	}
	synth, err := init()
	if err != nil || synth == nil {
		d.logger.Warn().Err(err).Msg("Speech synthesizer unavailable, speech disabled")
		return d
	}

	d.synth = synth
	d.queue = make(chan Request, cfg.QueueSize)
	d.stopCtx, d.stop = context.WithCancel(context.Background())
	d.abortCtx, d.abort = context.WithCancel(context.Background())
	d.done = make(chan struct{})

	go d.run()

	d.logger.Info().
		Int("queueSize", cfg.QueueSize).
		Dur("speakTimeout", cfg.SpeakTimeout).
		Msg("Speech dispatcher started")

	return d
}

// Enabled reports whether the dispatcher has a working synthesizer.
func (d *Dispatcher) Enabled() bool {
	return d.synth != nil
}

// Pending returns the number of queued requests not yet picked up.
func (d *Dispatcher) Pending() int {
	if d.queue == nil {
		return 0
	}
	return len(d.queue)
}

// Enqueue queues text for speaking and returns immediately. It reports
// whether the request was accepted. Empty text, a disabled or shut down
// dispatcher, and a full queue all return false.
func (d *Dispatcher) Enqueue(text string) bool {
	if !d.Enabled() || strings.TrimSpace(text) == "" {
		return false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return false
	}

	req := Request{
		ID:         uuid.New(),
		Text:       text,
		EnqueuedAt: time.Now(),
	}

	select {
	case d.queue <- req:
		d.metrics.SpeechEnqueued.Inc()
		d.metrics.SpeechQueueDepth.Set(float64(len(d.queue)))
		d.logger.Debug().
			Str("requestId", req.ID.String()).
			Str("text", text).
			Msg("Speech request queued")
		return true
	default:
		d.metrics.SpeechDropped.WithLabelValues(dropQueueFull).Inc()
		d.logger.Warn().
			Str("text", text).
			Int("queueSize", d.cfg.QueueSize).
			Msg("Speech queue full, dropping request")
		return false
	}
}

// Shutdown stops the worker and waits up to the shutdown timeout for it to
// exit. Queued requests are dropped. An utterance still playing when the
// wait expires is cancelled. Calling Shutdown more than once is safe.
func (d *Dispatcher) Shutdown() {
	if !d.Enabled() {
		return
	}

	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		d.mu.Unlock()

		d.stop()

		select {
		case <-d.done:
		case <-time.After(d.cfg.ShutdownTimeout):
			d.logger.Warn().
				Dur("timeout", d.cfg.ShutdownTimeout).
				Msg("Speech worker did not stop in time, abandoning utterance")
		}
		d.abort()

		dropped := d.drain()
		d.metrics.SpeechQueueDepth.Set(0)
		d.logger.Info().Int("dropped", dropped).Msg("Speech dispatcher stopped")
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for {
		select {
		case <-d.stopCtx.Done():
			return
		case req := <-d.queue:
			d.metrics.SpeechQueueDepth.Set(float64(len(d.queue)))
			// select picks randomly among ready cases, so re-check stop.
			if d.stopCtx.Err() != nil {
				d.metrics.SpeechDropped.WithLabelValues(dropShutdown).Inc()
				return
			}
			d.speak(req)
		}
	}
}

func (d *Dispatcher) speak(req Request) {
	ctx, cancel := context.WithTimeout(d.abortCtx, d.cfg.SpeakTimeout)
	defer cancel()

	logger := d.logger.With().Str("requestId", req.ID.String()).Logger()
	logger.Debug().
		Str("text", req.Text).
		Dur("queued", time.Since(req.EnqueuedAt)).
		Msg("Speaking")

	start := time.Now()
	err := d.synth.Speak(ctx, req.Text)
	d.metrics.RecordUtterance(err, time.Since(start).Seconds())

	if err != nil {
		logger.Error().Err(err).Str("text", req.Text).Msg("Speech synthesis failed")
	}
}

func (d *Dispatcher) drain() int {
	n := 0
	for {
		select {
		case <-d.queue:
			n++
			d.metrics.SpeechDropped.WithLabelValues(dropShutdown).Inc()
		default:
			return n
		}
	}
}
