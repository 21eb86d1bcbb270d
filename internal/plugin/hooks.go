package plugin

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ayusman/signspeak/internal/events"
	"github.com/ayusman/signspeak/internal/logging"
	"github.com/ayusman/signspeak/internal/metrics"
)

// DefaultQueueSize is the number of pending hook requests kept before new
// ones are dropped.
const DefaultQueueSize = 32

// Hooks delivers word and sentence events to subscribed plugins on a single
// background worker, so slow plugins never hold up the frame loop. Requests
// arriving while the queue is full are dropped.
type Hooks struct {
	manager  *Manager
	executor *Executor
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	queue  chan Request
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewHooks starts the hook worker. A nil m uses the default metrics.
func NewHooks(manager *Manager, executor *Executor, queueSize int, m *metrics.Metrics) *Hooks {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if m == nil {
		m = metrics.DefaultMetrics
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Hooks{
		manager:  manager,
		executor: executor,
		metrics:  m,
		logger:   logging.WithComponent("hooks"),
		queue:    make(chan Request, queueSize),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

// Word queues a word event for plugins subscribed to EventWord.
func (h *Hooks) Word(e events.WordEvent) {
	h.enqueue(Request{
		Event:     EventWord,
		SessionID: e.SessionID,
		Label:     e.Label,
		Text:      e.Text,
		Sentence:  e.Sentence,
		Timestamp: e.Timestamp,
	})
}

// Sentence queues a sentence event for plugins subscribed to EventSentence.
func (h *Hooks) Sentence(e events.SentenceEvent) {
	h.enqueue(Request{
		Event:     EventSentence,
		SessionID: e.SessionID,
		Text:      e.Text,
		Sentence:  e.Text,
		Words:     e.Words,
		Timestamp: e.Timestamp,
	})
}

func (h *Hooks) enqueue(req Request) bool {
	subscribers := h.manager.Subscribers(req.Event)
	if len(subscribers) == 0 {
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return false
	}

	select {
	case h.queue <- req:
		return true
	default:
		for _, p := range subscribers {
			h.metrics.PluginRuns.WithLabelValues(p.Manifest.Name, "dropped").Inc()
		}
		h.logger.Warn().Str("event", req.Event).Msg("Plugin queue full, dropping event")
		return false
	}
}

// Close stops accepting events, cancels any running plugin and waits for
// the worker to exit. Queued events are discarded.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()

		h.cancel()
		<-h.done
	})
}

func (h *Hooks) run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			return
		case req := <-h.queue:
			if h.ctx.Err() != nil {
				return
			}
			for _, p := range h.manager.Subscribers(req.Event) {
				h.execute(p, req)
			}
		}
	}
}

func (h *Hooks) execute(p *Plugin, req Request) {
	resp, err := h.executor.Execute(h.ctx, p, req)
	switch {
	case err != nil:
		h.metrics.PluginRuns.WithLabelValues(p.Manifest.Name, "error").Inc()
		h.logger.Warn().Err(err).Str("plugin", p.Manifest.Name).Str("event", req.Event).Msg("Plugin failed")
	case !resp.Success:
		h.metrics.PluginRuns.WithLabelValues(p.Manifest.Name, "rejected").Inc()
		h.logger.Warn().Str("plugin", p.Manifest.Name).Str("error", resp.Error).Msg("Plugin reported failure")
	default:
		h.metrics.PluginRuns.WithLabelValues(p.Manifest.Name, "success").Inc()
		h.logger.Debug().Str("plugin", p.Manifest.Name).Str("event", req.Event).Msg("Plugin ran")
	}
}
