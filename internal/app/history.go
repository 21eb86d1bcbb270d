package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/signspeak/internal/store"
)

const (
	historyQueueSize    = 16
	historyWriteTimeout = 2 * time.Second
	historyDrainTimeout = time.Second
)

// sentenceLog writes finalized sentences to the store from its own
// goroutine so a busy database never holds up the frame loop.
type sentenceLog struct {
	repo   *store.SentenceRepository
	queue  chan *store.Sentence
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

func newSentenceLog(repo *store.SentenceRepository, logger zerolog.Logger) *sentenceLog {
	ctx, cancel := context.WithCancel(context.Background())
	l := &sentenceLog{
		repo:   repo,
		queue:  make(chan *store.Sentence, historyQueueSize),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		logger: logger,
	}
	go l.run()
	return l
}

// record queues s for writing. It never blocks; a full queue drops s.
func (l *sentenceLog) record(s *store.Sentence) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false
	}

	select {
	case l.queue <- s:
		return true
	default:
		l.logger.Warn().Str("sentence", s.Text).Msg("Sentence log queue full, dropping sentence")
		return false
	}
}

// close stops accepting sentences and gives queued writes a moment to
// finish before abandoning them.
func (l *sentenceLog) close() {
	l.once.Do(func() {
		l.mu.Lock()
		l.closed = true
		close(l.queue)
		l.mu.Unlock()

		select {
		case <-l.done:
		case <-time.After(historyDrainTimeout):
			l.cancel()
			<-l.done
		}
		l.cancel()
	})
}

func (l *sentenceLog) run() {
	defer close(l.done)

	for s := range l.queue {
		if l.ctx.Err() != nil {
			return
		}
		ctx, cancel := context.WithTimeout(l.ctx, historyWriteTimeout)
		err := l.repo.CreateContext(ctx, s)
		cancel()
		if err != nil {
			l.logger.Error().Err(err).Str("id", s.ID).Msg("Failed to save sentence")
		}
	}
}
