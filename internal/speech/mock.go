package speech

import (
	"context"
	"sync"
	"time"
)

// MockSynthesizer is a test Synthesizer that records what it was asked to say.
type MockSynthesizer struct {
	mu        sync.Mutex
	delay     time.Duration
	errs      map[string]error
	spoken    []string
	active    int
	maxActive int
	cancelled int
	notify    chan struct{}
}

// NewMockSynthesizer creates a mock that returns immediately.
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{
		errs:   make(map[string]error),
		notify: make(chan struct{}, 1),
	}
}

// SetDelay makes every utterance take d.
func (m *MockSynthesizer) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// FailOn makes Speak return err for text.
func (m *MockSynthesizer) FailOn(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[text] = err
}

// Speak records text after the configured delay.
func (m *MockSynthesizer) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	m.active++
	m.maxActive = max(m.maxActive, m.active)
	delay := m.delay
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			m.mu.Lock()
			m.cancelled++
			m.mu.Unlock()
			return ctx.Err()
		}
	}

	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	err := m.errs[text]
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}

	return err
}

// Spoken returns the utterances completed so far, in order.
func (m *MockSynthesizer) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.spoken...)
}

// MaxConcurrent returns the highest number of overlapping Speak calls seen.
func (m *MockSynthesizer) MaxConcurrent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxActive
}

// Cancelled returns how many utterances ended because their context was done.
func (m *MockSynthesizer) Cancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelled
}

// WaitFor blocks until at least n utterances have completed or timeout passes.
func (m *MockSynthesizer) WaitFor(n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		if len(m.Spoken()) >= n {
			return true
		}
		select {
		case <-m.notify:
		case <-deadline:
			return len(m.Spoken()) >= n
		}
	}
}
