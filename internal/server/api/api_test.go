package api

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/ayusman/signspeak/internal/gesture"
	"github.com/ayusman/signspeak/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// fakeBook reloads overrides from the store like the App does.
type fakeBook struct {
	store   *store.Store
	mu      sync.Mutex
	phrases map[gesture.Label]string
	loads   int
}

func (b *fakeBook) Phrases() map[gesture.Label]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[gesture.Label]string)
	for _, l := range gesture.Labels {
		out[l] = l.String()
	}
	for l, text := range b.phrases {
		out[l] = text
	}
	return out
}

func (b *fakeBook) LoadPhrases() error {
	rows, err := b.store.Phrases().List()
	if err != nil {
		return err
	}
	phrases := make(map[gesture.Label]string)
	for _, p := range rows {
		if l, err := gesture.ParseLabel(p.Label); err == nil {
			phrases[l] = p.Text
		}
	}
	b.mu.Lock()
	b.phrases = phrases
	b.loads++
	b.mu.Unlock()
	return nil
}

// fakeTuner records the last applied pipeline configuration.
type fakeTuner struct {
	cfg     gesture.PipelineConfig
	applied int
}

func (f *fakeTuner) PipelineConfig() gesture.PipelineConfig { return f.cfg }

func (f *fakeTuner) Reconfigure(cfg gesture.PipelineConfig) {
	f.cfg = cfg
	f.applied++
}
