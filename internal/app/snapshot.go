package app

import (
	"time"

	"github.com/ayusman/signspeak/internal/gesture"
)

// Snapshot is the state shown by the overlay. Empty Label and Sentence mean
// nothing to show; placeholders are up to the renderer.
type Snapshot struct {
	Label       string    `json:"label"`    // stabilized sign of the latest frame
	Sentence    string    `json:"sentence"` // sentence in progress
	LastWord    string    `json:"lastWord"` // most recently emitted word
	HandPresent bool      `json:"handPresent"`
	Silence     int       `json:"silence"`
	FPS         int       `json:"fps"`
	Enabled     bool      `json:"enabled"`
	Frame       uint64    `json:"frame"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Snapshot returns a copy of the current overlay state.
func (a *App) Snapshot() Snapshot {
	a.snapMu.RLock()
	defer a.snapMu.RUnlock()
	return a.snapshot
}

func (a *App) updateSnapshot(res gesture.Result, sentence string, silence, fps int) {
	a.snapMu.Lock()
	defer a.snapMu.Unlock()

	s := &a.snapshot
	s.Label = ""
	if res.Stabilized != gesture.None {
		s.Label = res.Stabilized.String()
	}
	if res.Emitted {
		s.LastWord = res.Text
	}
	s.Sentence = sentence
	s.HandPresent = res.HandPresent
	s.Silence = silence
	s.FPS = fps
	s.Frame++
	s.UpdatedAt = time.Now()
}
