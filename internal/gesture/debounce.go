package gesture

import "time"

// DebounceGate decides whether a stabilized label becomes a word.
//
// The gate is idle until it emits, then holds the emitted word. A label is
// emitted when the cooldown since the last emission has elapsed and the label
// differs from the held word. Holding the same sign never re-emits it; only
// Release makes the held word eligible again.
type DebounceGate struct {
	cooldown time.Duration
	lastWord Label
	lastEmit time.Time
}

// NewDebounceGate creates an idle gate with the given cooldown.
func NewDebounceGate(cooldown time.Duration) *DebounceGate {
	return &DebounceGate{cooldown: cooldown}
}

// Evaluate returns the label and true when it should be emitted at now.
func (g *DebounceGate) Evaluate(l Label, now time.Time) (Label, bool) {
	if l == None {
		return None, false
	}
	if !g.lastEmit.IsZero() && now.Sub(g.lastEmit) <= g.cooldown {
		return None, false
	}
	if g.lastWord != None && l == g.lastWord {
		return None, false
	}

	g.lastWord = l
	g.lastEmit = now
	return l, true
}

// Release returns the gate to idle. The cooldown clock is kept.
func (g *DebounceGate) Release() {
	g.lastWord = None
}

// Holding reports whether a word is held.
func (g *DebounceGate) Holding() bool {
	return g.lastWord != None
}

// LastWord returns the held word, or None when idle.
func (g *DebounceGate) LastWord() Label {
	return g.lastWord
}

// Cooldown returns the configured cooldown.
func (g *DebounceGate) Cooldown() time.Duration {
	return g.cooldown
}
