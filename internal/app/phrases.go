package app

import (
	"maps"

	"github.com/ayusman/signspeak/internal/gesture"
)

// Phrase returns the text spoken and written for a label: the stored
// override when there is one, otherwise the label's display name.
func (a *App) Phrase(l gesture.Label) string {
	a.phrasesMu.RLock()
	defer a.phrasesMu.RUnlock()
	if text, ok := a.phrases[l]; ok {
		return text
	}
	return l.String()
}

// Phrases returns the effective phrase for every sign.
func (a *App) Phrases() map[gesture.Label]string {
	a.phrasesMu.RLock()
	defer a.phrasesMu.RUnlock()

	out := make(map[gesture.Label]string, len(gesture.Labels))
	for _, l := range gesture.Labels {
		out[l] = l.String()
	}
	maps.Copy(out, a.phrases)
	return out
}

// LoadPhrases replaces the phrase overrides with those in the store.
// Rows with an unknown label are skipped.
func (a *App) LoadPhrases() error {
	if a.config.Store == nil {
		return nil
	}

	rows, err := a.config.Store.Phrases().List()
	if err != nil {
		return err
	}

	phrases := make(map[gesture.Label]string, len(rows))
	for _, p := range rows {
		l, err := gesture.ParseLabel(p.Label)
		if err != nil || l == gesture.None {
			a.logger.Warn().Str("label", p.Label).Msg("Skipping phrase for unknown sign")
			continue
		}
		phrases[l] = p.Text
	}

	a.phrasesMu.Lock()
	a.phrases = phrases
	a.phrasesMu.Unlock()

	a.logger.Info().Int("overrides", len(phrases)).Msg("Loaded phrases from database")
	return nil
}
