// Package tray provides a system tray interface for SignSpeak.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// maxTitleLen is the longest menu title shown before truncation.
const maxTitleLen = 48

// Tray represents the system tray application.
type Tray struct {
	onToggle  func(enabled bool)
	onClear   func()
	onOverlay func()
	onQuit    func()
	enabled   bool
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuLastWord *systray.MenuItem
	menuSentence *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when recognition is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnClear sets the callback function to be called when the sentence is cleared.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnOverlay sets the callback function to be called when the overlay menu item is clicked.
func (t *Tray) OnOverlay(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOverlay = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("SignSpeak")
	systray.SetTooltip("SignSpeak sign language to speech")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle sign recognition")
	systray.AddSeparator()

	t.menuLastWord = systray.AddMenuItem(lastWordTitle(""), "Last recognized word")
	t.menuLastWord.Disable()
	t.menuSentence = systray.AddMenuItem(sentenceTitle(""), "Sentence in progress")
	t.menuSentence.Disable()
	t.mu.Unlock()

	menuClear := systray.AddMenuItem("Clear Sentence", "Discard the sentence in progress")
	systray.AddSeparator()

	menuOverlay := systray.AddMenuItem("Open Overlay...", "Open the overlay in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit SignSpeak")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuClear.ClickedCh:
				t.handleClear()
			case <-menuOverlay.ClickedCh:
				t.handleOverlay()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleClear() {
	t.mu.RLock()
	callback := t.onClear
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
	t.SetSentence("")
}

func (t *Tray) handleOverlay() {
	t.mu.RLock()
	callback := t.onOverlay
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastWord updates the last word display in the menu.
func (t *Tray) SetLastWord(word string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastWord != nil {
		t.menuLastWord.SetTitle(lastWordTitle(word))
	}
}

// SetSentence updates the sentence display in the menu.
func (t *Tray) SetSentence(sentence string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuSentence != nil {
		t.menuSentence.SetTitle(sentenceTitle(sentence))
	}
}

// SetEnabled updates the enabled state without invoking the toggle callback.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func lastWordTitle(word string) string {
	if word == "" {
		return "Last: none"
	}
	return "Last: " + truncate(word, maxTitleLen)
}

func sentenceTitle(sentence string) string {
	if sentence == "" {
		return "Sentence: (empty)"
	}
	// Keep the end of the sentence, where new words arrive.
	r := []rune(sentence)
	if len(r) > maxTitleLen {
		sentence = "…" + string(r[len(r)-maxTitleLen+1:])
	}
	return "Sentence: " + sentence
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
