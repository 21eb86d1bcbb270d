// Package plugin runs external hook programs when words and sentences are
// recognized. A plugin is a directory holding a plugin.json manifest and an
// executable that reads one JSON Request on stdin and writes a Response.
package plugin

import "encoding/json"

// Events a plugin can subscribe to.
const (
	EventWord     = "word"
	EventSentence = "sentence"
)

// Manifest describes a plugin's metadata and subscriptions.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Handles reports whether the plugin subscribes to event.
func (m Manifest) Handles(event string) bool {
	for _, e := range m.Events {
		if e == event {
			return true
		}
	}
	return false
}

// Request is the payload sent to a plugin on stdin.
type Request struct {
	Event     string          `json:"event"`
	SessionID string          `json:"sessionId,omitempty"`
	Label     string          `json:"label,omitempty"`
	Text      string          `json:"text"`
	Sentence  string          `json:"sentence,omitempty"`
	Words     int             `json:"words,omitempty"`
	Timestamp int64           `json:"timestamp"` // Unix milliseconds
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response is what a plugin writes to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
