package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types carried in the eventType field and message header.
const (
	TypeWord     = "sign.word"
	TypeSentence = "sign.sentence"
)

// WordEvent is published each time a stabilized sign is emitted as a word.
type WordEvent struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	SessionID string `json:"sessionId"`
	Timestamp int64  `json:"timestamp"`
	Label     string `json:"label"`
	Text      string `json:"text"`
	Sentence  string `json:"sentence"` // sentence so far, including this word
}

// SentenceEvent is published when a sentence is finalized after silence.
type SentenceEvent struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	SessionID string `json:"sessionId"`
	Timestamp int64  `json:"timestamp"`
	Text      string `json:"text"`
	Words     int    `json:"words"`
}

// NewWordEvent builds a word event stamped with a fresh ID.
func NewWordEvent(sessionID, label, text, sentence string, at time.Time) WordEvent {
	return WordEvent{
		EventType: TypeWord,
		EventID:   uuid.NewString(),
		SessionID: sessionID,
		Timestamp: at.UnixMilli(),
		Label:     label,
		Text:      text,
		Sentence:  sentence,
	}
}

// NewSentenceEvent builds a sentence event stamped with a fresh ID.
func NewSentenceEvent(sessionID, text string, words int, at time.Time) SentenceEvent {
	return SentenceEvent{
		EventType: TypeSentence,
		EventID:   uuid.NewString(),
		SessionID: sessionID,
		Timestamp: at.UnixMilli(),
		Text:      text,
		Words:     words,
	}
}
