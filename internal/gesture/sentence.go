package gesture

import "strings"

// Sentence counts consecutive hand-absent frames and accumulates emitted
// words until a long enough silence closes the sentence.
//
// The two silence checks use different comparisons: the debounce hold is
// released only once the count exceeds the threshold, while a non-empty
// sentence finalizes as soon as the count reaches it.
type Sentence struct {
	threshold int
	silence   int
	words     []string
}

// NewSentence creates an empty sentence with the given silence threshold in frames.
func NewSentence(threshold int) *Sentence {
	return &Sentence{threshold: threshold}
}

// Observe records hand presence for one frame.
func (s *Sentence) Observe(handPresent bool) {
	if handPresent {
		s.silence = 0
		return
	}
	s.silence++
}

// HoldExpired reports whether the silence run is longer than the threshold.
func (s *Sentence) HoldExpired() bool {
	return s.silence > s.threshold
}

// Append adds a word to the sentence.
func (s *Sentence) Append(word string) {
	if word == "" {
		return
	}
	s.words = append(s.words, word)
}

// Finalize closes the sentence once the silence run reaches the threshold.
// It returns the space-joined words and clears both the words and the
// silence count. An empty sentence never finalizes.
func (s *Sentence) Finalize() (string, bool) {
	if s.silence < s.threshold || len(s.words) == 0 {
		return "", false
	}
	text := strings.Join(s.words, " ")
	s.words = nil
	s.silence = 0
	return text, true
}

// Text returns the words so far joined by spaces.
func (s *Sentence) Text() string {
	return strings.Join(s.words, " ")
}

// Words returns a copy of the words so far.
func (s *Sentence) Words() []string {
	return append([]string(nil), s.words...)
}

// Len returns the number of words so far.
func (s *Sentence) Len() int {
	return len(s.words)
}

// Silence returns the current silence run in frames.
func (s *Sentence) Silence() int {
	return s.silence
}

// Threshold returns the silence threshold in frames.
func (s *Sentence) Threshold() int {
	return s.threshold
}

// Clear drops the words and the silence count.
func (s *Sentence) Clear() {
	s.words = nil
	s.silence = 0
}
