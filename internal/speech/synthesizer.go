// Package speech turns text into audible speech off the frame path.
//
// A Dispatcher owns a bounded FIFO queue and a single worker goroutine that
// hands each request to a Synthesizer, so at most one utterance plays at a
// time and producers never block.
package speech

import "context"

// Synthesizer speaks text aloud. Speak blocks until the utterance has been
// played or ctx is done.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// SynthesizerFunc adapts a function to the Synthesizer interface.
type SynthesizerFunc func(ctx context.Context, text string) error

// Speak calls f.
func (f SynthesizerFunc) Speak(ctx context.Context, text string) error {
	return f(ctx, text)
}
