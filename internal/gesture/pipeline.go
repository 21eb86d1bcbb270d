package gesture

import (
	"time"

	"github.com/ayusman/signspeak/internal/detector"
)

// PipelineConfig holds the tunables of a Pipeline.
type PipelineConfig struct {
	WindowSize    int
	Cooldown      time.Duration
	SilenceFrames int

	// Phrase maps an emitted label to the text added to the sentence.
	// Nil uses the label's display name.
	Phrase func(Label) string
}

// DefaultPipelineConfig returns the reference tunables.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		WindowSize:    10,
		Cooldown:      800 * time.Millisecond,
		SilenceFrames: 15,
	}
}

// Result describes what one frame produced.
type Result struct {
	HandPresent   bool
	Label         Label  // raw classifier output
	Stabilized    Label  // majority-vote output
	Word          Label  // emitted word, None unless Emitted
	Text          string // sentence text of the emitted word
	Emitted       bool
	Sentence      string // finalized sentence, empty unless Finalized
	SentenceWords int    // number of words in Sentence
	Finalized     bool
}

// Pipeline owns all per-session recognition state and advances it one frame
// at a time. It is not safe for concurrent use; the frame loop owns it.
type Pipeline struct {
	stabilizer *Stabilizer
	gate       *DebounceGate
	sentence   *Sentence
	phrase     func(Label) string
}

// NewPipeline creates a pipeline in its initial state.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	phrase := cfg.Phrase
	if phrase == nil {
		phrase = Label.String
	}
	return &Pipeline{
		stabilizer: NewStabilizer(cfg.WindowSize),
		gate:       NewDebounceGate(cfg.Cooldown),
		sentence:   NewSentence(cfg.SilenceFrames),
		phrase:     phrase,
	}
}

// Step processes one frame. hand is nil when no hand was detected.
//
// Frame logic:
// 1. No hand: count silence, drop stabilization evidence, release the
// debounce hold once silence exceeds the threshold
// 2. Hand: reset silence, classify and stabilize
// 3. Debounce the stabilized label; an emitted word joins the sentence
// 4. Finalize the sentence after enough silence
func (p *Pipeline) Step(hand *detector.HandLandmarks, now time.Time) Result {
	res := Result{HandPresent: hand != nil}

	if hand == nil {
		p.sentence.Observe(false)
		p.stabilizer.Reset()
		if p.sentence.HoldExpired() {
			p.gate.Release()
		}
	} else {
		p.sentence.Observe(true)
		res.Label = ClassifyHand(hand)
		res.Stabilized = p.stabilizer.Push(res.Label)
	}

	if word, ok := p.gate.Evaluate(res.Stabilized, now); ok {
		res.Word = word
		res.Text = p.phrase(word)
		res.Emitted = true
		p.sentence.Append(res.Text)
	}

	words := p.sentence.Len()
	if text, ok := p.sentence.Finalize(); ok {
		res.Sentence = text
		res.SentenceWords = words
		res.Finalized = true
	}

	return res
}

// SentenceText returns the sentence accumulated so far.
func (p *Pipeline) SentenceText() string {
	return p.sentence.Text()
}

// LastWord returns the word currently held by the debounce gate.
func (p *Pipeline) LastWord() Label {
	return p.gate.LastWord()
}

// Silence returns the current run of hand-absent frames.
func (p *Pipeline) Silence() int {
	return p.sentence.Silence()
}

// Reset clears the sentence, the stabilization window and the debounce hold.
func (p *Pipeline) Reset() {
	p.sentence.Clear()
	p.stabilizer.Reset()
	p.gate.Release()
}
