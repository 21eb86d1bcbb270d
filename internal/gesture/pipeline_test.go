package gesture

import (
	"strings"
	"testing"
	"time"

	"github.com/ayusman/signspeak/internal/detector"
)

const frameInterval = 33 * time.Millisecond

// frameDriver feeds a pipeline with frames at a fixed rate.
type frameDriver struct {
	p     *Pipeline
	frame int
}

func newFrameDriver(cfg PipelineConfig) *frameDriver {
	return &frameDriver{p: NewPipeline(cfg)}
}

func (d *frameDriver) now() time.Time {
	return t0.Add(time.Duration(d.frame) * frameInterval)
}

func (d *frameDriver) hand(lm detector.HandLandmarks) Result {
	d.frame++
	return d.p.Step(&lm, d.now())
}

func (d *frameDriver) absent() Result {
	d.frame++
	return d.p.Step(nil, d.now())
}

// hold feeds the same pose n times and returns every emitted word.
func (d *frameDriver) hold(lm detector.HandLandmarks, n int) []Label {
	var words []Label
	for i := 0; i < n; i++ {
		if res := d.hand(lm); res.Emitted {
			words = append(words, res.Word)
		}
	}
	return words
}

// silence feeds n absent frames and returns the finalized sentences.
func (d *frameDriver) silence(n int) []string {
	var sentences []string
	for i := 0; i < n; i++ {
		if res := d.absent(); res.Finalized {
			sentences = append(sentences, res.Sentence)
		}
	}
	return sentences
}

func TestPipeline_FirstWordAfterHalfWindow(t *testing.T) {
	d := newFrameDriver(DefaultPipelineConfig())
	lowered := detector.LoweredPalmLandmarks()

	for frame := 1; frame <= 4; frame++ {
		res := d.hand(lowered)
		if res.Label != Hello {
			t.Fatalf("frame %d: raw label %v, want Hello", frame, res.Label)
		}
		if res.Stabilized != None || res.Emitted {
			t.Errorf("frame %d: stabilized %v emitted %v, want None and no word", frame, res.Stabilized, res.Emitted)
		}
	}

	res := d.hand(lowered)
	if res.Stabilized != Hello || !res.Emitted || res.Word != Hello {
		t.Fatalf("frame 5: got %+v, want Hello emitted", res)
	}
	if res.Text != "Hello" {
		t.Errorf("Text = %q, want Hello", res.Text)
	}
	if d.p.SentenceText() != "Hello" {
		t.Errorf("SentenceText() = %q, want Hello", d.p.SentenceText())
	}
}

func TestPipeline_HeldSignEmitsOnce(t *testing.T) {
	d := newFrameDriver(DefaultPipelineConfig())

	words := d.hold(detector.FistLandmarks(), 200)
	if len(words) != 1 || words[0] != Yes {
		t.Errorf("emitted %v, want a single Yes", words)
	}
}

func TestPipeline_SequenceOfSigns(t *testing.T) {
	d := newFrameDriver(DefaultPipelineConfig())

	var words []Label
	words = append(words, d.hold(detector.LoweredPalmLandmarks(), 40)...)
	words = append(words, d.hold(detector.ThumbsUpLandmarks(), 40)...)
	words = append(words, d.hold(detector.OKLandmarks(), 40)...)

	want := []Label{Hello, Good, OK}
	if len(words) != len(want) {
		t.Fatalf("emitted %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d = %v, want %v", i, words[i], want[i])
		}
	}

	sentences := d.silence(15)
	if len(sentences) != 1 || sentences[0] != "Hello Good OK" {
		t.Errorf("sentences = %q, want [Hello Good OK]", sentences)
	}
}

func TestPipeline_NewWordWaitsForCooldown(t *testing.T) {
	cfg := DefaultPipelineConfig()
	cfg.Cooldown = time.Second
	d := newFrameDriver(cfg)

	d.hold(detector.FistLandmarks(), 5)
	emittedAt := d.frame

	var secondAt int
	for i := 0; i < 60 && secondAt == 0; i++ {
		if res := d.hand(detector.ThumbsUpLandmarks()); res.Emitted {
			if res.Word != Good {
				t.Fatalf("emitted %v, want Good", res.Word)
			}
			secondAt = d.frame
		}
	}
	if secondAt == 0 {
		t.Fatal("second word never emitted")
	}

	elapsed := time.Duration(secondAt-emittedAt) * frameInterval
	if elapsed <= cfg.Cooldown {
		t.Errorf("second word after %v, want more than %v", elapsed, cfg.Cooldown)
	}
}

func TestPipeline_SilenceThresholds(t *testing.T) {
	d := newFrameDriver(DefaultPipelineConfig())
	fist := detector.FistLandmarks()

	if words := d.hold(fist, 10); len(words) != 1 {
		t.Fatalf("expected one word, got %v", words)
	}

	// Exactly 15 silent frames finalize the sentence but keep the hold.
	sentences := d.silence(15)
	if len(sentences) != 1 || sentences[0] != "Yes" {
		t.Fatalf("sentences = %q, want [Yes]", sentences)
	}
	if d.p.LastWord() != Yes {
		t.Errorf("LastWord() = %v after 15 silent frames, want Yes held", d.p.LastWord())
	}

	// The same sign right after is still suppressed.
	if words := d.hold(fist, 10); len(words) != 0 {
		t.Errorf("held word re-emitted: %v", words)
	}

	// 16 silent frames release the hold.
	if sentences := d.silence(16); len(sentences) != 0 {
		t.Errorf("empty sentence finalized: %q", sentences)
	}
	if d.p.LastWord() != None {
		t.Errorf("LastWord() = %v after 16 silent frames, want None", d.p.LastWord())
	}

	words := d.hold(fist, 10)
	if len(words) != 1 || words[0] != Yes {
		t.Errorf("emitted %v after release, want [Yes]", words)
	}
}

func TestPipeline_FinalizeResetsSilenceBeforeRelease(t *testing.T) {
	d := newFrameDriver(DefaultPipelineConfig())
	d.hold(detector.FistLandmarks(), 10)

	// Finalizing at 15 restarts the count, so 16 more frames are needed.
	d.silence(15)
	d.silence(15)
	if d.p.LastWord() != Yes {
		t.Fatalf("LastWord() = %v, want Yes still held", d.p.LastWord())
	}
	d.absent()
	if d.p.LastWord() != None {
		t.Errorf("LastWord() = %v, want None", d.p.LastWord())
	}
}

func TestPipeline_BriefDropoutKeepsSentence(t *testing.T) {
	d := newFrameDriver(DefaultPipelineConfig())

	d.hold(detector.LoweredPalmLandmarks(), 10)
	if sentences := d.silence(14); len(sentences) != 0 {
		t.Fatalf("finalized too early: %q", sentences)
	}

	d.hand(detector.LoweredPalmLandmarks())
	if d.p.Silence() != 0 {
		t.Errorf("Silence() = %d, want 0", d.p.Silence())
	}
	if sentences := d.silence(14); len(sentences) != 0 {
		t.Errorf("finalized after interrupted silence: %q", sentences)
	}
	if d.p.SentenceText() != "Hello" {
		t.Errorf("SentenceText() = %q, want Hello", d.p.SentenceText())
	}
}

func TestPipeline_AbsenceClearsStabilizer(t *testing.T) {
	d := newFrameDriver(DefaultPipelineConfig())
	fist := detector.FistLandmarks()

	d.hold(fist, 4)
	d.absent()

	// After the gap the window starts over: four more frames are not enough.
	for i := 0; i < 4; i++ {
		if res := d.hand(fist); res.Stabilized != None {
			t.Fatalf("frame %d after gap: stabilized %v, want None", i+1, res.Stabilized)
		}
	}
	if res := d.hand(fist); !res.Emitted || res.Word != Yes {
		t.Errorf("expected Yes on the fifth frame after the gap, got %+v", res)
	}
}

func TestPipeline_UnclassifiedHand(t *testing.T) {
	d := newFrameDriver(DefaultPipelineConfig())

	// Thumb, index and ring extended matches no rule.
	odd := detector.PoseLandmarks(true, true, false, true, false)
	for i := 0; i < 20; i++ {
		res := d.hand(odd)
		if res.Label != None || res.Stabilized != None || res.Emitted {
			t.Fatalf("frame %d: got %+v, want nothing", i+1, res)
		}
	}
	if d.p.Silence() != 0 {
		t.Errorf("an unclassified hand still counts as presence, Silence() = %d", d.p.Silence())
	}
}

func TestPipeline_PhraseMapping(t *testing.T) {
	cfg := DefaultPipelineConfig()
	cfg.Phrase = func(l Label) string {
		if l == ThankYou {
			return "thanks a lot"
		}
		return strings.ToLower(l.String())
	}
	d := newFrameDriver(cfg)

	thankYou := detector.PoseLandmarks(true, true, true, false, true)
	d.hold(thankYou, 10)
	d.hold(detector.FistLandmarks(), 40)

	sentences := d.silence(15)
	if len(sentences) != 1 || sentences[0] != "thanks a lot yes" {
		t.Errorf("sentences = %q, want [thanks a lot yes]", sentences)
	}
}

func TestPipeline_Reset(t *testing.T) {
	d := newFrameDriver(DefaultPipelineConfig())
	d.hold(detector.FistLandmarks(), 10)

	d.p.Reset()

	if d.p.SentenceText() != "" {
		t.Errorf("SentenceText() = %q after reset, want empty", d.p.SentenceText())
	}
	if d.p.LastWord() != None {
		t.Errorf("LastWord() = %v after reset, want None", d.p.LastWord())
	}
	if sentences := d.silence(30); len(sentences) != 0 {
		t.Errorf("reset sentence finalized: %q", sentences)
	}
}
