package app

import (
	"context"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/signspeak/internal/detector"
	"github.com/ayusman/signspeak/internal/events"
	"github.com/ayusman/signspeak/internal/gesture"
	"github.com/ayusman/signspeak/internal/store"
)

// ProcessFrame runs one frame through detection and the recognition
// pipeline, then performs the side effects of any emitted word or finalized
// sentence. A detection error counts as a frame without a hand.
func (a *App) ProcessFrame(frame *gocv.Mat, now time.Time) gesture.Result {
	start := time.Now()

	var hand *detector.HandLandmarks
	hands, err := a.detector.Detect(frame)
	if err != nil {
		a.metrics.DetectErrors.Inc()
		a.logger.Warn().Err(err).Msg("Error detecting hands")
	} else if len(hands) > 0 {
		hand = &hands[0]
	}

	a.pipeMu.Lock()
	res := a.pipeline.Step(hand, now)
	sentence := a.pipeline.SentenceText()
	silence := a.pipeline.Silence()
	fps := a.fps.Tick(now)
	a.pipeMu.Unlock()

	a.metrics.RecordFrame(res.HandPresent, time.Since(start).Seconds())
	a.metrics.FPS.Set(float64(fps))
	if res.HandPresent {
		a.metrics.Classifications.WithLabelValues(res.Label.Key()).Inc()
	}

	if res.Emitted {
		a.emitWord(res, sentence, now)
	}
	if res.Finalized {
		a.emitSentence(res, now)
	}

	a.updateSnapshot(res, sentence, silence, fps)
	a.capturePreview(frame, now)

	return res
}

func (a *App) emitWord(res gesture.Result, sentence string, now time.Time) {
	a.metrics.WordsEmitted.WithLabelValues(res.Word.Key()).Inc()
	a.logger.Info().
		Str("label", res.Word.Key()).
		Str("text", res.Text).
		Str("sentence", sentence).
		Msg("Word recognized")

	if a.speaker != nil {
		a.speaker.Enqueue(res.Text)
	}

	event := events.NewWordEvent(a.SessionID(), res.Word.Key(), res.Text, sentence, now)
	a.publish(func(ctx context.Context) error {
		return a.events.PublishWord(ctx, event)
	})

	for _, fn := range a.wordCallbacks() {
		fn(event)
	}
}

func (a *App) emitSentence(res gesture.Result, now time.Time) {
	a.metrics.SentencesFinalized.Inc()
	a.metrics.SentenceWords.Observe(float64(res.SentenceWords))
	a.logger.Info().
		Str("sentence", res.Sentence).
		Int("words", res.SentenceWords).
		Msg("Sentence completed")

	if a.speaker != nil {
		a.speaker.Enqueue(a.config.SentencePrefix + res.Sentence)
	}

	event := events.NewSentenceEvent(a.SessionID(), res.Sentence, res.SentenceWords, now)
	a.publish(func(ctx context.Context) error {
		return a.events.PublishSentence(ctx, event)
	})

	if a.history != nil {
		a.history.record(&store.Sentence{
			ID:        event.EventID,
			SessionID: event.SessionID,
			Text:      event.Text,
			Words:     event.Words,
			CreatedAt: now,
		})
	}

	for _, fn := range a.sentenceCallbacks() {
		fn(event)
	}
}

func (a *App) publish(fn func(ctx context.Context) error) {
	if a.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	// The publisher logs and counts its own failures.
	_ = fn(ctx)
}
