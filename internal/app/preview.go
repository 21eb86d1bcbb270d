package app

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// previewInterval limits preview encoding to about 15 frames per second.
const previewInterval = 66 * time.Millisecond

// preview holds the latest JPEG-encoded camera frame for watchers. Frames are
// only encoded while someone is watching.
type preview struct {
	mu      sync.Mutex
	viewers int
	jpeg    []byte
	seq     uint64
	last    time.Time
}

// WatchPreview registers a preview viewer. Call the returned function when
// done watching.
func (a *App) WatchPreview() func() {
	a.preview.mu.Lock()
	a.preview.viewers++
	a.preview.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.preview.mu.Lock()
			a.preview.viewers--
			a.preview.mu.Unlock()
		})
	}
}

// PreviewFrame returns the latest encoded frame and its sequence number.
// The sequence number changes whenever a new frame is available.
func (a *App) PreviewFrame() ([]byte, uint64) {
	a.preview.mu.Lock()
	defer a.preview.mu.Unlock()
	return a.preview.jpeg, a.preview.seq
}

func (a *App) capturePreview(frame *gocv.Mat, now time.Time) {
	if frame == nil || frame.Empty() {
		return
	}

	a.preview.mu.Lock()
	watching := a.preview.viewers > 0 && now.Sub(a.preview.last) >= previewInterval
	a.preview.mu.Unlock()
	if !watching {
		return
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		a.logger.Debug().Err(err).Msg("Failed to encode preview frame")
		return
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	a.preview.mu.Lock()
	a.preview.jpeg = data
	a.preview.seq++
	a.preview.last = now
	a.preview.mu.Unlock()
}
