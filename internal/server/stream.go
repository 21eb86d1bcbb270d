package server

import (
	"fmt"
	"net/http"
	"time"
)

// previewPoll is how often the preview handler checks for a new frame.
const previewPoll = 33 * time.Millisecond

// PreviewSource provides encoded camera frames.
type PreviewSource interface {
	WatchPreview() func()
	PreviewFrame() ([]byte, uint64)
}

// PreviewHandler serves the mirrored camera feed as MJPEG. It reuses the
// frames read by the recognition loop rather than opening the camera again.
type PreviewHandler struct {
	source PreviewSource
}

// NewPreviewHandler creates a new PreviewHandler for the given source.
func NewPreviewHandler(source PreviewSource) *PreviewHandler {
	return &PreviewHandler{source: source}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	done := h.source.WatchPreview()
	defer done()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(previewPoll)
	defer ticker.Stop()

	var lastSeq uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		data, seq := h.source.PreviewFrame()
		if seq == lastSeq || len(data) == 0 {
			continue
		}
		lastSeq = seq

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
