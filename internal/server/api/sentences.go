package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/signspeak/internal/store"
)

// maxHistory caps the limit query parameter.
const maxHistory = 500

// SentenceHandler serves the finalized sentence history.
type SentenceHandler struct {
	store *store.Store
}

// NewSentenceHandler creates a new SentenceHandler.
func NewSentenceHandler(s *store.Store) *SentenceHandler {
	return &SentenceHandler{store: s}
}

// SentenceResponse is one entry of the history.
type SentenceResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Text      string    `json:"text"`
	Words     int       `json:"words"`
	CreatedAt time.Time `json:"createdAt"`
}

// ServeHTTP handles GET (newest first, ?limit=N) and DELETE (clear).
func (h *SentenceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		h.clear(w)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SentenceHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistory)
	}

	sentences, err := h.store.Sentences().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sentences")
		return
	}

	response := make([]SentenceResponse, 0, len(sentences))
	for _, s := range sentences {
		response = append(response, SentenceResponse{
			ID:        s.ID,
			SessionID: s.SessionID,
			Text:      s.Text,
			Words:     s.Words,
			CreatedAt: s.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *SentenceHandler) clear(w http.ResponseWriter) {
	n, err := h.store.Sentences().Clear()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear sentences")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
