package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/signspeak/internal/gesture"
	"github.com/ayusman/signspeak/internal/store"
)

// maxPhraseLength bounds the text stored for one sign.
const maxPhraseLength = 200

// PhraseBook is the live phrase table reloaded after every change.
type PhraseBook interface {
	Phrases() map[gesture.Label]string
	LoadPhrases() error
}

// PhraseHandler handles HTTP requests for phrase overrides.
type PhraseHandler struct {
	store *store.Store
	book  PhraseBook
}

// NewPhraseHandler creates a new PhraseHandler. book may be nil, in which
// case only the stored overrides are reported.
func NewPhraseHandler(s *store.Store, book PhraseBook) *PhraseHandler {
	return &PhraseHandler{store: s, book: book}
}

// PhraseResponse describes the text used for one sign.
type PhraseResponse struct {
	Label  string `json:"label"` // URL key, e.g. "ThankYou"
	Name   string `json:"name"`  // display name, e.g. "Thank You"
	Text   string `json:"text"`
	Custom bool   `json:"custom"`
}

// UpdatePhraseRequest is the request body for PUT /api/phrases/{label}.
type UpdatePhraseRequest struct {
	Text string `json:"text"`
}

// ServeHTTP routes requests to the appropriate handler method.
func (h *PhraseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/phrases"), "/")

	if key == "" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.list(w)
		return
	}

	label, err := gesture.ParseLabel(key)
	if err != nil || label == gesture.None {
		writeError(w, http.StatusNotFound, "unknown sign")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, label)
	case http.MethodPut:
		h.update(w, r, label)
	case http.MethodDelete:
		h.delete(w, label)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *PhraseHandler) list(w http.ResponseWriter) {
	stored, err := h.overrides()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list phrases")
		return
	}

	var live map[gesture.Label]string
	if h.book != nil {
		live = h.book.Phrases()
	}

	response := make([]PhraseResponse, 0, len(gesture.Labels))
	for _, l := range gesture.Labels {
		response = append(response, phraseResponse(l, stored, live))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *PhraseHandler) get(w http.ResponseWriter, label gesture.Label) {
	stored, err := h.overrides()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get phrase")
		return
	}
	var live map[gesture.Label]string
	if h.book != nil {
		live = h.book.Phrases()
	}
	writeJSON(w, http.StatusOK, phraseResponse(label, stored, live))
}

func (h *PhraseHandler) update(w http.ResponseWriter, r *http.Request, label gesture.Label) {
	var req UpdatePhraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if len(text) > maxPhraseLength {
		writeError(w, http.StatusBadRequest, "text is too long")
		return
	}

	if err := h.store.Phrases().Upsert(&store.Phrase{Label: label.Key(), Text: text}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save phrase")
		return
	}
	if !h.reload(w) {
		return
	}

	writeJSON(w, http.StatusOK, PhraseResponse{
		Label:  label.Key(),
		Name:   label.String(),
		Text:   text,
		Custom: true,
	})
}

func (h *PhraseHandler) delete(w http.ResponseWriter, label gesture.Label) {
	err := h.store.Phrases().Delete(label.Key())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no custom phrase for sign")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete phrase")
		return
	}
	if !h.reload(w) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PhraseHandler) reload(w http.ResponseWriter) bool {
	if h.book == nil {
		return true
	}
	if err := h.book.LoadPhrases(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload phrases")
		return false
	}
	return true
}

// overrides returns the stored phrases keyed by label.
func (h *PhraseHandler) overrides() (map[gesture.Label]string, error) {
	rows, err := h.store.Phrases().List()
	if err != nil {
		return nil, err
	}
	out := make(map[gesture.Label]string, len(rows))
	for _, p := range rows {
		if l, err := gesture.ParseLabel(p.Label); err == nil && l != gesture.None {
			out[l] = p.Text
		}
	}
	return out, nil
}

func phraseResponse(l gesture.Label, stored, live map[gesture.Label]string) PhraseResponse {
	resp := PhraseResponse{Label: l.Key(), Name: l.String(), Text: l.String()}
	if text, ok := stored[l]; ok {
		resp.Text = text
		resp.Custom = true
	}
	if text, ok := live[l]; ok {
		resp.Text = text
	}
	return resp
}
