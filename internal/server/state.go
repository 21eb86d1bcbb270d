package server

import (
	"encoding/json"
	"net/http"
)

// handleState handles GET /api/state and returns the overlay snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.config.App.Snapshot())
}

// handleSentenceReset handles POST /api/sentence/reset.
func (s *Server) handleSentenceReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.config.App.ResetSentence()
	s.logger.Info().Msg("Sentence cleared")
	w.WriteHeader(http.StatusNoContent)
}

type recognitionState struct {
	Enabled bool `json:"enabled"`
}

// handleRecognition handles GET and PUT /api/recognition.
func (s *Server) handleRecognition(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req recognitionState
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		s.config.App.SetEnabled(req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, recognitionState{Enabled: s.config.App.IsEnabled()})
}
