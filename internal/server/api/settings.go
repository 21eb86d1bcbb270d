package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/signspeak/internal/config"
	"github.com/ayusman/signspeak/internal/gesture"
	"github.com/ayusman/signspeak/internal/store"
)

// PipelineTuner applies pipeline tunables to the running recognizer.
type PipelineTuner interface {
	PipelineConfig() gesture.PipelineConfig
	Reconfigure(cfg gesture.PipelineConfig)
}

// SettingsHandler handles GET, PUT and DELETE on /api/settings.
//
// Settings are stored as string key/value pairs layered over the base
// pipeline configuration from the environment.
type SettingsHandler struct {
	store *store.Store
	tuner PipelineTuner
	base  config.Pipeline
}

// NewSettingsHandler creates a new SettingsHandler. tuner may be nil, in
// which case changes are only persisted.
func NewSettingsHandler(s *store.Store, tuner PipelineTuner, base config.Pipeline) *SettingsHandler {
	return &SettingsHandler{store: s, tuner: tuner, base: base}
}

// ServeHTTP routes requests to the appropriate handler method.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w)
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.reset(w)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter) {
	effective, err := h.effective()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, effective.Settings())
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req) == 0 {
		writeError(w, http.StatusBadRequest, "no settings given")
		return
	}
	for key := range req {
		if !config.IsSettingKey(key) {
			writeError(w, http.StatusBadRequest, "unknown setting: "+key)
			return
		}
	}

	stored, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	for key, value := range req {
		stored[key] = value
	}

	next, err := h.base.ApplySettings(stored)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Settings().SetAll(req); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	if h.tuner != nil {
		h.tuner.Reconfigure(next.Gesture())
	}

	writeJSON(w, http.StatusOK, next.Settings())
}

func (h *SettingsHandler) reset(w http.ResponseWriter) {
	for key := range h.base.Settings() {
		if err := h.store.Settings().Delete(key); err != nil && !errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "failed to reset settings")
			return
		}
	}
	if h.tuner != nil {
		h.tuner.Reconfigure(h.base.Gesture())
	}

	writeJSON(w, http.StatusOK, h.base.Settings())
}

// effective returns the tunables in effect: the running recognizer's when
// there is one, otherwise the stored settings over the base.
func (h *SettingsHandler) effective() (config.Pipeline, error) {
	if h.tuner != nil {
		return config.PipelineFrom(h.tuner.PipelineConfig()), nil
	}
	stored, err := h.store.Settings().All()
	if err != nil {
		return config.Pipeline{}, err
	}
	return h.base.ApplySettings(stored)
}
