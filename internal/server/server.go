// Package server provides the HTTP server for SignSpeak: health, live state,
// the overlay feed, camera preview, metrics and the phrase/settings API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ayusman/signspeak/internal/app"
	"github.com/ayusman/signspeak/internal/config"
	"github.com/ayusman/signspeak/internal/logging"
	"github.com/ayusman/signspeak/internal/server/api"
	"github.com/ayusman/signspeak/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
	// BasePipeline is the pipeline configuration before stored settings;
	// deleting the stored settings returns to it.
	BasePipeline config.Pipeline
	// Gatherer backs /metrics. Nil uses the default Prometheus registry.
	Gatherer prometheus.Gatherer
}

// Server represents the HTTP server for the SignSpeak application.
type Server struct {
	config  Config
	mux     *http.ServeMux
	start   time.Time
	overlay *OverlayHandler
	http    *http.Server
	logger  zerolog.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		logger: logging.WithComponent("server"),
	}
	s.http = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))

	// Live recognition endpoints need the App
	if s.config.App != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.HandleFunc("/api/sentence/reset", s.handleSentenceReset)
		s.mux.HandleFunc("/api/recognition", s.handleRecognition)

		s.overlay = NewOverlayHandler(s.config.App)
		s.mux.Handle("/api/overlay", s.overlay)
		s.mux.Handle("/api/preview", NewPreviewHandler(s.config.App))
	}

	// Persistence endpoints need the Store
	if s.config.Store != nil {
		var book api.PhraseBook
		var tuner api.PipelineTuner
		if s.config.App != nil {
			book = s.config.App
			tuner = s.config.App
		}

		phrases := api.NewPhraseHandler(s.config.Store, book)
		s.mux.Handle("/api/phrases", phrases)
		s.mux.Handle("/api/phrases/", phrases)
		s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Store, tuner, s.config.BasePipeline))
		s.mux.Handle("/api/sentences", api.NewSentenceHandler(s.config.Store))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.App != nil {
		response["running"] = s.config.App.Running()
		response["enabled"] = s.config.App.IsEnabled()
	}

	writeJSON(w, http.StatusOK, response)
}

// ListenAndServe starts the HTTP server on the given address. It returns
// nil once Shutdown has been called, including when Shutdown came first.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the overlay feed and gracefully shuts the HTTP server down.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.overlay != nil {
		s.overlay.Close()
	}
	return s.http.Shutdown(ctx)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}
