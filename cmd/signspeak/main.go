package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/ayusman/signspeak/internal/app"
	"github.com/ayusman/signspeak/internal/capture"
	"github.com/ayusman/signspeak/internal/config"
	"github.com/ayusman/signspeak/internal/detector"
	"github.com/ayusman/signspeak/internal/events"
	"github.com/ayusman/signspeak/internal/logging"
	"github.com/ayusman/signspeak/internal/metrics"
	"github.com/ayusman/signspeak/internal/plugin"
	"github.com/ayusman/signspeak/internal/server"
	"github.com/ayusman/signspeak/internal/speech"
	"github.com/ayusman/signspeak/internal/store"
	"github.com/ayusman/signspeak/internal/tray"
)

// shutdownTimeout bounds the HTTP server's graceful shutdown.
const shutdownTimeout = 5 * time.Second

func main() {
	// A missing .env file is normal; the environment alone is enough.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log.Info().Msg("SignSpeak - Sign Language to Speech")

	// Initialize the store
	if err := os.MkdirAll(cfg.Service.DataDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Service.DataDir).Msg("Failed to create data directory")
	}
	st, err := store.New(filepath.Join(cfg.Service.DataDir, "signspeak.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}

	// Stored settings override the environment
	base := cfg.Pipeline
	if err := base.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid pipeline configuration")
	}
	pipeline := base
	if stored, err := st.Settings().All(); err != nil {
		log.Warn().Err(err).Msg("Failed to read stored settings")
	} else if pipeline, err = base.ApplySettings(stored); err != nil {
		log.Warn().Err(err).Msg("Ignoring invalid stored settings")
		pipeline = base
	}

	dispatcher := speech.NewDispatcher(speech.Config{
		QueueSize:       cfg.Speech.QueueSize,
		SpeakTimeout:    cfg.Speech.SpeakTimeout,
		ShutdownTimeout: cfg.Speech.ShutdownTimeout,
		Metrics:         metrics.DefaultMetrics,
	}, synthesizerInit(cfg.Speech))

	publisher := events.New(&events.Config{
		Enabled:       cfg.Kafka.Enabled,
		Brokers:       cfg.Kafka.Brokers,
		TopicWords:    cfg.Kafka.TopicWords,
		TopicSentence: cfg.Kafka.TopicSentence,
		Principal:     cfg.Kafka.Principal,
	})

	application, err := app.New(app.Config{
		Store: st,
		CameraConfig: capture.Config{
			DeviceID: cfg.Camera.DeviceID,
			FPS:      cfg.Camera.FPS,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			Mirror:   cfg.Camera.Mirror,
		},
		DetectorConfig: detector.Config{
			MaxHands:        cfg.Detector.MaxHands,
			MinConfidence:   cfg.Detector.MinConfidence,
			MinTrackingConf: cfg.Detector.MinTrackingConf,
			ScriptPath:      cfg.Detector.ScriptPath,
		},
		Pipeline:       pipeline.Gesture(),
		Speech:         dispatcher,
		Events:         publisher,
		SentencePrefix: cfg.Speech.SentencePrefix,
	})
	if err != nil {
		dispatcher.Shutdown()
		log.Fatal().Err(err).Msg("Failed to initialize hand tracking")
	}
	if err := application.LoadPhrases(); err != nil {
		log.Warn().Err(err).Msg("Failed to load phrases")
	}

	// Word and sentence hooks
	pluginDir := cfg.Service.PluginDir
	if pluginDir == "" {
		pluginDir = filepath.Join(cfg.Service.DataDir, "plugins")
	}
	plugins := plugin.NewManager(pluginDir)
	if err := plugins.Discover(); err != nil {
		log.Warn().Err(err).Str("dir", pluginDir).Msg("Failed to discover plugins")
	}
	hooks := plugin.NewHooks(plugins, plugin.NewExecutor(cfg.Service.PluginTimeout), plugin.DefaultQueueSize, metrics.DefaultMetrics)
	application.OnWord(hooks.Word)
	application.OnSentence(hooks.Sentence)

	if err := application.Start(); err != nil {
		application.Close()
		log.Fatal().Err(err).Msg("Failed to start recognition")
	}

	staticDir := cfg.Service.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		log.Info().Str("dir", staticDir).Msg("Serving static files")
	}

	srv := server.New(server.Config{
		StaticDir:    staticDir,
		Store:        st,
		App:          application,
		BasePipeline: base,
	})

	go func() {
		if err := srv.ListenAndServe(cfg.Service.HTTPAddr); err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	if cfg.Service.Tray {
		runTray(application, cfg.Service.HTTPAddr, sig)
	} else {
		<-sig
	}

	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown")
	}
	if err := application.Close(); err != nil {
		log.Warn().Err(err).Msg("Recognition shutdown")
	}
	hooks.Close()
	if err := publisher.Close(); err != nil {
		log.Warn().Err(err).Msg("Event publisher shutdown")
	}
	if err := st.Close(); err != nil {
		log.Warn().Err(err).Msg("Store shutdown")
	}
}

// synthesizerInit returns the speech engine constructor, or nil when speech
// is disabled.
func synthesizerInit(cfg config.Speech) func() (speech.Synthesizer, error) {
	if !cfg.Enabled {
		return nil
	}
	return func() (speech.Synthesizer, error) {
		return speech.NewCommandSynthesizer(cfg.Engine, speech.Voice{
			Rate:   cfg.Rate,
			Volume: cfg.Volume,
			Index:  cfg.Voice,
		})
	}
}

// runTray runs the system tray on the main goroutine until Quit is clicked or
// a signal arrives.
func runTray(application *app.App, addr string, sig <-chan os.Signal) {
	t := tray.New()
	t.SetEnabled(application.IsEnabled())
	t.OnToggle(application.SetEnabled)
	t.OnClear(application.ResetSentence)
	t.OnOverlay(func() {
		if err := openBrowser(overlayURL(addr)); err != nil {
			log.Warn().Err(err).Msg("Failed to open browser")
		}
	})

	application.OnWord(func(e events.WordEvent) {
		t.SetLastWord(e.Text)
		t.SetSentence(e.Sentence)
	})
	application.OnSentence(func(events.SentenceEvent) {
		t.SetSentence("")
	})
	application.OnReset(func() {
		t.SetSentence("")
	})

	go func() {
		<-sig
		t.Quit()
	}()

	t.Run()
}

func overlayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.signspeak/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".signspeak", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
