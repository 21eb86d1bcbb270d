// Package config loads SignSpeak configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/signspeak/internal/gesture"
)

// Setting keys persisted in the store and accepted by ApplySettings.
const (
	SettingWindowSize    = "pipeline.window_size"
	SettingCooldown      = "pipeline.cooldown"
	SettingSilenceFrames = "pipeline.silence_frames"
)

// Configuration is the complete service configuration.
type Configuration struct {
	Service  Service
	Camera   Camera
	Detector Detector
	Pipeline Pipeline
	Speech   Speech
	Kafka    Kafka
	Logging  Logging
}

// Service holds process-level settings.
type Service struct {
	HTTPAddr  string
	DataDir   string
	StaticDir string
	Tray      bool
	// PluginDir holds word and sentence hook plugins; empty uses DataDir/plugins.
	PluginDir     string
	PluginTimeout time.Duration
}

// Camera holds capture settings.
type Camera struct {
	DeviceID int
	FPS      int
	Width    int
	Height   int
	Mirror   bool
}

// Detector holds pose-estimator settings passed through at initialization.
type Detector struct {
	MaxHands        int
	MinConfidence   float64
	MinTrackingConf float64
	ScriptPath      string // empty searches the usual install locations
}

// Pipeline holds the stabilization and sentence tunables.
type Pipeline struct {
	WindowSize    int
	Cooldown      time.Duration
	SilenceFrames int
}

// Speech holds synthesizer and dispatcher settings.
type Speech struct {
	Enabled         bool
	Engine          string // binary name or path; empty picks the first available
	Rate            int    // words per minute
	Volume          float64
	Voice           int // voice index, -1 for the engine default
	QueueSize       int
	SpeakTimeout    time.Duration
	ShutdownTimeout time.Duration
	SentencePrefix  string
}

// Kafka holds event publisher settings.
type Kafka struct {
	Enabled       bool
	Brokers       []string
	TopicWords    string
	TopicSentence string
	Principal     string
}

// Logging holds logger settings.
type Logging struct {
	Level  string
	Format string
}

// DefaultPipeline returns the reference pipeline tunables.
func DefaultPipeline() Pipeline {
	return Pipeline{
		WindowSize:    10,
		Cooldown:      800 * time.Millisecond,
		SilenceFrames: 15,
	}
}

// Load reads the configuration from environment variables.
func Load() *Configuration {
	defaults := DefaultPipeline()

	return &Configuration{
		Service: Service{
			HTTPAddr:      envOrDefault("HTTP_ADDR", ":8080"),
			DataDir:       envOrDefault("DATA_DIR", defaultDataDir()),
			StaticDir:     envOrDefault("STATIC_DIR", ""),
			Tray:          envBoolOrDefault("TRAY_ENABLED", false),
			PluginDir:     envOrDefault("PLUGIN_DIR", ""),
			PluginTimeout: envDurationOrDefault("PLUGIN_TIMEOUT", 5*time.Second),
		},
		Camera: Camera{
			DeviceID: envIntOrDefault("CAMERA_DEVICE", 0),
			FPS:      envIntOrDefault("CAMERA_FPS", 30),
			Width:    envIntOrDefault("CAMERA_WIDTH", 640),
			Height:   envIntOrDefault("CAMERA_HEIGHT", 480),
			Mirror:   envBoolOrDefault("CAMERA_MIRROR", true),
		},
		Detector: Detector{
			MaxHands:        envIntOrDefault("DETECTOR_MAX_HANDS", 1),
			MinConfidence:   envFloatOrDefault("DETECTOR_MIN_CONFIDENCE", 0.7),
			MinTrackingConf: envFloatOrDefault("DETECTOR_MIN_TRACKING_CONFIDENCE", 0.7),
			ScriptPath:      envOrDefault("DETECTOR_SCRIPT", ""),
		},
		Pipeline: Pipeline{
			WindowSize:    envIntOrDefault("PIPELINE_WINDOW_SIZE", defaults.WindowSize),
			Cooldown:      envDurationOrDefault("PIPELINE_COOLDOWN", defaults.Cooldown),
			SilenceFrames: envIntOrDefault("PIPELINE_SILENCE_FRAMES", defaults.SilenceFrames),
		},
		Speech: Speech{
			Enabled:         envBoolOrDefault("SPEECH_ENABLED", true),
			Engine:          envOrDefault("SPEECH_ENGINE", ""),
			Rate:            envIntOrDefault("SPEECH_RATE", 160),
			Volume:          envFloatOrDefault("SPEECH_VOLUME", 1.0),
			Voice:           envIntOrDefault("SPEECH_VOICE", 1),
			QueueSize:       envIntOrDefault("SPEECH_QUEUE_SIZE", 64),
			SpeakTimeout:    envDurationOrDefault("SPEECH_SPEAK_TIMEOUT", 30*time.Second),
			ShutdownTimeout: envDurationOrDefault("SPEECH_SHUTDOWN_TIMEOUT", 500*time.Millisecond),
			SentencePrefix:  envOrDefault("SPEECH_SENTENCE_PREFIX", "Sentence completed: "),
		},
		Kafka: Kafka{
			Enabled:       envBoolOrDefault("KAFKA_ENABLED", false),
			Brokers:       envListOrDefault("KAFKA_BROKERS", nil),
			TopicWords:    envOrDefault("KAFKA_TOPIC_WORDS", "signspeak.words"),
			TopicSentence: envOrDefault("KAFKA_TOPIC_SENTENCES", "signspeak.sentences"),
			Principal:     envOrDefault("SERVICE_PRINCIPAL", "svc-signspeak"),
		},
		Logging: Logging{
			Level:  envOrDefault("LOG_LEVEL", "info"),
			Format: envOrDefault("LOG_FORMAT", "console"),
		},
	}
}

// Validate checks the pipeline tunables.
func (p Pipeline) Validate() error {
	var errs []error
	if p.WindowSize <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %d", p.WindowSize))
	}
	if p.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("cooldown must not be negative, got %s", p.Cooldown))
	}
	if p.SilenceFrames <= 0 {
		errs = append(errs, fmt.Errorf("silence threshold must be positive, got %d", p.SilenceFrames))
	}
	return errors.Join(errs...)
}

// ApplySettings overlays persisted settings onto p. Unknown keys are ignored.
// The result is validated before being returned.
func (p Pipeline) ApplySettings(settings map[string]string) (Pipeline, error) {
	out := p
	for key, value := range settings {
		switch key {
		case SettingWindowSize:
			n, err := strconv.Atoi(value)
			if err != nil {
				return p, fmt.Errorf("parse %s: %w", key, err)
			}
			out.WindowSize = n
		case SettingCooldown:
			d, err := time.ParseDuration(value)
			if err != nil {
				return p, fmt.Errorf("parse %s: %w", key, err)
			}
			out.Cooldown = d
		case SettingSilenceFrames:
			n, err := strconv.Atoi(value)
			if err != nil {
				return p, fmt.Errorf("parse %s: %w", key, err)
			}
			out.SilenceFrames = n
		}
	}
	if err := out.Validate(); err != nil {
		return p, err
	}
	return out, nil
}

// Settings returns p as persisted setting key/value pairs.
func (p Pipeline) Settings() map[string]string {
	return map[string]string{
		SettingWindowSize:    strconv.Itoa(p.WindowSize),
		SettingCooldown:      p.Cooldown.String(),
		SettingSilenceFrames: strconv.Itoa(p.SilenceFrames),
	}
}

// Gesture converts p to the recognition pipeline's tunables.
func (p Pipeline) Gesture() gesture.PipelineConfig {
	return gesture.PipelineConfig{
		WindowSize:    p.WindowSize,
		Cooldown:      p.Cooldown,
		SilenceFrames: p.SilenceFrames,
	}
}

// PipelineFrom converts the recognition pipeline's tunables back to a Pipeline.
func PipelineFrom(cfg gesture.PipelineConfig) Pipeline {
	return Pipeline{
		WindowSize:    cfg.WindowSize,
		Cooldown:      cfg.Cooldown,
		SilenceFrames: cfg.SilenceFrames,
	}
}

// IsSettingKey reports whether key is a known pipeline setting.
func IsSettingKey(key string) bool {
	switch key {
	case SettingWindowSize, SettingCooldown, SettingSilenceFrames:
		return true
	}
	return false
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".signspeak"
	}
	return home + string(os.PathSeparator) + ".signspeak"
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloatOrDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDurationOrDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envListOrDefault(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
