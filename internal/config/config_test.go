package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	envVars := []string{
		"HTTP_ADDR", "CAMERA_DEVICE", "CAMERA_FPS", "CAMERA_MIRROR", "CAMERA_WIDTH", "CAMERA_HEIGHT",
		"DETECTOR_MAX_HANDS", "DETECTOR_MIN_CONFIDENCE", "DETECTOR_MIN_TRACKING_CONFIDENCE",
		"PIPELINE_WINDOW_SIZE", "PIPELINE_COOLDOWN", "PIPELINE_SILENCE_FRAMES",
		"SPEECH_RATE", "SPEECH_QUEUE_SIZE", "SPEECH_SHUTDOWN_TIMEOUT",
		"KAFKA_ENABLED", "KAFKA_BROKERS", "PLUGIN_DIR", "PLUGIN_TIMEOUT", "DETECTOR_SCRIPT",
	}
	for _, v := range envVars {
		t.Setenv(v, "")
	}

	cfg := Load()

	if cfg.Service.HTTPAddr != ":8080" {
		t.Errorf("expected default addr ':8080', got %s", cfg.Service.HTTPAddr)
	}
	if cfg.Detector.MaxHands != 1 {
		t.Errorf("expected max hands 1, got %d", cfg.Detector.MaxHands)
	}
	if cfg.Detector.MinConfidence != 0.7 || cfg.Detector.MinTrackingConf != 0.7 {
		t.Errorf("expected confidences 0.7/0.7, got %v/%v", cfg.Detector.MinConfidence, cfg.Detector.MinTrackingConf)
	}
	if cfg.Pipeline.WindowSize != 10 {
		t.Errorf("expected window size 10, got %d", cfg.Pipeline.WindowSize)
	}
	if cfg.Pipeline.Cooldown != 800*time.Millisecond {
		t.Errorf("expected cooldown 800ms, got %v", cfg.Pipeline.Cooldown)
	}
	if cfg.Pipeline.SilenceFrames != 15 {
		t.Errorf("expected silence threshold 15, got %d", cfg.Pipeline.SilenceFrames)
	}
	if cfg.Speech.Rate != 160 {
		t.Errorf("expected speech rate 160, got %d", cfg.Speech.Rate)
	}
	if cfg.Speech.ShutdownTimeout != 500*time.Millisecond {
		t.Errorf("expected shutdown timeout 500ms, got %v", cfg.Speech.ShutdownTimeout)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected kafka disabled by default")
	}
	if !cfg.Camera.Mirror {
		t.Error("expected camera mirroring by default")
	}
	if cfg.Camera.Width != 640 || cfg.Camera.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Service.PluginDir != "" || cfg.Service.PluginTimeout != 5*time.Second {
		t.Errorf("expected default plugin settings, got %q/%v", cfg.Service.PluginDir, cfg.Service.PluginTimeout)
	}
	if cfg.Detector.ScriptPath != "" {
		t.Errorf("expected no script override, got %q", cfg.Detector.ScriptPath)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PIPELINE_WINDOW_SIZE", "6")
	t.Setenv("PIPELINE_COOLDOWN", "1.2s")
	t.Setenv("PIPELINE_SILENCE_FRAMES", "40")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("CAMERA_MIRROR", "false")

	cfg := Load()

	if cfg.Pipeline.WindowSize != 6 {
		t.Errorf("expected window size 6, got %d", cfg.Pipeline.WindowSize)
	}
	if cfg.Pipeline.Cooldown != 1200*time.Millisecond {
		t.Errorf("expected cooldown 1.2s, got %v", cfg.Pipeline.Cooldown)
	}
	if cfg.Pipeline.SilenceFrames != 40 {
		t.Errorf("expected silence threshold 40, got %d", cfg.Pipeline.SilenceFrames)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Errorf("unexpected brokers %v", cfg.Kafka.Brokers)
	}
	if cfg.Camera.Mirror {
		t.Error("expected mirroring disabled")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PIPELINE_WINDOW_SIZE", "ten")
	t.Setenv("PIPELINE_COOLDOWN", "soon")

	cfg := Load()

	if cfg.Pipeline.WindowSize != 10 {
		t.Errorf("expected fallback window size 10, got %d", cfg.Pipeline.WindowSize)
	}
	if cfg.Pipeline.Cooldown != 800*time.Millisecond {
		t.Errorf("expected fallback cooldown, got %v", cfg.Pipeline.Cooldown)
	}
}

func TestPipeline_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       Pipeline
		wantErr bool
	}{
		{"defaults", DefaultPipeline(), false},
		{"zero cooldown", Pipeline{WindowSize: 4, Cooldown: 0, SilenceFrames: 1}, false},
		{"zero window", Pipeline{WindowSize: 0, Cooldown: time.Second, SilenceFrames: 15}, true},
		{"negative cooldown", Pipeline{WindowSize: 10, Cooldown: -time.Second, SilenceFrames: 15}, true},
		{"zero silence", Pipeline{WindowSize: 10, Cooldown: time.Second, SilenceFrames: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPipeline_ApplySettings(t *testing.T) {
	t.Run("overlays known keys", func(t *testing.T) {
		p, err := DefaultPipeline().ApplySettings(map[string]string{
			SettingWindowSize:    "8",
			SettingCooldown:      "1s",
			SettingSilenceFrames: "20",
			"ui.theme":           "dark",
		})
		if err != nil {
			t.Fatalf("ApplySettings() error = %v", err)
		}
		if p.WindowSize != 8 || p.Cooldown != time.Second || p.SilenceFrames != 20 {
			t.Errorf("unexpected pipeline %+v", p)
		}
	})

	t.Run("rejects unparsable value", func(t *testing.T) {
		orig := DefaultPipeline()
		p, err := orig.ApplySettings(map[string]string{SettingCooldown: "later"})
		if err == nil {
			t.Fatal("expected error for bad duration")
		}
		if p != orig {
			t.Errorf("expected original pipeline on error, got %+v", p)
		}
	})

	t.Run("rejects invalid result", func(t *testing.T) {
		_, err := DefaultPipeline().ApplySettings(map[string]string{SettingWindowSize: "0"})
		if err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("round trips through Settings", func(t *testing.T) {
		want := Pipeline{WindowSize: 12, Cooldown: 1500 * time.Millisecond, SilenceFrames: 30}
		got, err := DefaultPipeline().ApplySettings(want.Settings())
		if err != nil {
			t.Fatalf("ApplySettings() error = %v", err)
		}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})
}

func TestPipeline_GestureConversion(t *testing.T) {
	p := Pipeline{WindowSize: 6, Cooldown: 300 * time.Millisecond, SilenceFrames: 9}

	g := p.Gesture()
	if g.WindowSize != 6 || g.Cooldown != 300*time.Millisecond || g.SilenceFrames != 9 {
		t.Errorf("Gesture() = %+v", g)
	}
	if g.Phrase != nil {
		t.Error("Gesture() should leave Phrase unset")
	}
	if back := PipelineFrom(g); back != p {
		t.Errorf("PipelineFrom() = %+v, want %+v", back, p)
	}
}
