package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoEngine is returned when no supported speech engine is installed.
var ErrNoEngine = errors.New("no speech engine found")

// Voice is the engine's voice setting, applied once at construction.
type Voice struct {
	Rate   int     // words per minute
	Volume float64 // 0.0 to 1.0
	Index  int     // index into the engine's voice list; out of range keeps the default
}

// DefaultVoice returns the reference voice settings.
func DefaultVoice() Voice {
	return Voice{Rate: 160, Volume: 1.0, Index: 1}
}

// engine describes how to drive one TTS binary. Text is always written to
// stdin.
type engine struct {
	name   string
	voices []string
	args   func(v Voice, voice string) []string
}

// engines in lookup order.
var engines = []engine{
	{
		name:   "espeak-ng",
		voices: []string{"en", "en+f3"},
		args:   espeakArgs,
	},
	{
		name:   "espeak",
		voices: []string{"en", "en+f3"},
		args:   espeakArgs,
	},
	{
		name:   "say",
		voices: []string{"Alex", "Samantha"},
		args: func(v Voice, voice string) []string {
			args := []string{"-r", strconv.Itoa(v.Rate), "-f", "-"}
			if voice != "" {
				args = append(args, "-v", voice)
			}
			return args
		},
	},
	{
		name:   "spd-say",
		voices: []string{"male1", "female1"},
		args: func(v Voice, voice string) []string {
			// spd-say takes rate and volume on a -100..100 scale.
			rate := clamp((v.Rate-160)/2, -100, 100)
			volume := clamp(int(v.Volume*200)-100, -100, 100)
			args := []string{"--wait", "--pipe-mode", "-r", strconv.Itoa(rate), "-i", strconv.Itoa(volume)}
			if voice != "" {
				args = append(args, "-t", voice)
			}
			return args
		},
	},
}

func espeakArgs(v Voice, voice string) []string {
	// espeak amplitude runs 0..200 with 100 as normal.
	amplitude := clamp(int(v.Volume*100), 0, 200)
	args := []string{"--stdin", "-s", strconv.Itoa(v.Rate), "-a", strconv.Itoa(amplitude)}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	return args
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}

var lookPath = exec.LookPath

// CommandSynthesizer speaks by running a text-to-speech binary once per
// utterance.
type CommandSynthesizer struct {
	name string
	path string
	args []string
}

// NewCommandSynthesizer locates a speech engine and fixes its voice settings.
// An empty name picks the first supported engine found on PATH.
func NewCommandSynthesizer(name string, v Voice) (*CommandSynthesizer, error) {
	candidates := engines
	if name != "" {
		e, ok := findEngine(filepath.Base(name))
		if !ok {
			return nil, fmt.Errorf("unsupported speech engine %q", name)
		}
		candidates = []engine{e}
	}

	for _, e := range candidates {
		bin := e.name
		if name != "" {
			bin = name
		}
		path, err := lookPath(bin)
		if err != nil {
			continue
		}

		voice := ""
		if v.Index >= 0 && v.Index < len(e.voices) {
			voice = e.voices[v.Index]
		}

		return &CommandSynthesizer{
			name: e.name,
			path: path,
			args: e.args(v, voice),
		}, nil
	}

	if name != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoEngine, name)
	}
	return nil, ErrNoEngine
}

func findEngine(name string) (engine, bool) {
	for _, e := range engines {
		if e.name == name {
			return e, true
		}
	}
	return engine{}, false
}

// Engine returns the name of the engine in use.
func (s *CommandSynthesizer) Engine() string {
	return s.name
}

// Speak runs the engine and blocks until it exits or ctx is done.
func (s *CommandSynthesizer) Speak(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, s.path, s.args...)
	cmd.Stdin = strings.NewReader(text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", s.name, ctxErr)
	}

	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %w, stderr: %s", s.name, err, msg)
		}
		return fmt.Errorf("%s failed: %w", s.name, err)
	}

	return nil
}
