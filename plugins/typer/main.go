// Package main provides a plugin that types recognized words into the focused
// window, using xdotool on Linux and AppleScript on macOS.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event  string          `json:"event"`
	Text   string          `json:"text"`
	Config json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Config controls what is typed.
type Config struct {
	Separator string `json:"separator"` // appended after each word
	Submit    bool   `json:"submit"`    // press Return when a sentence completes
}

func defaultConfig() Config {
	return Config{Separator: " "}
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	cfg := defaultConfig()
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeResponse(fmt.Errorf("failed to parse config: %w", err))
			return
		}
	}

	keys, err := keystrokes(req, cfg)
	if err != nil {
		writeResponse(err)
		return
	}
	if keys == nil {
		writeResponse(nil)
		return
	}

	writeResponse(run(keys))
}

// keystrokes returns the command typing the event, or nil when there is
// nothing to type.
func keystrokes(req Request, cfg Config) ([]string, error) {
	switch req.Event {
	case "word":
		if req.Text == "" {
			return nil, fmt.Errorf("text is required")
		}
		return typeCommand(runtime.GOOS, req.Text+cfg.Separator), nil
	case "sentence":
		if !cfg.Submit {
			return nil, nil
		}
		return returnCommand(runtime.GOOS), nil
	default:
		return nil, fmt.Errorf("unknown event: %s", req.Event)
	}
}

// typeCommand builds the command line typing text on goos.
func typeCommand(goos, text string) []string {
	if goos == "darwin" {
		return []string{"osascript", "-e", fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, escapeAppleScript(text))}
	}
	return []string{"xdotool", "type", "--delay", "20", "--", text}
}

// returnCommand builds the command line pressing Return on goos.
func returnCommand(goos string) []string {
	if goos == "darwin" {
		return []string{"osascript", "-e", `tell application "System Events" to key code 36`}
	}
	return []string{"xdotool", "key", "Return"}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func run(args []string) error {
	output, err := exec.Command(args[0], args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

// writeResponse writes a success response, or an error response when err is set.
func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
