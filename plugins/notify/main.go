// Package main provides a plugin that shows a desktop notification for every
// completed sentence, using notify-send on Linux and AppleScript on macOS.
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
	Event string `json:"event"`
	Text  string `json:"text"`
	Words int    `json:"words"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

const title = "SignSpeak"

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	if req.Event != "sentence" {
		writeResponse(fmt.Errorf("unknown event: %s", req.Event))
		return
	}
	if req.Text == "" {
		writeResponse(fmt.Errorf("text is required"))
		return
	}

	writeResponse(run(notifyCommand(runtime.GOOS, req.Text, subtitle(req.Words))))
}

func subtitle(words int) string {
	if words == 1 {
		return "1 word"
	}
	return fmt.Sprintf("%d words", words)
}

// notifyCommand builds the command line showing the notification on goos.
func notifyCommand(goos, body, sub string) []string {
	if goos == "darwin" {
		script := fmt.Sprintf(`display notification "%s" with title "%s" subtitle "%s"`,
			escapeAppleScript(body), title, escapeAppleScript(sub))
		return []string{"osascript", "-e", script}
	}
	return []string{"notify-send", "--app-name", title, title + " (" + sub + ")", body}
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
