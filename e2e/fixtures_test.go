package e2e

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayusman/signspeak/internal/detector"
	"github.com/ayusman/signspeak/internal/gesture"
)

//go:embed testdata/hands/*.json testdata/scripts/*.json
var fixturesFS embed.FS

// handFixture is a recorded hand with the sign it shows.
type handFixture struct {
	Label      string             `json:"label"`
	Handedness string             `json:"handedness"`
	Score      float64            `json:"score"`
	Points     []detector.Point3D `json:"points"`
}

// loadHand loads a landmark fixture by name.
func loadHand(name string) (detector.HandLandmarks, gesture.Label, error) {
	data, err := fixturesFS.ReadFile("testdata/hands/" + name + ".json")
	if err != nil {
		return detector.HandLandmarks{}, gesture.None, fmt.Errorf("load hand %s: %w", name, err)
	}

	var fx handFixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return detector.HandLandmarks{}, gesture.None, fmt.Errorf("decode hand %s: %w", name, err)
	}

	lm, ok := detector.FromPoints(fx.Points)
	if !ok {
		return detector.HandLandmarks{}, gesture.None, fmt.Errorf("hand %s: expected %d points, got %d", name, detector.NumLandmarks, len(fx.Points))
	}
	lm.Handedness = fx.Handedness
	lm.Score = fx.Score

	label, err := gesture.ParseLabel(fx.Label)
	if err != nil {
		return detector.HandLandmarks{}, gesture.None, fmt.Errorf("hand %s: %w", name, err)
	}
	return lm, label, nil
}

// scriptStep shows one hand fixture, or no hand when Hand is empty, for a
// number of frames.
type scriptStep struct {
	Hand   string `json:"hand"`
	Frames int    `json:"frames"`
}

// loadScript loads a sequence of steps by name.
func loadScript(name string) ([]scriptStep, error) {
	data, err := fixturesFS.ReadFile("testdata/scripts/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", name, err)
	}

	var script struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("decode script %s: %w", name, err)
	}
	return script.Steps, nil
}

// frameInterval is the spacing of scripted frames, about 30 FPS.
const frameInterval = 33 * time.Millisecond
