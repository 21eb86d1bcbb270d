package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetHand sets a single hand, or no hand when h is nil.
func (m *MockDetector) SetHand(h *HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h == nil {
		m.hands = nil
		return
	}
	m.hands = []HandLandmarks{*h}
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Finger x positions of the preset right hand, as seen by a mirrored camera.
// The index knuckle sits to the right of the pinky knuckle, so an extended
// thumb points further right than its base.
var fingerX = [4]float64{0.55, 0.50, 0.45, 0.40}

// PoseLandmarks builds an upright right hand with the given fingers extended.
// Extended fingers have their tip well above the PIP joint; curled fingers
// fold the tip back below it. The middle knuckle sits above the wrist.
func PoseLandmarks(thumb, index, middle, ring, pinky bool) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0.0}
	lm.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.72, Z: 0.0}
	if thumb {
		lm.Points[ThumbIP] = Point3D{X: 0.66, Y: 0.67, Z: 0.0}
		lm.Points[ThumbTip] = Point3D{X: 0.72, Y: 0.62, Z: 0.0}
	} else {
		lm.Points[ThumbIP] = Point3D{X: 0.59, Y: 0.66, Z: -0.02}
		lm.Points[ThumbTip] = Point3D{X: 0.57, Y: 0.60, Z: -0.03}
	}

	extended := [4]bool{index, middle, ring, pinky}
	for f := 0; f < 4; f++ {
		base := IndexMCP + f*4
		x := fingerX[f]
		lm.Points[base] = Point3D{X: x, Y: 0.68, Z: 0.0}
		if extended[f] {
			lm.Points[base+1] = Point3D{X: x, Y: 0.55, Z: 0.0}
			lm.Points[base+2] = Point3D{X: x, Y: 0.45, Z: 0.0}
			lm.Points[base+3] = Point3D{X: x, Y: 0.35, Z: 0.0}
		} else {
			lm.Points[base+1] = Point3D{X: x, Y: 0.62, Z: -0.04}
			lm.Points[base+2] = Point3D{X: x, Y: 0.66, Z: -0.05}
			lm.Points[base+3] = Point3D{X: x, Y: 0.70, Z: -0.03}
		}
	}

	// Middle knuckle above the wrist.
	lm.Points[MiddleMCP].Y = 0.66

	return lm
}

// OpenPalmLandmarks returns an upright open palm with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return PoseLandmarks(true, true, true, true, true)
}

// LoweredPalmLandmarks returns all five fingers extended with the wrist held
// above the middle knuckle.
func LoweredPalmLandmarks() HandLandmarks {
	lm := OpenPalmLandmarks()
	lm.Points[Wrist].Y = 0.60
	return lm
}

// ThumbsUpLandmarks returns a fist with only the thumb extended.
func ThumbsUpLandmarks() HandLandmarks {
	return PoseLandmarks(true, false, false, false, false)
}

// FistLandmarks returns a closed fist.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks(false, false, false, false, false)
}

// OKLandmarks returns thumb and index tips touching with the other three
// fingers extended.
func OKLandmarks() HandLandmarks {
	lm := OpenPalmLandmarks()
	lm.Points[IndexTip] = Point3D{X: 0.62, Y: 0.50, Z: 0.0}
	lm.Points[ThumbTip] = Point3D{X: 0.63, Y: 0.51, Z: 0.0}
	return lm
}
