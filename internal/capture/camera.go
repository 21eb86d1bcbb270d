// Package capture reads mirrored webcam frames through GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Capture defaults. 640x480 at 30 fps is enough for hand landmarks.
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when reading from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrReadFailed is returned when the device refuses a read.
	ErrReadFailed = errors.New("failed to read frame from camera")
	// ErrEmptyFrame is returned when the device delivers no image.
	ErrEmptyFrame = errors.New("captured frame is empty")
)

// Camera is a frame source for the recognition loop.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// Config holds camera settings. Zero sizes and rates fall back to defaults.
type Config struct {
	DeviceID int
	FPS      int
	Width    int
	Height   int
	// Mirror flips frames horizontally so left and right match the
	// signer's view.
	Mirror bool
}

// DefaultConfig returns the default camera settings.
func DefaultConfig() Config {
	return Config{FPS: DefaultFPS, Width: DefaultWidth, Height: DefaultHeight, Mirror: true}
}

func (c Config) withDefaults() Config {
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	return c
}

// webcam is a Camera backed by a gocv.VideoCapture device.
type webcam struct {
	mu     sync.Mutex
	cfg    Config
	device *gocv.VideoCapture
}

// NewCamera creates a camera for the configured device. It is not opened.
func NewCamera(cfg Config) Camera {
	return &webcam{cfg: cfg.withDefaults()}
}

// Open opens the device and requests the configured size and rate. Drivers
// may ignore the request; frames are used at whatever size they arrive.
func (c *webcam) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		return nil
	}

	device, err := gocv.OpenVideoCapture(c.cfg.DeviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.cfg.DeviceID, err)
	}

	device.Set(gocv.VideoCaptureFrameWidth, float64(c.cfg.Width))
	device.Set(gocv.VideoCaptureFrameHeight, float64(c.cfg.Height))
	device.Set(gocv.VideoCaptureFPS, float64(c.cfg.FPS))

	c.device = device
	return nil
}

// Close releases the device. Closing a closed camera is a no-op.
func (c *webcam) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return nil
	}
	err := c.device.Close()
	c.device = nil
	return err
}

// ReadFrame reads one frame, mirrored when configured.
// The caller must close the returned Mat.
func (c *webcam) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.device.Read(&mat); !ok {
		mat.Close()
		return nil, ErrReadFailed
	}
	if mat.Empty() {
		mat.Close()
		return nil, ErrEmptyFrame
	}

	if c.cfg.Mirror {
		Mirror(&mat)
	}
	return &mat, nil
}

// Mirror flips frame around its vertical axis in place.
func Mirror(frame *gocv.Mat) {
	gocv.Flip(*frame, frame, 1)
}

// SetFPS changes the capture rate. Non-positive values are ignored.
func (c *webcam) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cfg.FPS = fps
	if c.device != nil {
		c.device.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the requested capture rate.
func (c *webcam) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.FPS
}

// IsOpen reports whether the device is open.
func (c *webcam) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.device != nil
}
