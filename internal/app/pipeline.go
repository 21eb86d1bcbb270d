package app

import (
	"errors"
	"time"

	"github.com/ayusman/signspeak/internal/capture"
)

// runPipeline is the frame loop. It ticks at the camera frame rate and hands
// every frame to ProcessFrame while recognition is enabled.
//
// Loop logic:
// 1. Skip the tick while disabled
// 2. Read a frame; read errors are logged once per streak
// 3. Process the frame synchronously and release it
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	readFailing := false

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				if !readFailing {
					a.logger.Warn().Err(err).Msg("Error reading frame")
					readFailing = true
				}
				if errors.Is(err, capture.ErrCameraNotOpen) {
					a.logger.Error().Msg("Camera closed, recognition pipeline stopped")
					a.loopExited(stopCh)
					return
				}
				continue
			}
			if readFailing {
				a.logger.Info().Msg("Camera frames resumed")
				readFailing = false
			}

			a.ProcessFrame(frame, now)
			frame.Close()
		}
	}
}

// loopExited clears the running state after the loop ended on its own, so
// Running reports false and Start can open the camera again.
func (a *App) loopExited(stopCh <-chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopCh == stopCh {
		a.stopCh, a.doneCh = nil, nil
	}
}
