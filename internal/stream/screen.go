package stream

import (
	"fmt"
	"image"
	"time"

	"github.com/kbinani/screenshot"

	"github.com/blademainer/screen-capture/internal/capture"
)

// GrabFunc reads one frame from a screen rect.
type GrabFunc func(image.Rectangle) (*image.RGBA, error)

// ScreenSource captures a fixed screen rect on a ticker at the requested
// frame rate. When the consumer falls behind, the newest frame is discarded
// rather than buffered.
type ScreenSource struct {
	bounds  image.Rectangle
	fps     int
	grab    GrabFunc
	frameCh chan capture.Frame
	stopCh  chan struct{}
	running bool
}

// NewScreenSource creates a screen source for the target's bounds at the
// given FPS (1-60).
func NewScreenSource(target capture.Target, fps int) (*ScreenSource, error) {
	if fps <= 0 || fps > 60 {
		return nil, fmt.Errorf("fps must be 1-60, got %d", fps)
	}
	if target.Bounds.Empty() {
		return nil, fmt.Errorf("target %s has no bounds", target)
	}
	return &ScreenSource{
		bounds:  target.Bounds,
		fps:     fps,
		grab:    screenshot.CaptureRect,
		frameCh: make(chan capture.Frame, 2),
		stopCh:  make(chan struct{}),
	}, nil
}

func (s *ScreenSource) Start() error {
	if s.running {
		return fmt.Errorf("already running")
	}
	s.running = true
	go s.loop()
	return nil
}

func (s *ScreenSource) Stop() {
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
}

func (s *ScreenSource) Frames() <-chan capture.Frame {
	return s.frameCh
}

func (s *ScreenSource) loop() {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()
	defer close(s.frameCh)

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			img, err := s.grab(s.bounds)
			if err != nil || img == nil {
				continue
			}
			select {
			case s.frameCh <- capture.VideoFrame(img, time.Now()):
			default:
			}
		}
	}
}
