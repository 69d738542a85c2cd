package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Grab reads a single frame from the target's bounds. Used for stills;
// recordings go through a live stream instead.
func Grab(t Target) (*image.RGBA, error) {
	if t.Bounds.Empty() {
		return nil, fmt.Errorf("%w: target %s has no bounds", ErrStreamFailed, t)
	}
	img, err := screenshot.CaptureRect(t.Bounds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamFailed, err)
	}
	return img, nil
}
