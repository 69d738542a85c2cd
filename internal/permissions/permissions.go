package permissions

import (
	"image"

	"github.com/kbinani/screenshot"
)

// Gate answers whether the process may capture screen content.
type Gate interface {
	HasCaptureCapability() bool
}

// ProbeGate decides by attempting a one-pixel grab of the primary display.
// On platforms where capture permission is revocable (macOS Screen
// Recording, Wayland portals) the probe fails or returns black until the
// user grants access; a black probe is indistinguishable from a black
// screen, so only hard failures count as denial.
type ProbeGate struct{}

func (ProbeGate) HasCaptureCapability() bool {
	if screenshot.NumActiveDisplays() == 0 {
		return false
	}
	b := screenshot.GetDisplayBounds(0)
	probe := image.Rect(b.Min.X, b.Min.Y, b.Min.X+1, b.Min.Y+1)
	_, err := screenshot.CaptureRect(probe)
	return err == nil
}

// StaticGate is a fixed answer, for wiring tests and headless tools.
type StaticGate bool

func (g StaticGate) HasCaptureCapability() bool { return bool(g) }
