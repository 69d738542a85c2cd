package capture

import (
	"fmt"
	"image"
)

// TargetKind selects what a capture is bound to.
type TargetKind int

const (
	TargetDisplay TargetKind = iota
	TargetWindow
	TargetRegion
)

func (k TargetKind) String() string {
	switch k {
	case TargetDisplay:
		return "display"
	case TargetWindow:
		return "window"
	case TargetRegion:
		return "region"
	default:
		return "unknown"
	}
}

// Target is one capturable thing: a display, a window, or a fixed region.
type Target struct {
	Kind   TargetKind
	ID     int
	Name   string
	Bounds image.Rectangle
}

func (t Target) String() string {
	return fmt.Sprintf("%s %d (%s, %dx%d)", t.Kind, t.ID, t.Name, t.Bounds.Dx(), t.Bounds.Dy())
}
