package capture

import (
	"fmt"

	"github.com/kbinani/screenshot"
)

// Enumerator lists currently capturable targets. Implementations return a
// fresh snapshot on every call; results must not be cached across calls
// because displays and windows come and go.
type Enumerator interface {
	ListTargets() ([]Target, error)
}

// DisplayEnumerator enumerates the active displays.
type DisplayEnumerator struct{}

func (DisplayEnumerator) ListTargets() ([]Target, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, ErrNoTargetAvailable
	}
	targets := make([]Target, 0, n)
	for i := 0; i < n; i++ {
		targets = append(targets, Target{
			Kind:   TargetDisplay,
			ID:     i,
			Name:   fmt.Sprintf("display-%d", i),
			Bounds: screenshot.GetDisplayBounds(i),
		})
	}
	return targets, nil
}
