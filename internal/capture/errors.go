package capture

import "errors"

// Errors returned by capture operations. Callers match with errors.Is;
// everything wrapped by this module bottoms out in one of these.
var (
	// ErrNoTargetAvailable means enumeration found nothing capturable.
	ErrNoTargetAvailable = errors.New("no capture target available")

	// ErrTargetNotSelected means the requested target identifier did not
	// resolve to any enumerated target.
	ErrTargetNotSelected = errors.New("capture target not selected")

	// ErrUnsupportedRegionRecording means region targets can only be used
	// for stills, not recordings.
	ErrUnsupportedRegionRecording = errors.New("region recording is not supported")

	// ErrUnsupportedPlatform means this platform cannot capture at all,
	// or capture capability has not been granted.
	ErrUnsupportedPlatform = errors.New("screen capture unsupported on this platform")

	// ErrUserCancelled means the user aborted an interactive selection.
	// It is a normal non-result, not a fault.
	ErrUserCancelled = errors.New("capture cancelled by user")

	// ErrWriteFailed means the output image or container could not be
	// written or finalized.
	ErrWriteFailed = errors.New("capture output write failed")

	// ErrStreamFailed means the live capture stream could not be started
	// or broke mid-session.
	ErrStreamFailed = errors.New("capture stream failed")
)
