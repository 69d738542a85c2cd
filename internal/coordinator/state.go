package coordinator

// State is the session state machine position. Only Idle accepts new work;
// Screenshotting is transient; Recording and Paused flip via TogglePause
// and end via StopRecording.
type State int

const (
	Idle State = iota
	Screenshotting
	Recording
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Screenshotting:
		return "screenshotting"
	case Recording:
		return "recording"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// canTransition is the full transition relation; anything not listed is
// rejected.
func canTransition(from, to State) bool {
	switch from {
	case Idle:
		return to == Screenshotting || to == Recording
	case Screenshotting:
		return to == Idle
	case Recording:
		return to == Paused || to == Idle
	case Paused:
		return to == Recording || to == Idle
	default:
		return false
	}
}
