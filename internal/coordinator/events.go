package coordinator

// Events carries the state-change notifications UI collaborators consume.
// Any callback may be nil. Callbacks fire on the control goroutine after
// the state change committed; they must not call back into the
// coordinator.
type Events struct {
	OnSessionStart func()
	OnSessionStop  func(outputPath string)
	OnImageSaved   func(path string)
}

func (e Events) sessionStart() {
	if e.OnSessionStart != nil {
		e.OnSessionStart()
	}
}

func (e Events) sessionStop(path string) {
	if e.OnSessionStop != nil {
		e.OnSessionStop(path)
	}
}

func (e Events) imageSaved(path string) {
	if e.OnImageSaved != nil {
		e.OnImageSaved(path)
	}
}
