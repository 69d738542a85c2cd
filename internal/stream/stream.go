// Package stream binds a capture target and configuration into a live
// session that delivers frames to a single registered sink.
package stream

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/blademainer/screen-capture/internal/capture"
)

// Sink receives frames on the session's delivery goroutine.
type Sink interface {
	Write(f capture.Frame)
}

// Source produces frames at capture cadence. Frames() is closed when the
// source stops.
type Source interface {
	Start() error
	Stop()
	Frames() <-chan capture.Frame
}

// Session forwards frames from a video source (and an optional audio
// source) to one sink. All mutation happens from the owning goroutine;
// delivery runs on the session's own goroutine.
type Session struct {
	log   *slog.Logger
	video Source
	audio Source
	sink  Sink
	onErr func(error)

	paused   atomic.Bool
	started  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
	finished chan struct{}
}

// New builds a session. audio may be nil; onErr may be nil.
func New(log *slog.Logger, video, audio Source, sink Sink, onErr func(error)) *Session {
	return &Session{
		log:      log,
		video:    video,
		audio:    audio,
		sink:     sink,
		onErr:    onErr,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Start launches the sources and the delivery goroutine. On failure nothing
// keeps running.
func (s *Session) Start() error {
	if err := s.video.Start(); err != nil {
		return fmt.Errorf("%w: %v", capture.ErrStreamFailed, err)
	}
	if s.audio != nil {
		if err := s.audio.Start(); err != nil {
			s.video.Stop()
			return fmt.Errorf("%w: audio: %v", capture.ErrStreamFailed, err)
		}
	}
	s.started.Store(true)
	go s.forward()
	return nil
}

func (s *Session) forward() {
	defer close(s.finished)

	videoCh := s.video.Frames()
	var audioCh <-chan capture.Frame
	if s.audio != nil {
		audioCh = s.audio.Frames()
	}

	for {
		select {
		case <-s.done:
			return
		case f, ok := <-videoCh:
			if !ok {
				// Source died underneath us; a stop would have closed
				// done first.
				select {
				case <-s.done:
				default:
					s.fail(fmt.Errorf("%w: video source closed", capture.ErrStreamFailed))
				}
				return
			}
			s.deliver(f)
		case f, ok := <-audioCh:
			if !ok {
				audioCh = nil
				continue
			}
			s.deliver(f)
		}
	}
}

func (s *Session) deliver(f capture.Frame) {
	if s.paused.Load() {
		return
	}
	s.sink.Write(f)
}

func (s *Session) fail(err error) {
	s.log.Error("stream failed", "error", err)
	if s.onErr != nil {
		s.onErr(err)
	}
}

// SetPaused suspends or resumes frame forwarding without touching the
// underlying sources.
func (s *Session) SetPaused(p bool) {
	s.paused.Store(p)
}

// Stop tears the session down. Idempotent: stopping an already stopped or
// never started session is a safe no-op. Returns once the delivery
// goroutine has exited, so no frame reaches the sink afterwards.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.video.Stop()
		if s.audio != nil {
			s.audio.Stop()
		}
	})
	if s.started.Load() {
		<-s.finished
	}
}
