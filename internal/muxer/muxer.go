// Package muxer interleaves captured video and audio frames into a single
// output container. Configuration is lazy: the container and its tracks are
// created only when the first video frame reveals the true pixel dimensions.
package muxer

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/blademainer/screen-capture/internal/capture"
)

// TrackConfig fixes the container geometry and codec parameters. Built from
// the first observed video frame; immutable afterwards.
type TrackConfig struct {
	Width      int
	Height     int
	FrameRate  int
	Audio      bool
	SampleRate int
	Channels   int
}

// Container is the on-disk writer the muxer drives. Append calls happen on
// the frame-delivery goroutine; Begin and Finish on the control goroutine.
type Container interface {
	Begin(path string, cfg TrackConfig) error
	AppendVideo(img *image.RGBA, pts time.Duration) error
	AppendAudio(samples []byte, pts time.Duration) error
	// VideoReady / AudioReady report whether the track can take more data
	// right now. A frame arriving while its track is not ready is dropped,
	// never queued.
	VideoReady() bool
	AudioReady() bool
	Finish() (int64, error)
}

// Result reports the outcome of Finalize.
type Result struct {
	Path string
	Size int64
	// Configured is false when no video frame ever arrived and the
	// container was never created.
	Configured bool

	VideoFrames  uint64
	AudioFrames  uint64
	VideoDropped uint64
	AudioDropped uint64
}

// Options tune a muxer ahead of its lazy configuration.
type Options struct {
	FrameRate  int
	Audio      bool
	SampleRate int
	Channels   int
}

// Muxer owns one output container. It starts unconfigured and configures
// itself exactly once, from the first video frame it receives. Audio frames
// arriving before that are dropped. After Finalize every frame is dropped.
type Muxer struct {
	log       *slog.Logger
	container Container
	path      string
	opts      Options

	mu         sync.Mutex
	configured bool
	began      bool
	finalized  bool
	origin     time.Time
	cfg        TrackConfig
	result     Result
}

// New creates an unconfigured muxer that will write to path.
func New(log *slog.Logger, container Container, path string, opts Options) *Muxer {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 30
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 48000
	}
	if opts.Channels <= 0 {
		opts.Channels = 2
	}
	return &Muxer{
		log:       log,
		container: container,
		path:      path,
		opts:      opts,
	}
}

// Path returns the target output path.
func (m *Muxer) Path() string { return m.path }

// Write accepts one frame from the delivery goroutine. Errors from the
// container are logged, not returned: real-time delivery must not stall on
// a slow or broken writer, and the failure resurfaces at Finalize.
func (m *Muxer) Write(f capture.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finalized {
		return
	}

	if !m.configured {
		if f.Kind != capture.KindVideo {
			// No geometry yet; audio cannot configure the container.
			m.result.AudioDropped++
			return
		}
		if err := m.configure(f); err != nil {
			m.log.Error("muxer configure failed", "path", m.path, "error", err)
			m.result.VideoDropped++
			return
		}
	}

	if !m.began {
		// Anchor the container's time origin at the first written frame.
		m.began = true
		m.origin = f.Timestamp
	}
	pts := f.Timestamp.Sub(m.origin)

	switch f.Kind {
	case capture.KindVideo:
		if !m.container.VideoReady() {
			m.result.VideoDropped++
			return
		}
		img := cropEven(f.Image, m.cfg.Width, m.cfg.Height)
		if err := m.container.AppendVideo(img, pts); err != nil {
			m.log.Error("video append failed", "error", err)
			m.result.VideoDropped++
			return
		}
		m.result.VideoFrames++
	case capture.KindAudio:
		if !m.opts.Audio || !m.container.AudioReady() {
			m.result.AudioDropped++
			return
		}
		if err := m.container.AppendAudio(f.Samples, pts); err != nil {
			m.log.Error("audio append failed", "error", err)
			m.result.AudioDropped++
			return
		}
		m.result.AudioFrames++
	}
}

// configure creates the container from the first video frame. Dimensions are
// snapped down to even values in each axis; the H.264 4:2:0 pipeline cannot
// take odd geometry.
func (m *Muxer) configure(f capture.Frame) error {
	w := f.Width &^ 1
	h := f.Height &^ 1
	if w <= 0 || h <= 0 {
		return fmt.Errorf("degenerate frame %dx%d", f.Width, f.Height)
	}

	// A stale file at the target path would confuse the size check after
	// finalize; replace it.
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	m.cfg = TrackConfig{
		Width:      w,
		Height:     h,
		FrameRate:  m.opts.FrameRate,
		Audio:      m.opts.Audio,
		SampleRate: m.opts.SampleRate,
		Channels:   m.opts.Channels,
	}
	if err := m.container.Begin(m.path, m.cfg); err != nil {
		return err
	}
	m.configured = true
	m.log.Info("muxer configured",
		"path", m.path, "width", w, "height", h, "fps", m.cfg.FrameRate, "audio", m.cfg.Audio)
	return nil
}

// Finalize marks both tracks finished and closes the container, reporting
// the final file size. Safe to call when no frame ever arrived: the muxer
// finishes trivially without touching the filesystem. A second call returns
// the first call's result.
func (m *Muxer) Finalize() (Result, error) {
	m.mu.Lock()
	if m.finalized {
		res := m.result
		m.mu.Unlock()
		return res, nil
	}
	m.finalized = true
	configured := m.configured
	m.result.Path = m.path
	m.result.Configured = configured
	m.mu.Unlock()

	if !configured {
		return m.snapshot(), nil
	}

	// Finish blocks until the container has flushed and closed; appends
	// racing with it already see the finalized flag and drop.
	size, err := m.container.Finish()
	m.mu.Lock()
	m.result.Size = size
	res := m.result
	m.mu.Unlock()
	if err != nil {
		return res, fmt.Errorf("%w: %v", capture.ErrWriteFailed, err)
	}
	return res, nil
}

func (m *Muxer) snapshot() Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// cropEven trims an image to the fixed container geometry. Frames after the
// first are expected to match it already; a display resize mid-recording
// yields a crop rather than a broken stream.
func cropEven(img *image.RGBA, w, h int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	r := image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Min.Y+h).Intersect(b)
	return img.SubImage(r).(*image.RGBA)
}
