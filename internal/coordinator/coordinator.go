// Package coordinator owns the capture session state machine and turns
// capture requests into saved stills or muxed recordings.
package coordinator

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blademainer/screen-capture/internal/capture"
	"github.com/blademainer/screen-capture/internal/encoder"
	"github.com/blademainer/screen-capture/internal/muxer"
	"github.com/blademainer/screen-capture/internal/permissions"
	"github.com/blademainer/screen-capture/internal/selection"
	"github.com/blademainer/screen-capture/internal/storage"
	"github.com/blademainer/screen-capture/internal/stream"
)

// Config describes one capture request. Immutable once a session starts.
type Config struct {
	Mode     capture.TargetKind
	TargetID int // -1 means "first enumerated target"
	Format   string
	Quality  int
	FPS      int
	Audio    bool
}

// DefaultConfig is a full-screen capture of the first display.
func DefaultConfig() Config {
	return Config{
		Mode:     capture.TargetDisplay,
		TargetID: -1,
		Format:   encoder.DefaultFormat,
		Quality:  85,
		FPS:      30,
	}
}

// fallback geometry when a target reports no bounds.
var defaultSize = image.Rect(0, 0, 1920, 1080)

// Deps are the collaborators the coordinator orchestrates. Zero-value
// fields get production defaults in New.
type Deps struct {
	Gate       permissions.Gate
	Enumerator capture.Enumerator
	Guard      *storage.Guard
	Selector   selection.Selector
	Events     Events

	// Grab reads one still frame from a resolved target.
	Grab func(capture.Target) (*image.RGBA, error)
	// NewContainer builds the container backend for one recording.
	NewContainer func() muxer.Container
	// NewSource builds the video source for a resolved target.
	NewSource func(capture.Target, int) (stream.Source, error)
	// AudioSource, when non-nil and the config asks for audio, feeds the
	// recording's audio track.
	AudioSource stream.Source
}

// session is the live recording owned by the coordinator. Its stream,
// muxer, and directory scope live and die together.
type session struct {
	id        string
	startedAt time.Time
	pausedAt  time.Time
	pausedFor time.Duration
	path      string
	scope     *storage.Scope
	stream    *stream.Session
	mux       *muxer.Muxer
}

// Coordinator implements screenshot and recording operations end-to-end.
// All exported methods run on the caller's (control) goroutine; frames flow
// from the stream goroutine straight into the muxer without touching
// coordinator state.
type Coordinator struct {
	log  *slog.Logger
	deps Deps

	mu    sync.Mutex
	state State
	sess  *session
	now   func() time.Time
}

// New builds a coordinator. log must not be nil.
func New(log *slog.Logger, deps Deps) *Coordinator {
	if deps.Gate == nil {
		deps.Gate = permissions.ProbeGate{}
	}
	if deps.Enumerator == nil {
		deps.Enumerator = capture.DisplayEnumerator{}
	}
	if deps.Guard == nil {
		deps.Guard = storage.NewGuard(log, storage.DefaultDir(), "")
	}
	if deps.Grab == nil {
		deps.Grab = capture.Grab
	}
	if deps.NewContainer == nil {
		deps.NewContainer = func() muxer.Container {
			return muxer.NewFFmpegContainer(log, "", 0)
		}
	}
	if deps.NewSource == nil {
		deps.NewSource = func(t capture.Target, fps int) (stream.Source, error) {
			return stream.NewScreenSource(t, fps)
		}
	}
	return &Coordinator{
		log:   log,
		deps:  deps,
		state: Idle,
		now:   time.Now,
	}
}

// State reports the current session state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// transition moves the state machine, panicking on a relation violation:
// every caller already holds the lock and has validated the current state,
// so a bad transition is a programming error, not a runtime condition.
func (c *Coordinator) transition(to State) {
	if !canTransition(c.state, to) {
		panic(fmt.Sprintf("invalid session transition %s -> %s", c.state, to))
	}
	c.log.Debug("session state", "from", c.state.String(), "to", to.String())
	c.state = to
}

// resolveTarget maps the config onto a freshly enumerated target. A
// negative TargetID defaults to the first enumerated target of the
// requested kind.
func (c *Coordinator) resolveTarget(cfg Config) (capture.Target, error) {
	targets, err := c.deps.Enumerator.ListTargets()
	if err != nil {
		return capture.Target{}, err
	}
	if len(targets) == 0 {
		return capture.Target{}, capture.ErrNoTargetAvailable
	}
	if cfg.TargetID < 0 {
		for _, t := range targets {
			if t.Kind == cfg.Mode {
				return t, nil
			}
		}
		return capture.Target{}, capture.ErrNoTargetAvailable
	}
	for _, t := range targets {
		if t.Kind == cfg.Mode && t.ID == cfg.TargetID {
			return t, nil
		}
	}
	return capture.Target{}, fmt.Errorf("%w: %s %d", capture.ErrTargetNotSelected, cfg.Mode, cfg.TargetID)
}

// CaptureStill grabs a single frame for the configured target and writes it
// through the resource guard, returning the saved path. While any session
// is live the request is rejected as a no-op and returns an empty path.
func (c *Coordinator) CaptureStill(ctx context.Context, cfg Config) (string, error) {
	c.mu.Lock()
	if c.state != Idle {
		c.log.Info("screenshot rejected, session busy", "state", c.state.String())
		c.mu.Unlock()
		return "", nil
	}
	c.transition(Screenshotting)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.transition(Idle)
		c.mu.Unlock()
	}()

	if !c.deps.Gate.HasCaptureCapability() {
		return "", fmt.Errorf("%w: capture capability not granted", capture.ErrUnsupportedPlatform)
	}

	img, err := c.grabStill(ctx, cfg)
	if err != nil {
		return "", err
	}

	enc, err := encoder.ForFormat(cfg.Format, cfg.Quality)
	if err != nil {
		return "", fmt.Errorf("%w: %v", capture.ErrWriteFailed, err)
	}

	var path string
	err = c.deps.Guard.WithScope(func(dir string) error {
		path = filepath.Join(dir, storage.StillName(c.now(), enc.Ext()))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("%w: %v", capture.ErrWriteFailed, err)
		}
		if err := enc.Encode(f, img); err != nil {
			f.Close()
			os.Remove(path)
			return fmt.Errorf("%w: %v", capture.ErrWriteFailed, err)
		}
		return f.Close()
	})
	if err != nil {
		return "", err
	}

	c.log.Info("image saved", "path", path)
	c.deps.Events.imageSaved(path)
	return path, nil
}

func (c *Coordinator) grabStill(ctx context.Context, cfg Config) (image.Image, error) {
	if cfg.Mode == capture.TargetRegion {
		if c.deps.Selector == nil {
			return nil, fmt.Errorf("%w: no region selector", capture.ErrUnsupportedPlatform)
		}
		return c.deps.Selector.Select(ctx)
	}
	target, err := c.resolveTarget(cfg)
	if err != nil {
		return nil, err
	}
	return c.deps.Grab(target)
}

// StartRecording validates the request, allocates the session resources,
// starts the stream, and transitions to Recording. Validation failures
// return before anything is allocated. A duplicate start while a session is
// live is ignored.
func (c *Coordinator) StartRecording(cfg Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle {
		c.log.Info("start ignored, session already live", "state", c.state.String())
		return nil
	}

	// Validation phase: nothing allocated yet.
	if cfg.Mode == capture.TargetRegion {
		return capture.ErrUnsupportedRegionRecording
	}
	if !c.deps.Gate.HasCaptureCapability() {
		return fmt.Errorf("%w: capture capability not granted", capture.ErrUnsupportedPlatform)
	}
	target, err := c.resolveTarget(cfg)
	if err != nil {
		return err
	}
	if target.Bounds.Empty() {
		target.Bounds = defaultSize
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = 30
	}

	// Allocation phase.
	scope, err := c.deps.Guard.Acquire()
	if err != nil {
		return fmt.Errorf("%w: %v", capture.ErrWriteFailed, err)
	}
	path := filepath.Join(scope.Dir, storage.RecordingName(c.now()))

	mux := muxer.New(c.log, c.deps.NewContainer(), path, muxer.Options{
		FrameRate: fps,
		Audio:     cfg.Audio && c.deps.AudioSource != nil,
	})

	source, err := c.deps.NewSource(target, fps)
	if err != nil {
		scope.Release()
		return fmt.Errorf("%w: %v", capture.ErrStreamFailed, err)
	}
	var audio stream.Source
	if cfg.Audio {
		audio = c.deps.AudioSource
	}
	sess := &session{
		id:        "session-" + randomID(),
		startedAt: c.now(),
		path:      path,
		scope:     scope,
		mux:       mux,
	}
	sess.stream = stream.New(c.log, source, audio, mux, func(err error) {
		// Delivery goroutine context; teardown must not run inline.
		go c.failSession(sess.id, err)
	})

	if err := sess.stream.Start(); err != nil {
		scope.Release()
		return err
	}

	c.sess = sess
	c.transition(Recording)
	c.log.Info("recording started",
		"session", sess.id, "target", target.String(), "path", path, "fps", fps)
	c.deps.Events.sessionStart()
	return nil
}

// StopRecording finalizes the muxer, tears down the stream, and returns the
// session to Idle. The muxer is finalized first so no frame lands after
// finalization begins. The output file is verified non-empty; a failed
// verification surfaces ErrWriteFailed but the session still ends.
func (c *Coordinator) StopRecording(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Idle || c.sess == nil {
		return "", nil
	}
	_ = ctx
	return c.teardownLocked()
}

// teardownLocked ends the current session from any non-idle state. The
// caller holds the lock.
func (c *Coordinator) teardownLocked() (string, error) {
	sess := c.sess

	res, finErr := sess.mux.Finalize()
	sess.stream.Stop()
	sess.scope.Release()

	c.sess = nil
	if c.state == Paused {
		c.transition(Recording)
	}
	c.transition(Idle)

	c.log.Info("recording stopped",
		"session", sess.id, "path", sess.path, "size", res.Size,
		"video_frames", res.VideoFrames, "video_dropped", res.VideoDropped,
		"audio_frames", res.AudioFrames)
	c.deps.Events.sessionStop(sess.path)

	if finErr != nil {
		return sess.path, finErr
	}
	if !res.Configured {
		// No frame ever arrived; nothing was written and that is fine.
		return sess.path, nil
	}
	info, err := os.Stat(sess.path)
	if err != nil || info.Size() == 0 {
		return sess.path, fmt.Errorf("%w: output missing or empty at %s", capture.ErrWriteFailed, sess.path)
	}
	return sess.path, nil
}

// failSession handles a mid-session stream failure: the session is torn
// down so the system never sits in a live-but-broken state.
func (c *Coordinator) failSession(id string, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil || c.sess.id != id {
		return
	}
	c.log.Error("stream failed mid-session, stopping", "session", id, "error", cause)
	if _, err := c.teardownLocked(); err != nil {
		c.log.Error("teardown after stream failure", "error", err)
	}
}

// TogglePause freezes or resumes the duration clock and frame forwarding
// without tearing down the stream. Outside Recording/Paused it is a no-op.
func (c *Coordinator) TogglePause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Recording:
		c.sess.pausedAt = c.now()
		c.sess.stream.SetPaused(true)
		c.transition(Paused)
	case Paused:
		c.sess.pausedFor += c.now().Sub(c.sess.pausedAt)
		c.sess.pausedAt = time.Time{}
		c.sess.stream.SetPaused(false)
		c.transition(Recording)
	}
}

// Elapsed reports the recorded duration so far, excluding paused time.
// Computed on demand; there is no polling clock.
func (c *Coordinator) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess == nil {
		return 0
	}
	switch c.state {
	case Recording:
		return c.now().Sub(c.sess.startedAt) - c.sess.pausedFor
	case Paused:
		return c.sess.pausedAt.Sub(c.sess.startedAt) - c.sess.pausedFor
	default:
		return 0
	}
}

func randomID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
