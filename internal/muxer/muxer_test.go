package muxer

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blademainer/screen-capture/internal/capture"
)

// fakeContainer records the muxer's calls.
type fakeContainer struct {
	beginPath  string
	beginCfg   TrackConfig
	began      bool
	video      []time.Duration
	audio      []time.Duration
	videoReady bool
	audioReady bool
	finished   bool
	size       int64
}

func newFakeContainer() *fakeContainer {
	return &fakeContainer{videoReady: true, audioReady: true, size: 1024}
}

func (f *fakeContainer) Begin(path string, cfg TrackConfig) error {
	f.began = true
	f.beginPath = path
	f.beginCfg = cfg
	return nil
}

func (f *fakeContainer) AppendVideo(img *image.RGBA, pts time.Duration) error {
	f.video = append(f.video, pts)
	return nil
}

func (f *fakeContainer) AppendAudio(samples []byte, pts time.Duration) error {
	f.audio = append(f.audio, pts)
	return nil
}

func (f *fakeContainer) VideoReady() bool { return f.videoReady }
func (f *fakeContainer) AudioReady() bool { return f.audioReady }

func (f *fakeContainer) Finish() (int64, error) {
	f.finished = true
	return f.size, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func rgba(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func videoAt(w, h int, ts time.Time) capture.Frame {
	return capture.VideoFrame(rgba(w, h), ts)
}

func newTestMuxer(t *testing.T, c Container, opts Options) *Muxer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.mp4")
	return New(testLogger(), c, path, opts)
}

func TestConfigureSnapsOddDimensionsDown(t *testing.T) {
	tests := []struct {
		name         string
		inW, inH     int
		wantW, wantH int
	}{
		{"both odd", 1921, 1081, 1920, 1080},
		{"width odd", 1281, 720, 1280, 720},
		{"height odd", 1280, 721, 1280, 720},
		{"already even", 2560, 1440, 2560, 1440},
		{"tiny odd", 3, 3, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := newFakeContainer()
			m := newTestMuxer(t, fc, Options{FrameRate: 30})

			m.Write(videoAt(tt.inW, tt.inH, time.Now()))

			if !fc.began {
				t.Fatal("container was not configured by first video frame")
			}
			if fc.beginCfg.Width != tt.wantW || fc.beginCfg.Height != tt.wantH {
				t.Errorf("configured %dx%d, want %dx%d",
					fc.beginCfg.Width, fc.beginCfg.Height, tt.wantW, tt.wantH)
			}
			if fc.beginCfg.Width%2 != 0 || fc.beginCfg.Height%2 != 0 {
				t.Errorf("dimensions not even: %dx%d", fc.beginCfg.Width, fc.beginCfg.Height)
			}
		})
	}
}

func TestAudioBeforeFirstVideoFrameIsDropped(t *testing.T) {
	fc := newFakeContainer()
	m := newTestMuxer(t, fc, Options{Audio: true})

	m.Write(capture.AudioFrame([]byte{1, 2}, time.Now()))

	if fc.began {
		t.Error("audio frame must not configure the container")
	}
	if len(fc.audio) != 0 {
		t.Error("audio frame written before configuration")
	}

	res, err := m.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if res.AudioDropped != 1 {
		t.Errorf("AudioDropped = %d, want 1", res.AudioDropped)
	}
}

func TestTimeOriginAnchoredAtFirstFrame(t *testing.T) {
	fc := newFakeContainer()
	m := newTestMuxer(t, fc, Options{})

	t0 := time.Now()
	m.Write(videoAt(640, 480, t0))
	m.Write(videoAt(640, 480, t0.Add(33*time.Millisecond)))

	if len(fc.video) != 2 {
		t.Fatalf("wrote %d video frames, want 2", len(fc.video))
	}
	if fc.video[0] != 0 {
		t.Errorf("first pts = %v, want 0", fc.video[0])
	}
	if fc.video[1] != 33*time.Millisecond {
		t.Errorf("second pts = %v, want 33ms", fc.video[1])
	}
}

func TestBusyTrackDropsFrameInsteadOfQueueing(t *testing.T) {
	fc := newFakeContainer()
	m := newTestMuxer(t, fc, Options{Audio: true})

	t0 := time.Now()
	m.Write(videoAt(640, 480, t0))

	fc.videoReady = false
	m.Write(videoAt(640, 480, t0.Add(33*time.Millisecond)))
	fc.audioReady = false
	m.Write(capture.AudioFrame([]byte{1}, t0.Add(40*time.Millisecond)))

	res, err := m.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(fc.video) != 1 {
		t.Errorf("wrote %d video frames, want 1", len(fc.video))
	}
	if res.VideoDropped != 1 || res.AudioDropped != 1 {
		t.Errorf("dropped video=%d audio=%d, want 1 and 1", res.VideoDropped, res.AudioDropped)
	}
}

func TestAudioIgnoredWhenTrackNotProvisioned(t *testing.T) {
	fc := newFakeContainer()
	m := newTestMuxer(t, fc, Options{Audio: false})

	t0 := time.Now()
	m.Write(videoAt(640, 480, t0))
	m.Write(capture.AudioFrame([]byte{1}, t0.Add(time.Millisecond)))

	if len(fc.audio) != 0 {
		t.Error("audio written without a provisioned audio track")
	}
}

func TestFinalizeWithoutAnyFrame(t *testing.T) {
	fc := newFakeContainer()
	m := newTestMuxer(t, fc, Options{})

	res, err := m.Finalize()
	if err != nil {
		t.Fatalf("Finalize on empty muxer: %v", err)
	}
	if res.Configured {
		t.Error("Configured = true for a muxer that never saw a frame")
	}
	if fc.finished {
		t.Error("container finished despite never being configured")
	}
}

func TestNoWritesAfterFinalize(t *testing.T) {
	fc := newFakeContainer()
	m := newTestMuxer(t, fc, Options{})

	t0 := time.Now()
	m.Write(videoAt(640, 480, t0))
	if _, err := m.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	m.Write(videoAt(640, 480, t0.Add(time.Second)))

	if len(fc.video) != 1 {
		t.Errorf("frame appended after finalize; wrote %d, want 1", len(fc.video))
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	fc := newFakeContainer()
	m := newTestMuxer(t, fc, Options{})

	m.Write(videoAt(640, 480, time.Now()))

	first, err := m.Finalize()
	if err != nil {
		t.Fatalf("first Finalize: %v", err)
	}
	second, err := m.Finalize()
	if err != nil {
		t.Fatalf("second Finalize: %v", err)
	}
	if first.Size != second.Size || first.VideoFrames != second.VideoFrames {
		t.Errorf("second Finalize result %+v differs from first %+v", second, first)
	}
}

func TestConfigureRemovesStaleOutputFile(t *testing.T) {
	fc := newFakeContainer()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.mp4")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := New(testLogger(), fc, path, Options{})

	m.Write(videoAt(640, 480, time.Now()))

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale file at output path survived configuration")
	}
}

func TestCropEvenTrimsOddFrame(t *testing.T) {
	img := rgba(101, 55)
	out := cropEven(img, 100, 54)
	b := out.Bounds()
	if b.Dx() != 100 || b.Dy() != 54 {
		t.Errorf("cropped to %dx%d, want 100x54", b.Dx(), b.Dy())
	}
}
