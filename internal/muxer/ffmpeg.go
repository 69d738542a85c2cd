package muxer

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// FFmpegContainer encodes and muxes through an ffmpeg child process: raw
// RGBA frames on stdin, optional s16le audio on fd 3, libx264 + aac into an
// mp4. Appends hand buffers to per-track feeder goroutines over bounded
// channels; a full channel means the track is not ready and the frame is
// dropped upstream.
type FFmpegContainer struct {
	log         *slog.Logger
	binary      string
	bitrateKbps int

	cfg     TrackConfig
	path    string
	cmd     *exec.Cmd
	videoCh chan []byte
	audioCh chan []byte
	wg      sync.WaitGroup

	mu       sync.Mutex
	writeErr error
	started  bool
	finished bool
}

// NewFFmpegContainer builds a container backend using the given ffmpeg
// binary ("ffmpeg" resolves via PATH) and a video bitrate cap in kbit/s.
func NewFFmpegContainer(log *slog.Logger, binary string, bitrateKbps int) *FFmpegContainer {
	if binary == "" {
		binary = "ffmpeg"
	}
	if bitrateKbps <= 0 {
		bitrateKbps = 8000
	}
	return &FFmpegContainer{
		log:         log,
		binary:      binary,
		bitrateKbps: bitrateKbps,
	}
}

func (c *FFmpegContainer) Begin(path string, cfg TrackConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return fmt.Errorf("container already started")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	kbps := strconv.Itoa(c.bitrateKbps)
	args := []string{
		"-y", "-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-framerate", strconv.Itoa(cfg.FrameRate),
		"-i", "pipe:0",
	}
	if cfg.Audio {
		args = append(args,
			"-f", "s16le",
			"-ar", strconv.Itoa(cfg.SampleRate),
			"-ac", strconv.Itoa(cfg.Channels),
			"-i", "pipe:3",
		)
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-b:v", kbps+"k",
		"-maxrate", kbps+"k",
		"-bufsize", strconv.Itoa(2*c.bitrateKbps)+"k",
		"-pix_fmt", "yuv420p",
	)
	if cfg.Audio {
		args = append(args, "-c:a", "aac", "-b:a", "128k")
	}
	args = append(args, "-movflags", "+faststart", path)

	cmd := exec.Command(c.binary, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}

	var audioW *os.File
	if cfg.Audio {
		audioR, w, err := os.Pipe()
		if err != nil {
			stdin.Close()
			return err
		}
		audioW = w
		cmd.ExtraFiles = []*os.File{audioR} // becomes fd 3 in the child
		defer audioR.Close()
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		if audioW != nil {
			audioW.Close()
		}
		return fmt.Errorf("start %s: %w", c.binary, err)
	}

	c.cfg = cfg
	c.path = path
	c.cmd = cmd
	c.videoCh = make(chan []byte, 2*cfg.FrameRate)
	c.started = true

	c.wg.Add(1)
	go c.feed(stdin, c.videoCh)
	if cfg.Audio {
		c.audioCh = make(chan []byte, 64)
		c.wg.Add(1)
		go c.feed(audioW, c.audioCh)
	}
	return nil
}

// feed drains a track channel into its pipe, closing the pipe when the
// channel closes so ffmpeg sees EOF and flushes the track.
func (c *FFmpegContainer) feed(w io.WriteCloser, ch <-chan []byte) {
	defer c.wg.Done()
	defer w.Close()
	for buf := range ch {
		if _, err := w.Write(buf); err != nil {
			c.setWriteErr(err)
			// Keep draining so appenders never block on a dead pipe.
			for range ch {
			}
			return
		}
	}
}

func (c *FFmpegContainer) setWriteErr(err error) {
	c.mu.Lock()
	if c.writeErr == nil {
		c.writeErr = err
		c.log.Error("container pipe write failed", "error", err)
	}
	c.mu.Unlock()
}

func (c *FFmpegContainer) VideoReady() bool {
	return c.videoCh != nil && len(c.videoCh) < cap(c.videoCh)
}

func (c *FFmpegContainer) AudioReady() bool {
	return c.audioCh != nil && len(c.audioCh) < cap(c.audioCh)
}

// AppendVideo packs the frame into tightly packed RGBA rows at the fixed
// container geometry and hands it to the video feeder. PTS ordering is
// implied by the raw stream's constant frame rate.
func (c *FFmpegContainer) AppendVideo(img *image.RGBA, _ time.Duration) error {
	buf := packRGBA(img, c.cfg.Width, c.cfg.Height)
	select {
	case c.videoCh <- buf:
		return nil
	default:
		return fmt.Errorf("video track backpressure")
	}
}

func (c *FFmpegContainer) AppendAudio(samples []byte, _ time.Duration) error {
	if c.audioCh == nil {
		return fmt.Errorf("no audio track")
	}
	buf := make([]byte, len(samples))
	copy(buf, samples)
	select {
	case c.audioCh <- buf:
		return nil
	default:
		return fmt.Errorf("audio track backpressure")
	}
}

// Finish closes both track feeds, waits for ffmpeg to flush the container,
// and reports the output file size.
func (c *FFmpegContainer) Finish() (int64, error) {
	c.mu.Lock()
	if !c.started || c.finished {
		c.mu.Unlock()
		return 0, fmt.Errorf("container not running")
	}
	c.finished = true
	c.mu.Unlock()

	close(c.videoCh)
	if c.audioCh != nil {
		close(c.audioCh)
	}
	c.wg.Wait()

	waitErr := c.cmd.Wait()

	c.mu.Lock()
	writeErr := c.writeErr
	c.mu.Unlock()

	info, statErr := os.Stat(c.path)
	var size int64
	if statErr == nil {
		size = info.Size()
	}
	switch {
	case waitErr != nil:
		return size, fmt.Errorf("%s exited: %w", c.binary, waitErr)
	case writeErr != nil:
		return size, writeErr
	case statErr != nil:
		return 0, statErr
	}
	return size, nil
}

// packRGBA copies an image into a w*h*4 buffer, cropping or zero-padding
// rows so the raw stream geometry never drifts from the track config.
func packRGBA(img *image.RGBA, w, h int) []byte {
	buf := make([]byte, w*h*4)
	b := img.Bounds()
	rows := min(h, b.Dy())
	rowBytes := min(w, b.Dx()) * 4
	for y := 0; y < rows; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(buf[y*w*4:], img.Pix[off:off+rowBytes])
	}
	return buf
}
