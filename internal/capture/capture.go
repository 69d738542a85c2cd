package capture

import (
	"image"
	"time"
)

// FrameKind tags a frame as carrying video pixels or audio samples.
type FrameKind int

const (
	KindVideo FrameKind = iota
	KindAudio
)

func (k FrameKind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// Frame is one unit of captured data delivered by a stream.
// Video frames carry Image plus its pixel dimensions; audio frames carry
// interleaved little-endian 16-bit samples.
type Frame struct {
	Kind      FrameKind
	Image     *image.RGBA
	Samples   []byte
	Width     int
	Height    int
	Timestamp time.Time
}

// VideoFrame wraps an image into a timestamped video frame.
func VideoFrame(img *image.RGBA, ts time.Time) Frame {
	b := img.Bounds()
	return Frame{
		Kind:      KindVideo,
		Image:     img,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Timestamp: ts,
	}
}

// AudioFrame wraps a chunk of s16le samples into a timestamped audio frame.
func AudioFrame(samples []byte, ts time.Time) Frame {
	return Frame{
		Kind:      KindAudio,
		Samples:   samples,
		Timestamp: ts,
	}
}
