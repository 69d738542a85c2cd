package encoder

import (
	"image"
	"image/jpeg"
	"io"
)

// JPEGEncoder encodes stills as JPEG.
type JPEGEncoder struct {
	quality int
}

// NewJPEGEncoder creates a JPEG encoder with the given quality (1-100).
func NewJPEGEncoder(quality int) *JPEGEncoder {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return &JPEGEncoder{quality: quality}
}

func (e *JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: e.quality})
}

func (e *JPEGEncoder) Ext() string { return "jpg" }

// Quality reports the clamped quality in use.
func (e *JPEGEncoder) Quality() int { return e.quality }
