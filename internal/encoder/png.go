package encoder

import (
	"image"
	"image/png"
	"io"
)

// PNGEncoder encodes stills as PNG, the lossless default.
type PNGEncoder struct{}

func (PNGEncoder) Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func (PNGEncoder) Ext() string { return "png" }
