package encoder

import (
	"fmt"
	"image"
	"io"
	"strings"
)

// Encoder encodes an image into a raster file format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	Ext() string
}

// DefaultFormat is the lossless default for stills.
const DefaultFormat = "png"

// ForFormat returns the encoder for a format name. Quality only applies to
// lossy formats and is clamped to 1-100.
func ForFormat(format string, quality int) (Encoder, error) {
	switch strings.ToLower(format) {
	case "", DefaultFormat:
		return &PNGEncoder{}, nil
	case "jpeg", "jpg":
		return NewJPEGEncoder(quality), nil
	case "tiff", "tif":
		return &TIFFEncoder{}, nil
	case "bmp":
		return &BMPEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown image format %q", format)
	}
}

// Formats lists the supported still-image format names.
func Formats() []string {
	return []string{"png", "jpeg", "tiff", "bmp"}
}
