package encoder

import (
	"image"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// TIFFEncoder encodes stills as deflate-compressed TIFF.
type TIFFEncoder struct{}

func (TIFFEncoder) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

func (TIFFEncoder) Ext() string { return "tiff" }

// BMPEncoder encodes stills as uncompressed BMP.
type BMPEncoder struct{}

func (BMPEncoder) Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

func (BMPEncoder) Ext() string { return "bmp" }
