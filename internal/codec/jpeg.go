package codec

import (
	"image"
	"image/jpeg"
	"io"
	"sync/atomic"

	"prism/internal/format"
)

// defaultJPEGQuality matches the common "visually lossless" default.
const defaultJPEGQuality = 90

var jpegQuality atomic.Int32

func init() {
	jpegQuality.Store(defaultJPEGQuality)
}

// SetJPEGQuality adjusts the encode quality for subsequent JPEG writes.
// Values outside 1-100 are ignored.
func SetJPEGQuality(quality int) {
	if quality < 1 || quality > 100 {
		return
	}
	jpegQuality.Store(int32(quality))
}

func jpegFormat() *format.Format {
	return &format.Format{
		Name:        "JPEG",
		Description: "Joint Photographic Experts Group",
		Extensions:  []string{".jpg", ".jpeg"},
		Modes:       "i",
		Doc: `Lossy photographic format without alpha.

Files are encoded at quality 90 unless overridden with SetJPEGQuality.
Alpha channels are dropped on write; decoded images always report the
ycbcr color model.`,
		NewReader: func(path string) (format.Reader, error) {
			return newSingleReader("JPEG", path, func(r io.Reader) (image.Image, error) {
				return jpeg.Decode(r)
			})
		},
		NewWriter: func(path string) (format.Writer, error) {
			return newSingleWriter(path, func(w io.Writer, img image.Image) error {
				return jpeg.Encode(w, img, &jpeg.Options{Quality: int(jpegQuality.Load())})
			})
		},
	}
}
