package codec

import (
	"image"
	"io"

	"golang.org/x/image/bmp"

	"prism/internal/format"
)

func bmpFormat() *format.Format {
	return &format.Format{
		Name:        "BMP",
		Description: "Windows Bitmap",
		Extensions:  []string{".bmp"},
		Modes:       "i",
		Doc: `Uncompressed single-image bitmap.

Alpha is preserved only for 32-bit sources; everything else round-trips
as opaque RGB.`,
		NewReader: func(path string) (format.Reader, error) {
			return newSingleReader("BMP", path, func(r io.Reader) (image.Image, error) {
				return bmp.Decode(r)
			})
		},
		NewWriter: func(path string) (format.Writer, error) {
			return newSingleWriter(path, func(w io.Writer, img image.Image) error {
				return bmp.Encode(w, img)
			})
		},
	}
}
