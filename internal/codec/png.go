package codec

import (
	"image"
	"image/png"
	"io"

	"prism/internal/format"
)

func pngFormat() *format.Format {
	return &format.Format{
		Name:        "PNG",
		Description: "Portable Network Graphics",
		Extensions:  []string{".png"},
		Modes:       "i",
		Doc: `Lossless image format with full alpha support.

PNG stores a single image per file. All PNG color types decode to NRGBA
planes; 16-bit channels are reduced to 8 bits on decode.`,
		NewReader: func(path string) (format.Reader, error) {
			return newSingleReader("PNG", path, func(r io.Reader) (image.Image, error) {
				return png.Decode(r)
			})
		},
		NewWriter: func(path string) (format.Writer, error) {
			return newSingleWriter(path, func(w io.Writer, img image.Image) error {
				return png.Encode(w, img)
			})
		},
	}
}
