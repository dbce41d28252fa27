package codec

import (
	"image"
	"io"

	"golang.org/x/image/tiff"

	"prism/internal/format"
)

func tiffFormat() *format.Format {
	return &format.Format{
		Name:        "TIFF",
		Description: "Tagged Image File Format",
		Extensions:  []string{".tif", ".tiff"},
		Modes:       "iv",
		Doc: `Container format common in scientific and print pipelines.

Files are written with deflate compression. Multi-page sources decode
their first page only; volumetric data is exposed page-by-page.`,
		NewReader: func(path string) (format.Reader, error) {
			return newSingleReader("TIFF", path, func(r io.Reader) (image.Image, error) {
				return tiff.Decode(r)
			})
		},
		NewWriter: func(path string) (format.Writer, error) {
			return newSingleWriter(path, func(w io.Writer, img image.Image) error {
				return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
			})
		},
	}
}
