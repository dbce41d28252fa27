package codec

import (
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"prism/internal/format"
	"prism/internal/ndimage"
)

var (
	defaultOnce sync.Once
	defaultReg  *format.Registry
)

// Default returns the registry seeded with every built-in format. The same
// instance is shared process-wide.
func Default() *format.Registry {
	defaultOnce.Do(func() {
		defaultReg = format.NewRegistry()
		if err := Register(defaultReg); err != nil {
			// Built-in descriptors are static; a failure here is a bug.
			panic(fmt.Sprintf("codec: register built-in formats: %v", err))
		}
	})
	return defaultReg
}

// Register adds all built-in formats to reg. Registration order sets search
// priority for shared extensions.
func Register(reg *format.Registry) error {
	for _, f := range []*format.Format{
		pngFormat(),
		jpegFormat(),
		gifFormat(),
		bmpFormat(),
		tiffFormat(),
	} {
		if err := reg.Add(f); err != nil {
			return err
		}
	}
	return nil
}

type decodeFunc func(io.Reader) (image.Image, error)

type encodeFunc func(io.Writer, image.Image) error

// singleReader serves formats that hold exactly one image per file. The
// image is decoded eagerly so Close carries no pending I/O.
type singleReader struct {
	img *ndimage.Image
}

func newSingleReader(formatName, path string, decode decodeFunc) (format.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	raw, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	img, err := fromImage(raw, imageMeta(formatName, path, raw))
	if err != nil {
		return nil, err
	}
	return &singleReader{img: img}, nil
}

func (r *singleReader) Read(index int) (*ndimage.Image, error) {
	if index != 0 {
		return nil, fmt.Errorf("image index %d out of range (single-image source)", index)
	}
	return r.img, nil
}

func (r *singleReader) ReadAll() ([]*ndimage.Image, error) {
	return []*ndimage.Image{r.img}, nil
}

func (r *singleReader) Len() int { return 1 }

func (r *singleReader) Close() error { return nil }

// singleWriter serves formats that hold exactly one image per file. Encoding
// happens on Write; a second Write is rejected.
type singleWriter struct {
	path   string
	file   *os.File
	encode encodeFunc
	wrote  bool
}

func newSingleWriter(path string, encode encodeFunc) (format.Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &singleWriter{path: path, file: f, encode: encode}, nil
}

func (w *singleWriter) Write(im *ndimage.Image) error {
	if w.wrote {
		return fmt.Errorf("write %s: format supports a single image", w.path)
	}
	img, err := toImage(im)
	if err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	if err := w.encode(w.file, img); err != nil {
		return fmt.Errorf("encode %s: %w", w.path, err)
	}
	w.wrote = true
	return nil
}

func (w *singleWriter) Close() error {
	return w.file.Close()
}
