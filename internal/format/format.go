package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"prism/internal/ndimage"
)

// Mode characters a Format may declare.
const (
	ModeSingleImage  = 'i'
	ModeMultiImage   = 'I'
	ModeSingleVolume = 'v'
	ModeMultiVolume  = 'V'
)

var validModes = map[rune]struct{}{
	ModeSingleImage:  {},
	ModeMultiImage:   {},
	ModeSingleVolume: {},
	ModeMultiVolume:  {},
}

// ErrUnknownFormat reports a lookup that matched nothing in the registry.
var ErrUnknownFormat = errors.New("unknown format")

// Reader decodes images from one source. Readers are single-use; Close
// releases the underlying handle.
type Reader interface {
	// Read decodes the image at index (0 for single-image formats).
	Read(index int) (*ndimage.Image, error)
	// ReadAll decodes every image in the source.
	ReadAll() ([]*ndimage.Image, error)
	// Len returns the number of images available.
	Len() int
	Close() error
}

// Writer encodes images to one destination. Single-image formats reject a
// second Write call.
type Writer interface {
	Write(im *ndimage.Image) error
	Close() error
}

// Format describes one supported image format and how to construct codecs
// for it. Name, Description, Extensions, Modes, and Doc feed the registry
// search and the documentation generator.
type Format struct {
	// Name is the short uppercase identifier, e.g. "PNG".
	Name string
	// Description is a one-line summary shown in listings.
	Description string
	// Extensions are the dotted lowercase filename extensions claimed by
	// this format.
	Extensions []string
	// Modes is the subset of "iIvV" this format can represent.
	Modes string
	// Doc is the long-form free text used by the documentation generator.
	Doc string

	// NewReader opens path for decoding.
	NewReader func(path string) (Reader, error)
	// NewWriter opens path for encoding.
	NewWriter func(path string) (Writer, error)
}

// CanRead reports whether this format claims path's extension and supports
// reading.
func (f *Format) CanRead(path string) bool {
	return f.NewReader != nil && f.matchesExtension(path)
}

// CanWrite reports whether this format claims path's extension and supports
// writing.
func (f *Format) CanWrite(path string) bool {
	return f.NewWriter != nil && f.matchesExtension(path)
}

// HasMode reports whether the format declares mode.
func (f *Format) HasMode(mode rune) bool {
	return strings.ContainsRune(f.Modes, mode)
}

func (f *Format) matchesExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range f.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (f *Format) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("format name is required")
	}
	for _, mode := range f.Modes {
		if _, ok := validModes[mode]; !ok {
			return fmt.Errorf("format %s: invalid mode %q (valid: iIvV)", f.Name, string(mode))
		}
	}
	for i, ext := range f.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			return fmt.Errorf("format %s: empty extension", f.Name)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.Extensions[i] = ext
	}
	return nil
}
