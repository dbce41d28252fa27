package format

import (
	"fmt"
	"strings"
	"sync"
)

// Registry is an insertion-ordered collection of Formats. Earlier entries win
// ties during extension search, so register preferred formats first. All
// methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	ordered []*Format
	byName  map[string]*Format
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Format)}
}

// Add registers f. Names are unique (case-insensitive); duplicates and
// invalid mode or extension declarations are rejected.
func (r *Registry) Add(f *Format) error {
	if f == nil {
		return fmt.Errorf("nil format")
	}
	if err := f.validate(); err != nil {
		return err
	}
	key := strings.ToUpper(f.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[key]; ok {
		return fmt.Errorf("format %s already registered", f.Name)
	}
	r.byName[key] = f
	r.ordered = append(r.ordered, f)
	return nil
}

// ByName returns the format registered under name (case-insensitive).
func (r *Registry) ByName(name string) (*Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.byName[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ByExtension returns the first format claiming ext (with or without the
// leading dot).
func (r *Registry) ByExtension(ext string) (*Format, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.ordered {
		for _, e := range f.Extensions {
			if e == ext {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no format for extension %q", ErrUnknownFormat, ext)
}

// SearchRead returns the first format that can read path in the given mode
// (mode 0 matches any).
func (r *Registry) SearchRead(path string, mode rune) (*Format, error) {
	return r.search(path, mode, (*Format).CanRead)
}

// SearchWrite returns the first format that can write path in the given mode
// (mode 0 matches any).
func (r *Registry) SearchWrite(path string, mode rune) (*Format, error) {
	return r.search(path, mode, (*Format).CanWrite)
}

func (r *Registry) search(path string, mode rune, capable func(*Format, string) bool) (*Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.ordered {
		if !capable(f, path) {
			continue
		}
		if mode != 0 && !f.HasMode(mode) {
			continue
		}
		return f, nil
	}
	if mode != 0 {
		return nil, fmt.Errorf("%w: no format for %q in mode %q", ErrUnknownFormat, path, string(mode))
	}
	return nil, fmt.Errorf("%w: no format for %q", ErrUnknownFormat, path)
}

// Formats returns the registered formats in registration order.
func (r *Registry) Formats() []*Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Format, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the number of registered formats.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}
