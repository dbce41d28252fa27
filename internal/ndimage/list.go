package ndimage

import "prism/internal/metadata"

// List is an ordered collection of Images sharing one global metadata Dict,
// as produced by multi-image readers (animated GIF frames, volume stacks).
type List struct {
	items []*Image
	meta  *metadata.Dict
}

// NewList returns an empty List with metadata derived from meta (nil allowed).
func NewList(meta map[string]any) *List {
	return &List{meta: metadata.NewFromMap(meta)}
}

// Meta returns the shared collection-level Dict by reference.
func (l *List) Meta() *metadata.Dict {
	return l.meta
}

// Append adds an image to the end of the list.
func (l *List) Append(im *Image) {
	l.items = append(l.items, im)
}

// Len returns the number of images.
func (l *List) Len() int {
	return len(l.items)
}

// At returns the image at index i.
func (l *List) At(i int) *Image {
	return l.items[i]
}

// Images returns a snapshot of the item slice.
func (l *List) Images() []*Image {
	out := make([]*Image, len(l.items))
	copy(out, l.items)
	return out
}
