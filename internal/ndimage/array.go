package ndimage

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports a constructor or operand that cannot form a
// valid array (nil buffer, negative dimension, shape/buffer mismatch).
var ErrInvalidArgument = errors.New("invalid argument")

// ErrShapeMismatch reports binary operands whose shapes differ.
var ErrShapeMismatch = errors.New("shape mismatch")

// Array is an N-dimensional float64 buffer in row-major order. It carries no
// metadata; see Image for the metadata-carrying view.
type Array struct {
	data  []float64
	shape []int
}

// NewArray wraps data with the given shape. The buffer is shared, not copied.
func NewArray(data []float64, shape ...int) (*Array, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil data buffer", ErrInvalidArgument)
	}
	n := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("%w: negative dimension %d", ErrInvalidArgument, dim)
		}
		n *= dim
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: shape %v wants %d elements, buffer has %d",
			ErrInvalidArgument, shape, n, len(data))
	}
	s := make([]int, len(shape))
	copy(s, shape)
	return &Array{data: data, shape: s}, nil
}

// Zeros allocates a zero-filled array of the given shape.
func Zeros(shape ...int) *Array {
	n := 1
	for _, dim := range shape {
		if dim < 0 {
			n = 0
			break
		}
		n *= dim
	}
	a, _ := NewArray(make([]float64, n), shape...)
	return a
}

// Data exposes the backing buffer. Mutations are visible to every view
// sharing it.
func (a *Array) Data() []float64 {
	return a.data
}

// Shape returns a copy of the dimension sizes.
func (a *Array) Shape() []int {
	out := make([]int, len(a.shape))
	copy(out, a.shape)
	return out
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return len(a.shape)
}

// Len returns the element count.
func (a *Array) Len() int {
	return len(a.data)
}

// SameShape reports whether both arrays have identical shapes.
func (a *Array) SameShape(b *Array) bool {
	if b == nil || len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	return true
}

// At returns the element at the given multi-index.
func (a *Array) At(idx ...int) float64 {
	return a.data[a.offset(idx)]
}

// SetAt stores v at the given multi-index.
func (a *Array) SetAt(v float64, idx ...int) {
	a.data[a.offset(idx)] = v
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("ndimage: index rank %d does not match shape rank %d", len(idx), len(a.shape)))
	}
	off := 0
	for i, ix := range idx {
		if ix < 0 || ix >= a.shape[i] {
			panic(fmt.Sprintf("ndimage: index %d out of range for dimension %d (size %d)", ix, i, a.shape[i]))
		}
		off = off*a.shape[i] + ix
	}
	return off
}

// Reshape returns a new Array sharing this buffer with a different shape.
// The element count must match.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	return NewArray(a.data, shape...)
}

// Clone returns an Array with a copied buffer.
func (a *Array) Clone() *Array {
	data := make([]float64, len(a.data))
	copy(data, a.data)
	out, _ := NewArray(data, a.shape...)
	return out
}
