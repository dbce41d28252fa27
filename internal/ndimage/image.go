package ndimage

import (
	"fmt"
	"math"

	"prism/internal/metadata"
)

// Image is an Array with exactly one attached metadata Dict. The buffer is
// shared with the wrapped Array; the Dict is owned by the Image.
type Image struct {
	arr  *Array
	meta *metadata.Dict
}

// New wraps arr with metadata derived from meta. meta may be nil (empty
// metadata) or a plain map, which is copied one level deep on construction.
func New(arr *Array, meta map[string]any) (*Image, error) {
	if arr == nil {
		return nil, fmt.Errorf("%w: nil array", ErrInvalidArgument)
	}
	return &Image{arr: arr, meta: metadata.NewFromMap(meta)}, nil
}

// FromData builds the Array and wraps it in one step.
func FromData(data []float64, shape []int, meta map[string]any) (*Image, error) {
	arr, err := NewArray(data, shape...)
	if err != nil {
		return nil, err
	}
	return New(arr, meta)
}

// Array returns the wrapped buffer view.
func (im *Image) Array() *Array {
	return im.arr
}

// Meta returns the attached Dict by reference: mutating it mutates this
// image's metadata in place. Derived images get their own copy instead.
func (im *Image) Meta() *metadata.Dict {
	return im.meta
}

// Shape returns a copy of the dimension sizes.
func (im *Image) Shape() []int {
	return im.arr.Shape()
}

// Data exposes the shared backing buffer.
func (im *Image) Data() []float64 {
	return im.arr.Data()
}

// derive wraps a result array in a new Image carrying a fresh one-level copy
// of this image's metadata. Only the left operand contributes metadata.
func (im *Image) derive(arr *Array) *Image {
	return &Image{arr: arr, meta: im.meta.Copy()}
}

func (im *Image) applyScalar(s float64, fn func(a, b float64) float64) *Image {
	out := make([]float64, len(im.arr.data))
	for i, v := range im.arr.data {
		out[i] = fn(v, s)
	}
	arr, _ := NewArray(out, im.arr.shape...)
	return im.derive(arr)
}

func (im *Image) applyArray(other *Array, fn func(a, b float64) float64) (*Image, error) {
	if other == nil {
		return nil, fmt.Errorf("%w: nil operand", ErrInvalidArgument)
	}
	if !im.arr.SameShape(other) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, im.arr.shape, other.shape)
	}
	out := make([]float64, len(im.arr.data))
	for i, v := range im.arr.data {
		out[i] = fn(v, other.data[i])
	}
	arr, _ := NewArray(out, im.arr.shape...)
	return im.derive(arr), nil
}

func add(a, b float64) float64 { return a + b }
func sub(a, b float64) float64 { return a - b }
func mul(a, b float64) float64 { return a * b }
func div(a, b float64) float64 { return a / b }

// AddScalar returns im + s elementwise.
func (im *Image) AddScalar(s float64) *Image { return im.applyScalar(s, add) }

// SubScalar returns im - s elementwise.
func (im *Image) SubScalar(s float64) *Image { return im.applyScalar(s, sub) }

// MulScalar returns im * s elementwise.
func (im *Image) MulScalar(s float64) *Image { return im.applyScalar(s, mul) }

// DivScalar returns im / s elementwise; division follows float64 semantics.
func (im *Image) DivScalar(s float64) *Image { return im.applyScalar(s, div) }

// Add returns im + other elementwise. When other is itself an Image only the
// receiver's (left operand's) metadata is propagated.
func (im *Image) Add(other *Image) (*Image, error) { return im.applyArray(operand(other), add) }

// Sub returns im - other elementwise.
func (im *Image) Sub(other *Image) (*Image, error) { return im.applyArray(operand(other), sub) }

// Mul returns im * other elementwise.
func (im *Image) Mul(other *Image) (*Image, error) { return im.applyArray(operand(other), mul) }

// Div returns im / other elementwise.
func (im *Image) Div(other *Image) (*Image, error) { return im.applyArray(operand(other), div) }

// AddArray returns im + other elementwise for a plain array operand.
func (im *Image) AddArray(other *Array) (*Image, error) { return im.applyArray(other, add) }

// MulArray returns im * other elementwise for a plain array operand.
func (im *Image) MulArray(other *Array) (*Image, error) { return im.applyArray(other, mul) }

func operand(other *Image) *Array {
	if other == nil {
		return nil
	}
	return other.arr
}

// Sum reduces the whole image to a bare scalar; metadata is discarded.
func (im *Image) Sum() float64 {
	total := 0.0
	for _, v := range im.arr.data {
		total += v
	}
	return total
}

// Mean reduces the whole image to its arithmetic mean.
func (im *Image) Mean() float64 {
	if len(im.arr.data) == 0 {
		return math.NaN()
	}
	return im.Sum() / float64(len(im.arr.data))
}

// Min reduces the whole image to its minimum element.
func (im *Image) Min() float64 {
	out := math.Inf(1)
	for _, v := range im.arr.data {
		out = math.Min(out, v)
	}
	return out
}

// Max reduces the whole image to its maximum element.
func (im *Image) Max() float64 {
	out := math.Inf(-1)
	for _, v := range im.arr.data {
		out = math.Max(out, v)
	}
	return out
}

// SumAxis reduces along one axis and returns a plain Array (shape changed,
// metadata discarded). Reducing the only axis of a 1-d image collapses to a
// scalar; use Sum for that.
func (im *Image) SumAxis(axis int) (*Array, error) {
	return im.reduceAxis(axis, func(acc, v float64) float64 { return acc + v }, 0)
}

// MaxAxis reduces along one axis keeping the per-lane maximum.
func (im *Image) MaxAxis(axis int) (*Array, error) {
	return im.reduceAxis(axis, math.Max, math.Inf(-1))
}

func (im *Image) reduceAxis(axis int, fn func(acc, v float64) float64, seed float64) (*Array, error) {
	shape := im.arr.shape
	if len(shape) < 2 {
		return nil, fmt.Errorf("%w: axis reduction needs at least 2 dimensions, have %d (full reductions return a scalar)",
			ErrInvalidArgument, len(shape))
	}
	if axis < 0 || axis >= len(shape) {
		return nil, fmt.Errorf("%w: axis %d out of range for %d dimensions", ErrInvalidArgument, axis, len(shape))
	}

	outShape := make([]int, 0, len(shape)-1)
	outShape = append(outShape, shape[:axis]...)
	outShape = append(outShape, shape[axis+1:]...)

	outer := 1
	for _, dim := range shape[:axis] {
		outer *= dim
	}
	inner := 1
	for _, dim := range shape[axis+1:] {
		inner *= dim
	}
	n := shape[axis]

	out := make([]float64, outer*inner)
	for i := range out {
		out[i] = seed
	}
	for o := 0; o < outer; o++ {
		for k := 0; k < n; k++ {
			base := (o*n + k) * inner
			for in := 0; in < inner; in++ {
				out[o*inner+in] = fn(out[o*inner+in], im.arr.data[base+in])
			}
		}
	}
	return NewArray(out, outShape...)
}

// Reshape returns a plain Array sharing this buffer; shape changes never
// carry metadata.
func (im *Image) Reshape(shape ...int) (*Array, error) {
	return im.arr.Reshape(shape...)
}
