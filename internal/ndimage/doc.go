// Package ndimage implements the numeric containers returned by format
// readers: Array, a plain N-dimensional float64 buffer, and Image, an Array
// with an attached metadata.Dict.
//
// Metadata propagation is copy-on-derive: every arithmetic entry point that
// preserves shape returns a new Image carrying a one-level-deep copy of the
// left operand's metadata. Full reductions collapse to a bare scalar and
// shape-changing operations return a plain Array, both discarding metadata.
package ndimage
