// Package codec provides the built-in format plugins: PNG, JPEG, GIF, BMP,
// and TIFF, each wrapping the corresponding Go codec library and exposing the
// format.Reader/Writer surface over ndimage values.
//
// Decoded pixels are materialized as float64 NRGBA planes with shape
// (height, width, 4) in the 0-255 range, with image metadata (format,
// dimensions, source, color model) attached to every decoded image.
package codec
