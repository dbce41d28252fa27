package codec

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"prism/internal/ndimage"
)

// fromImage materializes a decoded image as a float64 NRGBA plane of shape
// (height, width, 4) sharing no memory with the source.
func fromImage(img image.Image, meta map[string]any) (*ndimage.Image, error) {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	data := make([]float64, h*w*4)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for i, p := range row {
			data[y*w*4+i] = float64(p)
		}
	}
	return ndimage.FromData(data, []int{h, w, 4}, meta)
}

// toImage converts an ndimage value back to pixels. Accepted shapes are
// (h, w, 4), (h, w, 3) with alpha assumed opaque, and (h, w) grayscale.
// Values are clamped to the 0-255 range.
func toImage(im *ndimage.Image) (*image.NRGBA, error) {
	shape := im.Shape()
	var h, w, channels int
	switch len(shape) {
	case 2:
		h, w, channels = shape[0], shape[1], 1
	case 3:
		h, w, channels = shape[0], shape[1], shape[2]
		if channels != 3 && channels != 4 {
			return nil, fmt.Errorf("unsupported channel count %d (want 3 or 4)", channels)
		}
	default:
		return nil, fmt.Errorf("unsupported image shape %v (want 2 or 3 dimensions)", shape)
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	data := im.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := out.PixOffset(x, y)
			src := (y*w + x) * channels
			switch channels {
			case 1:
				v := clampByte(data[src])
				out.Pix[off+0] = v
				out.Pix[off+1] = v
				out.Pix[off+2] = v
				out.Pix[off+3] = 0xff
			case 3:
				out.Pix[off+0] = clampByte(data[src+0])
				out.Pix[off+1] = clampByte(data[src+1])
				out.Pix[off+2] = clampByte(data[src+2])
				out.Pix[off+3] = 0xff
			case 4:
				out.Pix[off+0] = clampByte(data[src+0])
				out.Pix[off+1] = clampByte(data[src+1])
				out.Pix[off+2] = clampByte(data[src+2])
				out.Pix[off+3] = clampByte(data[src+3])
			}
		}
	}
	return out, nil
}

func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// imageMeta composes the standard metadata attached to decoded images.
func imageMeta(formatName, source string, img image.Image) map[string]any {
	bounds := img.Bounds()
	return map[string]any{
		"format":      formatName,
		"source":      source,
		"width":       bounds.Dx(),
		"height":      bounds.Dy(),
		"color_model": colorModelName(img),
	}
}

func colorModelName(img image.Image) string {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return "gray"
	case *image.Paletted:
		return "paletted"
	case *image.CMYK:
		return "cmyk"
	case *image.YCbCr:
		return "ycbcr"
	default:
		return "rgba"
	}
}

// Resize scales im to width x height using Lanczos resampling. The result
// carries fresh metadata reflecting the new geometry; the format and source
// keys are preserved when present.
func Resize(im *ndimage.Image, width, height int) (*ndimage.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	src, err := toImage(im)
	if err != nil {
		return nil, err
	}
	resized := imaging.Resize(src, width, height, imaging.Lanczos)
	return fromImage(resized, derivedMeta(im, width, height))
}

// Grayscale converts im to its grayscale rendition, preserving shape.
func Grayscale(im *ndimage.Image) (*ndimage.Image, error) {
	src, err := toImage(im)
	if err != nil {
		return nil, err
	}
	shape := im.Shape()
	gray := imaging.Grayscale(src)
	return fromImage(gray, derivedMeta(im, shape[1], shape[0]))
}

func derivedMeta(im *ndimage.Image, width, height int) map[string]any {
	meta := map[string]any{"width": width, "height": height}
	for _, key := range []string{"format", "source", "color_model"} {
		if v, ok := im.Meta().Get(key); ok {
			meta[key] = v
		}
	}
	return meta
}
