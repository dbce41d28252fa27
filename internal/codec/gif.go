package codec

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"

	"prism/internal/format"
	"prism/internal/ndimage"
)

// gifFrameDelay is the per-frame delay written to animations, in 1/100s.
const gifFrameDelay = 10

func gifFormat() *format.Format {
	return &format.Format{
		Name:        "GIF",
		Description: "Graphics Interchange Format",
		Extensions:  []string{".gif"},
		Modes:       "iI",
		Doc: `Paletted format supporting multi-frame animations.

Every frame decodes as its own image carrying frame_index and delay_cs
metadata; the loop count is attached to each frame as well. Writing more
than one image produces an animation with a fixed 100ms frame delay, and
truecolor input is quantized to the standard 256-color palette.`,
		NewReader: newGIFReader,
		NewWriter: newGIFWriter,
	}
}

type gifReader struct {
	frames []*ndimage.Image
}

func newGIFReader(path string) (format.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	decoded, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	frames := make([]*ndimage.Image, 0, len(decoded.Image))
	for i, frame := range decoded.Image {
		meta := imageMeta("GIF", path, frame)
		meta["frame_index"] = i
		meta["frame_count"] = len(decoded.Image)
		meta["loop_count"] = decoded.LoopCount
		if i < len(decoded.Delay) {
			meta["delay_cs"] = decoded.Delay[i]
		}
		img, err := fromImage(frame, meta)
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	return &gifReader{frames: frames}, nil
}

func (r *gifReader) Read(index int) (*ndimage.Image, error) {
	if index < 0 || index >= len(r.frames) {
		return nil, fmt.Errorf("frame index %d out of range (have %d)", index, len(r.frames))
	}
	return r.frames[index], nil
}

func (r *gifReader) ReadAll() ([]*ndimage.Image, error) {
	out := make([]*ndimage.Image, len(r.frames))
	copy(out, r.frames)
	return out, nil
}

func (r *gifReader) Len() int { return len(r.frames) }

func (r *gifReader) Close() error { return nil }

// gifWriter buffers frames and encodes the animation on Close, since the
// container needs the full frame list up front.
type gifWriter struct {
	path   string
	frames []*image.Paletted
}

func newGIFWriter(path string) (format.Writer, error) {
	return &gifWriter{path: path}, nil
}

func (w *gifWriter) Write(im *ndimage.Image) error {
	img, err := toImage(im)
	if err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	paletted := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(paletted, img.Bounds(), img, image.Point{})
	w.frames = append(w.frames, paletted)
	return nil
}

func (w *gifWriter) Close() error {
	if len(w.frames) == 0 {
		return fmt.Errorf("write %s: no frames written", w.path)
	}

	out := &gif.GIF{Image: w.frames, Delay: make([]int, len(w.frames))}
	for i := range out.Delay {
		out.Delay[i] = gifFrameDelay
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", w.path, err)
	}
	if err := gif.EncodeAll(f, out); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", w.path, err)
	}
	return f.Close()
}
