package codec

import (
	"path/filepath"
	"testing"

	"prism/internal/format"
	"prism/internal/ndimage"
)

// testImage builds a 2x3 RGBA gradient as an ndimage value.
func testImage(t *testing.T) *ndimage.Image {
	t.Helper()
	const h, w = 2, 3
	data := make([]float64, h*w*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := (y*w + x) * 4
			data[base+0] = float64(x * 40)
			data[base+1] = float64(y * 80)
			data[base+2] = 128
			data[base+3] = 255
		}
	}
	im, err := ndimage.FromData(data, []int{h, w, 4}, nil)
	if err != nil {
		t.Fatalf("FromData: %v", err)
	}
	return im
}

func writeOne(t *testing.T, f *format.Format, path string, im *ndimage.Image) {
	t.Helper()
	w, err := f.NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter(%s): %v", path, err)
	}
	if err := w.Write(im); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func readOne(t *testing.T, f *format.Format, path string) *ndimage.Image {
	t.Helper()
	r, err := f.NewReader(path)
	if err != nil {
		t.Fatalf("NewReader(%s): %v", path, err)
	}
	defer r.Close()
	im, err := r.Read(0)
	if err != nil {
		t.Fatalf("Read(0): %v", err)
	}
	return im
}

func TestRegisterSeedsAllFormats(t *testing.T) {
	reg := format.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	for _, name := range []string{"PNG", "JPEG", "GIF", "BMP", "TIFF"} {
		if _, err := reg.ByName(name); err != nil {
			t.Errorf("ByName(%s): %v", name, err)
		}
	}
}

func TestDefaultIsSharedInstance(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() returned distinct registries")
	}
}

func TestPNGRoundTrip(t *testing.T) {
	reg := Default()
	f, err := reg.ByName("PNG")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "img.png")
	src := testImage(t)
	writeOne(t, f, path, src)
	got := readOne(t, f, path)

	wantShape := []int{2, 3, 4}
	shape := got.Shape()
	for i := range wantShape {
		if shape[i] != wantShape[i] {
			t.Fatalf("shape = %v, want %v", shape, wantShape)
		}
	}
	// PNG is lossless: pixel values survive exactly.
	for i, v := range got.Data() {
		if v != src.Data()[i] {
			t.Fatalf("pixel %d = %v, want %v", i, v, src.Data()[i])
		}
	}

	if v, _ := got.Meta().Get("format"); v != "PNG" {
		t.Errorf("format meta = %v, want PNG", v)
	}
	if v, _ := got.Meta().Get("width"); v != 3 {
		t.Errorf("width meta = %v, want 3", v)
	}
	if v, _ := got.Meta().Get("source"); v != path {
		t.Errorf("source meta = %v, want %s", v, path)
	}
}

func TestBMPAndTIFFRoundTrip(t *testing.T) {
	for _, name := range []string{"BMP", "TIFF"} {
		t.Run(name, func(t *testing.T) {
			f, err := Default().ByName(name)
			if err != nil {
				t.Fatal(err)
			}
			path := filepath.Join(t.TempDir(), "img"+f.Extensions[0])
			writeOne(t, f, path, testImage(t))
			got := readOne(t, f, path)
			if got.Shape()[0] != 2 || got.Shape()[1] != 3 {
				t.Errorf("shape = %v, want [2 3 4]", got.Shape())
			}
		})
	}
}

func TestJPEGDecodesWrittenFile(t *testing.T) {
	f, err := Default().ByName("JPEG")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "img.jpg")
	writeOne(t, f, path, testImage(t))

	// Lossy codec: check geometry and metadata only.
	got := readOne(t, f, path)
	if got.Shape()[0] != 2 || got.Shape()[1] != 3 {
		t.Errorf("shape = %v, want [2 3 4]", got.Shape())
	}
	if v, _ := got.Meta().Get("color_model"); v != "ycbcr" {
		t.Errorf("color_model = %v, want ycbcr", v)
	}
}

func TestSingleWriterRejectsSecondImage(t *testing.T) {
	f, err := Default().ByName("PNG")
	if err != nil {
		t.Fatal(err)
	}
	w, err := f.NewWriter(filepath.Join(t.TempDir(), "img.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	im := testImage(t)
	if err := w.Write(im); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := w.Write(im); err == nil {
		t.Error("second Write accepted on single-image format")
	}
}

func TestGIFMultiFrameRoundTrip(t *testing.T) {
	f, err := Default().ByName("GIF")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "anim.gif")

	w, err := f.NewWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := w.Write(testImage(t)); err != nil {
			t.Fatalf("Write frame %d: %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := f.NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
	frames, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("ReadAll returned %d frames, want 3", len(frames))
	}
	if v, _ := frames[1].Meta().Get("frame_index"); v != 1 {
		t.Errorf("frame_index = %v, want 1", v)
	}
	if v, _ := frames[1].Meta().Get("frame_count"); v != 3 {
		t.Errorf("frame_count = %v, want 3", v)
	}
	if _, err := r.Read(5); err == nil {
		t.Error("Read(5) accepted, want out-of-range error")
	}
}

func TestGIFWriterRequiresFrames(t *testing.T) {
	f, err := Default().ByName("GIF")
	if err != nil {
		t.Fatal(err)
	}
	w, err := f.NewWriter(filepath.Join(t.TempDir(), "empty.gif"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err == nil {
		t.Error("Close with zero frames should fail")
	}
}

func TestToImageShapes(t *testing.T) {
	gray, err := ndimage.FromData([]float64{0, 128, 300, -5}, []int{2, 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	img, err := toImage(gray)
	if err != nil {
		t.Fatalf("toImage gray: %v", err)
	}
	// Clamping: 300 -> 255, -5 -> 0.
	if img.Pix[img.PixOffset(0, 1)] != 255 {
		t.Errorf("clamped high value = %d, want 255", img.Pix[img.PixOffset(0, 1)])
	}
	if img.Pix[img.PixOffset(1, 1)] != 0 {
		t.Errorf("clamped low value = %d, want 0", img.Pix[img.PixOffset(1, 1)])
	}

	bad, err := ndimage.FromData([]float64{1, 2}, []int{2, 1, 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := toImage(bad); err == nil {
		t.Error("toImage accepted 1-channel 3-d shape")
	}

	flat, err := ndimage.FromData([]float64{1}, []int{1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := toImage(flat); err == nil {
		t.Error("toImage accepted 1-d shape")
	}
}

func TestResize(t *testing.T) {
	src := testImage(t)
	out, err := Resize(src, 6, 4)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	shape := out.Shape()
	if shape[0] != 4 || shape[1] != 6 {
		t.Errorf("resized shape = %v, want [4 6 4]", shape)
	}
	if v, _ := out.Meta().Get("width"); v != 6 {
		t.Errorf("width meta = %v, want 6", v)
	}

	if _, err := Resize(src, 0, 4); err == nil {
		t.Error("Resize accepted zero width")
	}
}

func TestGrayscalePreservesShape(t *testing.T) {
	src := testImage(t)
	out, err := Grayscale(src)
	if err != nil {
		t.Fatalf("Grayscale: %v", err)
	}
	if out.Shape()[0] != 2 || out.Shape()[1] != 3 {
		t.Errorf("shape = %v, want [2 3 4]", out.Shape())
	}
	d := out.Data()
	if d[0] != d[1] || d[1] != d[2] {
		t.Errorf("grayscale channels differ: %v %v %v", d[0], d[1], d[2])
	}
}
