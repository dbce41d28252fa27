package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command with args and returns captured stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output missing %q:\n%s", needle, haystack)
	}
}

// writeTestPNG renders a small gradient PNG to return a decodeable fixture.
func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 100), B: 30, A: 255})
		}
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
}

func TestFormatsCommandListsCodecs(t *testing.T) {
	out, err := runCLI(t, "formats")
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	for _, name := range []string{"PNG", "JPEG", "GIF", "BMP", "TIFF"} {
		requireContains(t, out, name)
	}
}

func TestInfoCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	writeTestPNG(t, path)

	out, err := runCLI(t, "info", path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "Format: PNG")
	requireContains(t, out, "[2 4 4]")
	requireContains(t, out, "width")
}

func TestInfoCommandUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xyz")
	if err := os.WriteFile(path, []byte("?"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "info", path); err == nil {
		t.Fatal("info accepted unknown extension")
	}
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pic.png")
	dst := filepath.Join(dir, "pic.bmp")
	writeTestPNG(t, src)

	cfgPath := filepath.Join(dir, "config.toml")
	writeTestConfig(t, cfgPath, dir)

	if _, err := runCLI(t, "--config", cfgPath, "convert", src, dst); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("converted file missing: %v", err)
	}
}

func TestConvertCommandResize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pic.png")
	dst := filepath.Join(dir, "small.png")
	writeTestPNG(t, src)

	cfgPath := filepath.Join(dir, "config.toml")
	writeTestConfig(t, cfgPath, dir)

	if _, err := runCLI(t, "--config", cfgPath, "convert", src, dst, "--resize", "2x1"); err != nil {
		t.Fatalf("convert --resize: %v", err)
	}

	out, err := runCLI(t, "info", dst)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "[1 2 4]")
}

func TestConvertCommandRejectsBadResize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pic.png")
	writeTestPNG(t, src)

	cfgPath := filepath.Join(dir, "config.toml")
	writeTestConfig(t, cfgPath, dir)

	if _, err := runCLI(t, "--config", cfgPath, "convert", src, filepath.Join(dir, "out.png"), "--resize", "banana"); err == nil {
		t.Fatal("convert accepted malformed --resize")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "prism")
}

func TestParseResize(t *testing.T) {
	cases := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"", 0, 0, false},
		{"640x480", 640, 480, false},
		{" 8x8 ", 8, 8, false},
		{"0x10", 0, 0, true},
		{"10", 0, 0, true},
		{"axb", 0, 0, true},
	}
	for _, tc := range cases {
		w, h, err := parseResize(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseResize(%q) accepted", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseResize(%q): %v", tc.in, err)
			continue
		}
		if w != tc.w || h != tc.h {
			t.Errorf("parseResize(%q) = %dx%d, want %dx%d", tc.in, w, h, tc.w, tc.h)
		}
	}
}

// writeTestConfig points all configurable paths into dir so tests never
// touch the real home directory.
func writeTestConfig(t *testing.T, path, dir string) {
	t.Helper()
	body := "[paths]\n" +
		"cache_dir = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n" +
		"log_dir = \"" + filepath.ToSlash(filepath.Join(dir, "logs")) + "\"\n" +
		"docs_dir = \"" + filepath.ToSlash(filepath.Join(dir, "docs")) + "\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
}
