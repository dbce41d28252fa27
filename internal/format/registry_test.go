package format

import (
	"errors"
	"testing"
)

func stubFormat(name, modes string, exts ...string) *Format {
	return &Format{
		Name:        name,
		Description: name + " test format",
		Extensions:  exts,
		Modes:       modes,
		NewReader:   func(string) (Reader, error) { return nil, nil },
		NewWriter:   func(string) (Writer, error) { return nil, nil },
	}
}

func TestAddAndByName(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(stubFormat("PNG", "i", ".png")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	f, err := r.ByName("png")
	if err != nil {
		t.Fatalf("ByName(png): %v", err)
	}
	if f.Name != "PNG" {
		t.Errorf("ByName returned %q, want PNG", f.Name)
	}

	if _, err := r.ByName("nope"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ByName(nope) = %v, want ErrUnknownFormat", err)
	}
}

func TestAddRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(stubFormat("GIF", "iI", ".gif")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Add(stubFormat("gif", "i", ".gif")); err == nil {
		t.Error("duplicate (case-insensitive) name accepted")
	}
}

func TestAddValidation(t *testing.T) {
	r := NewRegistry()

	if err := r.Add(stubFormat("", "i", ".x")); err == nil {
		t.Error("empty name accepted")
	}
	if err := r.Add(stubFormat("BAD", "iz", ".x")); err == nil {
		t.Error("invalid mode accepted")
	}
	if err := r.Add(stubFormat("EMPTYEXT", "i", "")); err == nil {
		t.Error("empty extension accepted")
	}
}

func TestExtensionNormalization(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(stubFormat("JPEG", "i", "JPG", ".jpeg")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	for _, ext := range []string{"jpg", ".jpg", ".JPEG"} {
		if _, err := r.ByExtension(ext); err != nil {
			t.Errorf("ByExtension(%q): %v", ext, err)
		}
	}
}

func TestSearchByModeAndOrder(t *testing.T) {
	r := NewRegistry()
	first := stubFormat("FIRST", "i", ".img")
	second := stubFormat("SECOND", "iI", ".img")
	if err := r.Add(first); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(second); err != nil {
		t.Fatal(err)
	}

	got, err := r.SearchRead("photo.img", 0)
	if err != nil {
		t.Fatalf("SearchRead any: %v", err)
	}
	if got.Name != "FIRST" {
		t.Errorf("insertion order not honored: got %s, want FIRST", got.Name)
	}

	got, err = r.SearchRead("photo.img", ModeMultiImage)
	if err != nil {
		t.Fatalf("SearchRead I: %v", err)
	}
	if got.Name != "SECOND" {
		t.Errorf("mode filter: got %s, want SECOND", got.Name)
	}

	if _, err := r.SearchRead("photo.img", ModeMultiVolume); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("SearchRead V = %v, want ErrUnknownFormat", err)
	}
	if _, err := r.SearchRead("doc.txt", 0); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("SearchRead unknown ext = %v, want ErrUnknownFormat", err)
	}
}

func TestCanReadRequiresFactory(t *testing.T) {
	f := stubFormat("RO", "i", ".ro")
	f.NewWriter = nil
	if !f.CanRead("p.ro") {
		t.Error("CanRead = false, want true")
	}
	if f.CanWrite("p.ro") {
		t.Error("CanWrite = true for format without writer factory")
	}
}

func TestFormatsSnapshot(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(stubFormat("A", "i", ".a")); err != nil {
		t.Fatal(err)
	}
	list := r.Formats()
	list[0] = nil // mutating the snapshot must not affect the registry
	if r.Formats()[0] == nil {
		t.Error("Formats() exposed internal slice")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}
