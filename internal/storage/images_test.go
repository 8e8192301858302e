//go:build unit

package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-agency-site/internal/config"
)

func newTestStore(t *testing.T) *ImageStore {
	t.Helper()
	store, err := NewImageStore(config.UploadsConfig{Dir: t.TempDir(), MaxBytes: 1 << 20})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func encodePNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return &buf
}

func TestSlugifyFilename(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"My Photo.PNG", "my-photo"},
		{"hero image (final).jpg", "hero-image-final"},
		{"___.gif", "image"},
		{"already-clean.jpg", "already-clean"},
	}
	for _, tc := range testCases {
		if got := slugifyFilename(tc.input); got != tc.want {
			t.Errorf("slugifyFilename(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestImageStore_Save(t *testing.T) {
	store := newTestStore(t)

	url, err := store.Save(encodePNG(t, 640, 480), "Team Photo.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "/uploads/team-photo.jpg" {
		t.Errorf("url = %q", url)
	}

	// The stored file decodes as JPEG at the original size.
	raw, err := os.ReadFile(filepath.Join(store.dir, "team-photo.jpg"))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("stored file is not a jpeg: %v", err)
	}
	if decoded.Bounds().Dx() != 640 {
		t.Errorf("width = %d, want 640", decoded.Bounds().Dx())
	}
}

func TestImageStore_Save_ResizesWideImages(t *testing.T) {
	store := newTestStore(t)

	url, err := store.Save(encodePNG(t, 2400, 1200), "wide.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, _ := os.ReadFile(filepath.Join(store.dir, filepath.Base(url)))
	decoded, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("stored file is not a jpeg: %v", err)
	}
	if decoded.Bounds().Dx() != maxImageWidth {
		t.Errorf("width = %d, want %d", decoded.Bounds().Dx(), maxImageWidth)
	}
	if decoded.Bounds().Dy() != 600 {
		t.Errorf("height = %d, want aspect-preserving 600", decoded.Bounds().Dy())
	}
}

func TestImageStore_Save_UniqueFilenames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Save(encodePNG(t, 10, 10), "photo.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.Save(encodePNG(t, 10, 10), "photo.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Errorf("second upload reused filename %q", first)
	}
	if !strings.HasPrefix(second, "/uploads/photo-") {
		t.Errorf("second url = %q", second)
	}
}

func TestImageStore_Save_RejectsNonImages(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(strings.NewReader("not an image"), "evil.png"); err == nil {
		t.Error("expected a decode error for a non-image upload")
	}
}
