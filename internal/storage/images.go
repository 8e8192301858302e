// Package storage handles featured-image uploads: decoding, resizing, and
// writing JPEG files under a public uploads directory. It is the local
// stand-in for an object store — callers only ever see the public URL.
package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"go-agency-site/internal/config"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80
)

// Image is the metadata for one stored upload.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   time.Time
}

// ImageStore writes processed uploads to the configured directory.
type ImageStore struct {
	dir      string
	maxBytes int64
}

// NewImageStore creates an ImageStore and ensures the directory exists.
func NewImageStore(cfg config.UploadsConfig) (*ImageStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &ImageStore{dir: cfg.Dir, maxBytes: cfg.MaxBytes}, nil
}

// MaxBytes returns the configured upload size limit.
func (s *ImageStore) MaxBytes() int64 {
	return s.maxBytes
}

// Save processes an upload and writes it to disk, returning the public URL
// path under /uploads/. Decode failures (wrong MIME, corrupt file) surface
// before anything is written.
func (s *ImageStore) Save(src io.Reader, originalName string) (string, error) {
	img, data, err := process(src, originalName)
	if err != nil {
		return "", err
	}
	img.Filename = s.uniqueFilename(img.Filename)

	if err := os.WriteFile(filepath.Join(s.dir, img.Filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return "/uploads/" + img.Filename, nil
}

// process decodes an image, resizes it down to maxImageWidth if wider, and
// encodes it as JPEG. Returns metadata and the encoded bytes.
func process(src io.Reader, originalName string) (Image, []byte, error) {
	decoded, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := decoded.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), decoded, bounds, draw.Over, nil)
		decoded = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, decoded, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return Image{
		Filename:     slugifyFilename(originalName) + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC(),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.ToLower(strings.TrimSuffix(name, ext))
	var b strings.Builder
	pendingHyphen := false
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}

// uniqueFilename appends a counter while the candidate already exists on disk.
func (s *ImageStore) uniqueFilename(filename string) string {
	base := strings.TrimSuffix(filename, ".jpg")
	candidate := filename
	counter := 1
	for {
		if _, err := os.Stat(filepath.Join(s.dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		counter++
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
}
