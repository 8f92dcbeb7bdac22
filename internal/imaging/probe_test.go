// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/navcms/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func writeFile(t *testing.T, dir, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(w, h)); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(w, h), &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func TestProbePNG(t *testing.T) {
	dir := t.TempDir()
	data := encodePNG(t, 40, 16)
	writeFile(t, dir, "media/logo.png", data)

	info, err := NewProber(dir).Probe("media/logo.png")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if !info.Exists {
		t.Error("expected file to exist")
	}
	if info.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", info.Size, len(data))
	}
	if info.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q, want %q", info.MimeType, model.MimeTypePNG)
	}
	if info.Width != 40 || info.Height != 16 {
		t.Errorf("dimensions = %dx%d, want 40x16", info.Width, info.Height)
	}
	if !info.HasDimensions() {
		t.Error("expected dimensions")
	}
}

func TestProbeJPEGWithoutExif(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "banner.jpg", encodeJPEG(t, 30, 20))

	info, err := NewProber(dir).Probe("banner.jpg")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.MimeType != model.MimeTypeJPEG {
		t.Errorf("MimeType = %q, want %q", info.MimeType, model.MimeTypeJPEG)
	}
	if info.Width != 30 || info.Height != 20 {
		t.Errorf("dimensions = %dx%d, want 30x20", info.Width, info.Height)
	}
}

func TestProbeMissingFile(t *testing.T) {
	info, err := NewProber(t.TempDir()).Probe("media/gone.png")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Exists || info.Size != 0 {
		t.Errorf("expected missing file with size 0, got %+v", info)
	}
	if info.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q, want extension-based %q", info.MimeType, model.MimeTypePNG)
	}
}

func TestProbeNonImage(t *testing.T) {
	dir := t.TempDir()
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`)
	writeFile(t, dir, "icon.svg", svg)

	info, err := NewProber(dir).Probe("icon.svg")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.MimeType != model.MimeTypeSVG {
		t.Errorf("MimeType = %q, want %q", info.MimeType, model.MimeTypeSVG)
	}
	if info.HasDimensions() {
		t.Error("SVG should not report raster dimensions")
	}
	if info.Size != int64(len(svg)) {
		t.Errorf("Size = %d, want %d", info.Size, len(svg))
	}
}

func TestProbeCorruptImage(t *testing.T) {
	dir := t.TempDir()
	data := encodePNG(t, 10, 10)[:30]
	writeFile(t, dir, "broken.png", data)

	info, err := NewProber(dir).Probe("broken.png")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Size != 30 || info.HasDimensions() {
		t.Errorf("expected size without dimensions, got %+v", info)
	}
}

func TestResolveRejectsEscapes(t *testing.T) {
	p := NewProber(t.TempDir())

	for _, rel := range []string{"../etc/passwd", "/etc/passwd", "media/../../x", ""} {
		t.Run(rel, func(t *testing.T) {
			if _, err := p.Resolve(rel); !errors.Is(err, ErrUnsafePath) {
				t.Errorf("Resolve(%q) error = %v, want ErrUnsafePath", rel, err)
			}
		})
	}

	if _, err := p.Resolve("media/./logo.png"); err != nil {
		t.Errorf("Resolve of local path failed: %v", err)
	}
}

func TestDetectMimeType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		want     string
	}{
		{"png bytes", []byte("\x89PNG\r\n\x1a\n"), "x.bin", model.MimeTypePNG},
		{"gif bytes", []byte("GIF89a"), "x", model.MimeTypeGIF},
		{"pdf bytes", []byte("%PDF-1.4"), "doc", model.MimeTypePDF},
		{"svg by extension", []byte("<svg></svg>"), "a.SVG", model.MimeTypeSVG},
		{"ico by extension", []byte{0, 1, 2}, "favicon.ico", model.MimeTypeICO},
		{"unknown", []byte("hello"), "notes.txt", "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMimeType(tt.data, tt.filename); got != tt.want {
				t.Errorf("DetectMimeType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOrientedDimensions(t *testing.T) {
	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 40, 20},
		{2, 40, 20},
		{3, 40, 20},
		{4, 40, 20},
		{5, 20, 40},
		{6, 20, 40},
		{7, 20, 40},
		{8, 20, 40},
		{0, 40, 20},
	}

	for _, tt := range tests {
		w, h := orientedDimensions(40, 20, tt.orientation)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("orientation %d: got %dx%d, want %dx%d", tt.orientation, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestReadExifOrientationDefault(t *testing.T) {
	if got := readExifOrientation(bytes.NewReader(encodeJPEG(t, 4, 4))); got != 1 {
		t.Errorf("orientation without EXIF = %d, want 1", got)
	}
}
