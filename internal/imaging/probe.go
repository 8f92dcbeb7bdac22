// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging derives media attributes from files in the uploads directory.
package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/navcms/internal/model"
)

// ErrUnsafePath is returned for paths that would leave the uploads directory.
var ErrUnsafePath = errors.New("path escapes uploads directory")

// Info holds the attributes derived from a stored file.
type Info struct {
	Exists   bool
	Size     int64
	MimeType string
	// Width and Height are zero when the file is not a decodable raster image.
	Width  int
	Height int
}

// HasDimensions reports whether Width and Height were read from the file.
func (i Info) HasDimensions() bool {
	return i.Width > 0 && i.Height > 0
}

// Prober inspects files stored under an uploads directory.
type Prober struct {
	uploadDir string
}

// NewProber creates a prober rooted at uploadDir.
func NewProber(uploadDir string) *Prober {
	return &Prober{uploadDir: uploadDir}
}

// Resolve maps a stored relative path to a file system path.
func (p *Prober) Resolve(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if clean == "." || !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%q: %w", relPath, ErrUnsafePath)
	}
	return filepath.Join(p.uploadDir, clean), nil
}

// Probe derives size, MIME type and dimensions of a stored file.
// A missing file is not an error: it yields Info with Exists false and size 0.
func (p *Prober) Probe(relPath string) (Info, error) {
	path, err := p.Resolve(relPath)
	if err != nil {
		return Info{}, err
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Info{MimeType: mimeFromExtension(relPath)}, nil
	}
	if err != nil {
		return Info{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.IsDir() {
		return Info{}, fmt.Errorf("%q is a directory", relPath)
	}

	info := Info{Exists: true, Size: stat.Size()}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Info{}, fmt.Errorf("failed to read file: %w", err)
	}
	info.MimeType = DetectMimeType(head[:n], relPath)

	if !isRaster(info.MimeType) {
		return info, nil
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return Info{}, fmt.Errorf("failed to rewind file: %w", err)
	}
	// Decode config only; the pixel data is never needed.
	config, _, err := image.DecodeConfig(file)
	if err != nil {
		// Corrupt image: keep size and type, leave dimensions unknown.
		return info, nil
	}
	info.Width, info.Height = config.Width, config.Height

	if info.MimeType == model.MimeTypeJPEG {
		if _, err := file.Seek(0, io.SeekStart); err == nil {
			info.Width, info.Height = orientedDimensions(info.Width, info.Height, readExifOrientation(file))
		}
	}

	return info, nil
}

// DetectMimeType sniffs the content type of data, falling back to the file
// extension for formats the sniffer does not recognize.
func DetectMimeType(data []byte, filename string) string {
	contentType := http.DetectContentType(data)
	// http.DetectContentType returns types like "text/plain; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}

	switch contentType {
	case model.MimeTypeJPEG, model.MimeTypePNG, model.MimeTypeGIF, model.MimeTypeWebP, model.MimeTypePDF:
		return contentType
	case "image/vnd.microsoft.icon":
		return model.MimeTypeICO
	}

	if ext := mimeFromExtension(filename); ext != "" {
		return ext
	}
	return contentType
}

func mimeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	case ".ico":
		return model.MimeTypeICO
	case ".svg":
		return model.MimeTypeSVG
	case ".pdf":
		return model.MimeTypePDF
	default:
		return ""
	}
}

func isRaster(mimeType string) bool {
	switch mimeType {
	case model.MimeTypeJPEG, model.MimeTypePNG, model.MimeTypeGIF, model.MimeTypeWebP:
		return true
	default:
		return false
	}
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// orientedDimensions returns the displayed width and height.
// Orientations 5 to 8 rotate the image by 90 degrees.
func orientedDimensions(width, height, orientation int) (int, int) {
	switch orientation {
	case 5, 6, 7, 8:
		return height, width
	default:
		return width, height
	}
}
