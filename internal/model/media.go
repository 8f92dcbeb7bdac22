// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"path"
	"strings"
	"time"
)

// Media file types
const (
	MediaTypeLogo     = "logo"
	MediaTypeFavicon  = "favicon"
	MediaTypeBanner   = "banner"
	MediaTypeIcon     = "icon"
	MediaTypeDocument = "document"
	MediaTypeOther    = "other"
)

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeICO  = "image/x-icon"
	MimeTypeSVG  = "image/svg+xml"
	MimeTypePDF  = "application/pdf"
)

var mediaTypeLabels = map[string]string{
	MediaTypeLogo:     "Logo",
	MediaTypeFavicon:  "Favicon",
	MediaTypeBanner:   "Banner Image",
	MediaTypeIcon:     "Icon",
	MediaTypeDocument: "Document",
	MediaTypeOther:    "Other",
}

// MediaFile represents an uploaded file known to the media library.
// FilePath is relative to the uploads directory.
type MediaFile struct {
	ID         int64
	UUID       string
	Name       string
	FilePath   string
	FileType   string
	MimeType   string
	AltText    string
	Caption    string
	Width      sql.NullInt64
	Height     sql.NullInt64
	Category   string
	Tags       string
	UploadedBy sql.NullInt64
	UploadedAt time.Time
	FileSize   int64
}

// Extension returns the lower-cased file extension without the dot.
func (m MediaFile) Extension() string {
	ext := path.Ext(m.FilePath)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// TagList splits the comma-separated tags, dropping blanks.
func (m MediaFile) TagList() []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(m.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// TypeDisplay returns the human-readable label for the file type.
func (m MediaFile) TypeDisplay() string {
	if label, ok := mediaTypeLabels[m.FileType]; ok {
		return label
	}
	return m.FileType
}

// IsImage returns true if the media type is a raster image.
func (m MediaFile) IsImage() bool {
	switch m.MimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// IsValidMediaType checks if a media file type is valid.
func IsValidMediaType(fileType string) bool {
	_, ok := mediaTypeLabels[fileType]
	return ok
}
