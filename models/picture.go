package models

import (
	"strings"
	"time"
)

// PictureSource distinguishes pictures uploaded by hand from ones captured
// automatically by the mini game.
type PictureSource string

const (
	SourceManualUpload PictureSource = "manual-upload"
	SourceAutoCapture  PictureSource = "auto-capture"
)

// autoCapturePrefix is the legacy convention older clients used instead of
// sending an explicit source field.
const autoCapturePrefix = "capture-"

// ResolvePictureSource validates an explicit source value, falling back to the
// original-name prefix convention when none was sent.
func ResolvePictureSource(raw, originalName string) PictureSource {
	switch PictureSource(raw) {
	case SourceManualUpload, SourceAutoCapture:
		return PictureSource(raw)
	}
	if strings.HasPrefix(originalName, autoCapturePrefix) {
		return SourceAutoCapture
	}
	return SourceManualUpload
}

// Picture is an uploaded image stored on disk. GachaID is set later by the
// allocator or by an explicit assignment.
type Picture struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	Filename      string        `json:"filename" gorm:"not null"`
	OriginalName  *string       `json:"originalName,omitempty"`
	MimeType      *string       `json:"mimeType,omitempty"`
	Size          int64         `json:"size"`
	StoredPath    string        `json:"-" gorm:"not null"`
	ThumbnailPath *string       `json:"-"`
	Source        PictureSource `json:"source" gorm:"not null;default:manual-upload"`
	TakenAt       *int64        `json:"takenAt,omitempty"`
	GachaID       *uint         `json:"gachaId,omitempty" gorm:"index"`
	CreatedAt     time.Time     `json:"createdAt"`
}
