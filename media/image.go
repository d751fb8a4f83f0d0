package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

var supportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tif":  true,
	".tiff": true,
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	return supportedImageExtensions[strings.ToLower(filepath.Ext(filename))]
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// ContentTypeFor maps a filename extension to a Content-Type, defaulting to
// application/octet-stream.
func ContentTypeFor(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// GenerateThumbnail writes a bounded-size JPEG thumbnail of the stored image
// into the thumbnail asset directory, reusing the original's filename with a
// .jpg extension. Returns the thumbnail filename and absolute path.
func GenerateThumbnail(store Store, originalPath, filename string, maxSize int) (string, string, error) {
	img, err := imaging.Open(originalPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to open image %s: %w", originalPath, err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	thumbName := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	thumbPath, err := store.FullPath(AssetTypeThumbnail, thumbName)
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(filepath.Dir(thumbPath), 0755); err != nil {
		return "", "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(80)); err != nil {
		return "", "", fmt.Errorf("failed to save thumbnail to %s: %w", thumbPath, err)
	}
	return thumbName, thumbPath, nil
}

// ExtractTakenAt reads the EXIF DateTimeOriginal from a stored image and
// returns it as a Unix timestamp. Images without EXIF yield nil, not an error.
func ExtractTakenAt(storedPath string) *int64 {
	f, err := os.Open(storedPath)
	if err != nil {
		return nil
	}
	defer f.Close()

	exifData, err := exif.Decode(f)
	if err != nil {
		return nil
	}
	taken, err := exifData.DateTime()
	if err != nil {
		return nil
	}
	ts := taken.Unix()
	return &ts
}
