package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/Shobuki/gfchristmastwebsite/media"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

type FileHandler struct {
	Pictures repository.PictureRepository
	Store    media.Store
}

func idFromURLParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idValue := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idValue, 10, 32)
	if err != nil {
		writeValidationError(w, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// serveAsset streams a stored file with a content type derived from its
// extension; a missing file is a 404, not a 500.
func serveAsset(w http.ResponseWriter, store media.Store, assetType media.AssetType, filename string) {
	reader, info, err := store.Get(assetType, filename)
	if err != nil {
		if os.IsNotExist(err) {
			writeNotFound(w, "file missing")
			return
		}
		writeStorageError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", media.ContentTypeFor(filename))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	_, _ = io.Copy(w, reader)
}

// ServePicture streams the original picture bytes.
func (h *FileHandler) ServePicture(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromURLParam(w, r)
	if !ok {
		return
	}
	pic, err := h.Pictures.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeNotFound(w, "not found")
			return
		}
		writeStorageError(w, err)
		return
	}
	serveAsset(w, h.Store, media.AssetTypePicture, pic.Filename)
}

// ServeThumbnail streams the generated thumbnail, falling back to 404 when the
// picture never got one.
func (h *FileHandler) ServeThumbnail(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromURLParam(w, r)
	if !ok {
		return
	}
	pic, err := h.Pictures.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeNotFound(w, "not found")
			return
		}
		writeStorageError(w, err)
		return
	}
	if pic.ThumbnailPath == nil {
		writeNotFound(w, "picture has no thumbnail")
		return
	}
	serveAsset(w, h.Store, media.AssetTypeThumbnail, *pic.ThumbnailPath)
}
