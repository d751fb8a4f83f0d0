package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/Shobuki/gfchristmastwebsite/config"
	"github.com/Shobuki/gfchristmastwebsite/media"
	"github.com/Shobuki/gfchristmastwebsite/models"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

const (
	pictureListLimit        = 200
	pictureListByGachaLimit = 100
)

type PictureHandler struct {
	Pictures repository.PictureRepository
	Store    media.Store
	Cfg      config.Config
}

// withPublicToken appends the shared public token so the browser can fetch
// file bytes without a personal session.
func withPublicToken(token, rawURL string) string {
	if token == "" {
		return rawURL
	}
	separator := "?"
	if strings.Contains(rawURL, "?") {
		separator = "&"
	}
	return rawURL + separator + "token=" + url.QueryEscape(token)
}

type pictureDTO struct {
	ID           uint    `json:"id"`
	OriginalName *string `json:"originalName"`
	CreatedAt    string  `json:"createdAt"`
	GachaID      *uint   `json:"gachaId"`
	Source       string  `json:"source"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}

func (h *PictureHandler) toDTO(pic models.Picture) pictureDTO {
	dto := pictureDTO{
		ID:           pic.ID,
		OriginalName: pic.OriginalName,
		CreatedAt:    pic.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		GachaID:      pic.GachaID,
		Source:       string(pic.Source),
		URL:          withPublicToken(h.Cfg.PublicToken, fmt.Sprintf("/api/files/%d", pic.ID)),
	}
	if pic.ThumbnailPath != nil {
		thumbURL := withPublicToken(h.Cfg.PublicToken, fmt.Sprintf("/api/files/%d/thumbnail", pic.ID))
		dto.ThumbnailURL = &thumbURL
	}
	return dto
}

func (h *PictureHandler) ListPictures(w http.ResponseWriter, r *http.Request) {
	var (
		pics []models.Picture
		err  error
	)
	if gachaIDValue := r.URL.Query().Get("gachaId"); gachaIDValue != "" {
		gachaID, parseErr := strconv.ParseUint(gachaIDValue, 10, 32)
		if parseErr != nil {
			writeValidationError(w, "invalid gachaId")
			return
		}
		pics, err = h.Pictures.ListByGacha(uint(gachaID), pictureListByGachaLimit)
	} else {
		pics, err = h.Pictures.List(pictureListLimit)
	}
	if err != nil {
		writeStorageError(w, err)
		return
	}

	items := make([]pictureDTO, 0, len(pics))
	for _, pic := range pics {
		items = append(items, h.toDTO(pic))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func formFile(r *http.Request, names ...string) (multipart.File, *multipart.FileHeader, error) {
	for _, name := range names {
		file, header, err := r.FormFile(name)
		if err == nil {
			return file, header, nil
		}
	}
	return nil, nil, http.ErrMissingFile
}

func (h *PictureHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.Cfg.UploadMaxBytes); err != nil {
		writeValidationError(w, "invalid multipart form")
		return
	}
	file, header, err := formFile(r, "file", "image")
	if err != nil {
		writeValidationError(w, "file is required")
		return
	}
	defer file.Close()

	filename, storedPath, err := h.Store.Save(media.AssetTypePicture, "", header.Filename, file)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	pic := models.Picture{
		Filename:   filename,
		Size:       header.Size,
		StoredPath: storedPath,
		Source:     models.ResolvePictureSource(r.FormValue("source"), header.Filename),
	}
	if header.Filename != "" {
		originalName := header.Filename
		pic.OriginalName = &originalName
	}
	if mimeType := header.Header.Get("Content-Type"); mimeType != "" {
		pic.MimeType = &mimeType
	}

	if gachaIDValue := strings.TrimSpace(r.FormValue("gachaId")); gachaIDValue != "" {
		gachaID, parseErr := strconv.ParseUint(gachaIDValue, 10, 32)
		if parseErr != nil {
			writeValidationError(w, "invalid gachaId")
			return
		}
		id := uint(gachaID)
		pic.GachaID = &id
	}

	// metadata and thumbnail are best-effort; the upload stands without them
	if media.IsRasterImage(filename) {
		pic.TakenAt = media.ExtractTakenAt(storedPath)
		thumbName, _, thumbErr := media.GenerateThumbnail(h.Store, storedPath, filename, h.Cfg.ThumbnailMaxSize)
		if thumbErr != nil {
			log.Printf("thumbnail generation failed for %s: %v", filename, thumbErr)
		} else {
			pic.ThumbnailPath = &thumbName
		}
	}

	if err := h.Pictures.Create(&pic); err != nil {
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":  pic.ID,
		"url": withPublicToken(h.Cfg.PublicToken, fmt.Sprintf("/api/files/%d", pic.ID)),
	})
}

func (h *PictureHandler) DeletePicture(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromQuery(w, r)
	if !ok {
		return
	}

	pic, err := h.Pictures.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeNotFound(w, "picture not found")
			return
		}
		writeStorageError(w, err)
		return
	}

	if err := h.Pictures.Delete(id); err != nil {
		writeStorageError(w, err)
		return
	}

	// stored files go too; a failure here leaves an orphan reported by the
	// storage listing, not a broken row
	if err := h.Store.Delete(media.AssetTypePicture, pic.Filename); err != nil {
		log.Printf("warning: failed to remove stored file %s: %v", pic.Filename, err)
	}
	if pic.ThumbnailPath != nil {
		if err := h.Store.Delete(media.AssetTypeThumbnail, *pic.ThumbnailPath); err != nil {
			log.Printf("warning: failed to remove thumbnail %s: %v", *pic.ThumbnailPath, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type AssignPayload struct {
	ID      uint   `json:"id"`
	Rarity  string `json:"rarity,omitempty"`
	GachaID *uint  `json:"gachaId,omitempty"`
}

// AssignPicture sets a picture's gacha item, either directly by gachaId or by
// least-loaded selection within a rarity.
func (h *PictureHandler) AssignPicture(w http.ResponseWriter, r *http.Request) {
	var payload AssignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, "invalid request payload")
		return
	}
	if payload.ID == 0 {
		writeValidationError(w, "invalid id")
		return
	}

	if payload.GachaID != nil {
		if err := h.Pictures.SetGachaID(payload.ID, payload.GachaID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeNotFound(w, "picture not found")
				return
			}
			writeStorageError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "gachaId": *payload.GachaID})
		return
	}

	if !models.IsValidRarity(payload.Rarity) {
		writeValidationError(w, "invalid rarity")
		return
	}
	gachaID, err := h.Pictures.LeastLoadedItemID(models.Rarity(payload.Rarity))
	if err != nil {
		if errors.Is(err, repository.ErrNoItemsForRarity) {
			writeValidationError(w, "no gacha items for rarity")
			return
		}
		writeStorageError(w, err)
		return
	}
	if err := h.Pictures.SetGachaID(payload.ID, &gachaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeNotFound(w, "picture not found")
			return
		}
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "gachaId": gachaID})
}

// idFromQuery parses the required numeric ?id= parameter shared by the delete
// endpoints.
func idFromQuery(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idValue := r.URL.Query().Get("id")
	if idValue == "" {
		writeValidationError(w, "id is required")
		return 0, false
	}
	id, err := strconv.ParseUint(idValue, 10, 32)
	if err != nil {
		writeValidationError(w, "invalid id")
		return 0, false
	}
	return uint(id), true
}
