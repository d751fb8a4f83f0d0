package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/Shobuki/gfchristmastwebsite/config"
	"github.com/Shobuki/gfchristmastwebsite/media"
	"github.com/Shobuki/gfchristmastwebsite/models"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

type JourneyHandler struct {
	Journey repository.JourneyRepository
	Store   media.Store
	Cfg     config.Config
}

type journeyDTO struct {
	ID       uint    `json:"id"`
	Category string  `json:"category"`
	Title    string  `json:"title"`
	Caption  string  `json:"caption"`
	URL      *string `json:"url"`
}

func (h *JourneyHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Journey.List()
	if err != nil {
		writeStorageError(w, err)
		return
	}

	dtos := make([]journeyDTO, 0, len(items))
	for _, item := range items {
		dto := journeyDTO{
			ID:       item.ID,
			Category: string(item.Category),
			Title:    item.Title,
			Caption:  item.Caption,
		}
		if item.Filename != nil {
			u := withPublicToken(h.Cfg.PublicToken, fmt.Sprintf("/api/journey/files/%d", item.ID))
			dto.URL = &u
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": dtos})
}

// SaveItem creates or updates a journey entry from a multipart form; the file
// is optional on update and the previous one is kept when omitted.
func (h *JourneyHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.Cfg.UploadMaxBytes); err != nil {
		writeValidationError(w, "invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	caption := strings.TrimSpace(r.FormValue("caption"))
	category := strings.TrimSpace(r.FormValue("category"))
	if title == "" || caption == "" || category == "" {
		writeValidationError(w, "title, caption, category are required")
		return
	}
	if !models.IsValidJourneyCategory(category) {
		writeValidationError(w, "invalid category")
		return
	}

	var id uint
	if idValue := r.FormValue("id"); idValue != "" {
		parsed, err := strconv.ParseUint(idValue, 10, 32)
		if err != nil {
			writeValidationError(w, "invalid id")
			return
		}
		id = uint(parsed)
	}

	item := models.JourneyItem{
		ID:       id,
		Category: models.JourneyCategory(category),
		Title:    title,
		Caption:  caption,
	}

	if file, header, err := formFile(r, "file"); err == nil {
		defer file.Close()
		filename, storedPath, saveErr := h.Store.Save(media.AssetTypeJourney, "", header.Filename, file)
		if saveErr != nil {
			writeStorageError(w, saveErr)
			return
		}
		item.Filename = &filename
		item.StoredPath = &storedPath
	}

	if id != 0 {
		if err := h.Journey.Update(&item); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeNotFound(w, "journey item not found")
				return
			}
			writeStorageError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": id})
		return
	}

	if err := h.Journey.Create(&item); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": item.ID})
}

func (h *JourneyHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromQuery(w, r)
	if !ok {
		return
	}

	item, err := h.Journey.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeNotFound(w, "journey item not found")
			return
		}
		writeStorageError(w, err)
		return
	}

	if err := h.Journey.Delete(id); err != nil {
		writeStorageError(w, err)
		return
	}
	if item.Filename != nil {
		if err := h.Store.Delete(media.AssetTypeJourney, *item.Filename); err != nil {
			log.Printf("warning: failed to remove journey file %s: %v", *item.Filename, err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ServeFile streams a journey item's image bytes.
func (h *JourneyHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromURLParam(w, r)
	if !ok {
		return
	}
	item, err := h.Journey.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeNotFound(w, "journey item not found")
			return
		}
		writeStorageError(w, err)
		return
	}
	if item.Filename == nil {
		writeNotFound(w, "journey item has no file")
		return
	}
	serveAsset(w, h.Store, media.AssetTypeJourney, *item.Filename)
}
