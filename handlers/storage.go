package handlers

import (
	"net/http"

	"github.com/facette/natsort"

	"github.com/Shobuki/gfchristmastwebsite/media"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

// StorageHandler exposes maintenance views over the on-disk asset store.
type StorageHandler struct {
	Pictures repository.PictureRepository
	Journey  repository.JourneyRepository
	Store    media.Store
}

type orphanGroup struct {
	AssetType string   `json:"assetType"`
	Files     []string `json:"files"`
}

// ListOrphans reports stored files that no database row references, e.g. the
// leftovers of a failed delete. Filenames are naturally sorted so
// timestamp-prefixed names read chronologically.
func (h *StorageHandler) ListOrphans(w http.ResponseWriter, r *http.Request) {
	referenced := make(map[media.AssetType]map[string]bool)
	for _, at := range []media.AssetType{media.AssetTypePicture, media.AssetTypeJourney, media.AssetTypeThumbnail} {
		referenced[at] = make(map[string]bool)
	}

	pics, err := h.Pictures.List(0)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	for _, pic := range pics {
		referenced[media.AssetTypePicture][pic.Filename] = true
		if pic.ThumbnailPath != nil {
			referenced[media.AssetTypeThumbnail][*pic.ThumbnailPath] = true
		}
	}

	journeyItems, err := h.Journey.List()
	if err != nil {
		writeStorageError(w, err)
		return
	}
	for _, item := range journeyItems {
		if item.Filename != nil {
			referenced[media.AssetTypeJourney][*item.Filename] = true
		}
	}

	groups := make([]orphanGroup, 0, len(referenced))
	for _, at := range []media.AssetType{media.AssetTypePicture, media.AssetTypeJourney, media.AssetTypeThumbnail} {
		stored, err := h.Store.List(at)
		if err != nil {
			writeStorageError(w, err)
			return
		}
		orphans := []string{}
		for _, name := range stored {
			if !referenced[at][name] {
				orphans = append(orphans, name)
			}
		}
		natsort.Sort(orphans)
		groups = append(groups, orphanGroup{AssetType: string(at), Files: orphans})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": groups})
}
