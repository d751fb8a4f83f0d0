package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/Shobuki/gfchristmastwebsite/models"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

type GachaHandler struct {
	Gacha         repository.GachaRepository
	Admins        repository.AdminRepository
	StartingCoins int
}

// --- collectible items ---

func (h *GachaHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Gacha.ListItems()
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if items == nil {
		items = []models.GachaItem{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

type GachaItemPayload struct {
	ID      uint   `json:"id,omitempty"`
	Rarity  string `json:"rarity"`
	Title   string `json:"title"`
	Caption string `json:"caption"`
}

// SaveItem creates or updates a collectible; the payload id disambiguates.
func (h *GachaHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	var payload GachaItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, "invalid request payload")
		return
	}
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Caption = strings.TrimSpace(payload.Caption)
	if payload.Rarity == "" || payload.Title == "" || payload.Caption == "" {
		writeValidationError(w, "rarity, title, caption are required")
		return
	}
	if !models.IsValidRarity(payload.Rarity) {
		writeValidationError(w, "invalid rarity")
		return
	}

	item := models.GachaItem{
		ID:      payload.ID,
		Rarity:  models.Rarity(payload.Rarity),
		Title:   payload.Title,
		Caption: payload.Caption,
	}

	if payload.ID != 0 {
		if err := h.Gacha.UpdateItem(&item); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeNotFound(w, "gacha item not found")
				return
			}
			writeStorageError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": item.ID})
		return
	}

	if err := h.Gacha.CreateItem(&item); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": item.ID})
}

func (h *GachaHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromQuery(w, r)
	if !ok {
		return
	}
	if err := h.Gacha.DeleteItem(id); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- rarity weights ---

func (h *GachaHandler) ListRaritySettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Gacha.ListRaritySettings()
	if err != nil {
		writeStorageError(w, err)
		return
	}
	// only rows with a known rarity leave the API
	items := make([]models.GachaRaritySetting, 0, len(settings))
	for _, s := range settings {
		if models.IsValidRarity(string(s.Rarity)) {
			items = append(items, s)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

type RaritySettingPayload struct {
	Rarity string `json:"rarity"`
	Weight *int   `json:"weight"`
}

func (h *GachaHandler) UpsertRaritySetting(w http.ResponseWriter, r *http.Request) {
	var payload RaritySettingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, "invalid request payload")
		return
	}
	if !models.IsValidRarity(payload.Rarity) {
		writeValidationError(w, "invalid rarity")
		return
	}
	if payload.Weight == nil || *payload.Weight < 0 {
		writeValidationError(w, "invalid weight")
		return
	}
	if err := h.Gacha.UpsertRaritySetting(models.Rarity(payload.Rarity), *payload.Weight); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- per-admin state & results ---

// resolveAdminID maps the principal to a game-state owner. The shared public
// token plays as the first admin.
func (h *GachaHandler) resolveAdminID(r *http.Request) (uint, error) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		return 0, errors.New("no principal in context")
	}
	if principal.IsAdmin() {
		return principal.Admin.ID, nil
	}
	return h.Admins.FirstID()
}

func (h *GachaHandler) GetState(w http.ResponseWriter, r *http.Request) {
	adminID, err := h.resolveAdminID(r)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	state, err := h.Gacha.EnsureState(adminID, h.StartingCoins)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"adminId": adminID, "coins": state.Coins})
}

type StatePayload struct {
	Coins *int `json:"coins,omitempty"`
	Delta *int `json:"delta,omitempty"`
}

// UpdateState is the authoritative counter update: it applies an atomic
// clamped delta (or an absolute set) and returns the post-update balance for
// the client to reconcile against.
func (h *GachaHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	adminID, err := h.resolveAdminID(r)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	var payload StatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, "invalid request payload")
		return
	}
	if payload.Coins == nil && payload.Delta == nil {
		writeValidationError(w, "coins or delta is required")
		return
	}

	if _, err := h.Gacha.EnsureState(adminID, h.StartingCoins); err != nil {
		writeStorageError(w, err)
		return
	}

	var coins int
	if payload.Delta != nil {
		coins, err = h.Gacha.AdjustCoins(adminID, *payload.Delta)
	} else {
		coins, err = h.Gacha.SetCoins(adminID, *payload.Coins)
	}
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "adminId": adminID, "coins": coins})
}

func (h *GachaHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	adminID, err := h.resolveAdminID(r)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	ids, err := h.Gacha.ListResults(adminID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if ids == nil {
		ids = []uint{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": ids})
}

type ResultPayload struct {
	GachaItemID uint `json:"gachaItemId"`
}

func (h *GachaHandler) AddResult(w http.ResponseWriter, r *http.Request) {
	adminID, err := h.resolveAdminID(r)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	var payload ResultPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.GachaItemID == 0 {
		writeValidationError(w, "invalid gachaItemId")
		return
	}
	if err := h.Gacha.AddResult(adminID, payload.GachaItemID); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
