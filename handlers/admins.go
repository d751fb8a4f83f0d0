package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Shobuki/gfchristmastwebsite/auth"
	"github.com/Shobuki/gfchristmastwebsite/models"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

type AdminHandler struct {
	Admins repository.AdminRepository
}

type adminDTO struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Admins.ListAll()
	if err != nil {
		writeStorageError(w, err)
		return
	}
	items := make([]adminDTO, 0, len(admins))
	for _, a := range admins {
		items = append(items, adminDTO{
			ID:        a.ID,
			Username:  a.Username,
			CreatedAt: a.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

type AdminCreatePayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var payload AdminCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, "invalid request payload")
		return
	}
	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		writeValidationError(w, "username and password are required")
		return
	}

	passwordHash, err := auth.HashPassword(payload.Password)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	admin := models.Admin{Username: username, PasswordHash: passwordHash}
	if err := h.Admins.Create(&admin); err != nil {
		// unique constraint on username is the usual culprit
		writeValidationError(w, "could not create admin: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": admin.ID})
}

func (h *AdminHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromQuery(w, r)
	if !ok {
		return
	}
	if err := h.Admins.Delete(id); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
