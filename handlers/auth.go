package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Shobuki/gfchristmastwebsite/auth"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

type AuthHandler struct {
	AdminRepo   repository.AdminRepository
	SessionRepo repository.SessionRepository
	SessionTTL  time.Duration
}

func NewAuthHandler(adminRepo repository.AdminRepository, sessionRepo repository.SessionRepository, sessionDays int) *AuthHandler {
	return &AuthHandler{
		AdminRepo:   adminRepo,
		SessionRepo: sessionRepo,
		SessionTTL:  time.Duration(sessionDays) * 24 * time.Hour,
	}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, "invalid request payload")
		return
	}
	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		writeValidationError(w, "username and password are required")
		return
	}

	admin, err := h.AdminRepo.GetByUsername(username)
	if err != nil || !auth.VerifyPassword(payload.Password, admin.PasswordHash) {
		// same response for unknown user and wrong password
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}

	// lingering expired rows are cleaned up here rather than by a sweeper
	if err := h.SessionRepo.PurgeExpired(); err != nil {
		log.Printf("warning: purging expired sessions failed: %v", err)
	}

	token, err := auth.NewToken()
	if err != nil {
		writeStorageError(w, err)
		return
	}
	session, err := h.SessionRepo.Create(admin.ID, token, h.SessionTTL)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Username:  admin.Username,
	})
}
