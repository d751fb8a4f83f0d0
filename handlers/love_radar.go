package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Shobuki/gfchristmastwebsite/models"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

type LoveRadarHandler struct {
	Settings repository.SettingsRepository
}

type LoveRadarPayload struct {
	TargetLat    *float64 `json:"targetLat"`
	TargetLng    *float64 `json:"targetLng"`
	UserLat      *float64 `json:"userLat,omitempty"`
	UserLng      *float64 `json:"userLng,omitempty"`
	DistanceM    *float64 `json:"distanceM,omitempty"`
	DistanceKm   *float64 `json:"distanceKm,omitempty"`
	AccuracyM    *float64 `json:"accuracyM,omitempty"`
	Status       string   `json:"status"`
	ErrorMessage *string  `json:"errorMessage,omitempty"`
}

// Log appends one write-only telemetry row; nothing ever reads it back.
func (h *LoveRadarHandler) Log(w http.ResponseWriter, r *http.Request) {
	var payload LoveRadarPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, "invalid payload")
		return
	}
	if payload.TargetLat == nil || payload.TargetLng == nil || payload.Status == "" {
		writeValidationError(w, "targetLat, targetLng, status are required")
		return
	}

	entry := models.LoveRadarLog{
		TargetLat:    *payload.TargetLat,
		TargetLng:    *payload.TargetLng,
		UserLat:      payload.UserLat,
		UserLng:      payload.UserLng,
		DistanceM:    payload.DistanceM,
		DistanceKm:   payload.DistanceKm,
		AccuracyM:    payload.AccuracyM,
		Status:       payload.Status,
		ErrorMessage: payload.ErrorMessage,
	}
	if err := h.Settings.InsertLoveRadarLog(&entry); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
