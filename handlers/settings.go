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

type SettingsHandler struct {
	Settings repository.SettingsRepository
}

func (h *SettingsHandler) getSingleton(w http.ResponseWriter, load func() (interface{}, error)) {
	item, err := load()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeNotFound(w, "not found")
			return
		}
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"item": item})
}

func (h *SettingsHandler) GetCosmic(w http.ResponseWriter, r *http.Request) {
	h.getSingleton(w, func() (interface{}, error) { return h.Settings.GetCosmic() })
}

type CosmicPayload struct {
	IntroTitle    string `json:"introTitle"`
	IntroSubtitle string `json:"introSubtitle"`
	TimelineTitle string `json:"timelineTitle"`
	Date1         string `json:"date1"`
	Caption1      string `json:"caption1"`
	Date2         string `json:"date2"`
	Caption2      string `json:"caption2"`
}

func (h *SettingsHandler) UpdateCosmic(w http.ResponseWriter, r *http.Request) {
	var payload CosmicPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, "invalid request payload")
		return
	}
	required := []string{
		payload.IntroTitle, payload.IntroSubtitle, payload.TimelineTitle,
		payload.Date1, payload.Caption1, payload.Date2, payload.Caption2,
	}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			writeValidationError(w, "missing fields")
			return
		}
	}
	err := h.Settings.UpdateCosmic(&models.CosmicSettings{
		IntroTitle:    payload.IntroTitle,
		IntroSubtitle: payload.IntroSubtitle,
		TimelineTitle: payload.TimelineTitle,
		Date1:         payload.Date1,
		Caption1:      payload.Caption1,
		Date2:         payload.Date2,
		Caption2:      payload.Caption2,
	})
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *SettingsHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	h.getSingleton(w, func() (interface{}, error) { return h.Settings.GetLayout() })
}

type LayoutPayload struct {
	JourneyColumns *int `json:"journeyColumns"`
	GachaColumns   *int `json:"gachaColumns"`
}

func (h *SettingsHandler) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	var payload LayoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, "invalid request payload")
		return
	}
	if payload.JourneyColumns == nil || payload.GachaColumns == nil ||
		*payload.JourneyColumns < 1 || *payload.GachaColumns < 1 {
		writeValidationError(w, "journeyColumns and gachaColumns must be positive")
		return
	}
	err := h.Settings.UpdateLayout(&models.LayoutSettings{
		JourneyColumns: *payload.JourneyColumns,
		GachaColumns:   *payload.GachaColumns,
	})
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *SettingsHandler) GetLetter(w http.ResponseWriter, r *http.Request) {
	h.getSingleton(w, func() (interface{}, error) { return h.Settings.GetLetter() })
}

type LetterPayload struct {
	Title      string  `json:"title"`
	Body1      string  `json:"body1"`
	Body2      string  `json:"body2"`
	Voucher    *string `json:"voucher,omitempty"`
	ButtonText string  `json:"buttonText"`
	Footer     string  `json:"footer"`
}

func (h *SettingsHandler) UpdateLetter(w http.ResponseWriter, r *http.Request) {
	var payload LetterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, "invalid request payload")
		return
	}
	for _, field := range []string{payload.Title, payload.Body1, payload.Body2, payload.ButtonText, payload.Footer} {
		if strings.TrimSpace(field) == "" {
			writeValidationError(w, "title, body1, body2, buttonText, footer are required")
			return
		}
	}
	err := h.Settings.UpdateLetter(&models.LetterSettings{
		Title:      payload.Title,
		Body1:      payload.Body1,
		Body2:      payload.Body2,
		Voucher:    payload.Voucher,
		ButtonText: payload.ButtonText,
		Footer:     payload.Footer,
	})
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
