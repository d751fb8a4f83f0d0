package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

func writeUnauthorized(w http.ResponseWriter) {
	WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "missing, invalid, or expired token")
}

func writeValidationError(w http.ResponseWriter, detail string) {
	WriteAPIError(w, http.StatusBadRequest, "validation_failed", detail)
}

func writeNotFound(w http.ResponseWriter, detail string) {
	WriteAPIError(w, http.StatusNotFound, "not_found", detail)
}

func writeStorageError(w http.ResponseWriter, err error) {
	WriteAPIError(w, http.StatusInternalServerError, "storage_error", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
