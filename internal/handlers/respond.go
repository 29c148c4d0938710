package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"kingtires/internal/models"
	"kingtires/internal/services"
)

// respondJSON writes a success envelope with the given payload
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"payload": payload,
	})
}

// respondRaw writes the payload as-is, without the envelope
func respondRaw(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes an error envelope
func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": message,
	})
}

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidID), errors.Is(err, models.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "The cart is empty")
	case errors.Is(err, models.ErrCartNotOwned):
		respondError(w, http.StatusForbidden, "You are not allowed to process this cart")
	case errors.Is(err, models.ErrUnauthorized):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrCartNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrTicketNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrDuplicateEntry):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
