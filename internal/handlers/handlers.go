package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dungeondj/dungeon-dj/internal/store"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// writeStoreError maps store sentinel errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrGameNotFound):
		writeError(w, logger, http.StatusNotFound, "Game not found")
	case errors.Is(err, store.ErrPlayerNotFound):
		writeError(w, logger, http.StatusNotFound, "Player not found")
	default:
		logger.Error("Store operation failed", "error", err)
		writeError(w, logger, http.StatusInternalServerError, "Internal server error")
	}
}
