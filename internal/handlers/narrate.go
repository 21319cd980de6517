package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dungeondj/dungeon-dj/internal/facilitator"
	"github.com/dungeondj/dungeon-dj/internal/logger"
	"github.com/dungeondj/dungeon-dj/internal/store"
	"github.com/dungeondj/dungeon-dj/pkg/room"
)

// NarrationHandler serves facilitator turns.
type NarrationHandler struct {
	agent  *facilitator.Agent
	logger *slog.Logger
}

func NewNarrationHandler(agent *facilitator.Agent, logger *slog.Logger) *NarrationHandler {
	return &NarrationHandler{
		agent:  agent,
		logger: logger,
	}
}

type NarrationRequest struct {
	RoomCode     string `json:"room_code"`
	PlayerAction string `json:"player_action,omitempty"`
}

type NarrationResponse struct {
	Text      string     `json:"text"`
	Audio     string     `json:"audio,omitempty"` // base64 mp3
	Room      *room.Room `json:"room,omitempty"`
	SectionID int        `json:"section_id"`
}

// Narrate handles POST /v1/narration. An empty player_action replays
// the current section.
func (h *NarrationHandler) Narrate(w http.ResponseWriter, r *http.Request) {
	var req NarrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	req.RoomCode = strings.ToUpper(strings.TrimSpace(req.RoomCode))
	if req.RoomCode == "" {
		writeError(w, h.logger, http.StatusBadRequest, "room_code is required")
		return
	}

	log := logger.WithRoomCode(h.logger, req.RoomCode)
	result, err := h.agent.Narrate(r.Context(), req.RoomCode, strings.TrimSpace(req.PlayerAction))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrGameNotFound):
			writeError(w, log, http.StatusNotFound, "Game not found")
		case errors.Is(err, facilitator.ErrGameCompleted):
			writeError(w, log, http.StatusConflict, "Game has completed")
		case errors.Is(err, facilitator.ErrGameNotReady):
			writeError(w, log, http.StatusConflict, "Game is not ready for narration")
		default:
			log.Error("Narration turn failed", "error", err)
			writeError(w, log, http.StatusBadGateway, "Narration failed")
		}
		return
	}

	writeJSON(w, log, http.StatusOK, NarrationResponse{
		Text:      result.Text,
		Audio:     base64.StdEncoding.EncodeToString(result.Audio),
		Room:      result.Room,
		SectionID: result.SectionID,
	})
}
