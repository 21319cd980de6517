package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dungeondj/dungeon-dj/internal/services"
	"github.com/dungeondj/dungeon-dj/internal/store"
	"github.com/dungeondj/dungeon-dj/pkg/game"
)

const (
	minBackgroundLength = 50
	maxBackgroundLength = 1500
)

// CharactersHandler serves character sheet generation.
type CharactersHandler struct {
	store      store.Store
	characters *services.CharacterService
	logger     *slog.Logger
}

func NewCharactersHandler(st store.Store, characters *services.CharacterService, logger *slog.Logger) *CharactersHandler {
	return &CharactersHandler{
		store:      st,
		characters: characters,
		logger:     logger,
	}
}

type GenerateCharacterRequest struct {
	RoomCode   string `json:"room_code"`
	PlayerID   string `json:"player_id"`
	Background string `json:"background"`
}

// Generate handles POST /v1/characters/generate.
func (h *CharactersHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	req.Background = strings.TrimSpace(req.Background)
	if req.RoomCode == "" || req.PlayerID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "room_code and player_id are required")
		return
	}
	if len(req.Background) < minBackgroundLength || len(req.Background) > maxBackgroundLength {
		writeError(w, h.logger, http.StatusBadRequest,
			"background must be between 50 and 1500 characters")
		return
	}

	g, err := h.store.LoadGame(r.Context(), req.RoomCode)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	p := g.FindPlayer(req.PlayerID)
	if p == nil {
		writeStoreError(w, h.logger, store.ErrPlayerNotFound)
		return
	}

	if err := h.store.UpdatePlayerBackground(r.Context(), req.RoomCode, req.PlayerID, req.Background); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if err := h.store.UpdatePlayerCharacterStatus(r.Context(), req.RoomCode, req.PlayerID, game.CharacterGenerating, ""); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	sheet, err := h.characters.GenerateCharacterSheet(r.Context(), g, p, req.Background)
	if err != nil {
		h.logger.Error("Character generation failed",
			"room_code", req.RoomCode,
			"player", p.CharacterName,
			"error", err)
		if serr := h.store.UpdatePlayerCharacterStatus(r.Context(), req.RoomCode, req.PlayerID, game.CharacterError, err.Error()); serr != nil {
			h.logger.Error("Failed to record character generation error", "error", serr)
		}
		writeError(w, h.logger, http.StatusBadGateway, "Character generation failed")
		return
	}

	if err := h.store.SetPlayerCharacterSheet(r.Context(), req.RoomCode, req.PlayerID, sheet); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, p)
}
