package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dungeondj/dungeon-dj/internal/services"
	"github.com/dungeondj/dungeon-dj/internal/store"
	"github.com/dungeondj/dungeon-dj/pkg/game"
	"github.com/dungeondj/dungeon-dj/pkg/story"
)

// GamesHandler serves the game lifecycle: create, read, join, ready
// toggling and world generation.
type GamesHandler struct {
	store  store.Store
	scene  *services.SceneService
	logger *slog.Logger
}

func NewGamesHandler(st store.Store, scene *services.SceneService, logger *slog.Logger) *GamesHandler {
	return &GamesHandler{
		store:  st,
		scene:  scene,
		logger: logger,
	}
}

type CreateGameRequest struct {
	WorldData game.WorldData `json:"world_data"`
}

// Create handles POST /v1/games.
func (h *GamesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if strings.TrimSpace(req.WorldData.Genre) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "world_data.genre is required")
		return
	}

	g := &game.Game{
		Status:    game.StatusGenerating,
		WorldData: req.WorldData,
		Players:   []*game.Player{},
	}
	if err := h.store.CreateGame(r.Context(), g); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, g)
}

// Get handles GET /v1/games/{roomCode}.
func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomCode := mux.Vars(r)["roomCode"]
	g, err := h.store.LoadGame(r.Context(), roomCode)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, g)
}

type JoinGameRequest struct {
	RoomCode      string `json:"room_code"`
	CharacterName string `json:"character_name"`
}

type JoinGameResponse struct {
	PlayerID string     `json:"player_id"`
	Game     *game.Game `json:"game"`
}

// Join handles POST /v1/games/join. The first player to join hosts.
func (h *GamesHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	req.RoomCode = strings.ToUpper(strings.TrimSpace(req.RoomCode))
	req.CharacterName = strings.TrimSpace(req.CharacterName)
	if req.RoomCode == "" || req.CharacterName == "" {
		writeError(w, h.logger, http.StatusBadRequest, "room_code and character_name are required")
		return
	}

	g, err := h.store.LoadGame(r.Context(), req.RoomCode)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	for _, p := range g.Players {
		if strings.EqualFold(p.CharacterName, req.CharacterName) {
			writeError(w, h.logger, http.StatusConflict, "A player with that character name has already joined")
			return
		}
	}

	p := &game.Player{
		ID:                        uuid.NewString(),
		CharacterName:             req.CharacterName,
		IsHost:                    len(g.Players) == 0,
		CharacterGenerationStatus: game.CharacterIdle,
	}
	if err := h.store.AddPlayer(r.Context(), req.RoomCode, p); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("Player joined game",
		"room_code", req.RoomCode,
		"player", p.CharacterName,
		"host", p.IsHost)
	writeJSON(w, h.logger, http.StatusOK, JoinGameResponse{PlayerID: p.ID, Game: g})
}

type ReadyRequest struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

// Ready handles POST /v1/games/ready.
func (h *GamesHandler) Ready(w http.ResponseWriter, r *http.Request) {
	var req ReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.RoomCode == "" || req.PlayerID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "room_code and player_id are required")
		return
	}

	if err := h.store.UpdatePlayerReady(r.Context(), req.RoomCode, req.PlayerID, req.Ready); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	g, err := h.store.LoadGame(r.Context(), req.RoomCode)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, g)
}

type SceneResponse struct {
	RoomCode     string          `json:"room_code"`
	Status       game.GameStatus `json:"status"`
	Introduction string          `json:"introduction,omitempty"`
}

// Scene handles POST /v1/games/{roomCode}/scene. It runs the full
// world generation pipeline and marks the game ready, or error when
// any stage fails.
func (h *GamesHandler) Scene(w http.ResponseWriter, r *http.Request) {
	roomCode := mux.Vars(r)["roomCode"]
	g, err := h.store.LoadGame(r.Context(), roomCode)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if g.Status != game.StatusGenerating {
		writeError(w, h.logger, http.StatusConflict, "Game scene has already been generated")
		return
	}

	generated, err := h.scene.SetTheGameScene(r.Context(), g)
	if err != nil {
		h.logger.Error("World generation failed", "room_code", roomCode, "error", err)
		if serr := h.store.UpdateGameStatus(r.Context(), roomCode, game.StatusError); serr != nil {
			h.logger.Error("Failed to mark game errored", "room_code", roomCode, "error", serr)
		}
		writeError(w, h.logger, http.StatusBadGateway, "World generation failed")
		return
	}

	planJSON, err := json.Marshal(generated.Plan)
	if err != nil {
		h.logger.Error("Failed to serialize room plan", "room_code", roomCode, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := h.store.SetScene(r.Context(), roomCode, generated.Story, string(planJSON), generated.NarratorVoiceID); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if err := h.store.UpdateGameStatus(r.Context(), roomCode, game.StatusReady); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	// The introduction is optional: a story without the expected
	// markers is still playable.
	intro, err := story.ParseIntroduction(generated.Story)
	if err != nil {
		h.logger.Warn("Story has no parseable introduction", "room_code", roomCode, "error", err)
	}

	writeJSON(w, h.logger, http.StatusOK, SceneResponse{
		RoomCode:     roomCode,
		Status:       game.StatusReady,
		Introduction: intro,
	})
}
