package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dungeondj/dungeon-dj/pkg/game"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func decodeOrError(body []byte, statusCode int, wantStatus int, out interface{}) error {
	if statusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return fmt.Errorf("API returned status %d: %s", statusCode, string(body))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func postRequest(client *http.Client, url string, reqBody interface{}) ([]byte, int, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

type createGameRequest struct {
	WorldData game.WorldData `json:"world_data"`
}

func createGame(client *http.Client, baseURL string, world game.WorldData) (*game.Game, error) {
	body, status, err := postRequest(client, baseURL+"/v1/games", createGameRequest{WorldData: world})
	if err != nil {
		return nil, err
	}

	var g game.Game
	if err := decodeOrError(body, status, http.StatusCreated, &g); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return &g, nil
}

func getGame(client *http.Client, baseURL string, roomCode string) (*game.Game, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/games/%s", baseURL, roomCode))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var g game.Game
	if err := decodeOrError(body, resp.StatusCode, http.StatusOK, &g); err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &g, nil
}

type joinGameRequest struct {
	RoomCode      string `json:"room_code"`
	CharacterName string `json:"character_name"`
}

type joinGameResponse struct {
	PlayerID string     `json:"player_id"`
	Game     *game.Game `json:"game"`
}

func joinGame(client *http.Client, baseURL string, roomCode, characterName string) (string, *game.Game, error) {
	body, status, err := postRequest(client, baseURL+"/v1/games/join", joinGameRequest{
		RoomCode:      roomCode,
		CharacterName: characterName,
	})
	if err != nil {
		return "", nil, err
	}

	var resp joinGameResponse
	if err := decodeOrError(body, status, http.StatusOK, &resp); err != nil {
		return "", nil, fmt.Errorf("failed to join game: %w", err)
	}
	return resp.PlayerID, resp.Game, nil
}

type readyRequest struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

func setReady(client *http.Client, baseURL string, roomCode, playerID string, ready bool) (*game.Game, error) {
	body, status, err := postRequest(client, baseURL+"/v1/games/ready", readyRequest{
		RoomCode: roomCode,
		PlayerID: playerID,
		Ready:    ready,
	})
	if err != nil {
		return nil, err
	}

	var g game.Game
	if err := decodeOrError(body, status, http.StatusOK, &g); err != nil {
		return nil, fmt.Errorf("failed to update ready state: %w", err)
	}
	return &g, nil
}

type sceneResponse struct {
	RoomCode     string `json:"room_code"`
	Status       string `json:"status"`
	Introduction string `json:"introduction,omitempty"`
}

func generateScene(client *http.Client, baseURL string, roomCode string) (*sceneResponse, error) {
	body, status, err := postRequest(client, fmt.Sprintf("%s/v1/games/%s/scene", baseURL, roomCode), struct{}{})
	if err != nil {
		return nil, err
	}

	var resp sceneResponse
	if err := decodeOrError(body, status, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("failed to generate scene: %w", err)
	}
	return &resp, nil
}

type narrationRequest struct {
	RoomCode     string `json:"room_code"`
	PlayerAction string `json:"player_action,omitempty"`
}

type narrationResponse struct {
	Text      string `json:"text"`
	Audio     string `json:"audio,omitempty"`
	SectionID int    `json:"section_id"`
}

func narrate(client *http.Client, baseURL string, roomCode, playerAction string) (*narrationResponse, error) {
	body, status, err := postRequest(client, baseURL+"/v1/narration", narrationRequest{
		RoomCode:     roomCode,
		PlayerAction: playerAction,
	})
	if err != nil {
		return nil, err
	}

	var resp narrationResponse
	if err := decodeOrError(body, status, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("narration failed: %w", err)
	}
	return &resp, nil
}
