package game

import (
	"time"
)

// GameStatus is the lifecycle state of a session.
type GameStatus string

const (
	StatusGenerating GameStatus = "generating"
	StatusReady      GameStatus = "ready"
	StatusInProgress GameStatus = "in-progress"
	StatusCompleted  GameStatus = "completed"
	StatusError      GameStatus = "error"
)

// WorldData is the immutable configuration the host submits when
// creating a game.
type WorldData struct {
	Genre              string `json:"genre"`
	TeamBackground     string `json:"team_background"`
	StoryGoal          string `json:"story_goal"`
	StoryIdea          string `json:"story_idea"`
	FacilitatorPersona string `json:"facilitator_persona"`
	FacilitatorVoice   string `json:"facilitator_voice"`
	ActionsPerSession  string `json:"actions_per_session"`
}

// Game is one collaborative session, identified by its room code.
type Game struct {
	RoomCode        string     `json:"room_code"`
	Status          GameStatus `json:"status"`
	WorldData       WorldData  `json:"world_data"`
	Story           string     `json:"story,omitempty"`
	RoomPlanJSON    string     `json:"room_data,omitempty"` // serialized room.Plan
	NarratorVoiceID string     `json:"narrator_voice_id,omitempty"`
	GameState       *GameState `json:"game_state,omitempty"`
	Players         []*Player  `json:"players"`
	CreatedAt       time.Time  `json:"created_at"`
}

// FindPlayer returns the player with the given id, or nil.
func (g *Game) FindPlayer(playerID string) *Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// CharacterNames lists the character names of all joined players.
func (g *Game) CharacterNames() []string {
	names := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		names = append(names, p.CharacterName)
	}
	return names
}
