package store

import (
	"context"
	"errors"

	"github.com/dungeondj/dungeon-dj/pkg/game"
)

var (
	// ErrGameNotFound is returned when no game exists for a room code.
	ErrGameNotFound = errors.New("game not found")
	// ErrPlayerNotFound is returned when a player id does not exist in
	// the game.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrRoomCodeExhausted is returned when a unique room code could
	// not be generated.
	ErrRoomCodeExhausted = errors.New("unable to generate unique room code")
)

// Store defines game session persistence keyed by room code. The
// fine-grained mutators load, mutate and persist atomically with
// respect to other store calls for the same room code.
type Store interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// CreateGame allocates a unique room code, stamps it on the game
	// and persists it.
	CreateGame(ctx context.Context, g *game.Game) error
	LoadGame(ctx context.Context, roomCode string) (*game.Game, error)
	SaveGame(ctx context.Context, g *game.Game) error
	DeleteGame(ctx context.Context, roomCode string) error

	// Player membership
	AddPlayer(ctx context.Context, roomCode string, p *game.Player) error
	RemovePlayer(ctx context.Context, roomCode string, playerID string) error
	UpdatePlayerReady(ctx context.Context, roomCode string, playerID string, ready bool) error

	// Lifecycle and scene
	UpdateGameStatus(ctx context.Context, roomCode string, status game.GameStatus) error
	SetScene(ctx context.Context, roomCode string, story string, roomPlanJSON string, narratorVoiceID string) error

	// Character generation
	UpdatePlayerBackground(ctx context.Context, roomCode string, playerID string, background string) error
	UpdatePlayerCharacterStatus(ctx context.Context, roomCode string, playerID string, status game.CharacterGenerationStatus, genErr string) error
	SetPlayerCharacterSheet(ctx context.Context, roomCode string, playerID string, sheet *game.CharacterSheet) error
}
