package store

import (
	"context"
	"sync"
	"time"

	"github.com/dungeondj/dungeon-dj/pkg/game"
)

// MockStore is an in-memory Store for testing. Error fields force
// failures on the corresponding operation.
type MockStore struct {
	mu    sync.Mutex
	games map[string]*game.Game

	CreateErr error
	LoadErr   error
	SaveErr   error
	DeleteErr error

	SaveCalls int
}

var _ Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{games: make(map[string]*game.Game)}
}

func (m *MockStore) Ping(ctx context.Context) error { return nil }
func (m *MockStore) Close() error                   { return nil }

func (m *MockStore) CreateGame(ctx context.Context, g *game.Game) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := randomRoomCode()
		if _, taken := m.games[code]; taken {
			continue
		}
		g.RoomCode = code
		g.CreatedAt = time.Now().UTC()
		m.games[code] = g
		return nil
	}
}

func (m *MockStore) LoadGame(ctx context.Context, roomCode string) (*game.Game, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[roomCode]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (m *MockStore) SaveGame(ctx context.Context, g *game.Game) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.RoomCode] = g
	m.SaveCalls++
	return nil
}

func (m *MockStore) DeleteGame(ctx context.Context, roomCode string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, roomCode)
	return nil
}

func (m *MockStore) mutate(roomCode string, fn func(g *game.Game) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[roomCode]
	if !ok {
		return ErrGameNotFound
	}
	return fn(g)
}

func (m *MockStore) AddPlayer(ctx context.Context, roomCode string, p *game.Player) error {
	return m.mutate(roomCode, func(g *game.Game) error {
		g.Players = append(g.Players, p)
		return nil
	})
}

func (m *MockStore) RemovePlayer(ctx context.Context, roomCode string, playerID string) error {
	return m.mutate(roomCode, func(g *game.Game) error {
		for i, p := range g.Players {
			if p.ID == playerID {
				g.Players = append(g.Players[:i], g.Players[i+1:]...)
				return nil
			}
		}
		return ErrPlayerNotFound
	})
}

func (m *MockStore) UpdatePlayerReady(ctx context.Context, roomCode string, playerID string, ready bool) error {
	return m.mutate(roomCode, func(g *game.Game) error {
		p := g.FindPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.IsReady = ready
		return nil
	})
}

func (m *MockStore) UpdateGameStatus(ctx context.Context, roomCode string, status game.GameStatus) error {
	return m.mutate(roomCode, func(g *game.Game) error {
		g.Status = status
		return nil
	})
}

func (m *MockStore) SetScene(ctx context.Context, roomCode string, story string, roomPlanJSON string, narratorVoiceID string) error {
	return m.mutate(roomCode, func(g *game.Game) error {
		g.Story = story
		g.RoomPlanJSON = roomPlanJSON
		g.NarratorVoiceID = narratorVoiceID
		return nil
	})
}

func (m *MockStore) UpdatePlayerBackground(ctx context.Context, roomCode string, playerID string, background string) error {
	return m.mutate(roomCode, func(g *game.Game) error {
		p := g.FindPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.CharacterBackground = background
		return nil
	})
}

func (m *MockStore) UpdatePlayerCharacterStatus(ctx context.Context, roomCode string, playerID string, status game.CharacterGenerationStatus, genErr string) error {
	return m.mutate(roomCode, func(g *game.Game) error {
		p := g.FindPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.CharacterGenerationStatus = status
		p.CharacterGenerationError = genErr
		return nil
	})
}

func (m *MockStore) SetPlayerCharacterSheet(ctx context.Context, roomCode string, playerID string, sheet *game.CharacterSheet) error {
	return m.mutate(roomCode, func(g *game.Game) error {
		p := g.FindPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.ApplyCharacterSheet(sheet)
		return nil
	})
}

// Put seeds a game under a fixed room code. Used by tests.
func (m *MockStore) Put(g *game.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.RoomCode] = g
}
