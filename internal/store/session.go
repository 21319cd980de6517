package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dungeondj/dungeon-dj/pkg/game"
)

// Persister is the durable half of the session store. SessionStore
// treats it as write-through: every mutation lands here, and cache
// misses read from here.
type Persister interface {
	Ping(ctx context.Context) error
	Close() error
	Save(ctx context.Context, g *game.Game) error
	Load(ctx context.Context, roomCode string) (*game.Game, error)
	Delete(ctx context.Context, roomCode string) error
}

// SessionStore keeps active games in memory and mirrors them to a
// Persister. All mutation of a loaded game must be followed by
// SaveGame so the mirror stays current.
type SessionStore struct {
	mu        sync.RWMutex
	games     map[string]*game.Game
	persister Persister
	logger    *slog.Logger
}

var _ Store = (*SessionStore)(nil)

func NewSessionStore(persister Persister, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		games:     make(map[string]*game.Game),
		persister: persister,
		logger:    logger,
	}
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.persister.Ping(ctx)
}

func (s *SessionStore) Close() error {
	return s.persister.Close()
}

// CreateGame allocates a fresh room code, stamps it on the game and
// persists it. Codes that collide with a live game are re-rolled.
func (s *SessionStore) CreateGame(ctx context.Context, g *game.Game) error {
	for attempt := 0; attempt < maxRoomCodeAttempts; attempt++ {
		code := randomRoomCode()
		if s.codeInUse(ctx, code) {
			continue
		}

		g.RoomCode = code
		g.CreatedAt = time.Now().UTC()

		s.mu.Lock()
		s.games[code] = g
		s.mu.Unlock()

		if err := s.persister.Save(ctx, g); err != nil {
			s.mu.Lock()
			delete(s.games, code)
			s.mu.Unlock()
			return fmt.Errorf("failed to persist new game: %w", err)
		}

		s.logger.Info("Game created", "room_code", code)
		return nil
	}
	return ErrRoomCodeExhausted
}

func (s *SessionStore) codeInUse(ctx context.Context, code string) bool {
	s.mu.RLock()
	_, ok := s.games[code]
	s.mu.RUnlock()
	if ok {
		return true
	}

	_, err := s.persister.Load(ctx, code)
	if errors.Is(err, ErrGameNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn("Room code collision check failed, treating code as taken",
			"room_code", code, "error", err)
	}
	return true
}

func (s *SessionStore) LoadGame(ctx context.Context, roomCode string) (*game.Game, error) {
	s.mu.RLock()
	g, ok := s.games[roomCode]
	s.mu.RUnlock()
	if ok {
		return g, nil
	}

	// Cache miss: the game may have been created by another instance
	// or survive a restart in the persister.
	g, err := s.persister.Load(ctx, roomCode)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if existing, ok := s.games[roomCode]; ok {
		g = existing
	} else {
		s.games[roomCode] = g
	}
	s.mu.Unlock()

	return g, nil
}

func (s *SessionStore) SaveGame(ctx context.Context, g *game.Game) error {
	if g.RoomCode == "" {
		return fmt.Errorf("cannot save game without room code")
	}

	s.mu.Lock()
	s.games[g.RoomCode] = g
	s.mu.Unlock()

	if err := s.persister.Save(ctx, g); err != nil {
		return fmt.Errorf("failed to persist game %s: %w", g.RoomCode, err)
	}
	return nil
}

// mutate loads a game, applies fn under the store lock and writes the
// result through to the persister. fn returning an error aborts
// without persisting.
func (s *SessionStore) mutate(ctx context.Context, roomCode string, fn func(g *game.Game) error) error {
	g, err := s.LoadGame(ctx, roomCode)
	if err != nil {
		return err
	}

	s.mu.Lock()
	err = fn(g)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.persister.Save(ctx, g); err != nil {
		return fmt.Errorf("failed to persist game %s: %w", roomCode, err)
	}
	return nil
}

func (s *SessionStore) AddPlayer(ctx context.Context, roomCode string, p *game.Player) error {
	return s.mutate(ctx, roomCode, func(g *game.Game) error {
		g.Players = append(g.Players, p)
		return nil
	})
}

func (s *SessionStore) RemovePlayer(ctx context.Context, roomCode string, playerID string) error {
	return s.mutate(ctx, roomCode, func(g *game.Game) error {
		for i, p := range g.Players {
			if p.ID == playerID {
				g.Players = append(g.Players[:i], g.Players[i+1:]...)
				return nil
			}
		}
		return ErrPlayerNotFound
	})
}

func (s *SessionStore) UpdatePlayerReady(ctx context.Context, roomCode string, playerID string, ready bool) error {
	return s.mutate(ctx, roomCode, func(g *game.Game) error {
		p := g.FindPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.IsReady = ready
		return nil
	})
}

func (s *SessionStore) UpdateGameStatus(ctx context.Context, roomCode string, status game.GameStatus) error {
	return s.mutate(ctx, roomCode, func(g *game.Game) error {
		g.Status = status
		return nil
	})
}

func (s *SessionStore) SetScene(ctx context.Context, roomCode string, story string, roomPlanJSON string, narratorVoiceID string) error {
	return s.mutate(ctx, roomCode, func(g *game.Game) error {
		g.Story = story
		g.RoomPlanJSON = roomPlanJSON
		g.NarratorVoiceID = narratorVoiceID
		return nil
	})
}

func (s *SessionStore) UpdatePlayerBackground(ctx context.Context, roomCode string, playerID string, background string) error {
	return s.mutate(ctx, roomCode, func(g *game.Game) error {
		p := g.FindPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.CharacterBackground = background
		return nil
	})
}

func (s *SessionStore) UpdatePlayerCharacterStatus(ctx context.Context, roomCode string, playerID string, status game.CharacterGenerationStatus, genErr string) error {
	return s.mutate(ctx, roomCode, func(g *game.Game) error {
		p := g.FindPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.CharacterGenerationStatus = status
		p.CharacterGenerationError = genErr
		return nil
	})
}

func (s *SessionStore) SetPlayerCharacterSheet(ctx context.Context, roomCode string, playerID string, sheet *game.CharacterSheet) error {
	return s.mutate(ctx, roomCode, func(g *game.Game) error {
		p := g.FindPlayer(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.ApplyCharacterSheet(sheet)
		return nil
	})
}

func (s *SessionStore) DeleteGame(ctx context.Context, roomCode string) error {
	s.mu.Lock()
	delete(s.games, roomCode)
	s.mu.Unlock()

	if err := s.persister.Delete(ctx, roomCode); err != nil {
		return fmt.Errorf("failed to delete game %s: %w", roomCode, err)
	}
	return nil
}
