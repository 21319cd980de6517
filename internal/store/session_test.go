package store

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungeondj/dungeon-dj/pkg/game"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	persister := NewRedisPersisterFromClient(client, slog.Default())
	return NewSessionStore(persister, slog.Default()), mr
}

func TestCreateAndLoadGame(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	g := &game.Game{
		Status: game.StatusGenerating,
		WorldData: game.WorldData{
			Genre:     "heist",
			StoryGoal: "Steal the crown",
		},
	}
	require.NoError(t, s.CreateGame(ctx, g))
	assert.Len(t, g.RoomCode, roomCodeLength)
	assert.False(t, g.CreatedAt.IsZero())

	loaded, err := s.LoadGame(ctx, g.RoomCode)
	require.NoError(t, err)
	assert.Equal(t, "heist", loaded.WorldData.Genre)
	assert.Equal(t, game.StatusGenerating, loaded.Status)
}

func TestCreateGameCodesAreUnique(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		g := &game.Game{Status: game.StatusGenerating}
		require.NoError(t, s.CreateGame(ctx, g))
		assert.False(t, seen[g.RoomCode], "room code %s issued twice", g.RoomCode)
		seen[g.RoomCode] = true
	}
}

func TestLoadGameNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.LoadGame(context.Background(), "ZZZZZZ")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestLoadGameCacheMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	persister := NewRedisPersisterFromClient(client, slog.Default())
	ctx := context.Background()

	// Write through one store instance, read through a fresh one so
	// the game can only come from Redis.
	writer := NewSessionStore(persister, slog.Default())
	g := &game.Game{Status: game.StatusReady, Story: "Once upon a time."}
	require.NoError(t, writer.CreateGame(ctx, g))

	reader := NewSessionStore(persister, slog.Default())
	loaded, err := reader.LoadGame(ctx, g.RoomCode)
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time.", loaded.Story)
}

func TestSaveGameUpdatesExisting(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	g := &game.Game{Status: game.StatusGenerating}
	require.NoError(t, s.CreateGame(ctx, g))

	g.Status = game.StatusReady
	g.Players = append(g.Players, &game.Player{ID: "p1", CharacterName: "Anna"})
	require.NoError(t, s.SaveGame(ctx, g))

	// Verify the persisted copy, not the cache.
	assert.True(t, mr.Exists("game:"+g.RoomCode))
	loaded, err := NewRedisPersisterFromClient(
		redis.NewClient(&redis.Options{Addr: mr.Addr()}), slog.Default(),
	).Load(ctx, g.RoomCode)
	require.NoError(t, err)
	assert.Equal(t, game.StatusReady, loaded.Status)
	require.Len(t, loaded.Players, 1)
	assert.Equal(t, "Anna", loaded.Players[0].CharacterName)
}

func TestSaveGameWithoutRoomCode(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.SaveGame(context.Background(), &game.Game{})
	assert.Error(t, err)
}

func TestPlayerMutators(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	g := &game.Game{Status: game.StatusGenerating}
	require.NoError(t, s.CreateGame(ctx, g))

	require.NoError(t, s.AddPlayer(ctx, g.RoomCode, &game.Player{ID: "p1", CharacterName: "Anna"}))
	require.NoError(t, s.AddPlayer(ctx, g.RoomCode, &game.Player{ID: "p2", CharacterName: "Brom"}))
	require.NoError(t, s.UpdatePlayerReady(ctx, g.RoomCode, "p1", true))
	require.NoError(t, s.UpdatePlayerBackground(ctx, g.RoomCode, "p2", "A wandering smith."))

	loaded, err := s.LoadGame(ctx, g.RoomCode)
	require.NoError(t, err)
	require.Len(t, loaded.Players, 2)
	assert.True(t, loaded.Players[0].IsReady)
	assert.Equal(t, "A wandering smith.", loaded.Players[1].CharacterBackground)

	require.NoError(t, s.RemovePlayer(ctx, g.RoomCode, "p1"))
	loaded, err = s.LoadGame(ctx, g.RoomCode)
	require.NoError(t, err)
	require.Len(t, loaded.Players, 1)
	assert.Equal(t, "Brom", loaded.Players[0].CharacterName)

	assert.ErrorIs(t, s.UpdatePlayerReady(ctx, g.RoomCode, "p1", true), ErrPlayerNotFound)
}

func TestSetPlayerCharacterSheet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	g := &game.Game{Status: game.StatusGenerating}
	require.NoError(t, s.CreateGame(ctx, g))
	require.NoError(t, s.AddPlayer(ctx, g.RoomCode, &game.Player{ID: "p1", CharacterName: "Anna"}))

	sheet := &game.CharacterSheet{
		Ancestry:       "Elf",
		CharacterClass: "Ranger",
		HitPoints:      12,
		AbilityScores:  game.AbilityScores{Dexterity: 17},
	}
	require.NoError(t, s.SetPlayerCharacterSheet(ctx, g.RoomCode, "p1", sheet))

	loaded, err := s.LoadGame(ctx, g.RoomCode)
	require.NoError(t, err)
	p := loaded.FindPlayer("p1")
	require.NotNil(t, p)
	assert.Equal(t, game.CharacterReady, p.CharacterGenerationStatus)
	assert.Equal(t, "Elf", p.Race)
	assert.Equal(t, 12, p.HP)
	assert.Equal(t, 17, p.Dexterity)
}

func TestSetSceneAndStatus(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	g := &game.Game{Status: game.StatusGenerating}
	require.NoError(t, s.CreateGame(ctx, g))

	require.NoError(t, s.SetScene(ctx, g.RoomCode, "Once upon a time.", `{"rooms":[]}`, "voice-1"))
	require.NoError(t, s.UpdateGameStatus(ctx, g.RoomCode, game.StatusReady))

	loaded, err := s.LoadGame(ctx, g.RoomCode)
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time.", loaded.Story)
	assert.Equal(t, "voice-1", loaded.NarratorVoiceID)
	assert.Equal(t, game.StatusReady, loaded.Status)
}

func TestDeleteGame(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	g := &game.Game{Status: game.StatusGenerating}
	require.NoError(t, s.CreateGame(ctx, g))
	require.NoError(t, s.DeleteGame(ctx, g.RoomCode))

	assert.False(t, mr.Exists("game:"+g.RoomCode))
	_, err := s.LoadGame(ctx, g.RoomCode)
	assert.ErrorIs(t, err, ErrGameNotFound)
}
