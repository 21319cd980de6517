package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dungeondj/dungeon-dj/pkg/game"
)

// gameTTL bounds how long an abandoned session lingers in Redis.
const gameTTL = 24 * time.Hour

// RedisPersister stores each game as a JSON blob under a room-code
// key.
type RedisPersister struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Persister = (*RedisPersister)(nil)

func NewRedisPersister(redisURL string, logger *slog.Logger) *RedisPersister {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	return &RedisPersister{
		client: rdb,
		logger: logger,
	}
}

// NewRedisPersisterFromClient wraps an existing client. Used by tests.
func NewRedisPersisterFromClient(client *redis.Client, logger *slog.Logger) *RedisPersister {
	return &RedisPersister{
		client: client,
		logger: logger,
	}
}

func (r *RedisPersister) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisPersister) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available during startup.
func (r *RedisPersister) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func gameKey(roomCode string) string {
	return "game:" + roomCode
}

func (r *RedisPersister) Save(ctx context.Context, g *game.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		r.logger.Error("Failed to marshal game", "room_code", g.RoomCode, "error", err)
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	if err := r.client.Set(ctx, gameKey(g.RoomCode), string(data), gameTTL).Err(); err != nil {
		r.logger.Error("Failed to save game", "room_code", g.RoomCode, "error", err)
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

func (r *RedisPersister) Load(ctx context.Context, roomCode string) (*game.Game, error) {
	cmd := r.client.Get(ctx, gameKey(roomCode))
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrGameNotFound
		}
		r.logger.Error("Failed to load game", "room_code", roomCode, "error", err)
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	var g game.Game
	if err := json.Unmarshal([]byte(cmd.Val()), &g); err != nil {
		r.logger.Error("Failed to unmarshal game", "room_code", roomCode, "error", err)
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return &g, nil
}

func (r *RedisPersister) Delete(ctx context.Context, roomCode string) error {
	if err := r.client.Del(ctx, gameKey(roomCode)).Err(); err != nil {
		r.logger.Error("Failed to delete game", "room_code", roomCode, "error", err)
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}
