package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/trail1897/internal/config"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("not found")

// Blob keys used by the game.
const (
	KeyGameState  = "game_state"
	KeyRecipes    = "crafting_recipes"
	KeyCharacters = "game_characters"
	KeyFrame      = "game_frame"
)

// Store persists opaque documents by key.
type Store interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// New opens the backend selected in cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		return NewFileStore(cfg.DataDir, logger)
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, logger)
	case config.BackendRedis:
		r := NewRedisStore(cfg.RedisURL, logger)
		if err := r.WaitForConnection(ctx); err != nil {
			_ = r.Close()
			return nil, err
		}
		return r, nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// LoadJSON decodes the document at key into v. Missing keys return
// ErrNotFound untouched so callers can fall back to defaults.
func LoadJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// SaveJSON encodes v and writes it at key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.Put(ctx, key, data)
}

// LoadOrCreate loads key into v, writing v as the initial document when the
// key does not exist yet.
func LoadOrCreate(ctx context.Context, s Store, key string, v any) (created bool, err error) {
	err = LoadJSON(ctx, s, key, v)
	if errors.Is(err, ErrNotFound) {
		return true, SaveJSON(ctx, s, key, v)
	}
	return false, err
}
