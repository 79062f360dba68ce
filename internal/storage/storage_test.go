package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/trail1897/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// backends returns one fresh instance of every Store implementation.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	log := testLogger()

	mr := miniredis.RunT(t)
	rs := NewRedisStore(mr.Addr(), log)

	fs, err := NewFileStore(t.TempDir(), log)
	require.NoError(t, err)

	ss, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "trail.db"), log)
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
		"sqlite": ss,
		"redis":  rs,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Ping(ctx))

			_, err := s.Get(ctx, KeyGameState)
			assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

			require.NoError(t, s.Put(ctx, KeyGameState, []byte(`{"health":90}`)))
			data, err := s.Get(ctx, KeyGameState)
			require.NoError(t, err)
			assert.JSONEq(t, `{"health":90}`, string(data))

			require.NoError(t, s.Put(ctx, KeyGameState, []byte(`{"health":80}`)))
			data, err = s.Get(ctx, KeyGameState)
			require.NoError(t, err)
			assert.JSONEq(t, `{"health":80}`, string(data))

			require.NoError(t, s.Delete(ctx, KeyGameState))
			_, err = s.Get(ctx, KeyGameState)
			assert.True(t, errors.Is(err, ErrNotFound))

			require.NoError(t, s.Delete(ctx, "never_written"))
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type roster struct {
		Names []string `json:"names"`
	}

	var got roster
	assert.True(t, errors.Is(LoadJSON(ctx, s, KeyCharacters, &got), ErrNotFound))

	initial := roster{Names: []string{}}
	created, err := LoadOrCreate(ctx, s, KeyCharacters, &initial)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, SaveJSON(ctx, s, KeyCharacters, roster{Names: []string{"Old Tom"}}))
	created, err = LoadOrCreate(ctx, s, KeyCharacters, &got)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, []string{"Old Tom"}, got.Names)

	require.NoError(t, s.Put(ctx, KeyFrame, []byte("{broken")))
	err = LoadJSON(ctx, s, KeyFrame, &got)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	assert.Error(t, fs.Put(context.Background(), "../escape", []byte("x")))
	_, err = fs.Get(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestMemoryStore_Errors(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	boom := errors.New("disk full")

	m.SetPingError(boom)
	assert.Equal(t, boom, m.Ping(ctx))

	m.SetPutError(boom)
	assert.Equal(t, boom, m.Put(ctx, KeyRecipes, []byte("{}")))
	assert.Equal(t, 0, m.Puts())
}

func TestRedisStore_WaitForConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	rs := NewRedisStore(mr.Addr(), testLogger())
	require.NoError(t, rs.WaitForConnection(context.Background()))

	mr.Close()
	rs.maxRetries = 2
	rs.retryDelay = time.Millisecond
	assert.Error(t, rs.WaitForConnection(context.Background()))
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	rs := NewRedisStore(mr.Addr(), testLogger())
	require.NoError(t, rs.Put(context.Background(), KeyRecipes, []byte(`{}`)))

	val, err := mr.Get("trail:" + KeyRecipes)
	require.NoError(t, err)
	assert.Equal(t, `{}`, val)
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		cfg     config.Config
		wantErr bool
	}{
		{config.Config{StorageBackend: config.BackendMemory}, false},
		{config.Config{StorageBackend: config.BackendFile, DataDir: t.TempDir()}, false},
		{config.Config{StorageBackend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "t.db")}, false},
		{config.Config{StorageBackend: config.BackendRedis, RedisURL: mr.Addr()}, false},
		{config.Config{StorageBackend: "s3"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.StorageBackend, func(t *testing.T) {
			s, err := New(ctx, &tt.cfg, testLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Ping(ctx))
			assert.NoError(t, s.Close())
		})
	}
}
