package app

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sharetube/syncroom/internal/repository/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *AppConfig {
	return &AppConfig{
		Host:       "127.0.0.1",
		Port:       8080,
		LogLevel:   "info",
		Store:      StoreRedis,
		RedisHost:  "localhost",
		RedisPort:  6379,
		RoomExpire: time.Hour,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Store = "memcached"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Store = StoreSqlite
	assert.Error(t, cfg.Validate(), "sqlite store needs a path")

	cfg.SqlitePath = "/tmp/rooms.db"
	assert.NoError(t, cfg.Validate())

	cfg = validConfig()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store = StoreSqlite
		cfg.SqlitePath = filepath.Join(t.TempDir(), "rooms.db")

		store, closeStore, err := openStore(ctx, cfg)
		require.NoError(t, err)
		defer closeStore()

		require.NoError(t, store.SaveDump(ctx, &room.SaveDumpParams{RoomName: "lobby", Data: []byte(`{}`)}))
		data, err := store.LoadDump(ctx, "lobby")
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(data))
	})

	t.Run("redis", func(t *testing.T) {
		s := miniredis.RunT(t)

		cfg := validConfig()
		cfg.RedisHost = s.Host()
		port, err := strconv.Atoi(s.Port())
		require.NoError(t, err)
		cfg.RedisPort = port

		store, closeStore, err := openStore(ctx, cfg)
		require.NoError(t, err)
		defer closeStore()

		registered, err := store.IsRegistered(ctx, "lobby")
		require.NoError(t, err)
		assert.False(t, registered)
	})

	t.Run("unreachable redis", func(t *testing.T) {
		cfg := validConfig()
		cfg.RedisHost = "127.0.0.1"
		cfg.RedisPort = 1

		_, _, err := openStore(ctx, cfg)
		assert.Error(t, err)
	})
}
