package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sharetube/syncroom/internal/repository/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T, expire time.Duration) (*repo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	return NewRepo(rc, expire), mr
}

func TestRegister(t *testing.T) {
	r, _ := newTestRepo(t, 0)
	ctx := context.Background()

	ok, err := r.IsRegistered(ctx, "lobby")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Register(ctx, "lobby"))
	assert.ErrorIs(t, r.Register(ctx, "lobby"), room.ErrAlreadyRegistered)

	ok, err = r.IsRegistered(ctx, "lobby")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDump(t *testing.T) {
	r, mr := newTestRepo(t, time.Hour)
	ctx := context.Background()

	_, err := r.LoadDump(ctx, "lobby")
	assert.ErrorIs(t, err, room.ErrDumpNotFound)

	require.NoError(t, r.SaveDump(ctx, &room.SaveDumpParams{RoomName: "lobby", Data: []byte(`{"queue":[]}`)}))
	data, err := r.LoadDump(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, `{"queue":[]}`, string(data))
	assert.Equal(t, time.Hour, mr.TTL("room:lobby:dump"))
}

func TestLibrary(t *testing.T) {
	r, _ := newTestRepo(t, 0)
	ctx := context.Background()

	entries, err := r.LoadLibrary(ctx, "lobby")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entry := room.LibraryEntry{ID: "abc", Title: "Song", Seconds: 185, Type: "yt"}
	require.NoError(t, r.AddToLibrary(ctx, &room.AddToLibraryParams{RoomName: "lobby", Media: entry}))
	require.NoError(t, r.AddToLibrary(ctx, &room.AddToLibraryParams{RoomName: "lobby", Media: entry}))

	entries, err = r.LoadLibrary(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, []room.LibraryEntry{entry}, entries)
}

func TestRanks(t *testing.T) {
	r, _ := newTestRepo(t, 0)
	ctx := context.Background()

	require.NoError(t, r.SetRank(ctx, &room.SetRankParams{RoomName: "lobby", Name: "alice", Rank: 8}))
	require.NoError(t, r.SetRank(ctx, &room.SetRankParams{RoomName: "lobby", Name: "bob", Rank: 1}))
	require.NoError(t, r.SetRank(ctx, &room.SetRankParams{RoomName: "lobby", Name: "bob", Rank: 2}))

	ranks, err := r.LoadRanks(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"alice": 8, "bob": 2}, ranks)
}

func TestBans(t *testing.T) {
	r, _ := newTestRepo(t, 0)
	ctx := context.Background()

	ban := room.BanRecord{IP: "10.0.0.1", Name: "troll", Banner: "mod"}
	require.NoError(t, r.SetBan(ctx, &room.SetBanParams{RoomName: "lobby", Ban: ban}))

	bans, err := r.LoadBans(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, []room.BanRecord{ban}, bans)

	require.NoError(t, r.RemoveBan(ctx, &room.RemoveBanParams{RoomName: "lobby", IP: "10.0.0.1"}))
	bans, err = r.LoadBans(ctx, "lobby")
	require.NoError(t, err)
	assert.Empty(t, bans)
}
