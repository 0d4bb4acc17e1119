package room

import (
	"context"
	"testing"
	"time"

	"github.com/sharetube/syncroom/internal/domain"
	roomRedis "github.com/sharetube/syncroom/internal/repository/room/redis"
	"github.com/sharetube/syncroom/pkg/mediainfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.infos["yt:abc"] = []mediainfo.Info{{ID: "abc", Title: "First", Seconds: 120}}
	env.resolver.infos["yp:list"] = []mediainfo.Info{
		{ID: "p1", Title: "Second", Seconds: 60},
		{ID: "p2", Title: "Third", Seconds: 90},
	}

	ctx := context.Background()
	s := env.newService()

	r, err := s.GetRoom(ctx, "lobby")
	require.NoError(t, err)

	// first member of an unregistered room gets the bootstrap rank
	join(t, r, "m1", "alice", "10.0.0.1")
	assert.Equal(t, domain.BootstrapRank, rankOf(r, "m1"))
	assert.Len(t, env.sender.events("m1", EventChannelNotRegistered), 1)
	t.Log("owner joined")

	require.NoError(t, r.Register(ctx, "m1"))
	assert.Equal(t, registerChannelPayload{Success: true}, env.sender.last("m1", EventRegisterChannel))
	t.Log("room registered")

	require.NoError(t, r.Enqueue(ctx, &EnqueueParams{MemberID: "m1", ID: "abc", Type: domain.MediaTypeYouTube, Pos: PosEnd}))
	require.NoError(t, r.Enqueue(ctx, &EnqueueParams{MemberID: "m1", ID: "list", Type: domain.MediaTypeYouTubePlaylist, Pos: PosEnd}))
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.playlist.Len() == 3
	}, time.Second, 10*time.Millisecond)
	t.Log("media queued")

	require.NoError(t, r.PlayNext("m1"))
	require.NoError(t, r.PlayNext("m1"))
	require.NoError(t, r.SetMotd("m1", "welcome"))

	join(t, r, "m2", "bob", "10.0.0.2")
	require.NoError(t, r.Promote(ctx, "m1", "bob"))
	assert.Equal(t, domain.RankMember, rankOf(r, "m2"))
	t.Log("member promoted")

	require.NoError(t, s.Close(ctx))
	t.Log("service closed")

	// a fresh service over the same store restores the snapshot
	s2 := env.newService()
	defer s2.Close(ctx)

	r2, err := s2.GetRoom(ctx, "lobby")
	require.NoError(t, err)

	r2.mu.Lock()
	assert.True(t, r2.registered)
	assert.Equal(t, 3, r2.playlist.Len())
	assert.Equal(t, 1, r2.playlist.Position())
	assert.Equal(t, "Second", r2.playlist.Current().Title)
	assert.Equal(t, domain.MediaTypeYouTube, r2.playlist.Current().Type)
	assert.Equal(t, "welcome", r2.motd.Motd)
	assert.Len(t, r2.library, 3)
	assert.Equal(t, domain.BootstrapRank, r2.ranks["alice"])
	assert.Equal(t, domain.RankMember, r2.ranks["bob"])
	r2.mu.Unlock()

	join(t, r2, "m3", "bob", "10.0.0.2")
	assert.Equal(t, domain.RankMember, rankOf(r2, "m3"))

	// the restored queue starts locked again
	assert.ErrorIs(t, r2.Enqueue(ctx, &EnqueueParams{MemberID: "m3", ID: "abc", Type: domain.MediaTypeYouTube, Pos: PosEnd}), ErrPermissionDenied)
	join(t, r2, "m4", "alice", "10.0.0.1")

	// library hits skip the resolver
	require.NoError(t, r2.Enqueue(ctx, &EnqueueParams{MemberID: "m4", ID: "abc", Type: domain.MediaTypeYouTube, Pos: PosEnd}))
	assert.Equal(t, 4, r2.playlist.Len())
	env.resolver.mu.Lock()
	assert.Equal(t, 2, env.resolver.calls)
	env.resolver.mu.Unlock()
}

func TestListRooms(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.newService()
	defer s.Close(ctx)

	for _, name := range []string{"zeta", "alpha"} {
		_, err := s.GetRoom(ctx, name)
		require.NoError(t, err)
	}

	r, err := s.GetRoom(ctx, "alpha")
	require.NoError(t, err)
	join(t, r, "m1", "alice", "10.0.0.1")

	rooms := s.ListRooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, "alpha", rooms[0].Name)
	assert.Equal(t, 1, rooms[0].UserCount)
	assert.Equal(t, "zeta", rooms[1].Name)
}

func TestGetRoomAfterClose(t *testing.T) {
	env := newTestEnv(t)
	s := env.newService()
	require.NoError(t, s.Close(context.Background()))

	_, err := s.GetRoom(context.Background(), "lobby")
	assert.ErrorIs(t, err, ErrServiceClosed)
}

func TestRoomAfterClose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s, r := env.newRoom(t, "lobby")

	join(t, r, "m1", "alice", "10.0.0.1")
	require.NoError(t, r.Register(ctx, "m1"))
	join(t, r, "m2", "bob", "10.0.0.2")
	require.NoError(t, s.Close(ctx))

	err := r.Enqueue(ctx, &EnqueueParams{MemberID: "m1", ID: "abc", Type: domain.MediaTypeYouTube, Pos: PosEnd})
	assert.ErrorIs(t, err, ErrServiceClosed)

	env.resolver.mu.Lock()
	assert.Zero(t, env.resolver.calls)
	env.resolver.mu.Unlock()

	// rank changes after close stay in memory only
	require.NoError(t, r.Promote(ctx, "m1", "bob"))
	ranks, err := roomRedis.NewRepo(env.rc, 0).LoadRanks(ctx, "lobby")
	require.NoError(t, err)
	assert.NotContains(t, ranks, "bob")

	assert.NoError(t, s.Close(ctx))
}
