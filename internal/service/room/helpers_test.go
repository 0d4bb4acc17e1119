package room

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sharetube/syncroom/internal/domain"
	roomRedis "github.com/sharetube/syncroom/internal/repository/room/redis"
	"github.com/sharetube/syncroom/pkg/mediainfo"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu           sync.Mutex
	messages     map[string][]*Message
	disconnected map[string]string
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		messages:     make(map[string][]*Message),
		disconnected: make(map[string]string),
	}
}

func (s *fakeSender) Send(memberID string, msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[memberID] = append(s.messages[memberID], msg.(*Message))
	return nil
}

func (s *fakeSender) Disconnect(memberID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disconnected[memberID] = reason
}

// events returns the payloads of every event of type sent to memberID.
func (s *fakeSender) events(memberID, event string) []any {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payloads []any
	for _, msg := range s.messages[memberID] {
		if msg.Type == event {
			payloads = append(payloads, msg.Payload)
		}
	}
	return payloads
}

func (s *fakeSender) last(memberID, event string) any {
	payloads := s.events(memberID, event)
	if len(payloads) == 0 {
		return nil
	}
	return payloads[len(payloads)-1]
}

func (s *fakeSender) reason(memberID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reason, ok := s.disconnected[memberID]
	return reason, ok
}

type fakeResolver struct {
	mu    sync.Mutex
	infos map[string][]mediainfo.Info
	calls int
}

func (f *fakeResolver) Resolve(_ context.Context, mediaType, id string) ([]mediainfo.Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	infos, ok := f.infos[mediaType+":"+id]
	if !ok {
		return nil, mediainfo.ErrMediaNotFound
	}
	return infos, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	store    *miniredis.Miniredis
	rc       *redis.Client
	sender   *fakeSender
	resolver *fakeResolver
	clock    *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })

	return &testEnv{
		store:    s,
		rc:       rc,
		sender:   newFakeSender(),
		resolver: &fakeResolver{infos: make(map[string][]mediainfo.Info)},
		clock:    &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

// newService builds a service whose autolead timers never fire on their own; tests drive ticks directly.
func (e *testEnv) newService() *service {
	s := NewService(&ServiceParams{
		Store:    roomRedis.NewRepo(e.rc, 0),
		Sender:   e.sender,
		Resolver: e.resolver,
	})
	s.deps.now = e.clock.Now
	s.deps.tickInterval = time.Hour
	return s
}

func (e *testEnv) newRoom(t *testing.T, name string) (*service, *Room) {
	t.Helper()

	s := e.newService()
	r, err := s.GetRoom(context.Background(), name)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })

	return s, r
}

func join(t *testing.T, r *Room, id, name, ip string) {
	t.Helper()

	err := r.Join(context.Background(), &JoinParams{MemberID: id, Name: name, IP: ip})
	require.NoError(t, err)
}

// queue inserts media directly and starts playback when nothing was playing.
func queue(r *Room, media ...*domain.Media) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range media {
		r.insert(r.playlist.Len(), m)
	}
	if r.playlist.Position() < 0 {
		r.playNext()
	}
}

func position(r *Room) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playlist.Position()
}

func rankOf(r *Room, memberID string) domain.Rank {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.members.GetByID(memberID)
	if err != nil {
		return -1
	}
	return m.Rank
}
