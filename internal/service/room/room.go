package room

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/sharetube/syncroom/internal/domain"
	"github.com/sharetube/syncroom/internal/repository/room"
	"github.com/sharetube/syncroom/pkg/ringbuf"
)

type roomDeps struct {
	store           iStore
	sender          iSender
	resolver        iResolver
	perms           domain.PermissionTable
	logger          *slog.Logger
	chanlogDir      string
	resolverTimeout time.Duration
	storeTimeout    time.Duration
	now             func() time.Time
	tickInterval    time.Duration
}

// Room is one channel. mu guards every field below it; no store, resolver or socket I/O happens while it is held.
type Room struct {
	name string
	roomDeps
	chanlog     *slog.Logger
	chanlogFile *os.File

	mu         sync.Mutex
	registered bool
	closed     bool
	playlist   *domain.Playlist
	locked     bool
	leaderID   string
	members    *domain.Members
	library    map[string]*domain.Media
	bans       domain.BanList
	ranks      map[string]domain.Rank
	filters    *domain.ChatFilters
	opts       domain.Options
	motd       domain.Motd
	recentChat *ringbuf.RingBuffer[domain.ChatMessage]
	poll       *domain.Poll
	voteskip   *domain.Poll
	clock      clock

	ready    chan struct{}
	dirty    chan struct{}
	closing  chan struct{}
	flushed  chan struct{}
	bg       sync.WaitGroup
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

func newRoom(name string, deps roomDeps, chanlogFile *os.File) *Room {
	var w io.Writer = io.Discard
	if chanlogFile != nil {
		w = chanlogFile
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())

	return &Room{
		name:        name,
		roomDeps:    deps,
		chanlog:     slog.New(slog.NewTextHandler(w, nil)).With("room", name),
		chanlogFile: chanlogFile,
		playlist:    domain.NewPlaylist(),
		locked:      true,
		members:     domain.NewMembers(),
		library:     make(map[string]*domain.Media),
		bans:        domain.BanList{},
		ranks:       make(map[string]domain.Rank),
		filters:     domain.DefaultChatFilters(),
		opts:        domain.DefaultOptions(),
		recentChat:  ringbuf.New[domain.ChatMessage](domain.RecentChatSize),
		ready:       make(chan struct{}),
		dirty:       make(chan struct{}, 1),
		closing:     make(chan struct{}),
		flushed:     make(chan struct{}),
		bgCtx:       bgCtx,
		bgCancel:    bgCancel,
	}
}

func (r *Room) Name() string {
	return r.name
}

func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RoomInfo{
		Name:       r.name,
		Title:      r.opts.PageTitle,
		UserCount:  r.members.Length(),
		Registered: r.registered,
	}
}

type hydration struct {
	registered bool
	library    []room.LibraryEntry
	ranks      map[string]int
	bans       []room.BanRecord
	dump       []byte
}

// hydrate loads persisted state without holding the lock, then applies it under the lock.
func (r *Room) hydrate() {
	defer close(r.ready)

	ctx, cancel := context.WithTimeout(r.bgCtx, r.storeTimeout)
	defer cancel()

	h := r.load(ctx)

	r.mu.Lock()
	r.registered = h.registered
	for _, e := range h.library {
		r.library[e.ID] = domain.NewMedia(e.ID, e.Title, e.Seconds, domain.MediaType(e.Type))
	}
	for name, rank := range h.ranks {
		r.ranks[name] = domain.Rank(rank)
	}
	for _, b := range h.bans {
		r.bans.Add(b.IP, domain.Ban{Name: b.Name, Banner: b.Banner})
	}
	if h.dump != nil {
		r.loadDump(h.dump)
	}
	r.mu.Unlock()

	go r.persistLoop()
}

func (r *Room) load(ctx context.Context) hydration {
	var (
		h   hydration
		err error
	)

	h.registered, err = r.store.IsRegistered(ctx, r.name)
	if err != nil {
		r.persistFailed(ctx, "is_registered", err)
	}

	if h.registered {
		if h.library, err = r.store.LoadLibrary(ctx, r.name); err != nil {
			r.persistFailed(ctx, "load_library", err)
		}
		if h.ranks, err = r.store.LoadRanks(ctx, r.name); err != nil {
			r.persistFailed(ctx, "load_ranks", err)
		}
		if h.bans, err = r.store.LoadBans(ctx, r.name); err != nil {
			r.persistFailed(ctx, "load_bans", err)
		}
	}

	h.dump, err = r.store.LoadDump(ctx, r.name)
	if err != nil && !errors.Is(err, room.ErrDumpNotFound) {
		r.persistFailed(ctx, "load_dump", err)
	}

	return h
}

// loadDump restores the playlist one before the saved position and advances, so playback resumes at the saved item.
func (r *Room) loadDump(data []byte) {
	dump, err := domain.ParseDump(data)
	if err != nil {
		r.logger.Warn("failed to load dump", "room", r.name, "error", err)
		return
	}

	filters, err := domain.FiltersFromData(dump.Filters)
	if err != nil {
		r.logger.Warn("failed to load dump filters", "room", r.name, "error", err)
		filters = domain.DefaultChatFilters()
	}

	r.playlist = domain.NewPlaylist()
	r.playlist.Insert(0, dump.Media()...)
	r.playlist.SetPosition(dump.CurrentPosition - 1)
	r.opts = dump.Opts
	r.filters = filters
	r.motd = dump.Motd

	if r.playlist.Len() > 0 {
		r.playNext()
	}
}

func (r *Room) close(ctx context.Context) error {
	<-r.ready

	r.mu.Lock()
	r.closed = true
	r.stopClock()
	r.mu.Unlock()

	r.bgCancel()
	close(r.closing)

	done := make(chan struct{})
	go func() {
		<-r.flushed
		r.bg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if r.chanlogFile != nil {
		if cerr := r.chanlogFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}

func (r *Room) member(memberID string) (*domain.Member, error) {
	m, err := r.members.GetByID(memberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func (r *Room) can(m *domain.Member, action domain.Action) bool {
	return r.perms.HasPermission(m.Rank, action)
}

func (r *Room) require(m *domain.Member, action domain.Action) error {
	if !r.can(m, action) {
		return ErrPermissionDenied
	}
	return nil
}

func (r *Room) userInfo(m *domain.Member) domain.UserInfo {
	return domain.UserInfo{
		Name:   m.Name,
		Rank:   m.Rank,
		Leader: m.ID == r.leaderID,
	}
}
