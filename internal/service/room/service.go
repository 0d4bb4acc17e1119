package room

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sharetube/syncroom/internal/domain"
	"github.com/sharetube/syncroom/internal/repository/room"
	"github.com/sharetube/syncroom/pkg/mediainfo"
)

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrMemberNotFound    = errors.New("member not found")
	ErrBanned            = errors.New("banned")
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrVoteskipDisabled  = errors.New("voteskip is disabled")
	ErrNoPoll            = errors.New("no poll is open")
	ErrInvalidMediaType  = errors.New("invalid media type")
	ErrServiceClosed     = errors.New("service closed")
	ErrAlreadyRegistered = errors.New("room already registered")
)

type iStore interface {
	IsRegistered(ctx context.Context, roomName string) (bool, error)
	Register(ctx context.Context, roomName string) error
	LoadDump(ctx context.Context, roomName string) ([]byte, error)
	SaveDump(ctx context.Context, params *room.SaveDumpParams) error
	LoadLibrary(ctx context.Context, roomName string) ([]room.LibraryEntry, error)
	AddToLibrary(ctx context.Context, params *room.AddToLibraryParams) error
	LoadRanks(ctx context.Context, roomName string) (map[string]int, error)
	SetRank(ctx context.Context, params *room.SetRankParams) error
	LoadBans(ctx context.Context, roomName string) ([]room.BanRecord, error)
	SetBan(ctx context.Context, params *room.SetBanParams) error
	RemoveBan(ctx context.Context, params *room.RemoveBanParams) error
}

type iSender interface {
	Send(memberID string, msg any) error
	Disconnect(memberID string, reason string)
}

type iResolver interface {
	Resolve(ctx context.Context, mediaType, id string) ([]mediainfo.Info, error)
}

type ServiceParams struct {
	Store       iStore
	Sender      iSender
	Resolver    iResolver
	Permissions domain.PermissionTable
	Logger      *slog.Logger
	// per-room logs are written to <ChanlogDir>/<room>.log, disabled when empty
	ChanlogDir      string
	ResolverTimeout time.Duration
	StoreTimeout    time.Duration
}

type RoomInfo struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	UserCount  int    `json:"usercount"`
	Registered bool   `json:"registered"`
}

type service struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	closed bool
	deps   roomDeps
	logger *slog.Logger
}

func NewService(params *ServiceParams) *service {
	perms := params.Permissions
	if perms == nil {
		perms = domain.DefaultPermissions()
	}

	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	resolverTimeout := params.ResolverTimeout
	if resolverTimeout == 0 {
		resolverTimeout = 15 * time.Second
	}

	storeTimeout := params.StoreTimeout
	if storeTimeout == 0 {
		storeTimeout = 5 * time.Second
	}

	return &service{
		rooms:  make(map[string]*Room),
		logger: logger,
		deps: roomDeps{
			store:           params.Store,
			sender:          params.Sender,
			resolver:        params.Resolver,
			perms:           perms,
			logger:          logger,
			chanlogDir:      params.ChanlogDir,
			resolverTimeout: resolverTimeout,
			storeTimeout:    storeTimeout,
			now:             time.Now,
			tickInterval:    time.Second,
		},
	}
}

// GetRoom returns the room called name, creating and hydrating it on first reference.
func (s *service) GetRoom(ctx context.Context, name string) (*Room, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrServiceClosed
	}

	r, ok := s.rooms[name]
	if !ok {
		chanlog, err := s.openChanlog(name)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to open room log", "room", name, "error", err)
		}

		r = newRoom(name, s.deps, chanlog)
		s.rooms[name] = r
		roomsOpen.Inc()
		go r.hydrate()
	}
	s.mu.Unlock()

	select {
	case <-r.ready:
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *service) ListRooms() []RoomInfo {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, r.Info())
	}

	slices.SortFunc(infos, func(a, b RoomInfo) int {
		return strings.Compare(a.Name, b.Name)
	})

	return infos
}

// Close stops every room clock and flushes pending snapshots. Later calls are no-ops.
func (s *service) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	var errs []error
	for _, r := range rooms {
		if err := r.close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close room %s: %w", r.name, err))
		}
		roomsOpen.Dec()
	}

	return errors.Join(errs...)
}

func (s *service) openChanlog(name string) (*os.File, error) {
	if s.deps.chanlogDir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(s.deps.chanlogDir, 0o755); err != nil {
		return nil, err
	}

	return os.OpenFile(filepath.Join(s.deps.chanlogDir, name+".log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}
