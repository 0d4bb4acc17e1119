package room

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/sharetube/syncroom/internal/domain"
)

const (
	PosNext = "next"
	PosEnd  = "end"
)

// canModifyQueue reports whether m may make a queue change that the open flag allows on an unlocked queue.
func (r *Room) canModifyQueue(m *domain.Member, open bool) bool {
	if r.can(m, domain.ActionQueue) || (r.leaderID != "" && m.ID == r.leaderID) {
		return true
	}
	return !r.locked && open
}

type EnqueueParams struct {
	MemberID string
	ID       string
	Type     domain.MediaType
	Pos      string
}

// Enqueue inserts media next or at the end. Unknown media is resolved in the background and
// inserted at the index computed now, clamped to the queue bounds at insert time.
func (r *Room) Enqueue(ctx context.Context, params *EnqueueParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(params.MemberID)
	if err != nil {
		return err
	}

	if !params.Type.Valid() {
		return ErrInvalidMediaType
	}

	if !r.canModifyQueue(m, params.Pos == PosEnd || r.opts.QOpenAllowQNext) {
		return ErrPermissionDenied
	}

	idx := r.playlist.Len()
	if params.Pos == PosNext {
		idx = r.playlist.Position() + 1
	}

	if cached, ok := r.library[params.ID]; ok && !params.Type.IsCollection() {
		r.insert(idx, cached.Clone())
		r.chanlog.InfoContext(ctx, "queued from cache", "id", params.ID)
		return nil
	}

	if live, ok := domain.SynthesizeLive(params.Type, params.ID); ok {
		r.insert(idx, live)
		r.chanlog.InfoContext(ctx, "queued live channel", "type", params.Type, "id", params.ID)
		return nil
	}

	if r.closed {
		return ErrServiceClosed
	}

	r.bg.Add(1)
	go r.resolveAndInsert(idx, params.Type, params.ID)

	return nil
}

func (r *Room) resolveAndInsert(idx int, mediaType domain.MediaType, id string) {
	defer r.bg.Done()

	ctx, cancel := context.WithTimeout(r.bgCtx, r.resolverTimeout)
	defer cancel()

	start := time.Now()
	infos, err := r.resolver.Resolve(ctx, string(mediaType), id)
	resolveDuration.WithLabelValues(string(mediaType)).Observe(time.Since(start).Seconds())
	if err != nil {
		resolveFailures.WithLabelValues(string(mediaType)).Inc()
		r.logger.InfoContext(ctx, "failed to resolve media", "room", r.name, "type", mediaType, "id", id, "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	for _, info := range infos {
		media := domain.NewMedia(info.ID, info.Title, info.Seconds, mediaType.ItemType())
		idx = r.insert(idx, media) + 1
		r.addToLibrary(media)
	}
	r.chanlog.Info("queued", "type", mediaType, "id", id, "items", len(infos))
}

// insert must be called with the lock held. It returns the index used.
func (r *Room) insert(idx int, media *domain.Media) int {
	at := r.playlist.Insert(idx, media)
	r.sendAll(EventQueue, queuePayload{Media: *media, Pos: at})
	r.markDirty()
	return at
}

func (r *Room) Unqueue(memberID string, pos int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(memberID)
	if err != nil {
		return err
	}

	if !r.canModifyQueue(m, r.opts.QOpenAllowDelete) {
		return ErrPermissionDenied
	}

	wasCurrent, ok := r.playlist.Remove(pos)
	if !ok {
		return nil
	}

	r.sendAll(EventUnqueue, unqueuePayload{Pos: pos})
	r.markDirty()

	if wasCurrent {
		r.playNext()
	}

	return nil
}

func (r *Room) Move(memberID string, src, dest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(memberID)
	if err != nil {
		return err
	}

	if !r.canModifyQueue(m, r.opts.QOpenAllowMove) {
		return ErrPermissionDenied
	}

	if !r.playlist.Move(src, dest) {
		return nil
	}

	r.sendAll(EventMoveMedia, moveMediaPayload{Src: src, Dest: dest})
	r.markDirty()

	return nil
}

func (r *Room) PlayNext(memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(memberID)
	if err != nil {
		return err
	}

	if !r.canModifyQueue(m, r.opts.QOpenAllowPlayNext) {
		return ErrPermissionDenied
	}

	r.playNext()
	return nil
}

func (r *Room) JumpTo(memberID string, pos int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(memberID)
	if err != nil {
		return err
	}

	if !r.canModifyQueue(m, r.opts.QOpenAllowPlayNext) {
		return ErrPermissionDenied
	}

	old, ok := r.playlist.JumpTo(pos)
	if !ok {
		return nil
	}

	r.mediaChanged(old)
	return nil
}

// playNext must be called with the lock held.
func (r *Room) playNext() {
	old, ok := r.playlist.Advance()
	if !ok {
		return
	}

	r.mediaChanged(old)
}

func (r *Room) mediaChanged(old int) {
	r.voteskip = nil

	cur := r.playlist.Current()
	r.sendAll(EventMediaUpdate, *cur)
	r.sendAll(EventPlaylistIndex, playlistIndexPayload{Old: old, Idx: r.playlist.Position()})
	r.markDirty()

	r.startClock()
}

func (r *Room) SetLock(memberID string, locked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(memberID)
	if err != nil {
		return err
	}

	if err := r.require(m, domain.ActionQueueLock); err != nil {
		return err
	}

	r.locked = locked
	r.sendAll(EventQueueLock, queueLockPayload{Locked: locked})
	for _, member := range r.members.AsList() {
		r.sendPlaylist(member.ID)
	}

	return nil
}

// LeaderUpdate applies a sync packet from the manual leader. Packets from anyone else,
// or while nothing is playing, are ignored.
func (r *Room) LeaderUpdate(memberID string, currentTime float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.playlist.Current()
	if r.leaderID == "" || memberID != r.leaderID || cur == nil {
		return nil
	}

	cur.CurrentTime = currentTime
	r.sendAll(EventMediaUpdate, *cur)

	return nil
}

func (r *Room) SearchLibrary(memberID, query string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.member(memberID)
	if err != nil {
		return err
	}

	if err := r.require(m, domain.ActionSearchLibrary); err != nil {
		return err
	}

	r.sendTo(m.ID, EventLibrarySearchResults, librarySearchPayload{Results: r.searchLibrary(query)})
	return nil
}

func (r *Room) searchLibrary(query string) []domain.Media {
	query = strings.ToLower(query)
	results := make([]domain.Media, 0)
	for _, m := range r.library {
		if strings.Contains(strings.ToLower(m.Title), query) {
			results = append(results, *m)
		}
	}

	slices.SortFunc(results, func(a, b domain.Media) int {
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})

	return results
}
