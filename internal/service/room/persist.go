package room

import (
	"context"

	"github.com/sharetube/syncroom/internal/domain"
	"github.com/sharetube/syncroom/internal/repository/room"
)

// markDirty schedules a dump save. Repeated calls before the worker runs coalesce into one write.
func (r *Room) markDirty() {
	select {
	case r.dirty <- struct{}{}:
	default:
	}
}

func (r *Room) persistLoop() {
	defer close(r.flushed)

	for {
		select {
		case <-r.dirty:
			r.saveDump()
		case <-r.closing:
			select {
			case <-r.dirty:
				r.saveDump()
			default:
			}
			return
		}
	}
}

func (r *Room) snapshot() *domain.Dump {
	r.mu.Lock()
	defer r.mu.Unlock()

	return &domain.Dump{
		Queue:           domain.DumpQueue(r.playlist.Items()),
		CurrentPosition: r.playlist.Position(),
		Opts:            r.opts,
		Filters:         r.filters.Data(),
		Motd:            r.motd,
	}
}

func (r *Room) saveDump() {
	ctx, cancel := context.WithTimeout(context.Background(), r.storeTimeout)
	defer cancel()

	data, err := r.snapshot().Marshal()
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to marshal dump", "room", r.name, "error", err)
		return
	}

	if err := r.store.SaveDump(ctx, &room.SaveDumpParams{RoomName: r.name, Data: data}); err != nil {
		r.persistFailed(ctx, "save_dump", err)
	}
}

// persistAsync runs a best-effort store write off the room lock. It must be called with the lock held;
// writes requested after close are dropped.
func (r *Room) persistAsync(op string, fn func(ctx context.Context) error) {
	if r.closed {
		persistFailures.WithLabelValues(op).Inc()
		return
	}

	r.bg.Add(1)
	go func() {
		defer r.bg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.storeTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.persistFailed(ctx, op, err)
		}
	}()
}

func (r *Room) persistFailed(ctx context.Context, op string, err error) {
	persistFailures.WithLabelValues(op).Inc()
	r.logger.InfoContext(ctx, "failed to persist room state", "room", r.name, "op", op, "error", err)
}

func (r *Room) addToLibrary(m *domain.Media) {
	if _, ok := r.library[m.ID]; ok {
		return
	}
	r.library[m.ID] = m.Clone()

	if !r.registered {
		return
	}

	entry := room.LibraryEntry{ID: m.ID, Title: m.Title, Seconds: m.Seconds, Type: string(m.Type)}
	r.persistAsync("add_to_library", func(ctx context.Context) error {
		return r.store.AddToLibrary(ctx, &room.AddToLibraryParams{RoomName: r.name, Media: entry})
	})
}

func (r *Room) saveRank(m *domain.Member) {
	if !r.registered || !m.LoggedIn {
		return
	}
	r.ranks[m.Name] = m.Rank

	name, rank := m.Name, int(m.Rank)
	r.persistAsync("set_rank", func(ctx context.Context) error {
		return r.store.SetRank(ctx, &room.SetRankParams{RoomName: r.name, Name: name, Rank: rank})
	})
}
