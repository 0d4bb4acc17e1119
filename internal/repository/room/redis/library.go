package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sharetube/syncroom/internal/repository/room"
)

func (r repo) getLibraryKey(roomName string) string {
	return "room:" + roomName + ":library"
}

func (r repo) getLibraryMediaKey(roomName, mediaID string) string {
	return "room:" + roomName + ":library:" + mediaID
}

func (r repo) LoadLibrary(ctx context.Context, roomName string) ([]room.LibraryEntry, error) {
	ids, err := r.rc.SMembers(ctx, r.getLibraryKey(roomName)).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	pipe := r.rc.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, pipe.HGetAll(ctx, r.getLibraryMediaKey(roomName, id)))
	}

	if err := r.executePipe(ctx, pipe); err != nil {
		return nil, err
	}

	entries := make([]room.LibraryEntry, 0, len(cmds))
	for _, cmd := range cmds {
		var entry room.LibraryEntry
		if err := cmd.Scan(&entry); err != nil {
			return nil, err
		}

		// set member without a hash, skip it
		if entry.ID == "" {
			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (r repo) AddToLibrary(ctx context.Context, params *room.AddToLibraryParams) error {
	pipe := r.rc.TxPipeline()

	pipe.HSet(ctx, r.getLibraryMediaKey(params.RoomName, params.Media.ID), params.Media)
	pipe.SAdd(ctx, r.getLibraryKey(params.RoomName), params.Media.ID)

	return r.executePipe(ctx, pipe)
}
