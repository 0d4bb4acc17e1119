package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sharetube/syncroom/internal/repository/room"
)

func (r repo) getRegisteredKey(roomName string) string {
	return "room:" + roomName + ":registered"
}

func (r repo) getDumpKey(roomName string) string {
	return "room:" + roomName + ":dump"
}

func (r repo) IsRegistered(ctx context.Context, roomName string) (bool, error) {
	n, err := r.rc.Exists(ctx, r.getRegisteredKey(roomName)).Result()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (r repo) Register(ctx context.Context, roomName string) error {
	ok, err := r.rc.SetNX(ctx, r.getRegisteredKey(roomName), 1, 0).Result()
	if err != nil {
		return err
	}

	if !ok {
		return room.ErrAlreadyRegistered
	}

	return nil
}

func (r repo) LoadDump(ctx context.Context, roomName string) ([]byte, error) {
	data, err := r.rc.Get(ctx, r.getDumpKey(roomName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, room.ErrDumpNotFound
		}

		return nil, err
	}

	return data, nil
}

func (r repo) SaveDump(ctx context.Context, params *room.SaveDumpParams) error {
	return r.rc.Set(ctx, r.getDumpKey(params.RoomName), params.Data, r.expireDuration).Err()
}
