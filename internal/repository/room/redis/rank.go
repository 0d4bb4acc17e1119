package redis

import (
	"context"
	"strconv"

	"github.com/sharetube/syncroom/internal/repository/room"
)

func (r repo) getRanksKey(roomName string) string {
	return "room:" + roomName + ":ranks"
}

func (r repo) LoadRanks(ctx context.Context, roomName string) (map[string]int, error) {
	fields, err := r.rc.HGetAll(ctx, r.getRanksKey(roomName)).Result()
	if err != nil {
		return nil, err
	}

	ranks := make(map[string]int, len(fields))
	for name, value := range fields {
		rank, err := strconv.Atoi(value)
		if err != nil {
			continue
		}

		ranks[name] = rank
	}

	return ranks, nil
}

func (r repo) SetRank(ctx context.Context, params *room.SetRankParams) error {
	return r.rc.HSet(ctx, r.getRanksKey(params.RoomName), params.Name, params.Rank).Err()
}
