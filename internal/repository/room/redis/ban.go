package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sharetube/syncroom/internal/repository/room"
)

func (r repo) getBansKey(roomName string) string {
	return "room:" + roomName + ":bans"
}

func (r repo) getBanKey(roomName, ip string) string {
	return "room:" + roomName + ":ban:" + ip
}

func (r repo) LoadBans(ctx context.Context, roomName string) ([]room.BanRecord, error) {
	ips, err := r.rc.SMembers(ctx, r.getBansKey(roomName)).Result()
	if err != nil {
		return nil, err
	}

	if len(ips) == 0 {
		return nil, nil
	}

	pipe := r.rc.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, 0, len(ips))
	for _, ip := range ips {
		cmds = append(cmds, pipe.HGetAll(ctx, r.getBanKey(roomName, ip)))
	}

	if err := r.executePipe(ctx, pipe); err != nil {
		return nil, err
	}

	bans := make([]room.BanRecord, 0, len(cmds))
	for _, cmd := range cmds {
		var ban room.BanRecord
		if err := cmd.Scan(&ban); err != nil {
			return nil, err
		}

		if ban.IP == "" {
			continue
		}

		bans = append(bans, ban)
	}

	return bans, nil
}

func (r repo) SetBan(ctx context.Context, params *room.SetBanParams) error {
	pipe := r.rc.TxPipeline()

	pipe.HSet(ctx, r.getBanKey(params.RoomName, params.Ban.IP), params.Ban)
	pipe.SAdd(ctx, r.getBansKey(params.RoomName), params.Ban.IP)

	return r.executePipe(ctx, pipe)
}

func (r repo) RemoveBan(ctx context.Context, params *room.RemoveBanParams) error {
	pipe := r.rc.TxPipeline()

	pipe.Del(ctx, r.getBanKey(params.RoomName, params.IP))
	pipe.SRem(ctx, r.getBansKey(params.RoomName), params.IP)

	return r.executePipe(ctx, pipe)
}
