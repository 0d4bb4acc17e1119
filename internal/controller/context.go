package controller

import (
	"context"

	"github.com/sharetube/syncroom/internal/service/room"
)

type contextKey int

const (
	roomCtxKey contextKey = iota
	memberIDCtxKey
)

func (c controller) getRoomFromCtx(ctx context.Context) *room.Room {
	r, ok := ctx.Value(roomCtxKey).(*room.Room)
	if !ok {
		return nil
	}

	return r
}

func (c controller) getMemberIDFromCtx(ctx context.Context) string {
	memberID, ok := ctx.Value(memberIDCtxKey).(string)
	if !ok {
		return ""
	}

	return memberID
}
