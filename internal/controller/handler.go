package controller

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sharetube/syncroom/internal/service/room"
	"github.com/sharetube/syncroom/pkg/ctxlogger"
	"github.com/sharetube/syncroom/pkg/rest"
)

var (
	ErrValidationError = errors.New("validation error")
	ErrInvalidUsername = errors.New("username may only contain letters, digits, underscores and dashes")
)

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// joinRoom upgrades the request and serves the member until the connection closes.
// An empty username joins anonymously.
func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	roomName := chi.URLParam(r, "room-name")
	if !roomNameRe.MatchString(roomName) {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
		return
	}

	username := r.URL.Query().Get("username")
	if username != "" && !usernameRe.MatchString(username) {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": ErrInvalidUsername.Error()})
		return
	}

	rm, err := c.roomService.GetRoom(r.Context(), roomName)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to get room", "room", roomName, "error", err)
		rest.WriteJSON(w, http.StatusServiceUnavailable, rest.Envelope{"error": err.Error()})
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	memberID := uuid.NewString()
	if err := c.connRepo.Add(conn, memberID); err != nil {
		c.logger.WarnContext(r.Context(), "failed to add connection", "error", err)
		conn.Close()
		return
	}
	defer c.connRepo.RemoveByConn(conn)

	ctx := context.WithValue(r.Context(), roomCtxKey, rm)
	ctx = context.WithValue(ctx, memberIDCtxKey, memberID)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("room", roomName))
	ctx = ctxlogger.AppendCtx(ctx, slog.String("member_id", memberID))

	if err := rm.Join(ctx, &room.JoinParams{
		MemberID: memberID,
		Name:     username,
		IP:       clientIP(r),
	}); err != nil {
		c.logger.InfoContext(ctx, "failed to join room", "error", err)
		return
	}
	defer c.leave(ctx, rm, memberID)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "connection closed", "error", err)
	}
}

func (c controller) leave(ctx context.Context, rm *room.Room, memberID string) {
	if err := rm.Leave(context.WithoutCancel(ctx), memberID); err != nil {
		c.logger.InfoContext(ctx, "failed to leave room", "error", err)
	}
}
