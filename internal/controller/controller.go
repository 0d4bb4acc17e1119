package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sharetube/syncroom/internal/service/room"
	"github.com/sharetube/syncroom/pkg/validator"
	"github.com/sharetube/syncroom/pkg/wsrouter"
)

type iRoomService interface {
	GetRoom(ctx context.Context, name string) (*room.Room, error)
	ListRooms() []room.RoomInfo
}

type iConnRepo interface {
	Add(conn *websocket.Conn, memberID string) error
	RemoveByConn(conn *websocket.Conn) (string, error)
	Send(memberID string, msg any) error
}

type controller struct {
	roomService iRoomService
	connRepo    iConnRepo
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
	wsmux       *wsrouter.WSRouter
}

func NewController(roomService iRoomService, connRepo iConnRepo, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		connRepo:    connRepo,
		validate:    validator.NewValidator(),
		logger:      logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
