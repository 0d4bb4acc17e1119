package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrInvalidPayload     = errors.New("invalid payload")
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc[T any] func(ctx context.Context, conn *websocket.Conn, payload T) error

type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

// ErrorHandler is called with every error returned by a handler or produced while decoding.
type ErrorHandler func(ctx context.Context, conn *websocket.Conn, err error)

type WSRouter struct {
	routes      map[string]HandlerFunc[json.RawMessage]
	middlewares []Middleware
	onError     ErrorHandler
}

func New() *WSRouter {
	return &WSRouter{
		routes:  make(map[string]HandlerFunc[json.RawMessage]),
		onError: func(context.Context, *websocket.Conn, error) {},
	}
}

// Use appends middlewares. Only routes registered after the call are wrapped.
func (r *WSRouter) Use(mws ...Middleware) {
	r.middlewares = append(r.middlewares, mws...)
}

func (r *WSRouter) OnError(h ErrorHandler) {
	r.onError = h
}

// Handle registers a typed handler for messageType. The payload is decoded into T before
// the middleware chain runs.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	var chain HandlerFunc[any] = func(ctx context.Context, conn *websocket.Conn, payload any) error {
		return handler(ctx, conn, payload.(T))
	}
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		chain = r.middlewares[i](chain)
	}

	r.routes[messageType] = func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
		var payload T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
			}
		}

		return chain(ctx, conn, payload)
	}
}

// ServeConn reads messages until the connection fails and dispatches them by type.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		handler, exists := r.routes[msg.Type]
		if !exists {
			r.onError(msgCtx, conn, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type))
			continue
		}

		if err := handler(msgCtx, conn, msg.Payload); err != nil {
			r.onError(msgCtx, conn, err)
		}
	}
}
