package inmemory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/syncroom/internal/repository/connection"
)

const (
	sendQueueSize = 32
	writeWait     = 10 * time.Second
)

type client struct {
	conn      *websocket.Conn
	memberID  string
	send      chan any
	done      chan struct{}
	closeOnce sync.Once
	reason    string
}

type repo struct {
	connList map[*websocket.Conn]*client
	idList   map[string]*client
	mu       sync.RWMutex
	logger   *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		connList: make(map[*websocket.Conn]*client),
		idList:   make(map[string]*client),
		logger:   logger,
	}
}

// Add registers conn under memberID and starts its write pump.
func (r *repo) Add(conn *websocket.Conn, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != nil || r.idList[memberID] != nil {
		return connection.ErrAlreadyExists
	}

	c := &client{
		conn:     conn,
		memberID: memberID,
		send:     make(chan any, sendQueueSize),
		done:     make(chan struct{}),
	}
	r.connList[conn] = c
	r.idList[memberID] = c

	go r.writePump(c)

	return nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) (string, error) {
	r.mu.Lock()
	c, ok := r.connList[conn]
	if ok {
		r.remove(c)
	}
	r.mu.Unlock()

	if !ok {
		return "", connection.ErrNotFound
	}

	c.close("")
	return c.memberID, nil
}

func (r *repo) RemoveByMemberID(memberID string) error {
	r.mu.Lock()
	c, ok := r.idList[memberID]
	if ok {
		r.remove(c)
	}
	r.mu.Unlock()

	if !ok {
		return connection.ErrNotFound
	}

	c.close("")
	return nil
}

func (r *repo) GetMemberID(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return c.memberID, nil
}

func (r *repo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.idList)
}

// Send queues msg for memberID without blocking. A full queue drops the message.
func (r *repo) Send(memberID string, msg any) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.idList[memberID]
	if !ok {
		return connection.ErrNotFound
	}

	select {
	case <-c.done:
		return connection.ErrNotFound
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		r.logger.Warn("dropping message, send queue full", "member_id", memberID)
		return connection.ErrQueueFull
	}
}

// Disconnect closes the connection with reason as the close frame text. Queued messages are dropped.
// The read loop of the connection then fails and the member leaves through the normal path.
func (r *repo) Disconnect(memberID string, reason string) {
	r.mu.RLock()
	c, ok := r.idList[memberID]
	r.mu.RUnlock()

	if ok {
		c.close(reason)
	}
}

func (r *repo) remove(c *client) {
	delete(r.connList, c.conn)
	delete(r.idList, c.memberID)
}

func (c *client) close(reason string) {
	c.closeOnce.Do(func() {
		c.reason = reason
		close(c.done)
	})
}

func (r *repo) writePump(c *client) {
	defer c.conn.Close()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				r.logger.InfoContext(context.Background(), "failed to write message", "member_id", c.memberID, "error", err)
				c.close("")
				return
			}
		case <-c.done:
			code := websocket.CloseNormalClosure
			if c.reason != "" {
				code = websocket.ClosePolicyViolation
			}
			c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(code, c.reason),
				time.Now().Add(writeWait),
			)
			return
		}
	}
}
