package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

var errSendBufferFull = errors.New("send buffer full")

// errorFrame reports a failed inbound event back to the originating
// connection. Errors are never broadcast.
type errorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client wraps one live websocket connection. The read loop feeds inbound
// frames to the gateway; the write pump drains the buffered outbound channel
// and keeps the connection alive with pings.
type Client struct {
	ID     string
	UserID int64

	conn    *websocket.Conn
	gateway *Gateway
	// out carries both room events and error frames so the write pump is
	// the only goroutine touching the connection's writer.
	out  chan any
	done chan struct{}
	log  zerolog.Logger
}

func NewClient(conn *websocket.Conn, gateway *Gateway, connID string, userID int64, bufferSize int, log zerolog.Logger) *Client {
	return &Client{
		ID:      connID,
		UserID:  userID,
		conn:    conn,
		gateway: gateway,
		out:     make(chan any, bufferSize),
		done:    make(chan struct{}),
		log:     log.With().Str("conn_id", connID).Int64("user_id", userID).Logger(),
	}
}

// Send queues an event for delivery without blocking. A full buffer counts
// as a delivery failure for this connection; the broadcast goes on.
func (c *Client) Send(evt domain.RoomEvent) error {
	select {
	case <-c.done:
		return errors.New("connection closed")
	default:
	}

	select {
	case c.out <- evt:
		return nil
	default:
		return errSendBufferFull
	}
}

// Serve runs the write pump in the background and the read loop in the
// calling goroutine, returning when the connection is gone.
func (c *Client) Serve(ctx context.Context) {
	go c.writePump()
	c.readLoop(ctx)
}

func (c *Client) readLoop(ctx context.Context) {
	defer close(c.done)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read error")
			} else {
				c.log.Debug().Err(err).Msg("websocket closed")
			}
			return
		}

		if err := c.gateway.Dispatch(ctx, c.ID, frame); err != nil {
			c.log.Debug().Err(err).Msg("inbound event rejected")
			c.reportError(err)
		}
	}
}

// reportError queues a structured error frame for this connection only.
func (c *Client) reportError(err error) {
	frame := errorFrame{
		Type:    "error",
		Code:    string(domain.CodeOf(err)),
		Message: err.Error(),
	}
	var de *domain.Error
	if errors.As(err, &de) {
		frame.Message = de.Message
	}

	select {
	case c.out <- frame:
	default:
		c.log.Debug().Msg("send buffer full, dropping error frame")
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(evt); err != nil {
				c.log.Debug().Err(err).Msg("websocket write error")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug().Err(err).Msg("websocket ping error")
				return
			}
		case <-c.done:
			return
		}
	}
}
