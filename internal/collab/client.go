package collab

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256
)

// Client is one websocket connection joined to a room.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	limiter     *rate.Limiter
	UserID      string
	DisplayName string
	RoomID      string
	ClientID    string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, roomID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		limiter:     rate.NewLimiter(rate.Limit(hub.cfg.OpsPerSecond), hub.cfg.OpsBurst),
		UserID:      userID,
		DisplayName: displayName,
		RoomID:      roomID,
		ClientID:    uuid.NewString(),
	}
}

// ReadPump decodes frames from the socket and hands them to the hub until
// the connection closes.
func (c *Client) ReadPump(ctx context.Context) {
	defer c.hub.Unregister(c)
	defer c.conn.Close(websocket.StatusNormalClosure, "")

	c.conn.SetReadLimit(maxMsgSize)
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if !closedByPeer(err) {
				c.hub.log.Debug("read error", "error", err, "client", c.ClientID)
			}
			return
		}
		msg, err := c.decode(data)
		if err != nil {
			c.hub.log.Warn("invalid message", "error", err, "client", c.ClientID)
			c.sendError("invalid message")
			continue
		}
		c.hub.handleMessage(c, msg)
	}
}

// decode parses a frame and stamps it with the identity of this connection.
func (c *Client) decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	msg.UserID, msg.ClientID, msg.RoomID = c.UserID, c.ClientID, c.RoomID
	return &msg, nil
}

func closedByPeer(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}

// WritePump drains the send queue onto the socket and keeps it alive with
// pings. It returns when the queue is closed or a write fails.
func (c *Client) WritePump(ctx context.Context) {
	keepalive := time.NewTicker(pingPeriod)
	defer keepalive.Stop()
	defer c.conn.Close(websocket.StatusNormalClosure, "")

	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case frame, open := <-c.send:
			if !open {
				return
			}
			err = c.withDeadline(ctx, func(wctx context.Context) error {
				return c.conn.Write(wctx, websocket.MessageText, frame)
			})
		case <-keepalive.C:
			err = c.withDeadline(ctx, c.conn.Ping)
		}
		if err != nil {
			c.hub.log.Debug("write error", "error", err, "client", c.ClientID)
			return
		}
	}
}

func (c *Client) withDeadline(ctx context.Context, fn func(context.Context) error) error {
	wctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return fn(wctx)
}

// Send queues msg without blocking. A slow client loses messages and is
// expected to recover with a doc.request.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.log.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
		messagesSent.WithLabelValues(msg.Type).Inc()
	default:
		messagesDropped.Inc()
		c.hub.log.Warn("send queue full, message dropped", "type", msg.Type, "client", c.ClientID)
	}
}

func (c *Client) sendPayload(msgType string, seq int64, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.hub.log.Error("marshal payload", "type", msgType, "error", err)
		return
	}
	c.Send(&Message{Type: msgType, RoomID: c.RoomID, Seq: seq, Payload: data})
}

func (c *Client) sendError(message string) {
	c.sendPayload(TypeError, 0, ErrorPayload{Message: message})
}
