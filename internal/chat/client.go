package chat

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8 * 1024

	sendBufferSize = 32
)

// Client events.
const (
	eventJoinRoom    = "joinRoom"
	eventSendMessage = "sendMessage"
	eventMessage     = "message"
)

// envelope is the wire frame both directions: an event name plus its
// payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// sendMessagePayload is the client→server body of a sendMessage event.
// Timestamp is epoch milliseconds as produced by the browser.
type sendMessagePayload struct {
	Text         string `json:"text"`
	SenderShow   string `json:"senderShow"`
	DiscussionID string `json:"discussionId"`
	Timestamp    int64  `json:"timestamp"`
}

// Client is one websocket connection owned by an authenticated user. The
// read pump turns inbound events into hub requests; the write pump drains
// the send channel onto the wire.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	user   models.User
	logger *logger.Logger

	send chan []byte

	// closed is owned by the hub goroutine.
	closed bool
}

// NewClient wraps an upgraded connection for the given user and registers
// it with the hub. The caller must start both pumps.
func NewClient(hub *Hub, conn *websocket.Conn, user models.User, logger *logger.Logger) *Client {
	client := &Client{
		hub:    hub,
		conn:   conn,
		user:   user,
		logger: logger,
		send:   make(chan []byte, sendBufferSize),
	}
	select {
	case hub.register <- client:
	case <-hub.done:
		// the hub is gone; a closed send channel makes the write pump
		// hang up immediately
		client.closed = true
		close(client.send)
	}

	return client
}

// Serve starts the write pump in a goroutine and runs the read pump on the
// calling goroutine until the connection drops.
func (c *Client) Serve(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

// readPump consumes inbound frames until the connection errors or closes,
// then unregisters the client from the hub.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug().Err(err).Str("user", c.user.UserID).Msg("websocket read ended")
			}
			return
		}

		var frame envelope
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.logger.Debug().Err(err).Str("user", c.user.UserID).Msg("malformed chat frame dropped")
			continue
		}

		switch frame.Event {
		case eventJoinRoom:
			var room string
			if err := json.Unmarshal(frame.Data, &room); err != nil || room == "" {
				continue
			}
			select {
			case c.hub.join <- joinRequest{client: c, room: room}:
			case <-c.hub.done:
				return
			}

		case eventSendMessage:
			c.handleSendMessage(ctx, frame.Data)

		default:
			c.logger.Debug().Str("event", frame.Event).Msg("unknown chat event dropped")
		}
	}
}

// handleSendMessage persists an inbound message and broadcasts the saved
// record to the discussion's room. A duplicate natural-key tuple is dropped
// silently: the first write already reached the room.
func (c *Client) handleSendMessage(ctx context.Context, data json.RawMessage) {
	var payload sendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.logger.Debug().Err(err).Str("user", c.user.UserID).Msg("malformed sendMessage payload dropped")
		return
	}

	senderShow := payload.SenderShow
	if senderShow == "" {
		senderShow = c.user.Name
	}

	// the sender is always the authenticated connection owner
	message := models.Message{
		Text:         payload.Text,
		Sender:       c.user.UserID,
		SenderShow:   senderShow,
		DiscussionID: payload.DiscussionID,
		Timestamp:    time.UnixMilli(payload.Timestamp),
	}

	saved, err := c.hub.messages.CreateMessage(ctx, message)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateMessage) {
			return
		}
		c.logger.Err(err).Str("user", c.user.UserID).Msg("persisting chat message failed")
		return
	}

	c.hub.Broadcast(saved.DiscussionID, saved)
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings. It exits when the hub closes the send channel.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
