// Package chat implements the real-time message relay: a single hub
// goroutine owns explicit room membership and fans persisted messages out to
// every websocket client joined to the message's discussion room.
package chat

import (
	"context"
	"encoding/json"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/models"
)

// MessageStore is the persistence surface the relay needs: the service-layer
// duplicate gate in front of the messages table.
type MessageStore interface {
	CreateMessage(ctx context.Context, message models.Message) (models.Message, error)
}

type joinRequest struct {
	client *Client
	room   string
}

type outbound struct {
	room    string
	payload []byte
}

// Hub routes messages between clients. All room bookkeeping happens on the
// single Run goroutine, so the rooms map needs no lock; clients talk to the
// hub exclusively through its channels.
type Hub struct {
	messages MessageStore
	logger   *logger.Logger

	// clients holds every registered connection, joined to a room or not,
	// so shutdown can terminate all of their write pumps.
	clients map[*Client]struct{}

	// rooms maps a discussion's room id to the clients currently joined.
	rooms map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	broadcast  chan outbound

	// done is closed when Run returns so Broadcast never blocks on a hub
	// that no longer drains its channel.
	done chan struct{}
}

// NewHub constructs a Hub over the given message store. Call Run to start
// routing.
func NewHub(messages MessageStore, logger *logger.Logger) *Hub {
	return &Hub{
		messages:   messages,
		logger:     logger,
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		broadcast:  make(chan outbound, 64),
		done:       make(chan struct{}),
	}
}

// Run processes registrations, room joins, disconnects, and broadcasts until
// ctx is cancelled. Broadcast order within a room equals the order messages
// arrive on the broadcast channel, which the send path ties to persistence
// order.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info().Msg("chat hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Msg("chat hub stopping")
			for client := range h.clients {
				if !client.closed {
					client.closed = true
					close(client.send)
				}
			}
			h.clients = make(map[*Client]struct{})
			h.rooms = make(map[string]map[*Client]struct{})
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Debug().Str("user", client.user.UserID).Msg("chat client connected")

		case client := <-h.unregister:
			h.dropClient(client)

		case req := <-h.join:
			members, ok := h.rooms[req.room]
			if !ok {
				members = make(map[*Client]struct{})
				h.rooms[req.room] = members
			}
			members[req.client] = struct{}{}
			h.logger.Debug().Str("room", req.room).Str("user", req.client.user.UserID).Msg("client joined room")

		case out := <-h.broadcast:
			for client := range h.rooms[out.room] {
				select {
				case client.send <- out.payload:
				default:
					// a client that cannot keep up is dropped rather than
					// allowed to stall the room
					h.dropClient(client)
				}
			}
		}
	}
}

// Broadcast queues a message event for every client in the given room,
// including the sender.
func (h *Hub) Broadcast(room string, message models.Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Err(err).Str("room", room).Msg("marshalling broadcast message failed")
		return
	}
	frame, err := json.Marshal(envelope{Event: eventMessage, Data: data})
	if err != nil {
		h.logger.Err(err).Str("room", room).Msg("marshalling broadcast frame failed")
		return
	}

	select {
	case h.broadcast <- outbound{room: room, payload: frame}:
	case <-h.done:
	}
}

// dropClient removes a client from the registry and every room and closes
// its send channel, terminating its write pump.
func (h *Hub) dropClient(client *Client) {
	delete(h.clients, client)

	dropped := false
	for room, members := range h.rooms {
		if _, ok := members[client]; !ok {
			continue
		}
		delete(members, client)
		dropped = true
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}

	if !client.closed {
		client.closed = true
		close(client.send)
	}
	if dropped {
		h.logger.Debug().Str("user", client.user.UserID).Msg("chat client dropped")
	}
}
