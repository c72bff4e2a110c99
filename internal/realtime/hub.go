package realtime

import (
	"encoding/json/v2"
	"log/slog"
	"sync"
)

// RoomName builds the broadcast room key for a book.
func RoomName(bookID string) string {
	return "book:" + bookID
}

// Hub tracks connected clients and their room membership. A client sits in
// at most one room; joining another room leaves the previous one first.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a connected client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		"client_id", c.ID, "user_id", c.User.ID, "total_clients", total)
}

// Unregister removes a client from the hub and its room, announcing the
// departure to the room. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	room := c.room
	h.removeFromRoomLocked(c, room)
	total := len(h.clients)
	h.mu.Unlock()

	if room != "" {
		h.Broadcast(room, MsgUserLeft, RoomPresence{
			UserID:    c.User.ID,
			Username:  c.User.Username,
			Timestamp: nowMillis(),
		}, c)
	}

	c.closeSend()
	h.logger.Info("client disconnected",
		"client_id", c.ID, "user_id", c.User.ID, "total_clients", total)
}

// Join places the client in a book room. If the client is already in a
// different room it leaves that room first, with the usual departure
// announcement. Rejoining the current room is a no-op.
func (h *Hub) Join(c *Client, bookID string) {
	room := RoomName(bookID)

	h.mu.Lock()
	if c.room == room {
		h.mu.Unlock()
		return
	}
	previous := c.room
	h.removeFromRoomLocked(c, previous)

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.room = room
	h.mu.Unlock()

	presence := RoomPresence{
		UserID:    c.User.ID,
		Username:  c.User.Username,
		Timestamp: nowMillis(),
	}
	if previous != "" {
		h.Broadcast(previous, MsgUserLeft, presence, c)
	}
	h.Broadcast(room, MsgUserJoined, presence, c)

	h.logger.Debug("client joined room",
		"client_id", c.ID, "user_id", c.User.ID, "room", room)
}

// Leave removes the client from a book room and announces it. Leaving a
// room the client is not in is a no-op.
func (h *Hub) Leave(c *Client, bookID string) {
	room := RoomName(bookID)

	h.mu.Lock()
	if c.room != room {
		h.mu.Unlock()
		return
	}
	h.removeFromRoomLocked(c, room)
	h.mu.Unlock()

	h.Broadcast(room, MsgUserLeft, RoomPresence{
		UserID:    c.User.ID,
		Username:  c.User.Username,
		Timestamp: nowMillis(),
	}, c)

	h.logger.Debug("client left room",
		"client_id", c.ID, "user_id", c.User.ID, "room", room)
}

// Broadcast sends a message to every client in a room except exclude
// (which may be nil). Slow clients have the message dropped rather than
// stalling the room.
func (h *Hub) Broadcast(room, msgType string, payload any, exclude *Client) {
	frame, err := marshalEnvelope(msgType, payload)
	if err != nil {
		h.logger.Error("marshal broadcast", "type", msgType, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for member := range h.rooms[room] {
		if member == exclude {
			continue
		}
		if !member.trySend(frame) {
			h.logger.Warn("dropped message for slow client",
				"client_id", member.ID, "type", msgType, "room", room)
		}
	}
}

// Send delivers a message to a single client, dropping it if the client's
// buffer is full.
func (h *Hub) Send(c *Client, msgType string, payload any) {
	frame, err := marshalEnvelope(msgType, payload)
	if err != nil {
		h.logger.Error("marshal message", "type", msgType, "error", err)
		return
	}
	if !c.trySend(frame) {
		h.logger.Warn("dropped message for slow client",
			"client_id", c.ID, "type", msgType)
	}
}

// SendError reports a handler failure to one client.
func (h *Hub) SendError(c *Client, message, code string) {
	h.Send(c, MsgError, ErrorMessage{Message: message, Code: code})
}

// Room returns the client's current room name, or empty.
func (h *Hub) Room(c *Client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.room
}

// RoomSize returns the number of clients in a book room.
func (h *Hub) RoomSize(bookID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[RoomName(bookID)])
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client, for shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		c.room = ""
		clients = append(clients, c)
	}
	h.clients = make(map[*Client]struct{})
	h.rooms = make(map[string]map[*Client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.closeSend()
	}
	h.logger.Info("all clients disconnected", "count", len(clients))
}

// removeFromRoomLocked drops the client from the named room and prunes the
// room when empty. Caller holds h.mu.
func (h *Hub) removeFromRoomLocked(c *Client, room string) {
	if room == "" {
		return
	}
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if c.room == room {
		c.room = ""
	}
}

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Data: data})
}
