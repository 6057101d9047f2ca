package collab

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inamate/stage/internal/config"
	"github.com/inamate/stage/internal/document"
	"github.com/inamate/stage/internal/engine"
)

type Room struct {
	roomID   string
	clients  map[string]*Client // clientID -> client
	presence *presenceBoard
	session  *Session
}

func NewRoom(roomID string, session *Session) *Room {
	return &Room{
		roomID:   roomID,
		clients:  make(map[string]*Client),
		presence: newPresenceBoard(),
		session:  session,
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // roomID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	cfg  config.Editor
	load Loader
	save Saver
	log  *slog.Logger
}

func NewHub(cfg config.Editor, load Loader, save Saver, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		cfg:        cfg,
		load:       load,
		save:       save,
		log:        log,
	}
}

// Run serves registrations until ctx is cancelled, then saves every room.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.saveAll()
			return nil
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Snapshot returns the scene of a room, loading it if no client has it open.
func (h *Hub) Snapshot(roomID string) (DocSyncPayload, error) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if ok {
		return room.session.Snapshot()
	}
	session, err := h.openSession(roomID)
	if err != nil {
		return DocSyncPayload{}, err
	}
	return session.Snapshot()
}

func (h *Hub) openSession(roomID string) (*Session, error) {
	doc := document.New()
	if h.load != nil {
		loaded, err := h.load(roomID)
		if err != nil {
			return nil, fmt.Errorf("load room %s: %w", roomID, err)
		}
		doc = loaded
	}
	eng := engine.NewEngine(
		engine.WithConfig(h.cfg),
		engine.WithLogger(h.log.With("room", roomID)),
	)
	if err := eng.LoadDocument(doc); err != nil {
		return nil, fmt.Errorf("open room %s: %w", roomID, err)
	}
	return NewSession(eng), nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.RoomID]
	if !ok {
		session, err := h.openSession(client.RoomID)
		if err != nil {
			h.mu.Unlock()
			h.log.Error("open room", "error", err)
			client.sendError("room unavailable")
			close(client.send)
			return
		}
		room = NewRoom(client.RoomID, session)
		h.rooms[client.RoomID] = room
		roomsOpen.Inc()
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()
	clientsConnected.Inc()

	client.sendPayload(TypeWelcome, 0, WelcomePayload{
		ClientID:   client.ClientID,
		UserID:     client.UserID,
		ServerSeq:  room.session.ServerSeq(),
		Operations: engine.Operations(),
	})
	h.sendDocSync(client, room)

	// Send current presence state to new client
	stateMsg := room.presence.stateMessage()
	if stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:     TypePresenceJoin,
		UserID:   client.UserID,
		ClientID: client.ClientID,
		Payload:  joinPayload,
	}
	h.broadcastToRoom(client.RoomID, joinMsg, client.ClientID)

	h.log.Info("client joined", "user", client.UserID, "room", client.RoomID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.RoomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.drop(client.ClientID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.RoomID)
		roomsOpen.Dec()
	}
	h.mu.Unlock()
	clientsConnected.Dec()

	if empty {
		h.saveRoom(room)
	}

	// Broadcast leave to remaining clients
	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		UserID: client.UserID,
	})
	leaveMsg := &Message{
		Type:     TypePresenceLeave,
		UserID:   client.UserID,
		ClientID: client.ClientID,
		Payload:  leavePayload,
	}
	h.broadcastToRoom(client.RoomID, leaveMsg, "")

	h.log.Info("client left", "user", client.UserID, "room", client.RoomID)
}

func (h *Hub) saveRoom(room *Room) {
	if h.save == nil {
		return
	}
	doc, dirty := room.session.TakeDirty()
	if !dirty {
		return
	}
	if err := h.save(room.roomID, doc); err != nil {
		h.log.Error("save room", "room", room.roomID, "error", err)
		return
	}
	h.log.Info("room saved", "room", room.roomID, "elements", len(doc.Elements))
}

func (h *Hub) saveAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.saveRoom(r)
	}
}

// IsOpen reports whether any client is connected to the room.
func (h *Hub) IsOpen(roomID string) bool {
	_, ok := h.room(roomID)
	return ok
}

func (h *Hub) room(roomID string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[roomID]
	return room, ok
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	case TypeDocRequest:
		if room, ok := h.room(sender.RoomID); ok {
			h.sendDocSync(sender, room)
		}
	default:
		h.log.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.sendError("unknown message type: " + msg.Type)
	}
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var submit OpSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		opsSubmitted.WithLabelValues("invalid").Inc()
		sender.sendPayload(TypeOpNack, 0, OpNackPayload{Reason: "invalid operation payload"})
		return
	}
	if !sender.limiter.Allow() {
		opsSubmitted.WithLabelValues("limited").Inc()
		sender.sendPayload(TypeOpNack, 0, OpNackPayload{ClientSeq: submit.ClientSeq, Reason: "rate limited"})
		return
	}

	room, ok := h.room(sender.RoomID)
	if !ok {
		return
	}

	applied, err := room.session.Apply(submit.Operation, func(a Applied) {
		payload, _ := json.Marshal(OpBroadcastPayload{
			ServerSeq: a.ServerSeq,
			OpID:      a.OpID,
			Operation: submit.Operation,
			Result:    a.Result,
			Draw:      a.Draw,
		})
		h.broadcastToRoom(sender.RoomID, &Message{
			Type:     TypeOpBroadcast,
			UserID:   sender.UserID,
			ClientID: sender.ClientID,
			Seq:      a.ServerSeq,
			Payload:  payload,
		}, sender.ClientID)
	})
	if err != nil {
		opsSubmitted.WithLabelValues("rejected").Inc()
		h.log.Debug("operation rejected", "op", submit.Operation.Type, "error", err, "client", sender.ClientID)
		sender.sendPayload(TypeOpNack, applied.ServerSeq, OpNackPayload{ClientSeq: submit.ClientSeq, Reason: err.Error()})
		return
	}

	opsSubmitted.WithLabelValues("applied").Inc()
	sender.sendPayload(TypeOpAck, applied.ServerSeq, OpAckPayload{
		ClientSeq: submit.ClientSeq,
		ServerSeq: applied.ServerSeq,
		OpID:      applied.OpID,
		Result:    applied.Result,
	})
	if applied.Result.Changed {
		h.clearStaleHovers(room)
	}
}

// clearStaleHovers tells the room about hover targets removed by the last
// operation.
func (h *Hub) clearStaleHovers(room *Room) {
	for clientID, p := range room.presence.clearStaleHovers(room.session.Contains) {
		payload, _ := json.Marshal(p)
		h.broadcastToRoom(room.roomID, &Message{
			Type:     TypePresenceUpdate,
			ClientID: clientID,
			Payload:  payload,
		}, "")
	}
}

func (h *Hub) sendDocSync(client *Client, room *Room) {
	snap, err := room.session.Snapshot()
	if err != nil {
		h.log.Error("snapshot room", "room", room.roomID, "error", err)
		client.sendError("scene unavailable")
		return
	}
	client.sendPayload(TypeDocSync, snap.ServerSeq, snap)
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		h.log.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	room, ok := h.room(sender.RoomID)
	if !ok {
		return
	}

	room.presence.set(sender.ClientID, presence)

	// Broadcast to other clients in room
	outPayload, _ := json.Marshal(presence)
	outMsg := &Message{
		Type:     TypePresenceUpdate,
		UserID:   sender.UserID,
		ClientID: sender.ClientID,
		Payload:  outPayload,
	}
	h.broadcastToRoom(sender.RoomID, outMsg, sender.ClientID)
}

func (h *Hub) broadcastToRoom(roomID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}

	// Send never blocks. Sending under the read lock keeps removeClient from
	// closing a channel mid-send.
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}
