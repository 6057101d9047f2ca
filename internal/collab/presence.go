package collab

import (
	"encoding/json"
	"log/slog"
	"maps"
	"sync"
)

// presenceBoard holds the last cursor and hovered element reported by each
// client of a room.
type presenceBoard struct {
	mu      sync.RWMutex
	entries map[string]PresencePayload // clientID -> presence
}

func newPresenceBoard() *presenceBoard {
	return &presenceBoard{entries: make(map[string]PresencePayload)}
}

func (b *presenceBoard) set(clientID string, p PresencePayload) {
	b.mu.Lock()
	b.entries[clientID] = p
	b.mu.Unlock()
}

func (b *presenceBoard) drop(clientID string) {
	b.mu.Lock()
	delete(b.entries, clientID)
	b.mu.Unlock()
}

func (b *presenceBoard) all() map[string]PresencePayload {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.entries)
}

// clearStaleHovers forgets hover targets that no longer exist in the scene
// and returns the presences it changed, keyed by client.
func (b *presenceBoard) clearStaleHovers(exists func(id string) bool) map[string]PresencePayload {
	b.mu.Lock()
	defer b.mu.Unlock()

	changed := make(map[string]PresencePayload)
	for clientID, p := range b.entries {
		if p.Hover == "" || exists(p.Hover) {
			continue
		}
		p.Hover = ""
		b.entries[clientID] = p
		changed[clientID] = p
	}
	return changed
}

func (b *presenceBoard) stateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: b.all()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{Type: TypePresenceState, Payload: payload}
}
