package collab

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/inamate/stage/internal/document"
	"github.com/inamate/stage/internal/engine"
	"github.com/inamate/stage/internal/typeid"
)

// Loader returns the stored scene of a room, or a fresh one.
type Loader func(roomID string) (*document.Document, error)

// Saver persists the scene of a room.
type Saver func(roomID string, doc *document.Document) error

// Session holds the authoritative editor session of a room. Operations from
// every client are applied to one engine in arrival order.
type Session struct {
	mu        sync.Mutex
	eng       *engine.Engine
	serverSeq int64
	dirty     bool
}

// Applied describes one operation accepted by a session.
type Applied struct {
	ServerSeq int64
	OpID      string
	Result    engine.Result
	Draw      json.RawMessage
}

func NewSession(eng *engine.Engine) *Session {
	return &Session{eng: eng}
}

// Apply runs op against the engine and drains its deferred work. publish is
// called with the session still locked, so callers observe changes in
// sequence order. Operations that change nothing do not advance the sequence.
func (s *Session) Apply(op engine.Operation, publish func(Applied)) (Applied, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.eng.Apply(op)
	if err != nil {
		return Applied{ServerSeq: s.serverSeq}, err
	}
	draw := s.eng.Tick()

	out := Applied{ServerSeq: s.serverSeq, Result: res}
	if !res.Changed {
		return out, nil
	}
	s.serverSeq++
	s.dirty = true
	out.ServerSeq = s.serverSeq
	out.OpID = typeid.NewOpID()
	out.Draw = json.RawMessage(draw)
	if publish != nil {
		publish(out)
	}
	return out, nil
}

// Snapshot returns the scene and editor state at the current sequence.
func (s *Session) Snapshot() (DocSyncPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.eng.Document().Marshal()
	if err != nil {
		return DocSyncPayload{}, fmt.Errorf("marshal scene: %w", err)
	}
	return DocSyncPayload{
		ServerSeq: s.serverSeq,
		Document:  data,
		State:     json.RawMessage(s.eng.GetState()),
	}, nil
}

// Contains reports whether the scene holds an element with the given id.
func (s *Session) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Store().Has(id)
}

func (s *Session) ServerSeq() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverSeq
}

// TakeDirty returns the scene if it changed since the last call.
func (s *Session) TakeDirty() (*document.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil, false
	}
	s.dirty = false
	return s.eng.Document(), true
}
