package collab

import (
	"encoding/json"

	"github.com/inamate/stage/internal/engine"
)

type Message struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Hover       string     `json:"hover,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Scene sync
	TypeDocSync    = "doc.sync"
	TypeDocRequest = "doc.request"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// WelcomePayload is the first message a client receives after joining.
type WelcomePayload struct {
	ClientID   string   `json:"clientId"`
	UserID     string   `json:"userId"`
	ServerSeq  int64    `json:"serverSeq"`
	Operations []string `json:"operations"`
}

// DocSyncPayload carries the full scene and editor state at a server sequence.
type DocSyncPayload struct {
	ServerSeq int64           `json:"serverSeq"`
	Document  json.RawMessage `json:"document"`
	State     json.RawMessage `json:"state"`
}

type OpSubmitPayload struct {
	ClientSeq int64            `json:"clientSeq"`
	Operation engine.Operation `json:"operation"`
}

type OpAckPayload struct {
	ClientSeq int64         `json:"clientSeq"`
	ServerSeq int64         `json:"serverSeq"`
	OpID      string        `json:"opId"`
	Result    engine.Result `json:"result"`
}

type OpNackPayload struct {
	ClientSeq int64  `json:"clientSeq"`
	Reason    string `json:"reason"`
}

// OpBroadcastPayload tells the other clients of a room that the scene changed.
// Draw is the compiled draw list after the operation.
type OpBroadcastPayload struct {
	ServerSeq int64            `json:"serverSeq"`
	OpID      string           `json:"opId"`
	Operation engine.Operation `json:"operation"`
	Result    engine.Result    `json:"result"`
	Draw      json.RawMessage  `json:"draw"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
