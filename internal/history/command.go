// Package history records scene mutations as snapshot commands and replays
// them for undo and redo.
package history

import (
	"github.com/google/uuid"

	"github.com/inamate/stage/internal/scene"
)

// CommandType names the user-level operation a command captured.
type CommandType string

const (
	ElementsUpdated        CommandType = "elementsUpdated"
	ElementsAdded          CommandType = "elementsAdded"
	ElementsRemoved        CommandType = "elementsRemoved"
	ElementsStartCreating  CommandType = "elementsStartCreating"
	ElementsCreating       CommandType = "elementsCreating"
	ElementsCreatorChanged CommandType = "elementsCreatorChanged"
	ElementsSelected       CommandType = "elementsSelected"
	GroupAdded             CommandType = "groupAdded"
	GroupRemoved           CommandType = "groupRemoved"
	ElementsRearranged     CommandType = "elementsRearranged"
	ElementsMoved          CommandType = "elementsMoved"
)

// Structural reports whether replaying the type changes membership or layer
// order, so stage flags and trees need a refresh afterwards.
func (t CommandType) Structural() bool {
	switch t {
	case ElementsUpdated, ElementsCreatorChanged, ElementsSelected:
		return false
	default:
		return true
	}
}

// Action tells the replayer how one data entry is applied.
type Action string

const (
	ActionAdded         Action = "added"
	ActionRemoved       Action = "removed"
	ActionUpdated       Action = "updated"
	ActionGroupUpdated  Action = "groupUpdated"
	ActionStartCreating Action = "startCreating"
	ActionCreating      Action = "creating"
	ActionMoved         Action = "moved"
)

// DataEntry is one element's side of a command.
type DataEntry struct {
	Action Action       `json:"type"`
	ID     string       `json:"id"`
	Model  scene.Patch  `json:"model"`
	Status scene.Status `json:"status"`
	Index  int          `json:"index"`
}

// DataList is an ordered before or after snapshot.
type DataList []DataEntry

// IDs returns the element ids of the list in order.
func (l DataList) IDs() []string {
	out := make([]string, len(l))
	for i, d := range l {
		out[i] = d.ID
	}
	return out
}

// Payload carries both sides of a command plus the type-specific fields.
type Payload struct {
	UndoDataList DataList `json:"uDataList,omitempty"`
	RedoDataList DataList `json:"rDataList,omitempty"`

	UndoOrder []string `json:"undoOrder,omitempty"`
	RedoOrder []string `json:"redoOrder,omitempty"`

	PrevTool string `json:"prevCreatorType,omitempty"`
	Tool     string `json:"creatorType,omitempty"`

	PrevSelectedIDs []string `json:"prevSelectedIds,omitempty"`
	SelectedIDs     []string `json:"selectedIds,omitempty"`
	PrevDetachedIDs []string `json:"prevDetachedIds,omitempty"`
	DetachedIDs     []string `json:"detachedIds,omitempty"`
}

// Command is an immutable undo step.
type Command struct {
	ID      string      `json:"id"`
	Type    CommandType `json:"type"`
	Payload Payload     `json:"payload"`
}

// NewCommand stamps a payload with a fresh command id.
func NewCommand(t CommandType, p Payload) Command {
	return Command{ID: uuid.NewString(), Type: t, Payload: p}
}
