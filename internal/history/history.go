package history

import (
	"log/slog"

	"github.com/inamate/stage/internal/scene"
)

// Outcome describes a completed undo or redo step.
type Outcome struct {
	Command Command
	// Type is the effective type after adjacency folding.
	Type CommandType
	Rule Rule
	// Neighbor is the adjacent command the rule looked at, when one existed.
	Neighbor *Command
}

// History ties a stack, a replayer and an adjacency table to one store.
type History struct {
	stack  *Stack
	replay *Replayer
	table  Table
	store  *scene.Store
	log    *slog.Logger

	// tailCreatorID is the speculative tool switch a following add may drop.
	tailCreatorID string
}

// Option configures a History.
type Option func(*History)

// WithLimit bounds the done list.
func WithLimit(limit int) Option {
	return func(h *History) {
		h.stack = NewStack(limit)
	}
}

// WithTable replaces the adjacency table.
func WithTable(t Table) Option {
	return func(h *History) {
		h.table = t
	}
}

// WithLogger sets the logger used for replay warnings.
func WithLogger(log *slog.Logger) Option {
	return func(h *History) {
		h.log = log
	}
}

// New creates a history over store.
func New(store *scene.Store, opts ...Option) *History {
	h := &History{
		stack: NewStack(DefaultLimit),
		table: DefaultTable(),
		store: store,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.replay = NewReplayer(store, h.log)
	return h
}

func (h *History) Stack() *Stack       { return h.stack }
func (h *History) Replayer() *Replayer { return h.replay }
func (h *History) Table() Table        { return h.table }
func (h *History) CanUndo() bool       { return h.stack.CanUndo() }
func (h *History) CanRedo() bool       { return h.stack.CanRedo() }

// Push records c. A speculative tool switch at the tail is dropped first when
// the table says so.
func (h *History) Push(c Command) {
	if tail, ok := h.stack.TailUndo(); ok && tail.ID == h.tailCreatorID {
		if h.table.Lookup(DirPush, c.Type, tail.Type) == RuleDropNeighbor {
			h.stack.Pop()
			h.log.Debug("dropped speculative command", "id", tail.ID, "type", tail.Type)
		}
	}
	h.tailCreatorID = ""
	if c.Type == ElementsCreatorChanged {
		h.tailCreatorID = c.ID
	}
	h.stack.Push(c)
}

// Undo reverts the done tail. It reports false when there is nothing to undo.
func (h *History) Undo() (Outcome, bool) {
	c, ok := h.stack.StepBack()
	if !ok {
		return Outcome{}, false
	}
	h.replay.Undo(c)
	out := Outcome{Command: c, Type: c.Type}
	if c.Type == ElementsCreatorChanged {
		h.tailCreatorID = c.ID
		return out, true
	}

	prev, ok := h.stack.TailUndo()
	if !ok {
		return out, true
	}
	out.Rule = h.table.Lookup(DirUndo, c.Type, prev.Type)
	switch out.Rule {
	case RuleResume:
		h.replay.Restore(c.Payload.RedoDataList, true)
		h.replay.Restore(prev.Payload.RedoDataList, true)
		out.Type = prev.Type
		out.Neighbor = &prev
	case RuleReselect:
		out.Neighbor = &prev
	}
	return out, true
}

// Redo reapplies the undone tail. It reports false when there is nothing to
// redo.
func (h *History) Redo() (Outcome, bool) {
	c, ok := h.stack.StepForward()
	if !ok {
		return Outcome{}, false
	}
	h.replay.Redo(c)
	out := Outcome{Command: c, Type: c.Type}
	if c.Type == ElementsCreatorChanged {
		h.tailCreatorID = c.ID
		return out, true
	}

	next, ok := h.stack.TailRedo()
	if !ok {
		return out, true
	}
	out.Rule = h.table.Lookup(DirRedo, c.Type, next.Type)
	if out.Rule == RuleFold {
		if id := h.store.CreatingID(); id != "" {
			h.store.Remove(id)
		}
		h.stack.StepForward()
		h.replay.Redo(next)
		out.Type = next.Type
		out.Neighbor = &next
	}
	return out, true
}

// Clear drops every command.
func (h *History) Clear() {
	h.stack.Clear()
	h.tailCreatorID = ""
}
