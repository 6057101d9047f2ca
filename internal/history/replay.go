package history

import (
	"log/slog"
	"slices"

	"github.com/inamate/stage/internal/scene"
)

// Replayer writes data lists back into a store.
type Replayer struct {
	store *scene.Store
	log   *slog.Logger
}

// NewReplayer creates a replayer over store.
func NewReplayer(store *scene.Store, log *slog.Logger) *Replayer {
	if log == nil {
		log = slog.Default()
	}
	return &Replayer{store: store, log: log}
}

// Undo reverts c.
func (r *Replayer) Undo(c Command) {
	r.Restore(c.Payload.UndoDataList, false)
	if c.Payload.UndoOrder != nil {
		r.store.Reorder(c.Payload.UndoOrder)
	}
	if c.Type == ElementsSelected {
		r.Select(c.Payload.PrevSelectedIDs, c.Payload.PrevDetachedIDs)
	}
}

// Redo reapplies c.
func (r *Replayer) Redo(c Command) {
	r.Restore(c.Payload.RedoDataList, true)
	if c.Payload.RedoOrder != nil {
		r.store.Reorder(c.Payload.RedoOrder)
	}
	if c.Type == ElementsSelected {
		r.Select(c.Payload.SelectedIDs, c.Payload.DetachedIDs)
	}
}

// Restore applies list in the given direction. Removals run first, then
// re-insertions in ascending layer index so recorded positions line up, then
// every merge.
func (r *Replayer) Restore(list DataList, redo bool) {
	var inserts, merges []DataEntry
	for _, d := range list {
		switch effect(d.Action, redo) {
		case effectRemove:
			r.store.Remove(d.ID)
		case effectInsert:
			inserts = append(inserts, d)
		default:
			merges = append(merges, d)
		}
	}
	slices.SortStableFunc(inserts, func(a, b DataEntry) int { return a.Index - b.Index })
	for _, d := range inserts {
		r.insert(d)
	}
	for _, d := range merges {
		r.merge(d)
	}
}

// Select replaces the selection flags.
func (r *Replayer) Select(selected, detached []string) {
	r.store.ClearFlag(scene.FlagSelected)
	r.store.ClearFlag(scene.FlagDetachedSelected)
	r.store.UpdateFlagsMany(selected, scene.FlagPatch{scene.FlagSelected: true})
	r.store.UpdateFlagsMany(detached, scene.FlagPatch{scene.FlagDetachedSelected: true})
}

type entryEffect int

const (
	effectMerge entryEffect = iota
	effectInsert
	effectRemove
)

func effect(a Action, redo bool) entryEffect {
	switch a {
	case ActionAdded, ActionStartCreating:
		if redo {
			return effectInsert
		}
		return effectRemove
	case ActionRemoved:
		if redo {
			return effectRemove
		}
		return effectInsert
	default:
		return effectMerge
	}
}

func (r *Replayer) insert(d DataEntry) {
	if r.store.Has(d.ID) {
		r.store.UpdateModel(d.ID, d.Model)
		r.store.SetStatus(d.ID, d.Status)
		return
	}
	m, err := scene.ModelFromPatch(d.Model)
	if err != nil {
		r.log.Warn("skipping unreadable entry", "id", d.ID, "error", err)
		return
	}
	m.ID = d.ID
	if _, err := r.store.Insert(m, d.Index, d.Status); err != nil {
		r.log.Warn("reinsert failed", "id", d.ID, "error", err)
	}
}

// merge patches a live element. A creating entry for a missing element
// recreates it, since undoing the final add of a freeform path removes it.
func (r *Replayer) merge(d DataEntry) {
	if !r.store.Has(d.ID) {
		if d.Action == ActionCreating {
			r.insert(d)
		}
		return
	}
	r.store.UpdateModel(d.ID, d.Model)
	if d.Action == ActionCreating || d.Action == ActionStartCreating {
		r.store.SetStatus(d.ID, d.Status)
	}
}
