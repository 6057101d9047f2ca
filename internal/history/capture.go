package history

import (
	"github.com/inamate/stage/internal/scene"
)

// Capture snapshots the given keys of every live id in the store. With no
// keys the full model is recorded. Unknown ids are skipped.
func Capture(store *scene.Store, action Action, ids []string, keys ...string) DataList {
	out := make(DataList, 0, len(ids))
	for _, id := range ids {
		e, ok := store.Get(id)
		if !ok {
			continue
		}
		m := e.Model()
		out = append(out, DataEntry{
			Action: action,
			ID:     id,
			Model:  m.Snapshot(keys...),
			Status: e.Status(),
			Index:  store.IndexOf(id),
		})
	}
	return out
}

// Tagged is a capture whose action depends on the element: ancestor groups
// refreshed as a side effect are recorded as groupUpdated.
func Tagged(store *scene.Store, action Action, ids []string, ancestors map[string]bool, keys ...string) DataList {
	out := make(DataList, 0, len(ids))
	for _, id := range ids {
		a := action
		if ancestors[id] {
			a = ActionGroupUpdated
		}
		out = append(out, Capture(store, a, []string{id}, keys...)...)
	}
	return out
}

// Span records the before side of a mutation and completes the after side
// once the mutation ran, over the same ids and keys.
type Span struct {
	store     *scene.Store
	action    Action
	ids       []string
	ancestors map[string]bool
	keys      []string
	before    DataList
}

// Begin captures the before side.
func Begin(store *scene.Store, action Action, ids []string, ancestors map[string]bool, keys ...string) *Span {
	return &Span{
		store:     store,
		action:    action,
		ids:       ids,
		ancestors: ancestors,
		keys:      keys,
		before:    Tagged(store, action, ids, ancestors, keys...),
	}
}

// IDs are the elements the span covers.
func (s *Span) IDs() []string { return s.ids }

// Before returns the captured before side.
func (s *Span) Before() DataList { return s.before }

// End captures the after side and packages both into a payload.
func (s *Span) End() Payload {
	return Payload{
		UndoDataList: s.before,
		RedoDataList: Tagged(s.store, s.action, s.ids, s.ancestors, s.keys...),
	}
}
