package engine

import (
	"slices"

	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

// Delete removes the targets with all their members. Groups left without
// members are removed too, up the ancestor chain; surviving ancestors are
// shrunk to their remaining members.
func (e *Engine) Delete() bool {
	targets := e.targets()
	if len(targets) == 0 {
		return false
	}
	removed := e.resolver.FlatWithDeepSubs(targets)
	gone := func(id string) bool { return slices.Contains(removed, id) }

	// Cascade: a parent whose live members are all removed goes as well.
	var affected []string
	for _, id := range targets {
		for _, a := range e.resolver.AncestorIDs(id) {
			if !slices.Contains(affected, a) {
				affected = append(affected, a)
			}
		}
	}
	for _, a := range e.deepestFirst(affected) {
		subs := e.store.SubsOf(a)
		if !slices.ContainsFunc(subs, func(s string) bool { return e.store.Has(s) && !gone(s) }) {
			removed = append(removed, a)
		}
	}
	var ancestors []string
	for _, a := range e.deepestFirst(affected) {
		if !gone(a) {
			ancestors = append(ancestors, a)
		}
	}
	removed = e.store.SortByOrder(removed)

	list := history.Capture(e.store, history.ActionRemoved, removed)
	before := history.Capture(e.store, history.ActionGroupUpdated, ancestors, parentKeys...)

	for _, a := range ancestors {
		e.store.Mutate(a, func(m *scene.Model) {
			m.SubIDs = slices.DeleteFunc(m.SubIDs, gone)
		})
	}
	e.store.RemoveMany(removed)
	e.refreshGroups(ancestors)

	after := history.Capture(e.store, history.ActionGroupUpdated, ancestors, parentKeys...)
	e.push(history.NewCommand(history.ElementsRemoved, history.Payload{
		UndoDataList: slices.Concat(list, before),
		RedoDataList: slices.Concat(list, after),
	}))
	e.log.Debug("elements deleted", "count", len(removed))
	return true
}
