package engine

import (
	"slices"

	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

var parentKeys = slices.Concat(scene.TransformKeys, scene.GroupKeys)

// Group wraps the targets into a new group placed directly above the
// topmost of them. Targets must share one parent.
func (e *Engine) Group() (string, bool) {
	targets := e.targets()
	if len(targets) < 2 {
		return "", false
	}
	parent := e.store.ParentOf(targets[0])
	for _, id := range targets[1:] {
		if e.store.ParentOf(id) != parent {
			e.log.Debug("group refused: targets have different parents")
			return "", false
		}
	}

	members := e.store.SortByOrder(targets)
	var run []string
	for _, id := range members {
		run = append(run, e.block(id)...)
	}
	order := e.store.Order()
	top := e.store.IndexOf(members[len(members)-1])
	rest := without(order, run)
	k := 0
	for k < len(rest) && e.store.IndexOf(rest[k]) < top {
		k++
	}

	gid := e.newID(scene.KindGroup)
	group := scene.NewShape(gid, scene.KindGroup, SelectionBounds(e.store.Lookup(members)).Corners())
	group.Styles = scene.Styles{}
	group.SubIDs = members
	group.GroupID = parent

	before := history.Capture(e.store, history.ActionMoved, members, scene.GroupKeys...)
	if parent != "" {
		before = append(before, history.Capture(e.store, history.ActionGroupUpdated, []string{parent}, parentKeys...)...)
	}

	if _, err := e.store.Add(group, scene.StatusFinished); err != nil {
		e.log.Warn("group insert failed", "id", gid, "error", err)
		return "", false
	}
	e.store.Reorder(slices.Concat(rest[:k], run, []string{gid}, rest[k:]))
	for _, id := range members {
		e.store.Mutate(id, func(m *scene.Model) {
			m.GroupID = gid
		})
	}
	if parent != "" {
		e.store.Mutate(parent, func(m *scene.Model) {
			m.SubIDs = replaceMembers(m.SubIDs, members, []string{gid})
		})
	}

	added := history.Capture(e.store, history.ActionAdded, []string{gid})
	after := history.Capture(e.store, history.ActionMoved, members, scene.GroupKeys...)
	if parent != "" {
		after = append(after, history.Capture(e.store, history.ActionGroupUpdated, []string{parent}, parentKeys...)...)
	}
	e.push(history.NewCommand(history.GroupAdded, history.Payload{
		UndoDataList: slices.Concat(added, before),
		RedoDataList: slices.Concat(added, after),
		UndoOrder:    order,
		RedoOrder:    e.store.Order(),
	}))
	e.selectOnly([]string{gid})
	return gid, true
}

// Ungroup dissolves every targeted group. Members are re-parented to the
// group's parent and keep their layer positions.
func (e *Engine) Ungroup() bool {
	var groups []string
	for _, el := range e.store.Lookup(e.targets()) {
		if el.IsGroup() {
			groups = append(groups, el.ID())
		}
	}
	if len(groups) == 0 {
		return false
	}

	order := e.store.Order()
	var undo, redo history.DataList
	var released []string
	for _, gid := range groups {
		g, ok := e.store.Get(gid)
		if !ok {
			continue
		}
		parent := g.GroupID()
		members := g.SubIDs()

		undo = append(undo, history.Capture(e.store, history.ActionRemoved, []string{gid})...)
		undo = append(undo, history.Capture(e.store, history.ActionMoved, members, scene.GroupKeys...)...)
		if parent != "" {
			undo = append(undo, history.Capture(e.store, history.ActionGroupUpdated, []string{parent}, parentKeys...)...)
		}
		removed := history.Capture(e.store, history.ActionRemoved, []string{gid})

		for _, id := range members {
			e.store.Mutate(id, func(m *scene.Model) {
				m.GroupID = parent
			})
		}
		if parent != "" {
			e.store.Mutate(parent, func(m *scene.Model) {
				m.SubIDs = replaceMembers(m.SubIDs, []string{gid}, members)
			})
		}
		e.store.Remove(gid)

		redo = append(redo, removed...)
		redo = append(redo, history.Capture(e.store, history.ActionMoved, members, scene.GroupKeys...)...)
		if parent != "" {
			redo = append(redo, history.Capture(e.store, history.ActionGroupUpdated, []string{parent}, parentKeys...)...)
		}
		released = append(released, members...)
	}

	e.push(history.NewCommand(history.GroupRemoved, history.Payload{
		UndoDataList: undo,
		RedoDataList: redo,
		UndoOrder:    order,
		RedoOrder:    e.store.Order(),
	}))
	e.selectOnly(e.store.SortByOrder(released))
	return true
}

// replaceMembers swaps the ids in old for repl at the position of the first
// of them.
func replaceMembers(subs, old, repl []string) []string {
	out := make([]string, 0, len(subs)+len(repl))
	placed := false
	for _, id := range subs {
		if !slices.Contains(old, id) {
			out = append(out, id)
			continue
		}
		if !placed {
			out = append(out, repl...)
			placed = true
		}
	}
	return out
}
