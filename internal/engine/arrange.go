package engine

import (
	"slices"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

// Align lines the targets up against the edge or centre of their combined
// bounds. At least two targets are needed.
func (e *Engine) Align(mode Align) bool {
	targets := e.targets()
	if len(targets) < 2 {
		return false
	}
	sc := e.scopeOf(targets)
	all := SelectionBounds(e.store.Lookup(targets))
	return e.edit(history.ElementsUpdated, sc, scene.TranslateKeys, func() {
		for _, el := range e.store.Lookup(targets) {
			b := el.Bounds()
			var dx, dy float64
			switch mode {
			case AlignLeft:
				dx = all.X - b.X
			case AlignCenter:
				dx = all.Center().X - b.Center().X
			case AlignRight:
				dx = all.X + all.Width - b.X - b.Width
			case AlignTop:
				dy = all.Y - b.Y
			case AlignMiddle:
				dy = all.Center().Y - b.Center().Y
			case AlignBottom:
				dy = all.Y + all.Height - b.Y - b.Height
			}
			e.translate(e.resolver.FlatWithDeepSubs([]string{el.ID()}), dx, dy)
		}
	})
}

// Distribute spaces the targets evenly along an axis, keeping the outermost
// two in place. At least three targets are needed.
func (e *Engine) Distribute(axis Distribution) bool {
	elements := e.store.Lookup(e.targets())
	if len(elements) < 3 {
		return false
	}
	horizontal := axis == DistributeHorizontal
	start := func(r geometry.Rect) float64 {
		if horizontal {
			return r.X
		}
		return r.Y
	}
	size := func(r geometry.Rect) float64 {
		if horizontal {
			return r.Width
		}
		return r.Height
	}
	slices.SortStableFunc(elements, func(a, b *scene.Element) int {
		sa, sb := start(a.Bounds()), start(b.Bounds())
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		default:
			return 0
		}
	})

	first, last := elements[0].Bounds(), elements[len(elements)-1].Bounds()
	span := start(last) + size(last) - start(first)
	total := 0.0
	for _, el := range elements {
		total += size(el.Bounds())
	}
	gap := (span - total) / float64(len(elements)-1)

	sc := e.scopeOf(scene.IDs(elements))
	return e.edit(history.ElementsUpdated, sc, scene.TranslateKeys, func() {
		cursor := start(first)
		for _, el := range elements {
			b := el.Bounds()
			delta := cursor - start(b)
			cursor += size(b) + gap
			if horizontal {
				e.translate(e.resolver.FlatWithDeepSubs([]string{el.ID()}), delta, 0)
			} else {
				e.translate(e.resolver.FlatWithDeepSubs([]string{el.ID()}), 0, delta)
			}
		}
	})
}

// GoDown moves every target one step down among its siblings.
func (e *Engine) GoDown() bool {
	return e.rearrange(false)
}

// ShiftMove moves every target one step up among its siblings.
func (e *Engine) ShiftMove() bool {
	return e.rearrange(true)
}

func (e *Engine) rearrange(up bool) bool {
	targets := e.store.SortByOrder(e.targets())
	if len(targets) == 0 {
		return false
	}
	if up {
		slices.Reverse(targets)
	}
	order := e.store.Order()
	next := slices.Clone(order)
	blocked := make(map[string]bool)
	var parents []string
	for _, id := range targets {
		sibs := e.siblings(id)
		i := slices.Index(sibs, id)
		j := i - 1
		if up {
			j = i + 1
		}
		if i < 0 || j < 0 || j >= len(sibs) || blocked[sibs[j]] {
			blocked[id] = true
			continue
		}
		run := e.block(id)
		if up {
			next = placeAfter(next, run, sibs[j])
		} else {
			next = placeBefore(next, run, e.block(sibs[j])[0])
		}
		e.store.Reorder(next)
		if p := e.store.ParentOf(id); p != "" && !slices.Contains(parents, p) {
			parents = append(parents, p)
		}
	}
	if slices.Equal(order, e.store.Order()) {
		return false
	}

	before := history.Capture(e.store, history.ActionGroupUpdated, parents, scene.GroupKeys...)
	for _, p := range parents {
		e.store.Mutate(p, func(m *scene.Model) {
			m.SubIDs = e.store.SortByOrder(m.SubIDs)
		})
	}
	after := history.Capture(e.store, history.ActionGroupUpdated, parents, scene.GroupKeys...)
	e.push(history.NewCommand(history.ElementsRearranged, history.Payload{
		UndoDataList: before,
		RedoDataList: after,
		UndoOrder:    order,
		RedoOrder:    e.store.Order(),
	}))
	return true
}

// MoveTo re-parents ids relative to target: before or after it among its
// siblings, or inside it when target is a group. Groups emptied by the move
// are removed.
func (e *Engine) MoveTo(ids []string, target string, drop Drop) bool {
	t, ok := e.store.Get(target)
	if !ok || (drop == DropInside && !t.IsGroup()) {
		return false
	}
	moved := e.resolver.NonHomologous(e.store.SortByOrder(ids))
	lineage := append([]string{target}, e.resolver.AncestorIDs(target)...)
	for _, id := range moved {
		if slices.Contains(lineage, id) {
			e.log.Debug("move refused: target inside moved subtree", "id", id, "target", target)
			return false
		}
	}
	if len(moved) == 0 {
		return false
	}

	newParent := t.GroupID()
	if drop == DropInside {
		newParent = target
	}

	// Old parents, their ancestors and the new lineage all change.
	var groups []string
	addGroup := func(id string) {
		if id != "" && !slices.Contains(groups, id) && !slices.Contains(moved, id) {
			groups = append(groups, id)
		}
	}
	for _, id := range moved {
		for _, a := range e.resolver.AncestorIDs(id) {
			addGroup(a)
		}
	}
	addGroup(newParent)
	for _, a := range e.resolver.AncestorIDs(newParent) {
		addGroup(a)
	}
	groups = e.deepestFirst(groups)

	order := e.store.Order()
	undo := slices.Concat(
		history.Capture(e.store, history.ActionMoved, moved, scene.GroupKeys...),
		history.Capture(e.store, history.ActionGroupUpdated, groups, parentKeys...),
	)

	var run []string
	for _, id := range moved {
		run = append(run, e.block(id)...)
	}
	next := order
	switch drop {
	case DropBefore:
		next = placeBefore(order, run, e.block(target)[0])
	case DropAfter:
		next = placeAfter(order, run, target)
	case DropInside:
		next = placeBefore(order, run, target)
	}

	for _, id := range moved {
		if old := e.store.ParentOf(id); old != "" {
			e.store.Mutate(old, func(m *scene.Model) {
				m.SubIDs = slices.DeleteFunc(m.SubIDs, func(s string) bool { return s == id })
			})
		}
		e.store.Mutate(id, func(m *scene.Model) {
			m.GroupID = newParent
		})
	}
	if newParent != "" {
		e.store.Mutate(newParent, func(m *scene.Model) {
			m.SubIDs = append(m.SubIDs, moved...)
		})
	}
	e.store.Reorder(next)
	for _, g := range groups {
		e.store.Mutate(g, func(m *scene.Model) {
			m.SubIDs = e.store.SortByOrder(m.SubIDs)
		})
	}

	// Groups left empty are removed, innermost first.
	var emptied []string
	for _, g := range groups {
		el, ok := e.store.Get(g)
		if !ok || !el.IsGroup() || len(e.store.Lookup(el.SubIDs())) > 0 {
			continue
		}
		emptied = append(emptied, g)
		if p := el.GroupID(); p != "" {
			e.store.Mutate(p, func(m *scene.Model) {
				m.SubIDs = slices.DeleteFunc(m.SubIDs, func(s string) bool { return s == g })
			})
		}
	}
	removedList := history.Capture(e.store, history.ActionRemoved, emptied)
	e.store.RemoveMany(emptied)
	survivors := slices.DeleteFunc(slices.Clone(groups), func(g string) bool { return slices.Contains(emptied, g) })
	e.refreshGroups(survivors)

	undo = slices.Concat(removedList, undo)
	redo := slices.Concat(
		removedList,
		history.Capture(e.store, history.ActionMoved, moved, scene.GroupKeys...),
		history.Capture(e.store, history.ActionGroupUpdated, survivors, parentKeys...),
	)
	e.push(history.NewCommand(history.ElementsMoved, history.Payload{
		UndoDataList: undo,
		RedoDataList: redo,
		UndoOrder:    order,
		RedoOrder:    e.store.Order(),
	}))
	return true
}
