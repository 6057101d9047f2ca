package engine

import (
	"math"
	"reflect"
	"slices"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

// scope is the set of elements one mutation touches: the operation targets,
// their transitive members and the ancestor groups whose bounds follow.
type scope struct {
	targets     []string
	flat        []string
	ancestors   []string // deepest first
	ancestorSet map[string]bool
}

// ids lists every element whose state the mutation records.
func (s scope) ids() []string {
	return append(slices.Clone(s.flat), s.ancestors...)
}

// selectionIDs returns selected and detached-selected ids in layer order.
func (e *Engine) selectionIDs() []string {
	ids := scene.IDs(e.store.Selected())
	for _, el := range e.store.DetachedSelected() {
		if !slices.Contains(ids, el.ID()) {
			ids = append(ids, el.ID())
		}
	}
	return e.store.SortByOrder(ids)
}

// targets reduces the selection to the elements operations apply to.
func (e *Engine) targets() []string {
	return e.resolver.NonHomologous(e.selectionIDs())
}

func (e *Engine) isDetached(id string) bool {
	el, ok := e.store.Get(id)
	return ok && el.IsDetachedSelected()
}

func (e *Engine) scopeOf(targets []string) scope {
	return e.scopeWith(targets, e.resolver.AncestorIDsByDetached(targets, e.isDetached))
}

// scopeOfIDs is scopeOf for ids that need not be selected.
func (e *Engine) scopeOfIDs(targets []string) scope {
	return e.scopeWith(targets, e.resolver.AncestorIDsByDetached(targets, func(string) bool { return true }))
}

func (e *Engine) scopeWith(targets, ancestors []string) scope {
	sc := scope{
		targets:     targets,
		flat:        e.resolver.FlatWithDeepSubs(targets),
		ancestorSet: make(map[string]bool, len(ancestors)),
	}
	for _, a := range e.deepestFirst(ancestors) {
		if slices.Contains(sc.flat, a) {
			continue
		}
		sc.ancestors = append(sc.ancestors, a)
		sc.ancestorSet[a] = true
	}
	return sc
}

// deepestFirst orders groups so that inner groups refresh before the groups
// containing them.
func (e *Engine) deepestFirst(ids []string) []string {
	out := slices.Clone(ids)
	depth := make(map[string]int, len(out))
	for _, id := range out {
		depth[id] = len(e.resolver.AncestorIDs(id))
	}
	slices.SortStableFunc(out, func(a, b string) int {
		return depth[b] - depth[a]
	})
	return out
}

// refreshGroups recomputes group boxes from their members. A refreshed group
// is axis-aligned and spans the world bounds of its live members.
func (e *Engine) refreshGroups(ids []string) {
	for _, id := range ids {
		el, ok := e.store.Get(id)
		if !ok || !el.IsGroup() {
			continue
		}
		members := e.store.Lookup(el.SubIDs())
		if len(members) == 0 {
			continue
		}
		bounds := SelectionBounds(members)
		e.store.Mutate(id, func(m *scene.Model) {
			m.Coords = bounds.Corners()
			m.Angle, m.LeanYAngle = 0, 0
		})
	}
}

// translate moves every id by (dx, dy).
func (e *Engine) translate(ids []string, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	for _, id := range ids {
		e.store.Mutate(id, func(m *scene.Model) {
			m.Coords = geometry.Translate(m.Coords, dx, dy)
		})
	}
}

// snapshotModels copies the current models of ids.
func (e *Engine) snapshotModels(ids []string) map[string]scene.Model {
	out := make(map[string]scene.Model, len(ids))
	for _, el := range e.store.Lookup(ids) {
		out[el.ID()] = el.Model()
	}
	return out
}

// edit runs a geometry or style mutation over sc and records it as one
// command when anything changed.
func (e *Engine) edit(typ history.CommandType, sc scope, keys []string, mutate func()) bool {
	if len(sc.targets) == 0 {
		return false
	}
	span := history.Begin(e.store, history.ActionUpdated, sc.ids(), sc.ancestorSet, keys...)
	mutate()
	e.refreshGroups(sc.ancestors)
	return e.pushIfChanged(typ, span.End())
}

func (e *Engine) pushIfChanged(typ history.CommandType, p history.Payload) bool {
	if !changed(p) {
		return false
	}
	e.push(history.NewCommand(typ, p))
	return true
}

func (e *Engine) push(c history.Command) {
	e.history.Push(c)
	commandsPushed.WithLabelValues(string(c.Type)).Inc()
	e.log.Debug("command recorded", "type", c.Type, "id", c.ID)
}

// changed reports whether the two sides of a payload differ.
func changed(p history.Payload) bool {
	if len(p.UndoDataList) != len(p.RedoDataList) {
		return true
	}
	for i := range p.UndoDataList {
		if !reflect.DeepEqual(p.UndoDataList[i], p.RedoDataList[i]) {
			return true
		}
	}
	return !slices.Equal(p.UndoOrder, p.RedoOrder)
}

func isZero(v float64) bool {
	return math.Abs(v) < 1e-9
}
