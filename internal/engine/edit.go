package engine

import (
	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

// BeginEdit enters point editing on a line or freeform element.
func (e *Engine) BeginEdit(id string) bool {
	if e.editing != nil || e.busy != BusyNone {
		return false
	}
	el, ok := e.store.Get(id)
	if !ok || el.IsLocked() || el.Status() != scene.StatusFinished {
		return false
	}
	if k := el.Kind(); k != scene.KindLine && k != scene.KindFreeform {
		return false
	}
	sc := e.scopeOfIDs([]string{id})
	e.editing = history.Begin(e.store, history.ActionUpdated, sc.ids(), sc.ancestorSet, scene.TransformKeys...)
	e.store.UpdateFlags(id, scene.FlagPatch{scene.FlagEditing: true})
	return true
}

// EditVertex moves vertex index of the element being edited to the world
// point p. The other vertices keep their world positions.
func (e *Engine) EditVertex(index int, p geometry.Point) bool {
	if e.editing == nil {
		return false
	}
	ids := e.editing.IDs()
	el, ok := e.store.Get(ids[0])
	if !ok {
		return false
	}
	rotated := el.RotateCoords()
	if index < 0 || index >= len(rotated) {
		return false
	}
	rotated[index] = p
	coords := geometry.CoordsByTransPoints(rotated, el.Angles(), el.Center())
	e.store.Mutate(el.ID(), func(m *scene.Model) {
		m.Coords = coords
	})
	e.refreshGroups(ids[1:])
	return true
}

// EndEdit leaves point editing and records the edits as one command.
func (e *Engine) EndEdit() bool {
	span := e.editing
	if span == nil {
		return false
	}
	e.editing = nil
	ids := span.IDs()
	e.store.UpdateFlags(ids[0], scene.FlagPatch{scene.FlagEditing: false})
	return e.pushIfChanged(history.ElementsUpdated, span.End())
}
