package engine

import (
	"slices"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

// creation tracks the element being drawn.
type creation struct {
	id    string
	kind  scene.Kind
	start geometry.Point
}

// SetTool switches the active tool and records the switch. A shape still
// being drawn is finished first.
func (e *Engine) SetTool(t Tool) bool {
	if t == e.tool {
		return false
	}
	e.finishPending()
	e.push(history.NewCommand(history.ElementsCreatorChanged, history.Payload{
		PrevTool: string(e.tool),
		Tool:     string(t),
	}))
	e.setTool(t)
	return true
}

func (e *Engine) setTool(t Tool) {
	if t == "" {
		t = ToolMoveable
	}
	if t != e.tool {
		e.prevTool = e.tool
		e.tool = t
		e.log.Debug("tool changed", "tool", t, "prev", e.prevTool)
	}
}

// finishPending completes or drops an in-progress shape.
func (e *Engine) finishPending() {
	if e.creation == nil {
		return
	}
	if e.creation.kind == scene.KindFreeform {
		if !e.CommitFreeform() {
			e.AbandonFreeform()
		}
		return
	}
	e.FinishCreate()
}

// creationCoords returns the points spanned by a drag from a to b.
func creationCoords(kind scene.Kind, a, b geometry.Point) []geometry.Point {
	if kind == scene.KindLine {
		return []geometry.Point{a, b}
	}
	return geometry.RectFromPoints(a, b).Corners()
}

// BeginCreate arms the drawing tool at p. The element appears on the first
// pointer move.
func (e *Engine) BeginCreate(p geometry.Point) bool {
	kind, ok := e.tool.Kind()
	if !ok || !e.tool.Draws() || e.busy != BusyNone {
		return false
	}
	e.creation = &creation{kind: kind, start: p}
	return true
}

// UpdateCreate stretches the shape being drawn to p.
func (e *Engine) UpdateCreate(p geometry.Point) bool {
	c := e.creation
	if c == nil || c.kind == scene.KindFreeform {
		return false
	}
	coords := creationCoords(c.kind, c.start, p)
	if c.id == "" {
		if geometry.Distance(c.start, p) < e.cfg.MinCursorDelta {
			return false
		}
		m := scene.NewShape(e.newID(c.kind), c.kind, coords)
		if _, err := e.store.Add(m, scene.StatusStartCreating); err != nil {
			e.log.Warn("create failed", "error", err)
			return false
		}
		c.id = m.ID
		e.clearSelection()
		e.store.UpdateFlags(c.id, scene.FlagPatch{scene.FlagProvisional: true, scene.FlagSelected: true})
		return true
	}
	e.store.Mutate(c.id, func(m *scene.Model) {
		m.Coords = coords
	})
	e.store.SetStatus(c.id, scene.StatusCreating)
	return true
}

// FinishCreate completes the shape being drawn and records it as added.
// Shapes smaller than the minimum cursor delta are discarded.
func (e *Engine) FinishCreate() bool {
	c := e.creation
	e.creation = nil
	if c == nil || c.id == "" {
		return false
	}
	el, ok := e.store.Get(c.id)
	if !ok {
		return false
	}
	box := el.Box()
	if box.Width < e.cfg.MinCursorDelta && box.Height < e.cfg.MinCursorDelta {
		e.store.Remove(c.id)
		return false
	}
	e.store.SetStatus(c.id, scene.StatusFinished)
	e.store.UpdateFlags(c.id, scene.FlagPatch{scene.FlagProvisional: false})
	list := history.Capture(e.store, history.ActionAdded, []string{c.id})
	e.push(history.NewCommand(history.ElementsAdded, history.Payload{UndoDataList: list, RedoDataList: list}))
	e.selectOnly([]string{c.id})
	e.setTool(ToolMoveable)
	return true
}

// --- freeform ---

// freeformFixed returns the committed vertices of the freeform being drawn;
// the last coordinate is the tail following the pointer.
func (e *Engine) freeformFixed() ([]geometry.Point, bool) {
	c := e.creation
	if c == nil || c.kind != scene.KindFreeform || c.id == "" {
		return nil, false
	}
	el, ok := e.store.Get(c.id)
	if !ok {
		return nil, false
	}
	coords := el.Model().Coords
	if len(coords) == 0 {
		return nil, false
	}
	return coords[:len(coords)-1], true
}

// AddFreeformPoint fixes a vertex at p. The first call starts a new path;
// a click within the close distance of the first vertex closes it.
func (e *Engine) AddFreeformPoint(p geometry.Point) bool {
	if e.tool != ToolFreeform {
		return false
	}
	fixed, ok := e.freeformFixed()
	if !ok {
		m := scene.NewShape(e.newID(scene.KindFreeform), scene.KindFreeform, []geometry.Point{p, p})
		if _, err := e.store.Add(m, scene.StatusStartCreating); err != nil {
			e.log.Warn("freeform start failed", "error", err)
			return false
		}
		e.creation = &creation{id: m.ID, kind: scene.KindFreeform, start: p}
		e.clearSelection()
		e.store.UpdateFlags(m.ID, scene.FlagPatch{scene.FlagProvisional: true, scene.FlagSelected: true})
		list := history.Capture(e.store, history.ActionStartCreating, []string{m.ID})
		e.push(history.NewCommand(history.ElementsStartCreating, history.Payload{UndoDataList: list, RedoDataList: list}))
		return true
	}

	if len(fixed) >= 3 && geometry.Distance(p, fixed[0]) <= e.cfg.CloseDistance {
		return e.commitFreeform(true)
	}
	if len(fixed) > 0 && geometry.Distance(p, fixed[len(fixed)-1]) < e.cfg.MinCursorDelta {
		return false
	}
	id := e.creation.id
	before := history.Capture(e.store, history.ActionCreating, []string{id})
	e.store.Mutate(id, func(m *scene.Model) {
		m.Coords = append(slices.Clone(fixed), p, p)
	})
	e.store.SetStatus(id, scene.StatusCreating)
	e.push(history.NewCommand(history.ElementsCreating, history.Payload{
		UndoDataList: before,
		RedoDataList: history.Capture(e.store, history.ActionCreating, []string{id}),
	}))
	return true
}

// MoveFreeformTail moves the rubber-band segment end to p.
func (e *Engine) MoveFreeformTail(p geometry.Point) bool {
	fixed, ok := e.freeformFixed()
	if !ok {
		return false
	}
	e.store.Mutate(e.creation.id, func(m *scene.Model) {
		m.Coords = append(slices.Clone(fixed), p)
	})
	return true
}

// CommitFreeform finishes the path as an open polyline.
func (e *Engine) CommitFreeform() bool {
	return e.commitFreeform(false)
}

func (e *Engine) commitFreeform(closed bool) bool {
	fixed, ok := e.freeformFixed()
	if !ok {
		return false
	}
	if len(fixed) < 2 {
		e.AbandonFreeform()
		return false
	}
	id := e.creation.id
	coords := slices.Clone(fixed)
	if closed {
		coords = geometry.Clockwise(coords)
	}
	e.store.Mutate(id, func(m *scene.Model) {
		m.Coords = coords
		m.IsFold = closed
	})
	e.store.SetStatus(id, scene.StatusFinished)
	e.store.UpdateFlags(id, scene.FlagPatch{scene.FlagProvisional: false})
	list := history.Capture(e.store, history.ActionAdded, []string{id})
	e.push(history.NewCommand(history.ElementsAdded, history.Payload{UndoDataList: list, RedoDataList: list}))
	e.creation = nil
	e.selectOnly([]string{id})
	e.setTool(ToolMoveable)
	return true
}

// AbandonFreeform drops the path being drawn together with its creation
// commands and any queued pointer work.
func (e *Engine) AbandonFreeform() bool {
	c := e.creation
	if c == nil || c.kind != scene.KindFreeform {
		return false
	}
	e.creation = nil
	e.queue.Discard()
	e.moves.Reset()
	if c.id == "" {
		return false
	}
	for {
		tail, ok := e.history.Stack().TailUndo()
		if !ok || (tail.Type != history.ElementsStartCreating && tail.Type != history.ElementsCreating) {
			break
		}
		if !slices.Contains(tail.Payload.RedoDataList.IDs(), c.id) {
			break
		}
		e.history.Stack().Pop()
	}
	e.store.Remove(c.id)
	e.dirty = true
	e.queue.Add(e.redraw)
	return true
}
