package engine

import (
	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/scene"
)

// rotateHandleOffset is the stage distance of the rotate handle above the
// selection frame.
const rotateHandleOffset = 24

// pointerState tracks one press between PressDown and PressUp. Points are
// world coordinates unless named stage.
type pointerState struct {
	pressed    bool
	down       geometry.Point
	downStage  geometry.Point
	panFrom    geometry.StageFrame
	ranging    bool
	rangeStart geometry.Point
}

// PressDown handles a pointer press at stage point (x, y).
func (e *Engine) PressDown(x, y float64, shift bool) {
	stage := geometry.Pt(x, y)
	world := e.store.Frame().ToWorld(stage)
	e.pointer = pointerState{pressed: true, down: world, downStage: stage}

	switch {
	case e.tool == ToolHand:
		e.pointer.panFrom = e.store.Frame()
	case e.tool == ToolFreeform:
		e.AddFreeformPoint(world)
	case e.tool.Draws():
		e.BeginCreate(world)
	default:
		e.pressMoveable(world, shift)
	}
}

func (e *Engine) pressMoveable(world geometry.Point, shift bool) {
	if h, ok := e.handleAt(world); ok {
		if h == HandleRotate {
			e.BeginRotate(world)
		} else {
			e.BeginTransform(h, world)
		}
		return
	}
	hit := HitTest(e.store, world, e.hitTolerance())
	if hit == "" {
		if !shift {
			e.DeselectAll()
		}
		e.pointer.ranging = true
		e.pointer.rangeStart = world
		return
	}
	switch {
	case shift:
		e.ToggleSelect(hit)
	case e.isDetached(hit):
		// keep the detached selection
	default:
		if el, ok := e.store.Get(e.outerOf(hit)); ok && !el.IsSelected() {
			e.Select(hit)
		}
	}
	if len(e.targets()) > 0 {
		e.busy = BusyMoveReady
	}
}

// PointerMove records the latest pointer position. Moves are coalesced and
// handled once per tick.
func (e *Engine) PointerMove(x, y float64) {
	e.moves.Push(geometry.Pt(x, y))
}

// handleMove applies a coalesced pointer position given in stage
// coordinates.
func (e *Engine) handleMove(stage geometry.Point) {
	world := e.store.Frame().ToWorld(stage)
	p := &e.pointer
	switch {
	case e.tool == ToolHand && p.pressed:
		f := p.panFrom
		s := f.Scale
		if s <= 0 {
			s = 1
		}
		d := stage.Sub(p.downStage).Mul(1 / s)
		f.WorldCoord = p.panFrom.WorldCoord.Sub(d)
		e.store.SetFrame(f)
	case e.tool == ToolFreeform:
		e.MoveFreeformTail(world)
	case e.creation != nil && p.pressed:
		e.UpdateCreate(world)
	case e.busy == BusyMoveReady && p.pressed:
		if geometry.Distance(world, p.down) >= e.cfg.MinCursorDelta && e.BeginDrag(p.down) {
			e.Drag(world)
		}
	case e.busy == BusyMoving:
		e.Drag(world)
	case e.busy == BusyRotating:
		e.Rotate(world)
	case e.busy == BusyTransforming:
		e.Transform(world)
	case e.busy == BusyCornerMoving:
		e.MoveCorner(world)
	case p.ranging:
		e.UpdateRange(geometry.RectFromPoints(p.rangeStart, world))
	default:
		e.HoverAt(world)
	}
}

// PressUp ends the press at stage point (x, y) and completes whatever the
// press started.
func (e *Engine) PressUp(x, y float64) {
	stage := geometry.Pt(x, y)
	e.moves.Reset()
	if e.pointer.pressed {
		e.handleMove(stage)
	}
	world := e.store.Frame().ToWorld(stage)

	switch {
	case e.creation != nil && e.tool.Draws():
		e.FinishCreate()
	case e.busy == BusyMoving:
		e.EndDrag()
	case e.busy == BusyMoveReady:
		e.busy = BusyNone
	case e.busy == BusyRotating:
		e.EndRotate()
	case e.busy == BusyTransforming:
		e.EndTransform()
	case e.busy == BusyCornerMoving:
		e.EndCornerMove()
	case e.pointer.ranging:
		e.SelectRange(geometry.RectFromPoints(e.pointer.rangeStart, world))
	}
	e.pointer = pointerState{}
}

// DoubleClick closes an open freeform path or enters point editing on the
// line under the pointer.
func (e *Engine) DoubleClick(x, y float64) bool {
	if e.tool == ToolFreeform {
		return e.CommitFreeform()
	}
	world := e.store.Frame().ToWorld(geometry.Pt(x, y))
	hit := HitTest(e.store, world, e.hitTolerance())
	if hit == "" {
		return false
	}
	return e.BeginEdit(hit)
}

// Cancel aborts the running interaction: a gesture is rolled back, a
// freeform path is dropped and point editing ends.
func (e *Engine) Cancel() bool {
	switch {
	case e.gesture != nil:
		return e.CancelGesture()
	case e.creation != nil && e.creation.kind == scene.KindFreeform:
		return e.AbandonFreeform()
	case e.editing != nil:
		return e.EndEdit()
	}
	return false
}

// handleAt returns the selection-frame handle under the world point p.
func (e *Engine) handleAt(p geometry.Point) (Handle, bool) {
	targets := e.targets()
	if len(targets) == 0 {
		return 0, false
	}
	box, angles, center := e.selectionFrame(targets)
	tol := e.hitTolerance() * 2
	for h := HandleTopLeft; h <= HandleLeft; h++ {
		if geometry.Distance(geometry.TransWithCenter(handlePoint(h, box), angles, center, false), p) <= tol {
			return h, true
		}
	}
	s := e.store.Frame().Scale
	if s <= 0 {
		s = 1
	}
	rotate := geometry.Pt(box.Center().X, box.Y-rotateHandleOffset/s)
	if geometry.Distance(geometry.TransWithCenter(rotate, angles, center, false), p) <= tol {
		return HandleRotate, true
	}
	return 0, false
}
