package engine

import (
	"math"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

// gesture is the state of one press-drag-release manipulation. Every step
// recomputes from the originals captured at the start, so intermediate
// positions never accumulate rounding.
type gesture struct {
	busy      Busy
	start     geometry.Point
	sc        scope
	span      *history.Span
	originals map[string]scene.Model
	moved     bool

	// rotation
	pivot      geometry.Point
	startAngle float64

	// transform
	handle Handle
	lock   geometry.Point
	grip   geometry.Point
	frame  geometry.Angles

	// corner move
	corner int
}

// beginGesture captures the targets and enters busy. It fails when another
// gesture is running or nothing is selected.
func (e *Engine) beginGesture(busy Busy, p geometry.Point) (*gesture, bool) {
	if e.busy != BusyNone && e.busy != BusyMoveReady {
		return nil, false
	}
	targets := e.targets()
	if len(targets) == 0 {
		return nil, false
	}
	for _, el := range e.store.Lookup(targets) {
		if el.IsLocked() {
			return nil, false
		}
	}
	sc := e.scopeOf(targets)
	g := &gesture{
		busy:      busy,
		start:     p,
		sc:        sc,
		span:      history.Begin(e.store, history.ActionUpdated, sc.ids(), sc.ancestorSet, scene.TransformKeys...),
		originals: e.snapshotModels(sc.ids()),
		corner:    -1,
	}
	e.gesture = g
	e.busy = busy
	if f, ok := busy.flag(); ok {
		e.store.UpdateFlagsMany(sc.targets, scene.FlagPatch{f: true})
	}
	if busy == BusyRotating {
		e.store.UpdateFlagsMany(sc.targets, scene.FlagPatch{scene.FlagRotatingTarget: true})
	}
	return g, true
}

// active returns the running gesture of the given kind.
func (e *Engine) active(busy Busy) (*gesture, bool) {
	if e.gesture == nil || e.gesture.busy != busy {
		return nil, false
	}
	return e.gesture, true
}

// endGesture leaves busy and records the gesture as one command.
func (e *Engine) endGesture(busy Busy) bool {
	g, ok := e.active(busy)
	if !ok {
		return false
	}
	e.finishGesture(g)
	if !g.moved {
		return false
	}
	return e.pushIfChanged(history.ElementsUpdated, g.span.End())
}

func (e *Engine) finishGesture(g *gesture) {
	if f, ok := g.busy.flag(); ok {
		e.store.UpdateFlagsMany(g.sc.targets, scene.FlagPatch{f: false})
	}
	e.store.UpdateFlagsMany(g.sc.targets, scene.FlagPatch{scene.FlagRotatingTarget: false})
	e.gesture = nil
	e.busy = BusyNone
}

// CancelGesture restores the state captured when the running gesture began.
func (e *Engine) CancelGesture() bool {
	g := e.gesture
	if g == nil {
		return false
	}
	e.history.Replayer().Restore(g.span.Before(), false)
	e.finishGesture(g)
	return true
}

// --- drag ---

// BeginDrag starts moving the selection from world point p.
func (e *Engine) BeginDrag(p geometry.Point) bool {
	_, ok := e.beginGesture(BusyMoving, p)
	return ok
}

// Drag moves the selection so it is offset from its start by p - start.
func (e *Engine) Drag(p geometry.Point) bool {
	g, ok := e.active(BusyMoving)
	if !ok {
		return false
	}
	offset := p.Sub(g.start)
	if !g.moved && offset.Len() < e.cfg.MinCursorDelta {
		return false
	}
	g.moved = true
	for _, id := range g.sc.flat {
		orig := g.originals[id]
		e.store.Mutate(id, func(m *scene.Model) {
			m.Coords = geometry.Translate(orig.Coords, offset.X, offset.Y)
		})
	}
	e.refreshGroups(g.sc.ancestors)
	return true
}

// EndDrag finishes the drag and records it.
func (e *Engine) EndDrag() bool {
	return e.endGesture(BusyMoving)
}

// --- rotate ---

// BeginRotate starts rotating the selection. A single target rotates about
// its centre and follows the pointer's absolute angle; several targets rotate
// about the centre of their combined bounds by the pointer's sweep.
func (e *Engine) BeginRotate(p geometry.Point) bool {
	g, ok := e.beginGesture(BusyRotating, p)
	if !ok {
		return false
	}
	elements := e.store.Lookup(g.sc.targets)
	if len(elements) == 1 {
		g.pivot = elements[0].Center()
		g.startAngle = elements[0].Model().Angle
	} else {
		g.pivot = SelectionBounds(elements).Center()
		g.startAngle = geometry.PointerAngle(g.pivot, p)
	}
	return true
}

// Rotate turns the selection towards p.
func (e *Engine) Rotate(p geometry.Point) bool {
	g, ok := e.active(BusyRotating)
	if !ok || p.Near(g.pivot, 1e-9) {
		return false
	}
	delta := geometry.PointerAngle(g.pivot, p) - g.startAngle
	g.moved = true
	e.rotateSubtree(g.sc.flat, g.originals, geometry.NormalizeAngle(delta), g.pivot)
	e.refreshGroups(g.sc.ancestors)
	return true
}

// EndRotate finishes the rotation and records it.
func (e *Engine) EndRotate() bool {
	return e.endGesture(BusyRotating)
}

// --- transform ---

// handlePoint returns the local position of handle h on box.
func handlePoint(h Handle, box geometry.Rect) geometry.Point {
	l, t := box.X, box.Y
	r, b := box.X+box.Width, box.Y+box.Height
	cx, cy := box.Center().X, box.Center().Y
	switch h {
	case HandleTopLeft:
		return geometry.Pt(l, t)
	case HandleTop:
		return geometry.Pt(cx, t)
	case HandleTopRight:
		return geometry.Pt(r, t)
	case HandleRight:
		return geometry.Pt(r, cy)
	case HandleBottomRight:
		return geometry.Pt(r, b)
	case HandleBottom:
		return geometry.Pt(cx, b)
	case HandleBottomLeft:
		return geometry.Pt(l, b)
	case HandleLeft:
		return geometry.Pt(l, cy)
	default:
		return geometry.Pt(cx, t)
	}
}

// opposite returns the handle across the box from h.
func (h Handle) opposite() Handle {
	if h == HandleRotate {
		return HandleBottom
	}
	return (h + 4) % 8
}

// scalesX reports whether dragging h changes the width.
func (h Handle) scalesX() bool {
	return h != HandleTop && h != HandleBottom && h != HandleRotate
}

func (h Handle) scalesY() bool {
	return h != HandleLeft && h != HandleRight && h != HandleRotate
}

// selectionFrame returns the unrotated box and angles of the selection
// frame: the target's own frame for one target, the combined bounds for
// several.
func (e *Engine) selectionFrame(targets []string) (geometry.Rect, geometry.Angles, geometry.Point) {
	elements := e.store.Lookup(targets)
	if len(elements) == 1 {
		return elements[0].Box(), elements[0].Angles(), elements[0].Center()
	}
	box := SelectionBounds(elements)
	return box, geometry.Angles{}, box.Center()
}

// BeginTransform starts resizing the selection by handle h.
func (e *Engine) BeginTransform(h Handle, p geometry.Point) bool {
	if h == HandleRotate {
		return e.BeginRotate(p)
	}
	g, ok := e.beginGesture(BusyTransforming, p)
	if !ok {
		return false
	}
	box, angles, center := e.selectionFrame(g.sc.targets)
	g.handle = h
	g.frame = angles
	g.lock = geometry.TransWithCenter(handlePoint(h.opposite(), box), angles, center, false)
	g.grip = geometry.TransWithCenter(handlePoint(h, box), angles, center, false)
	return true
}

// Transform scales the selection so the dragged handle follows p. Crossing
// the opposite handle mirrors the selection.
func (e *Engine) Transform(p geometry.Point) bool {
	g, ok := e.active(BusyTransforming)
	if !ok {
		return false
	}
	local := geometry.NormalizeMatrixPoint(p, g.lock, g.frame)
	grip := geometry.NormalizeMatrixPoint(g.grip, g.lock, g.frame)
	sx, sy := 1.0, 1.0
	if g.handle.scalesX() && !isZero(grip.X) {
		sx = local.X / grip.X
	}
	if g.handle.scalesY() && !isZero(grip.Y) {
		sy = local.Y / grip.Y
	}
	// A zero scale would collapse the shape irreversibly.
	if isZero(sx) || isZero(sy) {
		return false
	}
	g.moved = true
	e.scaleSubtree(g.sc.flat, g.originals, sx, sy, g.lock, g.frame)
	e.refreshGroups(g.sc.ancestors)
	return true
}

// EndTransform finishes the resize and records it.
func (e *Engine) EndTransform() bool {
	return e.endGesture(BusyTransforming)
}

// --- corner radius ---

// cornerOrigins are the box corners radii grow from and the inward
// diagonal of each, in corner order: top-left, top-right, bottom-right,
// bottom-left.
func cornerOrigins(box geometry.Rect) ([4]geometry.Point, [4]geometry.Point) {
	l, t := box.X, box.Y
	r, b := box.X+box.Width, box.Y+box.Height
	return [4]geometry.Point{{X: l, Y: t}, {X: r, Y: t}, {X: r, Y: b}, {X: l, Y: b}},
		[4]geometry.Point{{X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}}
}

// BeginCornerMove starts dragging corner index of the single selected
// shape. A negative index drags every corner together, measured from the
// corner nearest to p.
func (e *Engine) BeginCornerMove(index int, p geometry.Point) bool {
	targets := e.targets()
	if len(targets) != 1 || index > 3 {
		return false
	}
	el, ok := e.store.Get(targets[0])
	if !ok || el.IsGroup() || !scene.CapabilityOf(el.Kind()).Corners {
		return false
	}
	g, ok := e.beginGesture(BusyCornerMoving, p)
	if !ok {
		return false
	}
	g.corner = index
	return true
}

// MoveCorner sets the radius so the corner handle follows p along its
// diagonal.
func (e *Engine) MoveCorner(p geometry.Point) bool {
	g, ok := e.active(BusyCornerMoving)
	if !ok {
		return false
	}
	id := g.sc.targets[0]
	orig := g.originals[id]
	box := orig.Box()
	local := geometry.TransWithCenter(p, orig.Angles(), orig.Center(), true)
	origins, dirs := cornerOrigins(box)

	corner := g.corner
	if corner < 0 {
		startLocal := geometry.TransWithCenter(g.start, orig.Angles(), orig.Center(), true)
		best := math.Inf(1)
		for i, o := range origins {
			if d := geometry.Distance(startLocal, o); d < best {
				best, corner = d, i
			}
		}
	}
	r := local.Sub(origins[corner]).Dot(dirs[corner]) / 2
	corners := orig.Corners
	if len(corners) != 4 {
		corners = []float64{0, 0, 0, 0}
	}
	corners = append([]float64(nil), corners...)
	for i := range corners {
		if g.corner < 0 || i == corner {
			corners[i] = max(r, 0)
		}
	}
	limit := min(box.Width, box.Height) / 2
	for i := range corners {
		corners[i] = min(corners[i], limit)
	}
	g.moved = true
	e.store.Mutate(id, func(m *scene.Model) {
		m.Corners = corners
	})
	return true
}

// EndCornerMove finishes the corner drag and records it.
func (e *Engine) EndCornerMove() bool {
	return e.endGesture(BusyCornerMoving)
}
