package scene

import (
	"github.com/inamate/stage/internal/geometry"
)

// Capability is the per-kind behaviour used instead of a shape type hierarchy.
type Capability struct {
	// Closed shapes enclose an area; open ones are stroked paths.
	Closed bool
	// Corners reports support for corner radii.
	Corners bool
	// Op is the draw operation the renderer uses.
	Op string
	// Outline returns the world outline including strokes.
	Outline func(e *Element) []geometry.Point
	// HitTest tests a world point.
	HitTest func(e *Element, p geometry.Point, tolerance float64) bool
	// RenderRect is the unrotated box in stage coordinates.
	RenderRect func(e *Element, frame geometry.StageFrame) geometry.Rect
}

func firstStroke(m Model) (geometry.StrokePlacement, float64) {
	if len(m.Styles.Strokes) == 0 {
		return geometry.StrokeMiddle, 0
	}
	return m.Styles.Strokes[0].Type, m.MaxStrokeWidth()
}

func closedOutline(e *Element) []geometry.Point {
	placement, width := firstStroke(e.model)
	return geometry.OutlinePoints(e.rotateCoords, placement, width, e.model.FlipX, e.model.FlipY)
}

func openOutline(e *Element) []geometry.Point {
	return geometry.StrokeBand(e.rotateCoords, max(e.model.MaxStrokeWidth(), 1)/2)
}

func boxOutline(e *Element) []geometry.Point {
	return geometry.Clone(e.rotateBoxCoords)
}

func hitPolygon(outline []geometry.Point, p geometry.Point, tolerance float64) bool {
	if geometry.PolygonContains(outline, p) {
		return true
	}
	return geometry.PolylineDistance(p, outline, true) <= tolerance
}

func hitClosed(e *Element, p geometry.Point, tolerance float64) bool {
	return hitPolygon(closedOutline(e), p, tolerance)
}

func hitBox(e *Element, p geometry.Point, tolerance float64) bool {
	return hitPolygon(e.rotateBoxCoords, p, tolerance)
}

func hitEllipse(e *Element, p geometry.Point, tolerance float64) bool {
	_, width := firstStroke(e.model)
	box := e.Box()
	grow := width/2 + tolerance
	box = geometry.Rect{X: box.X - grow, Y: box.Y - grow, Width: box.Width + 2*grow, Height: box.Height + 2*grow}
	return geometry.EllipseContains(box, e.Angles(), p)
}

func hitPath(e *Element, p geometry.Point, tolerance float64) bool {
	closed := e.model.IsFold
	if closed && geometry.PolygonContains(e.rotateCoords, p) {
		return true
	}
	reach := max(e.model.MaxStrokeWidth()/2, tolerance)
	return geometry.PolylineDistance(p, e.rotateCoords, closed) <= reach
}

func stageBox(e *Element, frame geometry.StageFrame) geometry.Rect {
	box := e.Box()
	s := frame.Scale
	if s <= 0 {
		s = 1
	}
	origin := frame.ToStage(geometry.Pt(box.X, box.Y))
	return geometry.Rect{X: origin.X, Y: origin.Y, Width: box.Width * s, Height: box.Height * s}
}

func strokedStageBox(e *Element, frame geometry.StageFrame) geometry.Rect {
	r := stageBox(e, frame)
	grow := e.model.MaxStrokeWidth() / 2
	if frame.Scale > 0 {
		grow *= frame.Scale
	}
	return geometry.Rect{X: r.X - grow, Y: r.Y - grow, Width: r.Width + 2*grow, Height: r.Height + 2*grow}
}

var capabilities = map[Kind]Capability{
	KindRectangle: {Closed: true, Corners: true, Op: "rect", Outline: closedOutline, HitTest: hitClosed, RenderRect: stageBox},
	KindImage:     {Closed: true, Corners: true, Op: "image", Outline: closedOutline, HitTest: hitClosed, RenderRect: stageBox},
	KindText:      {Closed: true, Op: "text", Outline: closedOutline, HitTest: hitClosed, RenderRect: stageBox},
	KindEllipse:   {Closed: true, Op: "ellipse", Outline: closedOutline, HitTest: hitEllipse, RenderRect: stageBox},
	KindLine:      {Op: "path", Outline: openOutline, HitTest: hitPath, RenderRect: strokedStageBox},
	KindFreeform:  {Op: "path", Outline: freeformOutline, HitTest: hitPath, RenderRect: strokedStageBox},
	KindGroup:     {Closed: true, Op: "", Outline: boxOutline, HitTest: hitBox, RenderRect: stageBox},
}

func freeformOutline(e *Element) []geometry.Point {
	if e.model.IsFold {
		return closedOutline(e)
	}
	return openOutline(e)
}

// CapabilityOf returns the capability entry of a kind. Unknown kinds behave
// like rectangles.
func CapabilityOf(k Kind) Capability {
	if c, ok := capabilities[k]; ok {
		return c
	}
	return capabilities[KindRectangle]
}
