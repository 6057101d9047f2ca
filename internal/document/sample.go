package document

import (
	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/scene"
	"github.com/inamate/stage/internal/typeid"
)

// NewSampleDocument builds a small scene: a rectangle and an ellipse grouped
// together, a rotated rectangle, a line and a closed freeform triangle.
func NewSampleDocument() *Document {
	doc := New()
	doc.Name = "Untitled"

	groupID := typeid.NewGroupID()
	rectID := typeid.NewElementID()
	ellipseID := typeid.NewElementID()

	rect := scene.NewRect(rectID, geometry.Pt(100, 100), geometry.Pt(300, 220))
	rect.Name = "Rectangle 1"
	rect.Styles.Fills = []scene.Fill{{Color: "#e94560", ColorOpacity: 1}}
	rect.Corners = []float64{12, 12, 12, 12}
	rect.GroupID = groupID

	ellipse := scene.NewShape(ellipseID, scene.KindEllipse, geometry.RectFromPoints(geometry.Pt(340, 100), geometry.Pt(460, 220)).Corners())
	ellipse.Name = "Ellipse 1"
	ellipse.Styles.Fills = []scene.Fill{{Color: "#0f3460", ColorOpacity: 1}}
	ellipse.GroupID = groupID

	group := scene.NewShape(groupID, scene.KindGroup, geometry.RectFromPoints(geometry.Pt(100, 100), geometry.Pt(460, 220)).Corners())
	group.Name = "Group 1"
	group.SubIDs = []string{rectID, ellipseID}

	tilted := scene.NewRect(typeid.NewElementID(), geometry.Pt(560, 120), geometry.Pt(680, 200))
	tilted.Name = "Rectangle 2"
	tilted.Angle = 30
	tilted.Styles.Strokes = []scene.Stroke{{Type: geometry.StrokeOutside, Width: 6, Color: "#16213e", ColorOpacity: 1}}

	line := scene.NewShape(typeid.NewElementID(), scene.KindLine, []geometry.Point{{X: 100, Y: 320}, {X: 460, Y: 380}})
	line.Name = "Line 1"
	line.Styles.Strokes = []scene.Stroke{{Type: geometry.StrokeMiddle, Width: 4, Color: "#533483", ColorOpacity: 1}}

	triangle := scene.NewShape(typeid.NewElementID(), scene.KindFreeform, []geometry.Point{{X: 600, Y: 300}, {X: 700, Y: 470}, {X: 500, Y: 470}})
	triangle.Name = "Freeform 1"
	triangle.IsFold = true
	triangle.Styles.Strokes = []scene.Stroke{{Type: geometry.StrokeOutside, Width: 10, Color: "#222222", ColorOpacity: 1}}

	doc.Elements = []scene.Model{rect, ellipse, group, tilted, line, triangle}
	return doc
}
