package engine

import (
	"encoding/json"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/scene"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string          `json:"op"`                    // Operation: "rect", "ellipse", "path", "text", "image"
	ObjectID    string          `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64       `json:"transform,omitempty"`   // [a, b, c, d, e, f] model → stage matrix
	Path        []PathCommand   `json:"path,omitempty"`        // Model-space path
	Rect        *geometry.Rect  `json:"rect,omitempty"`        // Unrotated stage box
	Corners     []float64       `json:"corners,omitempty"`     // Corner radii, stage units
	Closed      bool            `json:"closed,omitempty"`      // Path is closed
	Fills       []scene.Fill    `json:"fills,omitempty"`       // Bottom to top
	Strokes     []StrokeCommand `json:"strokes,omitempty"`     // Bottom to top
	Selected    bool            `json:"selected,omitempty"`    // Draw the selection frame
	Provisional bool            `json:"provisional,omitempty"` // Still being drawn
	Data        string          `json:"data,omitempty"`        // Text content or image source
}

// StrokeCommand is one stroke layer scaled to stage units.
type StrokeCommand struct {
	Type         geometry.StrokePlacement `json:"type"`
	Width        float64                  `json:"width"`
	Color        string                   `json:"color"`
	ColorOpacity float64                  `json:"colorOpacity"`
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["Z"].
type PathCommand []any

// stageMatrix maps world coordinates to stage coordinates.
func stageMatrix(frame geometry.StageFrame) geometry.Matrix2D {
	s := frame.Scale
	if s <= 0 {
		s = 1
	}
	return geometry.Translation(frame.Width/2-frame.WorldCoord.X*s, frame.Height/2-frame.WorldCoord.Y*s).
		Multiply(geometry.Scaling(s, s))
}

// CompileDrawCommands generates the draw list of the visible scene.
// Commands are in painter's order (back to front); groups draw nothing
// themselves and off-stage elements are culled.
func CompileDrawCommands(store *scene.Store) []DrawCommand {
	frame := store.Frame()
	stage := stageMatrix(frame)
	scale := frame.Scale
	if scale <= 0 {
		scale = 1
	}

	var commands []DrawCommand
	for _, el := range store.Elements() {
		if el.IsGroup() || !el.IsVisible() || !el.Has(scene.FlagOnStage) {
			continue
		}
		commands = append(commands, compileElement(el, frame, stage, scale))
	}
	return commands
}

func compileElement(el *scene.Element, frame geometry.StageFrame, stage geometry.Matrix2D, scale float64) DrawCommand {
	m := el.Model()
	capability := scene.CapabilityOf(m.Type)
	cmd := DrawCommand{
		Op:          capability.Op,
		ObjectID:    m.ID,
		Transform:   stage.Multiply(geometry.ElementMatrix(el.Center(), el.Angles())).Slice(),
		Closed:      capability.Closed || m.IsFold,
		Fills:       m.Styles.Fills,
		Selected:    el.IsSelected() || el.IsDetachedSelected(),
		Provisional: el.Has(scene.FlagProvisional),
		Data:        m.Data,
	}
	if capability.Op == "path" {
		cmd.Path = pathOf(m.Coords, cmd.Closed)
	} else {
		r := capability.RenderRect(el, frame)
		cmd.Rect = &r
	}
	for _, c := range m.Corners {
		cmd.Corners = append(cmd.Corners, c*scale)
	}
	for _, s := range m.Styles.Strokes {
		cmd.Strokes = append(cmd.Strokes, StrokeCommand{Type: s.Type, Width: s.Width * scale, Color: s.Color, ColorOpacity: s.ColorOpacity})
	}
	return cmd
}

func pathOf(points []geometry.Point, closed bool) []PathCommand {
	if len(points) == 0 {
		return nil
	}
	path := make([]PathCommand, 0, len(points)+1)
	for i, p := range points {
		op := "L"
		if i == 0 {
			op = "M"
		}
		path = append(path, PathCommand{op, p.X, p.Y})
	}
	if closed {
		path = append(path, PathCommand{"Z"})
	}
	return path
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the ID of the topmost visible element containing the world
// point, or empty string. Groups are skipped; callers resolve a hit member to
// its outer group.
func HitTest(store *scene.Store, p geometry.Point, tolerance float64) string {
	elements := store.Elements()
	for i := len(elements) - 1; i >= 0; i-- {
		el := elements[i]
		if el.IsGroup() || !el.IsVisible() || el.Status().InProgress() {
			continue
		}
		if el.HitTest(p, tolerance) {
			return el.ID()
		}
	}
	return ""
}

// SelectionBounds returns the combined world bounds of the given elements.
func SelectionBounds(elements []*scene.Element) geometry.Rect {
	var result geometry.Rect
	first := true
	for _, el := range elements {
		if first {
			result = el.Bounds()
			first = false
			continue
		}
		result = result.Union(el.Bounds())
	}
	return result
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r geometry.Rect) string {
	data, _ := json.Marshal(map[string]float64{
		"x":      r.X,
		"y":      r.Y,
		"width":  r.Width,
		"height": r.Height,
	})
	return string(data)
}
