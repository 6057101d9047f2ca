package engine

import (
	"github.com/inamate/stage/internal/scene"
)

// Tool is the active drawing or selection tool.
type Tool string

const (
	ToolMoveable  Tool = "moveable"
	ToolHand      Tool = "hand"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolLine      Tool = "line"
	ToolFreeform  Tool = "arbitrary"
	ToolText      Tool = "text"
	ToolImage     Tool = "image"
)

// Kind returns the shape kind the tool draws.
func (t Tool) Kind() (scene.Kind, bool) {
	switch t {
	case ToolRectangle, ToolEllipse, ToolLine, ToolFreeform, ToolText, ToolImage:
		return scene.Kind(t), true
	default:
		return "", false
	}
}

// Draws reports whether the tool creates box or line shapes by dragging.
func (t Tool) Draws() bool {
	_, ok := t.Kind()
	return ok && t != ToolFreeform
}

// ParseTool validates a tool name.
func ParseTool(name string) (Tool, bool) {
	switch t := Tool(name); t {
	case ToolMoveable, ToolHand, ToolRectangle, ToolEllipse, ToolLine, ToolFreeform, ToolText, ToolImage:
		return t, true
	default:
		return "", false
	}
}

// Busy is the exclusive gesture the session is in.
type Busy int

const (
	BusyNone Busy = iota
	BusyMoveReady
	BusyMoving
	BusyRotating
	BusyTransforming
	BusyCornerMoving
)

func (b Busy) String() string {
	switch b {
	case BusyNone:
		return "none"
	case BusyMoveReady:
		return "moveReady"
	case BusyMoving:
		return "moving"
	case BusyRotating:
		return "rotating"
	case BusyTransforming:
		return "transforming"
	case BusyCornerMoving:
		return "cornerMoving"
	default:
		return "unknown"
	}
}

// flag is the element flag set on gesture targets while busy.
func (b Busy) flag() (scene.Flag, bool) {
	switch b {
	case BusyMoving:
		return scene.FlagDragging, true
	case BusyRotating:
		return scene.FlagRotating, true
	case BusyTransforming:
		return scene.FlagTransforming, true
	case BusyCornerMoving:
		return scene.FlagCornerMoving, true
	default:
		return 0, false
	}
}

// Handle is a resize handle of the selection frame, numbered clockwise from
// the top-left corner.
type Handle int

const (
	HandleTopLeft Handle = iota
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
	HandleRotate
)

var handleNames = []string{"topLeft", "top", "topRight", "right", "bottomRight", "bottom", "bottomLeft", "left", "rotate"}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "unknown"
	}
	return handleNames[h]
}

// ParseHandle looks a handle up by name.
func ParseHandle(name string) (Handle, bool) {
	for i, n := range handleNames {
		if n == name {
			return Handle(i), true
		}
	}
	return 0, false
}

// Align modes.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
	AlignTop    Align = "top"
	AlignMiddle Align = "middle"
	AlignBottom Align = "bottom"
)

// Distribution axes.
type Distribution string

const (
	DistributeHorizontal Distribution = "horizontal"
	DistributeVertical   Distribution = "vertical"
)

// Drop positions for MoveTo.
type Drop string

const (
	DropBefore Drop = "before"
	DropAfter  Drop = "after"
	DropInside Drop = "inside"
)
