package scene

import (
	"github.com/inamate/stage/internal/geometry"
)

// Status is the creation lifecycle of an element.
type Status int

const (
	StatusInitial       Status = -1
	StatusStartCreating Status = 0
	StatusCreating      Status = 1
	StatusFinished      Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusInitial:
		return "initial"
	case StatusStartCreating:
		return "startCreating"
	case StatusCreating:
		return "creating"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// InProgress reports whether the element is still being drawn.
func (s Status) InProgress() bool {
	return s == StatusStartCreating || s == StatusCreating
}

// ParseStatus is the inverse of Status.String; unknown names map to finished.
func ParseStatus(name string) Status {
	switch name {
	case "initial":
		return StatusInitial
	case "startCreating":
		return StatusStartCreating
	case "creating":
		return StatusCreating
	default:
		return StatusFinished
	}
}

// Flag is a boolean lifecycle flag of an element.
type Flag int

const (
	FlagSelected Flag = iota
	FlagDetachedSelected
	FlagTarget
	FlagInRange
	FlagOnStage
	FlagProvisional
	FlagRotatingTarget
	FlagDragging
	FlagTransforming
	FlagRotating
	FlagCornerMoving
	FlagLocked
	FlagVisible
	FlagEditing
	flagCount
)

var flagNames = [flagCount]string{
	"isSelected", "isDetachedSelected", "isTarget", "isInRange", "isOnStage",
	"isProvisional", "isRotatingTarget", "isDragging", "isTransforming",
	"isRotating", "isCornerMoving", "isLocked", "isVisible", "isEditing",
}

func (f Flag) String() string {
	if f < 0 || f >= flagCount {
		return "unknown"
	}
	return flagNames[f]
}

// Property is the bus property published when the flag changes.
func (f Flag) Property() Property {
	return Property(f.String())
}

// ParseFlag looks a flag up by its JSON name.
func ParseFlag(name string) (Flag, bool) {
	for i, n := range flagNames {
		if n == name {
			return Flag(i), true
		}
	}
	return 0, false
}

// AllFlags lists every flag in declaration order.
func AllFlags() []Flag {
	out := make([]Flag, flagCount)
	for i := range out {
		out[i] = Flag(i)
	}
	return out
}

// FlagPatch sets a subset of flags.
type FlagPatch map[Flag]bool

// Element is a model plus its lifecycle flags and derived geometry. The store
// owns every element; callers read through the accessors and write through
// the store so the indices stay exact.
type Element struct {
	model  Model
	flags  [flagCount]bool
	status Status

	center          geometry.Point
	rotateCoords    []geometry.Point
	rotateBoxCoords []geometry.Point
	stageCoords     []geometry.Point
}

func (e *Element) ID() string    { return e.model.ID }
func (e *Element) Kind() Kind    { return e.model.Type }
func (e *Element) IsGroup() bool { return e.model.IsGroup() }

// Model returns a deep copy of the element model.
func (e *Element) Model() Model { return e.model.Clone() }

func (e *Element) GroupID() string { return e.model.GroupID }

// SubIDs returns a copy of the member ids of a group.
func (e *Element) SubIDs() []string {
	if e.model.SubIDs == nil {
		return nil
	}
	return append([]string(nil), e.model.SubIDs...)
}

func (e *Element) Status() Status           { return e.status }
func (e *Element) Has(f Flag) bool          { return f >= 0 && f < flagCount && e.flags[f] }
func (e *Element) IsSelected() bool         { return e.flags[FlagSelected] }
func (e *Element) IsDetachedSelected() bool { return e.flags[FlagDetachedSelected] }
func (e *Element) IsLocked() bool           { return e.flags[FlagLocked] }
func (e *Element) IsVisible() bool          { return e.flags[FlagVisible] }

// Flags returns every flag keyed by its JSON name.
func (e *Element) Flags() map[string]bool {
	out := make(map[string]bool, flagCount)
	for i, v := range e.flags {
		out[flagNames[i]] = v
	}
	return out
}

func (e *Element) Angles() geometry.Angles { return e.model.Angles() }
func (e *Element) Center() geometry.Point  { return e.center }
func (e *Element) Box() geometry.Rect      { return e.model.Box() }

// RotateCoords are the world positions of the shape points.
func (e *Element) RotateCoords() []geometry.Point { return geometry.Clone(e.rotateCoords) }

// RotateBoxCoords are the world positions of the box corners.
func (e *Element) RotateBoxCoords() []geometry.Point { return geometry.Clone(e.rotateBoxCoords) }

// StageCoords are RotateCoords mapped through the stage frame.
func (e *Element) StageCoords() []geometry.Point { return geometry.Clone(e.stageCoords) }

// Bounds is the axis-aligned world box of the rotated shape.
func (e *Element) Bounds() geometry.Rect {
	return geometry.BoundsOf(e.rotateBoxCoords)
}

// Outline returns the world outline including stroke width.
func (e *Element) Outline() []geometry.Point {
	return CapabilityOf(e.Kind()).Outline(e)
}

// HitTest reports whether the world point p touches the element.
func (e *Element) HitTest(p geometry.Point, tolerance float64) bool {
	return CapabilityOf(e.Kind()).HitTest(e, p, tolerance)
}

// refresh recomputes the derived geometry after a model write.
func (e *Element) refresh(frame geometry.StageFrame) {
	e.model.normalize()
	e.center = e.model.Center()
	a := e.model.Angles()
	e.rotateCoords = geometry.TransAround(e.model.Coords, a, e.center, false)
	e.rotateBoxCoords = geometry.TransAround(e.model.BoxCoords, a, e.center, false)
	e.stageCoords = frame.PointsToStage(e.rotateCoords)
}

// onStage reports whether the element intersects the visible world area.
func (e *Element) onStage(frame geometry.StageFrame) bool {
	if frame.Width <= 0 || frame.Height <= 0 {
		return true
	}
	return e.Bounds().Overlaps(frame.WorldRect())
}
