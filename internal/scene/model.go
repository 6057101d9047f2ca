package scene

import (
	"github.com/mohae/deepcopy"

	"github.com/inamate/stage/internal/geometry"
)

// Kind tags the shape variant of an element.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindLine      Kind = "line"
	KindFreeform  Kind = "arbitrary"
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindGroup     Kind = "group"
)

// Fill is one fill layer.
type Fill struct {
	Color        string  `json:"color"`
	ColorOpacity float64 `json:"colorOpacity"`
}

// Stroke is one stroke layer.
type Stroke struct {
	Type         geometry.StrokePlacement `json:"type"`
	Width        float64                  `json:"width"`
	Color        string                   `json:"color"`
	ColorOpacity float64                  `json:"colorOpacity"`
}

// Styles groups the style lists of an element.
type Styles struct {
	Fills   []Fill   `json:"fills"`
	Strokes []Stroke `json:"strokes"`
}

// DefaultFill and DefaultStroke seed new shapes and added style layers.
var (
	DefaultFill   = Fill{Color: "#ffffff", ColorOpacity: 1}
	DefaultStroke = Stroke{Type: geometry.StrokeMiddle, Width: 1, Color: "#000000", ColorOpacity: 1}
)

// Model is the persisted and exchanged shape of an element.
//
// Coords are the unrotated, unskewed shape points. Angle and LeanYAngle are
// applied about the centre of BoxCoords. X, Y, Width, Height and BoxCoords
// are derived from Coords whenever the model is written to a store.
type Model struct {
	ID         string           `json:"id"`
	Type       Kind             `json:"type"`
	Name       string           `json:"name,omitempty"`
	Coords     []geometry.Point `json:"coords"`
	BoxCoords  []geometry.Point `json:"boxCoords"`
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Angle      float64          `json:"angle"`
	LeanYAngle float64          `json:"leanYAngle"`
	FlipX      bool             `json:"flipX"`
	FlipY      bool             `json:"flipY"`
	Corners    []float64        `json:"corners"`
	SubIDs     []string         `json:"subIds,omitempty"`
	GroupID    string           `json:"groupId,omitempty"`
	Styles     Styles           `json:"styles"`
	IsFold     bool             `json:"isFold,omitempty"`
	Data       string           `json:"data,omitempty"`
}

// Clone returns a deep copy.
func (m Model) Clone() Model {
	return deepcopy.Copy(m).(Model)
}

// IsGroup reports whether the model is a group.
func (m Model) IsGroup() bool {
	return m.Type == KindGroup
}

// Angles returns the rotation and skew of the model.
func (m Model) Angles() geometry.Angles {
	return geometry.Angles{Angle: m.Angle, LeanY: m.LeanYAngle}
}

// Box is the unrotated bounding box of Coords.
func (m Model) Box() geometry.Rect {
	return geometry.BoundsOf(m.Coords)
}

// Center is the rotation centre.
func (m Model) Center() geometry.Point {
	return m.Box().Center()
}

// normalize recomputes the derived box fields from Coords.
func (m *Model) normalize() {
	box := m.Box()
	m.BoxCoords = box.Corners()
	m.X, m.Y = box.X, box.Y
	m.Width, m.Height = box.Width, box.Height
	if m.Styles.Fills == nil {
		m.Styles.Fills = []Fill{}
	}
	if m.Styles.Strokes == nil {
		m.Styles.Strokes = []Stroke{}
	}
}

// MaxStrokeWidth returns the widest stroke layer.
func (m Model) MaxStrokeWidth() float64 {
	w := 0.0
	for _, s := range m.Styles.Strokes {
		w = max(w, s.Width)
	}
	return w
}

// NewShape builds a finished-looking model of the given kind spanning coords.
func NewShape(id string, kind Kind, coords []geometry.Point) Model {
	m := Model{
		ID:     id,
		Type:   kind,
		Coords: geometry.Clone(coords),
		Styles: Styles{Fills: []Fill{DefaultFill}, Strokes: []Stroke{DefaultStroke}},
	}
	if CapabilityOf(kind).Corners {
		m.Corners = []float64{0, 0, 0, 0}
	}
	if kind == KindLine || kind == KindFreeform {
		m.Styles.Fills = []Fill{}
	}
	m.normalize()
	return m
}

// NewRect is a rectangle spanning the box between two corners.
func NewRect(id string, a, b geometry.Point) Model {
	return NewShape(id, KindRectangle, geometry.RectFromPoints(a, b).Corners())
}
