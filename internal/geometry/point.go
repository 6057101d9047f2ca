package geometry

import "math"

// Epsilon is the tolerance used for degenerate-geometry checks.
const Epsilon = 1e-9

// Point is a 2D coordinate. Screen convention: y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Mul(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the 3D cross product.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Unit returns p scaled to length 1, or the zero point when p is degenerate.
func (p Point) Unit() Point {
	l := p.Len()
	if l < Epsilon {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Near reports whether p and q are within tol of each other on both axes.
func (p Point) Near(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Translate returns a copy of points shifted by (dx, dy).
func Translate(points []Point, dx, dy float64) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// Center returns the centre of the bounding box of points.
func Center(points []Point) Point {
	return BoundsOf(points).Center()
}

// Clone copies a point slice; nil stays nil.
func Clone(points []Point) []Point {
	if points == nil {
		return nil
	}
	out := make([]Point, len(points))
	copy(out, points)
	return out
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Angle returns the direction from a to b in degrees, measured clockwise from +x.
func Angle(a, b Point) float64 {
	return Degrees(math.Atan2(b.Y-a.Y, b.X-a.X))
}

// TargetPoint returns the point at distance d from p in direction deg.
func TargetPoint(p Point, d, deg float64) Point {
	rad := Radians(deg)
	return Point{X: p.X + d*math.Cos(rad), Y: p.Y + d*math.Sin(rad)}
}

// NormalizeAngle maps deg into (-180, 180].
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// PointerAngle is the rotation angle for a pointer at p rotating around center:
// zero when the pointer is straight above the centre.
func PointerAngle(center, p Point) float64 {
	angle := Angle(center, p) + 90
	if angle > 180 {
		angle -= 360
	}
	return angle
}
