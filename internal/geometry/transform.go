package geometry

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Angles holds the rotation and skew applied to an element about its centre.
type Angles struct {
	Angle float64 `json:"angle"`
	LeanY float64 `json:"leanYAngle"`
}

// Rotate rotates p about c by deg degrees.
func Rotate(p Point, deg float64, c Point) Point {
	if deg == 0 {
		return p
	}
	rad := Radians(deg)
	cos, sin := math.Cos(rad), math.Sin(rad)
	dx, dy := p.X-c.X, p.Y-c.Y
	return Point{X: c.X + dx*cos - dy*sin, Y: c.Y + dx*sin + dy*cos}
}

// RotateAround rotates every point about anchor.
func RotateAround(points []Point, deg float64, anchor Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Rotate(p, deg, anchor)
	}
	return out
}

// TransWithCenter applies skew then rotation about c. With inverse set it
// undoes exactly that: rotation first, then skew.
func TransWithCenter(p Point, a Angles, c Point, inverse bool) Point {
	lean := 0.0
	if a.LeanY != 0 {
		lean = math.Tan(Radians(a.LeanY))
	}
	if inverse {
		q := Rotate(p, -a.Angle, c)
		q.X -= (q.Y - c.Y) * lean
		return q
	}
	q := p
	q.X += (q.Y - c.Y) * lean
	return Rotate(q, a.Angle, c)
}

// TransAround applies TransWithCenter to every point.
func TransAround(points []Point, a Angles, c Point, inverse bool) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = TransWithCenter(p, a, c, inverse)
	}
	return out
}

// CoordsByRotatePoints recovers model coordinates from rotated ones.
//
// The rotated points are un-rotated about lock to find the unrotated centre,
// that centre is rotated back about lock to locate the real centre, and the
// rotated points are finally un-rotated about the real centre. Rotating the
// result by angle about its own box centre reproduces rotated.
func CoordsByRotatePoints(rotated []Point, angle float64, lock Point) []Point {
	center := Center(RotateAround(rotated, -angle, lock))
	newCenter := Rotate(center, angle, lock)
	return RotateAround(rotated, -angle, newCenter)
}

// CoordsByTransPoints is CoordsByRotatePoints for a combined rotation and skew.
func CoordsByTransPoints(rotated []Point, a Angles, lock Point) []Point {
	center := Center(TransAround(rotated, a, lock, true))
	newCenter := TransWithCenter(center, a, lock, false)
	return TransAround(rotated, a, newCenter, true)
}

// NormalizeMatrixPoint maps a world point into the unrotated, unskewed frame
// of an element, relative to lock.
func NormalizeMatrixPoint(p Point, lock Point, a Angles) Point {
	return TransWithCenter(p, a, lock, true).Sub(lock)
}

// MatrixPoint applies m in the element's local frame anchored at lock and
// returns the world position of the result.
func MatrixPoint(p Point, m f64.Aff3, lock Point, a Angles) Point {
	local := NormalizeMatrixPoint(p, lock, a)
	moved := FromAff3(m).Apply(local).Add(lock)
	return TransWithCenter(moved, a, lock, false)
}

// MatrixPoints applies MatrixPoint to every point.
func MatrixPoints(points []Point, m f64.Aff3, lock Point, a Angles) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = MatrixPoint(p, m, lock, a)
	}
	return out
}

// FlipXPoints mirrors points across the vertical axis through their box centre.
func FlipXPoints(points []Point) []Point {
	c := Center(points)
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: 2*c.X - p.X, Y: p.Y}
	}
	return out
}

// FlipYPoints mirrors points across the horizontal axis through their box centre.
func FlipYPoints(points []Point) []Point {
	c := Center(points)
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.X, Y: 2*c.Y - p.Y}
	}
	return out
}

// FixCorners clamps every non-zero radius into [0, minSize/2].
func FixCorners(corners []float64, minSize float64) []float64 {
	if corners == nil {
		return nil
	}
	limit := max(minSize/2, 0)
	out := make([]float64, len(corners))
	for i, c := range corners {
		if c == 0 {
			continue
		}
		out[i] = math.Min(math.Max(c, 0), limit)
	}
	return out
}
