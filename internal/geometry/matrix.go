package geometry

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Matrix2D is an affine map stored column by column as [a b c d e f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix2D [6]float64

func Translation(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scaling scales about the origin. Negative factors flip.
func Scaling(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Rotation turns clockwise on screen (y grows downward).
func Rotation(degrees float64) Matrix2D {
	sin, cos := math.Sincos(Radians(degrees))
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// SkewY leans x by y*tan(degrees), the transform behind leanYAngle.
func SkewY(degrees float64) Matrix2D {
	return Matrix2D{1, 0, math.Tan(Radians(degrees)), 1, 0, 0}
}

// Multiply returns m∘n: n is applied first.
func (m Matrix2D) Multiply(n Matrix2D) Matrix2D {
	var out Matrix2D
	out[0] = m[0]*n[0] + m[2]*n[1]
	out[1] = m[1]*n[0] + m[3]*n[1]
	out[2] = m[0]*n[2] + m[2]*n[3]
	out[3] = m[1]*n[2] + m[3]*n[3]
	out[4] = m.Apply(Point{X: n[4], Y: n[5]}).X
	out[5] = m.Apply(Point{X: n[4], Y: n[5]}).Y
	return out
}

func (m Matrix2D) Apply(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Linear drops the translation and divides the remaining map by k.
func (m Matrix2D) Linear(k float64) Matrix2D {
	return Matrix2D{m[0] / k, m[1] / k, m[2] / k, m[3] / k, 0, 0}
}

// ElementMatrix rotates and leans an element about its centre.
func ElementMatrix(center Point, angles Angles) Matrix2D {
	return Translation(center.X, center.Y).
		Multiply(Rotation(angles.Angle)).
		Multiply(SkewY(angles.LeanY)).
		Multiply(Translation(-center.X, -center.Y))
}

// Aff3 converts to the row-major layout of golang.org/x/image/math/f64.
func (m Matrix2D) Aff3() f64.Aff3 {
	return f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
}

func FromAff3(a f64.Aff3) Matrix2D {
	return Matrix2D{a[0], a[3], a[1], a[4], a[2], a[5]}
}

// Slice is the draw-list encoding of the matrix.
func (m Matrix2D) Slice() []float64 {
	return m[:]
}
