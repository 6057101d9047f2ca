package geometry

import "math"

// SignedArea is the shoelace area of a closed polygon. On screen (y down) a
// positive value means the vertices run clockwise.
func SignedArea(points []Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := range points {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return sum / 2
}

// IsClockwise reports screen-clockwise winding.
func IsClockwise(points []Point) bool {
	return SignedArea(points) > 0
}

// Clockwise returns points in screen-clockwise order, reversing when needed.
func Clockwise(points []Point) []Point {
	out := Clone(points)
	if SignedArea(out) < 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// PolygonContains tests p against a closed polygon with the even-odd rule.
func PolygonContains(polygon []Point, p Point) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := polygon[i], polygon[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// SegmentDistance returns the distance from p to the segment ab.
func SegmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < Epsilon {
		return Distance(p, a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return Distance(p, a.Add(ab.Mul(t)))
}

// PolylineDistance returns the smallest distance from p to any segment.
func PolylineDistance(p Point, points []Point, closed bool) float64 {
	switch len(points) {
	case 0:
		return math.Inf(1)
	case 1:
		return Distance(p, points[0])
	}
	best := math.Inf(1)
	last := len(points) - 1
	if closed {
		last = len(points)
	}
	for i := 0; i < last; i++ {
		best = math.Min(best, SegmentDistance(p, points[i], points[(i+1)%len(points)]))
	}
	return best
}

// SegmentsIntersect reports whether segments ab and cd touch.
func SegmentsIntersect(a, b, c, d Point) bool {
	d1 := orientation(c, d, a)
	d2 := orientation(c, d, b)
	d3 := orientation(a, b, c)
	d4 := orientation(a, b, d)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(c, d, a)) || (d2 == 0 && onSegment(c, d, b)) ||
		(d3 == 0 && onSegment(a, b, c)) || (d4 == 0 && onSegment(a, b, d))
}

func orientation(a, b, p Point) float64 {
	v := b.Sub(a).Cross(p.Sub(a))
	if math.Abs(v) < Epsilon {
		return 0
	}
	return v
}

func onSegment(a, b, p Point) bool {
	return p.X >= min(a.X, b.X)-Epsilon && p.X <= max(a.X, b.X)+Epsilon &&
		p.Y >= min(a.Y, b.Y)-Epsilon && p.Y <= max(a.Y, b.Y)+Epsilon
}

// PolygonsOverlap reports whether two closed polygons intersect or one
// contains the other.
func PolygonsOverlap(a, b []Point) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if !BoundsOf(a).Overlaps(BoundsOf(b)) {
		return false
	}
	for i := range a {
		a1, a2 := a[i], a[(i+1)%len(a)]
		for j := range b {
			if SegmentsIntersect(a1, a2, b[j], b[(j+1)%len(b)]) {
				return true
			}
		}
	}
	return PolygonContains(a, b[0]) || PolygonContains(b, a[0])
}

// EllipseContains tests p against the ellipse inscribed in box, rotated by
// angles about the box centre.
func EllipseContains(box Rect, a Angles, p Point) bool {
	rx, ry := box.Width/2, box.Height/2
	if rx <= 0 || ry <= 0 {
		return false
	}
	c := box.Center()
	local := TransWithCenter(p, a, c, true).Sub(c)
	return (local.X*local.X)/(rx*rx)+(local.Y*local.Y)/(ry*ry) <= 1
}
