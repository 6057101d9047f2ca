package geometry

import "math"

// StrokePlacement positions a stroke relative to the path it outlines.
type StrokePlacement string

const (
	StrokeInside  StrokePlacement = "inside"
	StrokeMiddle  StrokePlacement = "middle"
	StrokeOutside StrokePlacement = "outside"
)

// MiterLimit caps miter length as a multiple of the offset distance.
const MiterLimit = 4.0

// normal is the perpendicular on the outer side of a screen-clockwise path.
func normal(e Point) Point {
	return Point{X: e.Y, Y: -e.X}.Unit()
}

// offsetVertex moves cur by r along the bisector of the normals of the edges
// meeting there. Missing or zero-length edges fall back to a perpendicular
// offset of the other edge.
func offsetVertex(prev, cur, next Point, hasPrev, hasNext bool, r float64) Point {
	var n1, n2 Point
	if hasPrev {
		n1 = normal(cur.Sub(prev))
	}
	if hasNext {
		n2 = normal(next.Sub(cur))
	}
	zero := Point{}
	switch {
	case n1 == zero && n2 == zero:
		return cur
	case n1 == zero:
		return cur.Add(n2.Mul(r))
	case n2 == zero:
		return cur.Add(n1.Mul(r))
	}
	sum := n1.Add(n2)
	if sum.Len() < 1e-6 {
		return cur.Add(n1.Mul(r))
	}
	b := sum.Unit()
	d := r / b.Dot(n1)
	limit := MiterLimit * math.Abs(r)
	d = math.Max(-limit, math.Min(limit, d))
	return cur.Add(b.Mul(d))
}

// PolygonVertices offsets every vertex of a closed, screen-clockwise polygon
// by r along its bisector, outward when outer is set and inward otherwise.
// A polygon with the opposite winding swaps the two sides.
func PolygonVertices(vertices []Point, r float64, outer bool) []Point {
	n := len(vertices)
	if n < 3 {
		return Clone(vertices)
	}
	if !outer {
		r = -r
	}
	out := make([]Point, n)
	for i, cur := range vertices {
		prev := vertices[(i-1+n)%n]
		next := vertices[(i+1)%n]
		out[i] = offsetVertex(prev, cur, next, true, true, r)
	}
	return out
}

// offsetOpen offsets an open polyline to one side; endpoints get a plain
// perpendicular offset.
func offsetOpen(points []Point, r float64) []Point {
	out := make([]Point, len(points))
	last := len(points) - 1
	for i, cur := range points {
		var prev, next Point
		if i > 0 {
			prev = points[i-1]
		}
		if i < last {
			next = points[i+1]
		}
		out[i] = offsetVertex(prev, cur, next, i > 0, i < last, r)
	}
	return out
}

// StrokeBand returns the closed polygon covering an open polyline stroked
// with the given half width.
func StrokeBand(points []Point, halfWidth float64) []Point {
	if len(points) < 2 {
		return Clone(points)
	}
	left := offsetOpen(points, halfWidth)
	right := offsetOpen(points, -halfWidth)
	band := make([]Point, 0, 2*len(points))
	band = append(band, left...)
	for i := len(right) - 1; i >= 0; i-- {
		band = append(band, right[i])
	}
	return band
}

// outerSide picks inner or outer vertices; an odd number of flips reverses
// winding and with it the meaning of outer.
func outerSide(flipX, flipY bool) bool {
	return flipX == flipY
}

// OutlinePoints returns the outer boundary of a stroked closed path:
// r = width/2 for middle placement, width for outside, and the path itself
// for inside placement.
func OutlinePoints(points []Point, placement StrokePlacement, width float64, flipX, flipY bool) []Point {
	if width <= 0 || placement == StrokeInside {
		return Clone(points)
	}
	r := width / 2
	if placement == StrokeOutside {
		r = width
	}
	return PolygonVertices(points, r, outerSide(flipX, flipY))
}

// StrokePathPoints returns the centre line along which a stroke of the given
// placement is painted: offset outward by width/2 for outside, inward for
// inside, unchanged for middle.
func StrokePathPoints(points []Point, placement StrokePlacement, width float64, flipX, flipY bool) []Point {
	if width <= 0 || placement == StrokeMiddle || placement == "" {
		return Clone(points)
	}
	outer := outerSide(flipX, flipY)
	if placement == StrokeInside {
		outer = !outer
	}
	return PolygonVertices(points, width/2, outer)
}

// JoinRegion computes the miter region at cur for a stroke of the given width:
// [cur, offset of edge prev→cur, miter point, offset of edge cur→next], on the
// convex side of the turn. The miter point sits on the bisector at
// (width/2)/sin(half) where half = (180 - turn)/2; straight or reversed turns
// and zero-length edges fall back to a perpendicular offset.
func JoinRegion(prev, cur, next Point, width float64) []Point {
	r := width / 2
	e1, e2 := cur.Sub(prev), next.Sub(cur)
	if e1.Len() < Epsilon && e2.Len() < Epsilon {
		return []Point{cur, cur, cur, cur}
	}
	if e1.Len() < Epsilon || e2.Len() < Epsilon {
		e := e1
		if e.Len() < Epsilon {
			e = e2
		}
		p := cur.Add(normal(e).Mul(r))
		return []Point{cur, p, p, p}
	}
	side := 1.0
	if e1.Cross(e2) < 0 {
		side = -1
	}
	n1 := normal(e1).Mul(side)
	n2 := normal(e2).Mul(side)
	a := cur.Add(n1.Mul(r))
	c := cur.Add(n2.Mul(r))

	cos := math.Max(-1, math.Min(1, e1.Dot(e2)/(e1.Len()*e2.Len())))
	turn := Degrees(math.Acos(cos))
	half := (180 - turn) / 2
	sum := n1.Add(n2)
	if sum.Len() < 1e-6 || math.Sin(Radians(half)) < Epsilon {
		return []Point{cur, a, a, c}
	}
	length := math.Min(r/math.Sin(Radians(half)), MiterLimit*r)
	miter := cur.Add(sum.Unit().Mul(length))
	return []Point{cur, a, miter, c}
}

// BorderRegions splits the stroke of a polyline into one quad per segment plus
// one join region per vertex. Closed polylines join at every vertex, open ones
// skip both endpoints.
func BorderRegions(points []Point, width float64, closed bool) [][]Point {
	n := len(points)
	if n < 2 || width <= 0 {
		return nil
	}
	r := width / 2
	var regions [][]Point
	segments := n - 1
	if closed {
		segments = n
	}
	for i := 0; i < segments; i++ {
		a, b := points[i], points[(i+1)%n]
		nn := normal(b.Sub(a)).Mul(r)
		regions = append(regions, []Point{a.Add(nn), b.Add(nn), b.Sub(nn), a.Sub(nn)})
	}
	for i := range points {
		if !closed && (i == 0 || i == n-1) {
			continue
		}
		regions = append(regions, JoinRegion(points[(i-1+n)%n], points[i], points[(i+1)%n], width))
	}
	return regions
}
