package export

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/vector"

	"github.com/inamate/stage/internal/engine"
	"github.com/inamate/stage/internal/geometry"
)

const (
	ellipseSegments = 64
	cornerSegments  = 8
)

// Rasterize paints a draw list back to front onto a transparent canvas.
// Selection frames and other editor chrome are not drawn.
func Rasterize(commands []engine.DrawCommand, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for _, cmd := range commands {
		paint(dst, cmd)
	}
	return dst
}

func paint(dst *image.RGBA, cmd engine.DrawCommand) {
	shape := outline(cmd)
	if len(shape) < 2 {
		return
	}
	if cmd.Closed {
		for _, f := range cmd.Fills {
			if c, ok := parseColor(f.Color, f.ColorOpacity); ok {
				fillPolygons(dst, c, shape)
			}
		}
	}
	for _, s := range cmd.Strokes {
		c, ok := parseColor(s.Color, s.ColorOpacity)
		if !ok || s.Width <= 0 {
			continue
		}
		fillPolygons(dst, c, strokeRegion(shape, s, cmd.Closed)...)
	}
}

// outline returns the shape boundary in stage pixels.
func outline(cmd engine.DrawCommand) []geometry.Point {
	if len(cmd.Transform) != 6 {
		return nil
	}
	m := geometry.Matrix2D(cmd.Transform)
	if cmd.Op == "path" {
		points := make([]geometry.Point, 0, len(cmd.Path))
		for _, seg := range cmd.Path {
			if p, ok := segmentPoint(seg); ok {
				points = append(points, m.Apply(p))
			}
		}
		return points
	}
	if cmd.Rect == nil {
		return nil
	}

	var local []geometry.Point
	if cmd.Op == "ellipse" {
		local = ellipsePoints(*cmd.Rect)
	} else {
		local = roundedRectPoints(*cmd.Rect, cmd.Corners)
	}
	return orient(local, cmd.Rect.Center(), m)
}

// orient applies the rotation and skew of the element matrix to a box that
// is already in stage coordinates. The stage part of the matrix is a uniform
// scale, so dividing by the square root of the determinant leaves the
// element's own linear map.
func orient(points []geometry.Point, center geometry.Point, m geometry.Matrix2D) []geometry.Point {
	s := math.Sqrt(math.Abs(m.Determinant()))
	if s == 0 {
		return points
	}
	linear := m.Linear(s)
	out := make([]geometry.Point, len(points))
	for i, p := range points {
		out[i] = linear.Apply(p.Sub(center)).Add(center)
	}
	return out
}

func segmentPoint(seg engine.PathCommand) (geometry.Point, bool) {
	if len(seg) != 3 {
		return geometry.Point{}, false
	}
	x, okX := seg[1].(float64)
	y, okY := seg[2].(float64)
	return geometry.Pt(x, y), okX && okY
}

func ellipsePoints(r geometry.Rect) []geometry.Point {
	c := r.Center()
	points := make([]geometry.Point, ellipseSegments)
	for i := range points {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		points[i] = geometry.Pt(c.X+r.Width/2*math.Cos(a), c.Y+r.Height/2*math.Sin(a))
	}
	return points
}

// roundedRectPoints samples a box clockwise from the top-left corner, with
// radii in top-left, top-right, bottom-right, bottom-left order.
func roundedRectPoints(r geometry.Rect, radii []float64) []geometry.Point {
	corners := r.Corners()
	if len(radii) != 4 || (radii[0] == 0 && radii[1] == 0 && radii[2] == 0 && radii[3] == 0) {
		return corners
	}
	centers := []geometry.Point{
		geometry.Pt(r.X+radii[0], r.Y+radii[0]),
		geometry.Pt(r.X+r.Width-radii[1], r.Y+radii[1]),
		geometry.Pt(r.X+r.Width-radii[2], r.Y+r.Height-radii[2]),
		geometry.Pt(r.X+radii[3], r.Y+r.Height-radii[3]),
	}
	var points []geometry.Point
	for i, c := range centers {
		if radii[i] <= 0 {
			points = append(points, corners[i])
			continue
		}
		start := math.Pi + float64(i)*math.Pi/2
		for j := 0; j <= cornerSegments; j++ {
			a := start + float64(j)*(math.Pi/2)/cornerSegments
			points = append(points, geometry.Pt(c.X+radii[i]*math.Cos(a), c.Y+radii[i]*math.Sin(a)))
		}
	}
	return points
}

// strokeRegion returns the polygons covered by a stroke. Closed strokes are
// a ring of two contours with opposite winding.
func strokeRegion(shape []geometry.Point, s engine.StrokeCommand, closed bool) [][]geometry.Point {
	if !closed {
		return [][]geometry.Point{geometry.StrokeBand(shape, s.Width/2)}
	}
	cw := geometry.Clockwise(shape)
	centre := geometry.StrokePathPoints(cw, s.Type, s.Width, false, false)
	outer := geometry.PolygonVertices(centre, s.Width/2, true)
	inner := geometry.PolygonVertices(centre, s.Width/2, false)
	reversed := make([]geometry.Point, len(inner))
	for i, p := range inner {
		reversed[len(inner)-1-i] = p
	}
	return [][]geometry.Point{outer, reversed}
}

func fillPolygons(dst *image.RGBA, c color.Color, polygons ...[]geometry.Point) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for _, poly := range polygons {
		if len(poly) < 3 {
			continue
		}
		z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
	}
	z.DrawOp = draw.Over
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// parseColor reads #rgb or #rrggbb with a separate 0..1 opacity.
func parseColor(hex string, opacity float64) (color.NRGBA, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	opacity = min(max(opacity, 0), 1)
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: uint8(math.Round(opacity * 255)),
	}, true
}
