package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolygonContains(t *testing.T) {
	sq := RectFromPoints(Pt(0, 0), Pt(10, 10)).Corners()
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"centre", Pt(5, 5), true},
		{"outside right", Pt(11, 5), false},
		{"outside above", Pt(5, -1), false},
		{"near corner", Pt(0.5, 9.5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolygonContains(sq, tt.p))
		})
	}
	assert.False(t, PolygonContains(sq[:2], Pt(1, 0)))
}

func TestPolygonsOverlap(t *testing.T) {
	a := RectFromPoints(Pt(0, 0), Pt(10, 10)).Corners()
	b := RectFromPoints(Pt(5, 5), Pt(15, 15)).Corners()
	c := RectFromPoints(Pt(20, 20), Pt(30, 30)).Corners()
	inner := RectFromPoints(Pt(2, 2), Pt(3, 3)).Corners()

	assert.True(t, PolygonsOverlap(a, b))
	assert.False(t, PolygonsOverlap(a, c))
	assert.True(t, PolygonsOverlap(a, inner))
	assert.True(t, PolygonsOverlap(inner, a))
	assert.False(t, PolygonsOverlap(nil, a))
}

func TestSegmentDistance(t *testing.T) {
	assert.InDelta(t, 5, SegmentDistance(Pt(5, 5), Pt(0, 0), Pt(10, 0)), 1e-9)
	assert.InDelta(t, 5, SegmentDistance(Pt(-3, 4), Pt(0, 0), Pt(10, 0)), 1e-9)
	assert.InDelta(t, 5, SegmentDistance(Pt(3, 4), Pt(0, 0), Pt(0, 0)), 1e-9)
	assert.InDelta(t, 1, PolylineDistance(Pt(5, 1), []Point{{0, 0}, {10, 0}, {10, 10}}, false), 1e-9)
}

func TestEllipseContains(t *testing.T) {
	box := RectFromPoints(Pt(0, 0), Pt(100, 50))
	assert.True(t, EllipseContains(box, Angles{}, Pt(50, 25)))
	assert.True(t, EllipseContains(box, Angles{}, Pt(99, 25)))
	assert.False(t, EllipseContains(box, Angles{}, Pt(2, 2)))
	// rotated a quarter turn the long axis is vertical
	assert.True(t, EllipseContains(box, Angles{Angle: 90}, Pt(50, 70)))
	assert.False(t, EllipseContains(box, Angles{Angle: 90}, Pt(95, 25)))
}

func TestClockwise(t *testing.T) {
	ccw := []Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	assert.False(t, IsClockwise(ccw))
	assert.True(t, IsClockwise(Clockwise(ccw)))
	assert.Equal(t, ccw[0], Clockwise(ccw)[3])
}

func TestRectHelpers(t *testing.T) {
	r := RectFromPoints(Pt(10, 20), Pt(0, 0))
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 10, Height: 20}, r)
	assert.Equal(t, Pt(5, 10), r.Center())
	assert.True(t, r.Contains(Pt(10, 20)))
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 30, Height: 20}, r.Union(Rect{X: 20, Y: 5, Width: 10, Height: 0}))
	assert.True(t, Rect{}.IsEmpty())
}
