package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func equilateral(side float64) []Point {
	return []Point{{0, 0}, {side, 0}, {side / 2, side * math.Sqrt(3) / 2}}
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func TestStrokePathOutsideTriangle(t *testing.T) {
	tri := equilateral(100)
	require.True(t, IsClockwise(tri))

	got := StrokePathPoints(tri, StrokeOutside, 10, false, false)
	require.Len(t, got, 3)

	for i := range tri {
		j := (i + 1) % 3
		m := midpoint(tri[i], tri[j])
		om := midpoint(got[i], got[j])
		assert.InDelta(t, 5, Distance(m, om), 1e-6, "edge %d", i)
		assert.False(t, PolygonContains(tri, om), "edge %d offset must lie outside", i)
		// offset edge stays parallel to the original
		assert.InDelta(t, Angle(tri[i], tri[j]), Angle(got[i], got[j]), 1e-6)
	}
	// miter extension: 5 / sin(30°) from each vertex
	for i := range tri {
		assert.InDelta(t, 10, Distance(tri[i], got[i]), 1e-6, "vertex %d", i)
	}
}

func TestOutlinePointsPlacement(t *testing.T) {
	sq := RectFromPoints(Pt(0, 0), Pt(100, 100)).Corners()

	inside := OutlinePoints(sq, StrokeInside, 10, false, false)
	assert.Equal(t, sq, inside)

	middle := OutlinePoints(sq, StrokeMiddle, 10, false, false)
	assertPointsNear(t, []Point{{-5, -5}, {105, -5}, {105, 105}, {-5, 105}}, middle)

	outside := OutlinePoints(sq, StrokeOutside, 10, false, false)
	assertPointsNear(t, []Point{{-10, -10}, {110, -10}, {110, 110}, {-10, 110}}, outside)

	assert.Equal(t, sq, OutlinePoints(sq, StrokeOutside, 0, false, false))
}

func TestOutlinePointsSwapsSidesOnSingleFlip(t *testing.T) {
	sq := RectFromPoints(Pt(0, 0), Pt(100, 100)).Corners()
	flipped := FlipXPoints(sq)
	require.False(t, IsClockwise(flipped))

	got := OutlinePoints(flipped, StrokeMiddle, 10, true, false)
	b := BoundsOf(got)
	assert.InDelta(t, -5, b.X, 1e-6)
	assert.InDelta(t, 110, b.Width, 1e-6)

	// two flips restore the winding and the ordinary side
	both := FlipYPoints(flipped)
	require.True(t, IsClockwise(both))
	b = BoundsOf(OutlinePoints(both, StrokeMiddle, 10, true, true))
	assert.InDelta(t, 110, b.Width, 1e-6)
}

func TestPolygonVerticesInner(t *testing.T) {
	sq := RectFromPoints(Pt(0, 0), Pt(100, 100)).Corners()
	got := PolygonVertices(sq, 10, false)
	assertPointsNear(t, []Point{{10, 10}, {90, 10}, {90, 90}, {10, 90}}, got)
}

func TestJoinRegionSquareCorner(t *testing.T) {
	region := JoinRegion(Pt(0, 0), Pt(100, 0), Pt(100, 100), 10)
	require.Len(t, region, 4)
	assert.Equal(t, Pt(100, 0), region[0])
	assertPointsNear(t, []Point{{100, -5}, {105, -5}, {105, 0}}, region[1:])
}

func TestJoinRegionDegenerate(t *testing.T) {
	// zero-length edge falls back to a perpendicular offset
	region := JoinRegion(Pt(0, 0), Pt(0, 0), Pt(10, 0), 4)
	assertPointsNear(t, []Point{{0, 0}, {0, -2}, {0, -2}, {0, -2}}, region)

	// all points coincide
	region = JoinRegion(Pt(1, 1), Pt(1, 1), Pt(1, 1), 4)
	assertPointsNear(t, []Point{{1, 1}, {1, 1}, {1, 1}, {1, 1}}, region)

	// full reversal never produces an unbounded spike
	region = JoinRegion(Pt(0, 0), Pt(10, 0), Pt(0, 0), 4)
	for _, p := range region {
		assert.LessOrEqual(t, Distance(Pt(10, 0), p), MiterLimit*2+1e-9)
	}

	// straight continuation: miter equals the half width
	region = JoinRegion(Pt(0, 0), Pt(10, 0), Pt(20, 0), 4)
	assert.InDelta(t, 2, Distance(Pt(10, 0), region[2]), 1e-9)
}

func TestBorderRegionsCounts(t *testing.T) {
	open := []Point{{0, 0}, {10, 0}, {10, 10}, {20, 10}}
	assert.Len(t, BorderRegions(open, 2, false), 3+2)
	assert.Len(t, BorderRegions(open, 2, true), 4+4)
	assert.Nil(t, BorderRegions(open[:1], 2, false))
}

func TestStrokeBandCoversLine(t *testing.T) {
	band := StrokeBand([]Point{{0, 0}, {100, 0}}, 5)
	assertPointsNear(t, []Point{{0, -5}, {100, -5}, {100, 5}, {0, 5}}, band)
	assert.True(t, PolygonContains(band, Pt(50, 3)))
	assert.False(t, PolygonContains(band, Pt(50, 7)))
}
