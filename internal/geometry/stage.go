package geometry

// StageFrame is the viewport: its size in screen pixels, the world point shown
// at its centre and the zoom scale.
type StageFrame struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	WorldCoord Point   `json:"worldCoord"`
	Scale      float64 `json:"scale"`
}

func (f StageFrame) scale() float64 {
	if f.Scale <= 0 {
		return 1
	}
	return f.Scale
}

// ToStage maps a world point to stage (render) coordinates.
func (f StageFrame) ToStage(p Point) Point {
	s := f.scale()
	return Point{
		X: (p.X-f.WorldCoord.X)*s + f.Width/2,
		Y: (p.Y-f.WorldCoord.Y)*s + f.Height/2,
	}
}

// ToWorld maps a stage point back to world coordinates.
func (f StageFrame) ToWorld(p Point) Point {
	s := f.scale()
	return Point{
		X: (p.X-f.Width/2)/s + f.WorldCoord.X,
		Y: (p.Y-f.Height/2)/s + f.WorldCoord.Y,
	}
}

// PointsToStage maps every point.
func (f StageFrame) PointsToStage(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = f.ToStage(p)
	}
	return out
}

// WorldRect is the world-space area visible in the viewport.
func (f StageFrame) WorldRect() Rect {
	return RectFromPoints(f.ToWorld(Point{}), f.ToWorld(Point{X: f.Width, Y: f.Height}))
}
