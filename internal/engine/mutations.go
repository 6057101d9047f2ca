package engine

import (
	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

// SetPosition moves every target so its box origin lands on (x, y).
func (e *Engine) SetPosition(x, y float64) bool {
	sc := e.scopeOf(e.targets())
	return e.edit(history.ElementsUpdated, sc, scene.TransformKeys, func() {
		for _, id := range sc.targets {
			el, ok := e.store.Get(id)
			if !ok {
				continue
			}
			box := el.Box()
			e.translate(e.resolver.FlatWithDeepSubs([]string{id}), x-box.X, y-box.Y)
		}
	})
}

// SetWidth resizes every target to width w, keeping its top-left corner.
func (e *Engine) SetWidth(w float64) bool {
	return e.resize(func(box geometry.Rect) (float64, float64) {
		if isZero(box.Width) {
			return 1, 1
		}
		return w / box.Width, 1
	})
}

// SetHeight resizes every target to height h, keeping its top-left corner.
func (e *Engine) SetHeight(h float64) bool {
	return e.resize(func(box geometry.Rect) (float64, float64) {
		if isZero(box.Height) {
			return 1, 1
		}
		return 1, h / box.Height
	})
}

func (e *Engine) resize(factor func(box geometry.Rect) (float64, float64)) bool {
	sc := e.scopeOf(e.targets())
	return e.edit(history.ElementsUpdated, sc, scene.TransformKeys, func() {
		for _, id := range sc.targets {
			el, ok := e.store.Get(id)
			if !ok {
				continue
			}
			sx, sy := factor(el.Box())
			if sx <= 0 || sy <= 0 || (sx == 1 && sy == 1) {
				continue
			}
			lock := el.RotateBoxCoords()[0]
			e.scaleSubtree(e.resolver.FlatWithDeepSubs([]string{id}), nil, sx, sy, lock, el.Angles())
		}
	})
}

// scaleSubtree scales ids by (sx, sy) in the frame given by angles, anchored
// at the world point lock. When originals holds a model for an id the scale
// starts from it instead of the current state.
func (e *Engine) scaleSubtree(ids []string, originals map[string]scene.Model, sx, sy float64, lock geometry.Point, frame geometry.Angles) {
	m := geometry.Scaling(sx, sy).Aff3()
	for _, id := range ids {
		el, ok := e.store.Get(id)
		if !ok {
			continue
		}
		model := el.Model()
		rotated := el.RotateCoords()
		if orig, ok := originals[id]; ok {
			model = orig
			rotated = geometry.TransAround(orig.Coords, orig.Angles(), orig.Center(), false)
		}
		next := geometry.MatrixPoints(rotated, m, lock, frame)
		coords := geometry.CoordsByTransPoints(next, model.Angles(), lock)
		flipX, flipY := model.FlipX != (sx < 0), model.FlipY != (sy < 0)
		box := geometry.BoundsOf(coords)
		corners := geometry.FixCorners(model.Corners, min(box.Width, box.Height))
		e.store.Mutate(id, func(m *scene.Model) {
			m.Coords = coords
			m.FlipX, m.FlipY = flipX, flipY
			m.Corners = corners
		})
	}
}

// SetAngle rotates every target about its own centre to the absolute angle a.
func (e *Engine) SetAngle(a float64) bool {
	sc := e.scopeOf(e.targets())
	return e.edit(history.ElementsUpdated, sc, scene.TransformKeys, func() {
		for _, id := range sc.targets {
			el, ok := e.store.Get(id)
			if !ok {
				continue
			}
			delta := geometry.NormalizeAngle(a - el.Model().Angle)
			if isZero(delta) {
				continue
			}
			e.rotateSubtree(e.resolver.FlatWithDeepSubs([]string{id}), nil, delta, el.Center())
		}
	})
}

// rotateSubtree rotates ids by delta degrees about pivot, starting from
// originals where present.
func (e *Engine) rotateSubtree(ids []string, originals map[string]scene.Model, delta float64, pivot geometry.Point) {
	for _, id := range ids {
		el, ok := e.store.Get(id)
		if !ok {
			continue
		}
		model := el.Model()
		rotated := el.RotateCoords()
		if orig, ok := originals[id]; ok {
			model = orig
			rotated = geometry.TransAround(orig.Coords, orig.Angles(), orig.Center(), false)
		}
		angles := model.Angles()
		angles.Angle = geometry.NormalizeAngle(angles.Angle + delta)
		coords := geometry.CoordsByTransPoints(geometry.RotateAround(rotated, delta, pivot), angles, pivot)
		e.store.Mutate(id, func(m *scene.Model) {
			m.Coords = coords
			m.Angle = angles.Angle
		})
	}
}

// SetLeanYAngle skews every target and its members.
func (e *Engine) SetLeanYAngle(lean float64) bool {
	sc := e.scopeOf(e.targets())
	return e.edit(history.ElementsUpdated, sc, scene.TransformKeys, func() {
		for _, id := range sc.flat {
			e.store.Mutate(id, func(m *scene.Model) {
				m.LeanYAngle = lean
			})
		}
	})
}

// SetFlipX mirrors every target across its vertical axis.
func (e *Engine) SetFlipX() bool {
	return e.flip(true)
}

// SetFlipY mirrors every target across its horizontal axis.
func (e *Engine) SetFlipY() bool {
	return e.flip(false)
}

func (e *Engine) flip(horizontal bool) bool {
	sc := e.scopeOf(e.targets())
	return e.edit(history.ElementsUpdated, sc, scene.TransformKeys, func() {
		for _, id := range sc.targets {
			el, ok := e.store.Get(id)
			if !ok {
				continue
			}
			if !el.IsGroup() {
				e.store.Mutate(id, func(m *scene.Model) {
					if horizontal {
						m.Coords = geometry.FlipXPoints(m.Coords)
						m.FlipX = !m.FlipX
					} else {
						m.Coords = geometry.FlipYPoints(m.Coords)
						m.FlipY = !m.FlipY
					}
				})
				continue
			}
			e.mirrorMembers(el, horizontal)
		}
	})
}

// mirrorMembers reflects the members of group g across the group's local
// vertical (horizontal false: local horizontal) axis. A member rotated by
// θ inside a group rotated by γ ends up rotated by 2γ−θ with its lean
// negated and its own points mirrored.
func (e *Engine) mirrorMembers(g *scene.Element, horizontal bool) {
	center := g.Center()
	gamma := g.Model().Angle
	axis := gamma
	if horizontal {
		axis += 90
	}
	for _, id := range e.resolver.DeepSubIDs(g.ID()) {
		el, ok := e.store.Get(id)
		if !ok {
			continue
		}
		model := el.Model()
		reflected := reflectPoints(el.RotateCoords(), center, axis)
		angles := geometry.Angles{Angle: geometry.NormalizeAngle(2*gamma - model.Angle), LeanY: -model.LeanYAngle}
		coords := geometry.CoordsByTransPoints(reflected, angles, center)
		e.store.Mutate(id, func(m *scene.Model) {
			m.Coords = coords
			m.Angle, m.LeanYAngle = angles.Angle, angles.LeanY
			if horizontal {
				m.FlipX = !m.FlipX
			} else {
				m.FlipY = !m.FlipY
			}
		})
	}
	e.store.Mutate(g.ID(), func(m *scene.Model) {
		if horizontal {
			m.FlipX = !m.FlipX
		} else {
			m.FlipY = !m.FlipY
		}
	})
}

// reflectPoints mirrors points across the line through c at axis degrees.
func reflectPoints(points []geometry.Point, c geometry.Point, axis float64) []geometry.Point {
	m := geometry.Rotation(axis).Multiply(geometry.Scaling(1, -1)).Multiply(geometry.Rotation(-axis))
	out := make([]geometry.Point, len(points))
	for i, p := range points {
		out[i] = m.Apply(p.Sub(c)).Add(c)
	}
	return out
}

// SetCorners sets corner radius index (all corners when index < 0) on every
// target that supports corners. Radii are clamped to half the shorter side.
func (e *Engine) SetCorners(index int, radius float64) bool {
	sc := e.scopeOf(e.targets())
	return e.edit(history.ElementsUpdated, sc, scene.CornerKeys, func() {
		for _, el := range e.store.Lookup(sc.flat) {
			if !scene.CapabilityOf(el.Kind()).Corners || el.IsGroup() {
				continue
			}
			model := el.Model()
			corners := model.Corners
			if len(corners) != 4 {
				corners = []float64{0, 0, 0, 0}
			}
			if index >= len(corners) {
				continue
			}
			for i := range corners {
				if index < 0 || i == index {
					corners[i] = radius
				}
			}
			corners = geometry.FixCorners(corners, min(model.Width, model.Height))
			e.store.Mutate(el.ID(), func(m *scene.Model) {
				m.Corners = corners
			})
		}
	})
}
