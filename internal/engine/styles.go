package engine

import (
	"slices"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

// styleTargets are the non-group elements reached by the selection.
func (e *Engine) styleTargets() scope {
	sc := e.scopeOf(e.targets())
	flat := sc.flat[:0:0]
	for _, el := range e.store.Lookup(sc.flat) {
		if !el.IsGroup() {
			flat = append(flat, el.ID())
		}
	}
	// Style edits never move anything, so ancestors are not recorded.
	return scope{targets: sc.targets, flat: flat, ancestorSet: map[string]bool{}}
}

func (e *Engine) editStrokes(fn func(strokes []scene.Stroke) []scene.Stroke) bool {
	sc := e.styleTargets()
	return e.edit(history.ElementsUpdated, sc, scene.StrokeKeys, func() {
		for _, id := range sc.flat {
			e.store.Mutate(id, func(m *scene.Model) {
				m.Styles.Strokes = fn(slices.Clone(m.Styles.Strokes))
			})
		}
	})
}

func (e *Engine) editFills(fn func(fills []scene.Fill) []scene.Fill) bool {
	sc := e.styleTargets()
	return e.edit(history.ElementsUpdated, sc, scene.FillKeys, func() {
		for _, id := range sc.flat {
			e.store.Mutate(id, func(m *scene.Model) {
				m.Styles.Fills = fn(slices.Clone(m.Styles.Fills))
			})
		}
	})
}

// editStroke applies fn to stroke layer index of every style target that has it.
func (e *Engine) editStroke(index int, fn func(s *scene.Stroke)) bool {
	return e.editStrokes(func(strokes []scene.Stroke) []scene.Stroke {
		if index >= 0 && index < len(strokes) {
			fn(&strokes[index])
		}
		return strokes
	})
}

func (e *Engine) editFill(index int, fn func(f *scene.Fill)) bool {
	return e.editFills(func(fills []scene.Fill) []scene.Fill {
		if index >= 0 && index < len(fills) {
			fn(&fills[index])
		}
		return fills
	})
}

// SetStrokeType changes where stroke layer index sits relative to the outline.
func (e *Engine) SetStrokeType(index int, placement geometry.StrokePlacement) bool {
	return e.editStroke(index, func(s *scene.Stroke) { s.Type = placement })
}

func (e *Engine) SetStrokeWidth(index int, width float64) bool {
	return e.editStroke(index, func(s *scene.Stroke) { s.Width = max(width, 0) })
}

func (e *Engine) SetStrokeColor(index int, color string) bool {
	return e.editStroke(index, func(s *scene.Stroke) { s.Color = color })
}

func (e *Engine) SetStrokeColorOpacity(index int, opacity float64) bool {
	return e.editStroke(index, func(s *scene.Stroke) { s.ColorOpacity = clamp01(opacity) })
}

// AddStroke appends a default stroke layer on top.
func (e *Engine) AddStroke() bool {
	return e.editStrokes(func(strokes []scene.Stroke) []scene.Stroke {
		return append(strokes, scene.DefaultStroke)
	})
}

// RemoveStroke drops stroke layer index.
func (e *Engine) RemoveStroke(index int) bool {
	return e.editStrokes(func(strokes []scene.Stroke) []scene.Stroke {
		if index < 0 || index >= len(strokes) {
			return strokes
		}
		return slices.Delete(strokes, index, index+1)
	})
}

func (e *Engine) SetFillColor(index int, color string) bool {
	return e.editFill(index, func(f *scene.Fill) { f.Color = color })
}

func (e *Engine) SetFillColorOpacity(index int, opacity float64) bool {
	return e.editFill(index, func(f *scene.Fill) { f.ColorOpacity = clamp01(opacity) })
}

// AddFill appends a default fill layer on top.
func (e *Engine) AddFill() bool {
	return e.editFills(func(fills []scene.Fill) []scene.Fill {
		return append(fills, scene.DefaultFill)
	})
}

// RemoveFill drops fill layer index.
func (e *Engine) RemoveFill(index int) bool {
	return e.editFills(func(fills []scene.Fill) []scene.Fill {
		if index < 0 || index >= len(fills) {
			return fills
		}
		return slices.Delete(fills, index, index+1)
	})
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
