package engine

import (
	"slices"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

// outerOf returns the top-most live ancestor of id, or id itself.
func (e *Engine) outerOf(id string) string {
	ancestors := e.resolver.AncestorIDs(id)
	if len(ancestors) == 0 {
		return id
	}
	return ancestors[len(ancestors)-1]
}

// markSelected flags ids and their transitive members as selected.
func (e *Engine) markSelected(ids []string, v bool) {
	e.store.UpdateFlagsMany(e.resolver.FlatWithDeepSubs(ids), scene.FlagPatch{scene.FlagSelected: v})
}

func (e *Engine) clearSelection() {
	e.store.ClearFlag(scene.FlagSelected)
	e.store.ClearFlag(scene.FlagDetachedSelected)
}

// selectOnly replaces the selection without recording a command.
func (e *Engine) selectOnly(ids []string) {
	e.clearSelection()
	e.markSelected(ids, true)
}

// selectionState is the recorded form of the selection.
type selectionState struct {
	selected, detached []string
}

func (e *Engine) selectionState() selectionState {
	return selectionState{
		selected: scene.IDs(e.store.Selected()),
		detached: scene.IDs(e.store.DetachedSelected()),
	}
}

// commitSelection records a selection change since prev.
func (e *Engine) commitSelection(prev selectionState) bool {
	cur := e.selectionState()
	if slices.Equal(prev.selected, cur.selected) && slices.Equal(prev.detached, cur.detached) {
		return false
	}
	e.push(history.NewCommand(history.ElementsSelected, history.Payload{
		PrevSelectedIDs: prev.selected,
		SelectedIDs:     cur.selected,
		PrevDetachedIDs: prev.detached,
		DetachedIDs:     cur.detached,
	}))
	return true
}

// Select makes the outer group of id the only selection.
func (e *Engine) Select(id string) bool {
	if !e.store.Has(id) {
		return false
	}
	prev := e.selectionState()
	e.selectOnly([]string{e.outerOf(id)})
	return e.commitSelection(prev)
}

// SelectIDs selects the outer groups of every id.
func (e *Engine) SelectIDs(ids []string) bool {
	prev := e.selectionState()
	var outer []string
	for _, id := range ids {
		if e.store.Has(id) {
			outer = append(outer, e.outerOf(id))
		}
	}
	e.selectOnly(outer)
	return e.commitSelection(prev)
}

// ToggleSelect adds the outer group of id to the selection or removes it.
func (e *Engine) ToggleSelect(id string) bool {
	if !e.store.Has(id) {
		return false
	}
	prev := e.selectionState()
	outer := e.outerOf(id)
	el, _ := e.store.Get(outer)
	e.store.ClearFlag(scene.FlagDetachedSelected)
	e.markSelected([]string{outer}, !el.IsSelected())
	return e.commitSelection(prev)
}

// SelectDetached selects a group member on its own, leaving its group
// unselected.
func (e *Engine) SelectDetached(id string) bool {
	if !e.store.Has(id) {
		return false
	}
	prev := e.selectionState()
	e.clearSelection()
	e.store.UpdateFlagsMany(e.resolver.FlatWithDeepSubs([]string{id}), scene.FlagPatch{scene.FlagDetachedSelected: true})
	return e.commitSelection(prev)
}

// SelectAll selects every element.
func (e *Engine) SelectAll() bool {
	prev := e.selectionState()
	e.selectOnly(e.topLevel())
	return e.commitSelection(prev)
}

// DeselectAll clears the selection.
func (e *Engine) DeselectAll() bool {
	prev := e.selectionState()
	e.clearSelection()
	return e.commitSelection(prev)
}

// inRange returns the outer-layer elements whose bounds overlap r.
func (e *Engine) inRange(r geometry.Rect) []string {
	var out []string
	for _, el := range e.store.Lookup(e.topLevel()) {
		if el.Status().InProgress() || !el.IsVisible() {
			continue
		}
		if el.Bounds().Overlaps(r) {
			out = append(out, el.ID())
		}
	}
	return out
}

// UpdateRange flags the outer-layer elements touched by a rubber-band
// rectangle.
func (e *Engine) UpdateRange(r geometry.Rect) {
	hit := e.inRange(r)
	for _, el := range e.store.Elements() {
		e.store.UpdateFlags(el.ID(), scene.FlagPatch{scene.FlagInRange: slices.Contains(hit, el.ID())})
	}
}

// SelectRange selects every outer-layer element touched by r.
func (e *Engine) SelectRange(r geometry.Rect) bool {
	e.store.ClearFlag(scene.FlagInRange)
	return e.SelectIDs(e.inRange(r))
}

// HoverAt marks the outer element under p as the hover target. Hovering is
// ignored while a gesture is running.
func (e *Engine) HoverAt(p geometry.Point) string {
	if e.busy != BusyNone || e.store.CreatingID() != "" {
		return ""
	}
	target := ""
	if hit := HitTest(e.store, p, e.hitTolerance()); hit != "" {
		target = e.outerOf(hit)
		if e.isDetached(hit) {
			target = hit
		}
	}
	for _, el := range e.store.Targets() {
		if el.ID() != target {
			e.store.UpdateFlags(el.ID(), scene.FlagPatch{scene.FlagTarget: false})
		}
	}
	if target != "" {
		e.store.UpdateFlags(target, scene.FlagPatch{scene.FlagTarget: true})
	}
	return target
}

// hitTolerance is the configured tolerance in world units.
func (e *Engine) hitTolerance() float64 {
	s := e.store.Frame().Scale
	if s <= 0 {
		s = 1
	}
	return e.cfg.HitTolerance / s
}
