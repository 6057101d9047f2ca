package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

func TestDragGroupUndoRestoresExactly(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addGroup(t, e, "g", "a", "b")
	require.True(t, e.Select("a"))
	before := map[string][]geometry.Point{
		"a": modelOf(t, e, "a").Coords,
		"b": modelOf(t, e, "b").Coords,
		"g": modelOf(t, e, "g").Coords,
	}

	require.True(t, e.BeginDrag(geometry.Pt(5, 5)))
	assert.Equal(t, BusyMoving, e.Busy())
	require.True(t, e.Drag(geometry.Pt(12.3, 9.1)))
	require.True(t, e.Drag(geometry.Pt(20.5, 7.25)))
	require.True(t, e.EndDrag())
	assert.Equal(t, BusyNone, e.Busy())

	assertRectNear(t, geometry.Rect{X: 15.5, Y: 2.25, Width: 10, Height: 10}, boxOf(t, e, "a"))
	assertRectNear(t, geometry.Rect{X: 15.5, Y: 2.25, Width: 30, Height: 10}, boxOf(t, e, "g"))

	require.True(t, e.Undo())
	for id, coords := range before {
		assert.Equal(t, coords, modelOf(t, e, id).Coords, id)
	}

	require.True(t, e.Redo())
	assertRectNear(t, geometry.Rect{X: 15.5, Y: 2.25, Width: 10, Height: 10}, boxOf(t, e, "a"))
}

func TestDragBelowThresholdRecordsNothing(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	require.True(t, e.Select("a"))
	n := e.History().Stack().Len()

	require.True(t, e.BeginDrag(geometry.Pt(5, 5)))
	assert.False(t, e.Drag(geometry.Pt(5.2, 5)))
	assert.False(t, e.EndDrag())
	assert.Equal(t, n, e.History().Stack().Len())
}

func TestDetachedMemberDragRefreshesAncestor(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addGroup(t, e, "g", "a", "b")
	groupBefore := modelOf(t, e, "g").Coords
	require.True(t, e.SelectDetached("a"))

	require.True(t, e.BeginDrag(geometry.Pt(5, 5)))
	require.True(t, e.Drag(geometry.Pt(5, 45)))
	require.True(t, e.EndDrag())

	assertRectNear(t, geometry.Rect{X: 0, Y: 40, Width: 10, Height: 10}, boxOf(t, e, "a"))
	assertRectNear(t, geometry.Rect{X: 0, Y: 0, Width: 10, Height: 10}, boxOf(t, e, "b"))
	assertRectNear(t, geometry.Rect{X: 0, Y: 0, Width: 30, Height: 50}, boxOf(t, e, "g"))

	tail, ok := e.History().Stack().TailUndo()
	require.True(t, ok)
	actions := map[string]history.Action{}
	for _, d := range tail.Payload.RedoDataList {
		actions[d.ID] = d.Action
	}
	assert.Equal(t, map[string]history.Action{"a": history.ActionUpdated, "g": history.ActionGroupUpdated}, actions)

	require.True(t, e.Undo())
	assert.Equal(t, groupBefore, modelOf(t, e, "g").Coords)
}

func TestCancelGestureRestoresStart(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	require.True(t, e.Select("a"))
	n := e.History().Stack().Len()

	require.True(t, e.BeginDrag(geometry.Pt(5, 5)))
	require.True(t, e.Drag(geometry.Pt(50, 50)))
	require.True(t, e.Cancel())

	assert.Equal(t, BusyNone, e.Busy())
	assertRectNear(t, geometry.Rect{Width: 10, Height: 10}, boxOf(t, e, "a"))
	assert.Equal(t, n, e.History().Stack().Len())
	el, _ := e.Store().Get("a")
	assert.False(t, el.Has(scene.FlagDragging))
}

func TestGestureRefusedWithoutSelectionOrWhenLocked(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	assert.False(t, e.BeginDrag(geometry.Pt(5, 5)))

	require.True(t, e.Select("a"))
	e.Store().UpdateFlags("a", scene.FlagPatch{scene.FlagLocked: true})
	assert.False(t, e.BeginDrag(geometry.Pt(5, 5)))
	assert.Equal(t, BusyNone, e.Busy())
}

func TestUndoRefusedWhileBusy(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	require.True(t, e.Select("a"))
	require.True(t, e.BeginDrag(geometry.Pt(5, 5)))
	assert.False(t, e.Undo())
	require.True(t, e.CancelGesture())
	assert.True(t, e.Undo())
}

func TestRotateSingleFollowsPointer(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 20, 20)
	require.True(t, e.Select("a"))

	require.True(t, e.BeginRotate(geometry.Pt(30, 10)))
	angle := geometry.PointerAngle(geometry.Pt(10, 10), geometry.Pt(10, 30))
	require.True(t, e.Rotate(geometry.Pt(10, 30)))
	require.True(t, e.EndRotate())

	m := modelOf(t, e, "a")
	assert.InDelta(t, geometry.NormalizeAngle(angle), m.Angle, 1e-6)
	assertRectNear(t, geometry.Rect{Width: 20, Height: 20}, m.Box())

	require.True(t, e.Undo())
	assert.Equal(t, 0.0, modelOf(t, e, "a").Angle)
}

func TestTransformFromCornerHandle(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	require.True(t, e.Select("a"))

	require.True(t, e.BeginTransform(HandleBottomRight, geometry.Pt(10, 10)))
	require.True(t, e.Transform(geometry.Pt(30, 20)))
	require.True(t, e.EndTransform())

	assertRectNear(t, geometry.Rect{Width: 30, Height: 20}, boxOf(t, e, "a"))
	require.True(t, e.Undo())
	assertRectNear(t, geometry.Rect{Width: 10, Height: 10}, boxOf(t, e, "a"))
}

func TestPointerPressDragRelease(t *testing.T) {
	e := newTestEngine(t)
	identityFrame(e)
	addRect(t, e, "a", 0, 0, 10, 10)

	e.PressDown(5, 5, false)
	assert.Equal(t, BusyMoveReady, e.Busy())
	el, _ := e.Store().Get("a")
	assert.True(t, el.IsSelected())

	e.PointerMove(20, 20)
	e.PointerMove(30, 30)
	e.Tick()
	assert.Equal(t, BusyMoving, e.Busy())

	e.PressUp(30, 30)
	assert.Equal(t, BusyNone, e.Busy())
	assertRectNear(t, geometry.Rect{X: 25, Y: 25, Width: 10, Height: 10}, boxOf(t, e, "a"))

	tail, _ := e.History().Stack().TailUndo()
	assert.Equal(t, history.ElementsUpdated, tail.Type)
	require.True(t, e.Undo())
	assertRectNear(t, geometry.Rect{Width: 10, Height: 10}, boxOf(t, e, "a"))
}

func TestPointerRangeSelect(t *testing.T) {
	e := newTestEngine(t)
	identityFrame(e)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addRect(t, e, "c", 100, 100, 10, 10)

	e.PressDown(-5, -5, false)
	e.PointerMove(25, 5)
	e.Tick()
	assert.Len(t, e.Store().InRange(), 2)
	e.PressUp(25, 5)

	assert.ElementsMatch(t, []string{"a", "b"}, scene.IDs(e.Store().Selected()))
	assert.Empty(t, e.Store().InRange())
}

func TestPointerHandPans(t *testing.T) {
	e := newTestEngine(t)
	identityFrame(e)
	require.True(t, e.SetTool(ToolHand))

	e.PressDown(100, 100, false)
	e.PointerMove(110, 130)
	e.Tick()
	e.PressUp(110, 130)

	f := e.Store().Frame()
	assert.InDelta(t, 950, f.WorldCoord.X, 1e-9)
	assert.InDelta(t, 510, f.WorldCoord.Y, 1e-9)
}

func TestCornerMoveSetsOneRadius(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 40, 40)
	require.True(t, e.Select("a"))

	require.True(t, e.BeginCornerMove(0, geometry.Pt(0, 0)))
	require.True(t, e.MoveCorner(geometry.Pt(10, 10)))
	require.True(t, e.EndCornerMove())
	assert.Equal(t, []float64{10, 0, 0, 0}, modelOf(t, e, "a").Corners)

	require.True(t, e.BeginCornerMove(-1, geometry.Pt(40, 40)))
	require.True(t, e.MoveCorner(geometry.Pt(0, 0)))
	require.True(t, e.EndCornerMove())
	assert.Equal(t, []float64{20, 20, 20, 20}, modelOf(t, e, "a").Corners, "clamped to half the side")

	require.True(t, e.Undo())
	assert.Equal(t, []float64{10, 0, 0, 0}, modelOf(t, e, "a").Corners)
}

func TestCornerMoveNeedsSingleCorneredShape(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Store().Add(scene.NewShape("l", scene.KindLine, []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}), scene.StatusFinished)
	require.NoError(t, err)
	require.True(t, e.Select("l"))
	assert.False(t, e.BeginCornerMove(0, geometry.Pt(0, 0)))
	assert.False(t, e.BeginCornerMove(4, geometry.Pt(0, 0)))
}
