package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

func TestGroupAndUngroupRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addRect(t, e, "c", 40, 0, 10, 10)
	require.True(t, e.SelectIDs([]string{"a", "b"}))

	gid, ok := e.Group()
	require.True(t, ok)
	assert.Equal(t, "group-1", gid)
	assert.Equal(t, []string{"a", "b", gid, "c"}, e.Store().Order())
	assert.Equal(t, []string{"a", "b"}, modelOf(t, e, gid).SubIDs)
	assert.Equal(t, gid, modelOf(t, e, "a").GroupID)
	assertRectNear(t, geometry.Rect{Width: 30, Height: 10}, boxOf(t, e, gid))
	el, _ := e.Store().Get(gid)
	assert.True(t, el.IsSelected())

	require.True(t, e.Undo())
	assert.False(t, e.Store().Has(gid))
	assert.Equal(t, "", modelOf(t, e, "a").GroupID)
	assert.Equal(t, []string{"a", "b", "c"}, e.Store().Order())

	require.True(t, e.Redo())
	assert.Equal(t, []string{"a", "b", gid, "c"}, e.Store().Order())
	assert.Equal(t, gid, modelOf(t, e, "b").GroupID)

	require.True(t, e.Select(gid))
	require.True(t, e.Ungroup())
	assert.False(t, e.Store().Has(gid))
	assert.Equal(t, "", modelOf(t, e, "a").GroupID)
	assert.ElementsMatch(t, []string{"a", "b"}, scene.IDs(e.Store().Selected()))

	require.True(t, e.Undo())
	assert.Equal(t, []string{"a", "b"}, modelOf(t, e, gid).SubIDs)
	assert.Equal(t, gid, modelOf(t, e, "a").GroupID)
	assert.Equal(t, []string{"a", "b", gid, "c"}, e.Store().Order())
}

func TestGroupPlacedAboveTopmostMember(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "x", 100, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	require.True(t, e.SelectIDs([]string{"a", "b"}))

	gid, ok := e.Group()
	require.True(t, ok)
	assert.Equal(t, []string{"x", "a", "b", gid}, e.Store().Order())
}

func TestGroupNestedInsideParent(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addRect(t, e, "c", 40, 0, 10, 10)
	addGroup(t, e, "g", "a", "b", "c")
	require.True(t, e.SelectDetached("a"))
	e.Store().UpdateFlags("b", scene.FlagPatch{scene.FlagDetachedSelected: true})

	inner, ok := e.Group()
	require.True(t, ok)
	assert.Equal(t, "g", modelOf(t, e, inner).GroupID)
	assert.Equal(t, []string{inner, "c"}, modelOf(t, e, "g").SubIDs)

	require.True(t, e.Undo())
	assert.Equal(t, []string{"a", "b", "c"}, modelOf(t, e, "g").SubIDs)
}

func TestGroupRefusesSingleTargetOrMixedParents(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addGroup(t, e, "g", "a", "b")
	addRect(t, e, "c", 40, 0, 10, 10)

	require.True(t, e.Select("c"))
	_, ok := e.Group()
	assert.False(t, ok)

	e.Store().UpdateFlags("a", scene.FlagPatch{scene.FlagDetachedSelected: true})
	_, ok = e.Group()
	assert.False(t, ok)
}

func TestDeleteMemberShrinksGroup(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addGroup(t, e, "g", "a", "b")
	groupBefore := modelOf(t, e, "g").Coords
	require.True(t, e.SelectDetached("a"))

	require.True(t, e.Delete())
	assert.False(t, e.Store().Has("a"))
	assert.Equal(t, []string{"b"}, modelOf(t, e, "g").SubIDs)
	assertRectNear(t, geometry.Rect{X: 20, Width: 10, Height: 10}, boxOf(t, e, "g"))

	require.True(t, e.Undo())
	assert.True(t, e.Store().Has("a"))
	assert.Equal(t, []string{"a", "b"}, modelOf(t, e, "g").SubIDs)
	assert.Equal(t, groupBefore, modelOf(t, e, "g").Coords)
	assert.Equal(t, []string{"a", "b", "g"}, e.Store().Order())
}

func TestDeleteCascadesEmptyAncestors(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addGroup(t, e, "g1", "a", "b")
	addGroup(t, e, "g2", "g1")
	addRect(t, e, "c", 40, 0, 10, 10)
	require.True(t, e.SelectDetached("g1"))

	require.True(t, e.Delete())
	assert.Equal(t, []string{"c"}, e.Store().Order())

	require.True(t, e.Undo())
	assert.Equal(t, []string{"a", "b", "g1", "g2", "c"}, e.Store().Order())
	assert.Equal(t, []string{"g1"}, modelOf(t, e, "g2").SubIDs)
	assert.Equal(t, "g2", modelOf(t, e, "g1").GroupID)
	assert.Equal(t, "g1", modelOf(t, e, "b").GroupID)

	require.True(t, e.Redo())
	assert.Equal(t, []string{"c"}, e.Store().Order())
}

func TestDeleteWithoutSelection(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	assert.False(t, e.Delete())
}

func TestCopyPasteOffsetsAndSelects(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	require.True(t, e.Select("a"))

	data, err := e.Copy()
	require.NoError(t, err)
	assert.Contains(t, data, `"id":"a"`)

	ids := e.Paste()
	require.Equal(t, []string{"rectangle-1"}, ids)
	assertRectNear(t, geometry.Rect{X: 40, Y: 40, Width: 10, Height: 10}, boxOf(t, e, "rectangle-1"))
	assert.Equal(t, []string{"rectangle-1"}, scene.IDs(e.Store().Selected()))

	require.True(t, e.Undo())
	assert.False(t, e.Store().Has("rectangle-1"))
}

func TestPasteGroupRebindsMembers(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addGroup(t, e, "g", "a", "b")
	require.True(t, e.Select("a"))
	_, err := e.Copy()
	require.NoError(t, err)

	ids := e.Paste()
	require.Equal(t, []string{"group-3"}, ids)
	assert.Equal(t, 6, e.Store().Len())
	assert.Equal(t, []string{"rectangle-1", "rectangle-2"}, modelOf(t, e, "group-3").SubIDs)
	assert.Equal(t, "group-3", modelOf(t, e, "rectangle-1").GroupID)
}

func TestUndoSecondPasteReselectsFirst(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	require.True(t, e.Select("a"))
	_, err := e.Copy()
	require.NoError(t, err)

	first := e.Paste()
	second := e.Paste()
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	require.True(t, e.Undo())
	assert.False(t, e.Store().Has(second[0]))
	assert.Equal(t, first, scene.IDs(e.Store().DetachedSelected()))
	assert.Equal(t, ToolMoveable, e.Tool())
}

func TestPasteJSONRejectsGarbage(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.PasteJSON("[{")
	assert.Error(t, err)
	assert.False(t, e.History().CanUndo())
}

func TestMoveInsideGroup(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addGroup(t, e, "g", "a", "b")
	addRect(t, e, "c", 40, 0, 10, 10)

	require.True(t, e.MoveTo([]string{"c"}, "g", DropInside))
	assert.Equal(t, []string{"a", "b", "c", "g"}, e.Store().Order())
	assert.Equal(t, []string{"a", "b", "c"}, modelOf(t, e, "g").SubIDs)
	assert.Equal(t, "g", modelOf(t, e, "c").GroupID)
	assertRectNear(t, geometry.Rect{Width: 50, Height: 10}, boxOf(t, e, "g"))

	tail, _ := e.History().Stack().TailUndo()
	assert.Equal(t, history.ElementsMoved, tail.Type)

	require.True(t, e.Undo())
	assert.Equal(t, []string{"a", "b", "g", "c"}, e.Store().Order())
	assert.Equal(t, []string{"a", "b"}, modelOf(t, e, "g").SubIDs)
	assert.Equal(t, "", modelOf(t, e, "c").GroupID)
}

func TestMoveOutRemovesEmptiedGroup(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addGroup(t, e, "g", "a", "b")
	addRect(t, e, "c", 40, 0, 10, 10)

	require.True(t, e.MoveTo([]string{"a", "b"}, "c", DropAfter))
	assert.False(t, e.Store().Has("g"))
	assert.Equal(t, []string{"c", "a", "b"}, e.Store().Order())
	assert.Equal(t, "", modelOf(t, e, "a").GroupID)

	require.True(t, e.Undo())
	assert.Equal(t, []string{"a", "b", "g", "c"}, e.Store().Order())
	assert.Equal(t, []string{"a", "b"}, modelOf(t, e, "g").SubIDs)
	assert.Equal(t, "g", modelOf(t, e, "a").GroupID)
}

func TestMoveRefusesCycles(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addGroup(t, e, "g", "a", "b")

	assert.False(t, e.MoveTo([]string{"g"}, "a", DropBefore))
	assert.False(t, e.MoveTo([]string{"b"}, "a", DropInside))
	assert.False(t, e.MoveTo([]string{"a"}, "missing", DropAfter))
}
