package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/scene"
)

// newTestEngine returns an engine with deterministic ids of the form
// "<kind>-<n>" and a silent logger.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	n := 0
	return NewEngine(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithIDs(func(kind scene.Kind) string {
			n++
			return fmt.Sprintf("%s-%d", kind, n)
		}),
	)
}

// identityFrame makes stage and world coordinates coincide.
func identityFrame(e *Engine) {
	e.SetFrame(geometry.StageFrame{Width: 1920, Height: 1080, WorldCoord: geometry.Pt(960, 540), Scale: 1})
}

func addRect(t *testing.T, e *Engine, id string, x, y, w, h float64) {
	t.Helper()
	_, err := e.Store().Add(scene.NewRect(id, geometry.Pt(x, y), geometry.Pt(x+w, y+h)), scene.StatusFinished)
	require.NoError(t, err)
}

// addGroup wraps members into a group placed on top of the layer order.
func addGroup(t *testing.T, e *Engine, id string, members ...string) {
	t.Helper()
	g := scene.NewShape(id, scene.KindGroup, SelectionBounds(e.Store().Lookup(members)).Corners())
	g.Styles = scene.Styles{}
	g.SubIDs = members
	_, err := e.Store().Add(g, scene.StatusFinished)
	require.NoError(t, err)
	for _, m := range members {
		e.Store().Mutate(m, func(mm *scene.Model) {
			mm.GroupID = id
		})
	}
}

func modelOf(t *testing.T, e *Engine, id string) scene.Model {
	t.Helper()
	el, ok := e.Store().Get(id)
	require.True(t, ok, "element %s", id)
	return el.Model()
}

func boxOf(t *testing.T, e *Engine, id string) geometry.Rect {
	t.Helper()
	return modelOf(t, e, id).Box()
}

func assertRectNear(t *testing.T, want, got geometry.Rect) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-6, "y")
	assert.InDelta(t, want.Width, got.Width, 1e-6, "width")
	assert.InDelta(t, want.Height, got.Height, 1e-6, "height")
}

func TestLoadDocumentReplacesSceneAndHistory(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "old", 0, 0, 10, 10)
	require.True(t, e.Select("old"))
	require.True(t, e.History().CanUndo())

	doc := `{"version":1,"elements":[` +
		`{"id":"r1","type":"rectangle","coords":[{"x":0,"y":0},{"x":40,"y":0},{"x":40,"y":20},{"x":0,"y":20}]}` +
		`]}`
	require.NoError(t, e.LoadDocumentJSON(doc))

	assert.Equal(t, []string{"r1"}, e.Store().Order())
	assert.False(t, e.History().CanUndo())
	assert.Equal(t, ToolMoveable, e.Tool())
	assertRectNear(t, geometry.Rect{Width: 40, Height: 20}, boxOf(t, e, "r1"))
}

func TestLoadDocumentRejectsInvalidJSON(t *testing.T) {
	e := newTestEngine(t)
	assert.Error(t, e.LoadDocumentJSON("{not json"))
}

func TestDrawListSkipsGroupsAndMarksSelection(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	addRect(t, e, "b", 20, 0, 10, 10)
	addGroup(t, e, "g", "a", "b")
	addRect(t, e, "c", 40, 0, 10, 10)
	require.True(t, e.Select("a"))

	list := e.DrawList()
	require.Len(t, list, 3)
	ids := []string{list[0].ObjectID, list[1].ObjectID, list[2].ObjectID}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.True(t, list[0].Selected)
	assert.True(t, list[1].Selected)
	assert.False(t, list[2].Selected)
	assert.Equal(t, "rect", list[0].Op)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.Render()), &decoded))
	assert.Len(t, decoded, 3)
}

func TestEmptyDrawListRendersArray(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, "[]", e.Tick())
}

func TestHitTestReturnsTopmost(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "under", 0, 0, 20, 20)
	addRect(t, e, "over", 10, 10, 20, 20)

	assert.Equal(t, "over", e.HitTest(15, 15))
	assert.Equal(t, "under", e.HitTest(2, 2))
	assert.Equal(t, "", e.HitTest(500, 500))
}

func TestGetStateReportsHistory(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	require.True(t, e.Select("a"))

	var state map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.GetState()), &state))
	assert.Equal(t, "moveable", state["tool"])
	assert.Equal(t, true, state["canUndo"])
	assert.Equal(t, false, state["canRedo"])
	assert.EqualValues(t, 1, state["elements"])
}
