package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stage/internal/geometry"
)

func TestApplyUnknownOperation(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Apply(Operation{Type: "teleport"})
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestApplyDecodesLooseArguments(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)

	res, err := e.Apply(Operation{Type: "select", Args: map[string]any{"id": "a"}})
	require.NoError(t, err)
	assert.True(t, res.Changed)

	res, err = e.Apply(Operation{Type: "element.position", Args: map[string]any{"x": "12.5", "y": 7}})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assertRectNear(t, geometry.Rect{X: 12.5, Y: 7, Width: 10, Height: 10}, boxOf(t, e, "a"))

	res, err = e.Apply(Operation{Type: "undo"})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assertRectNear(t, geometry.Rect{Width: 10, Height: 10}, boxOf(t, e, "a"))
}

func TestApplyRejectsBadArguments(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Apply(Operation{Type: "tool.set", Args: map[string]any{"tool": "laser"}})
	assert.Error(t, err)

	_, err = e.Apply(Operation{Type: "transform.begin", Args: map[string]any{"handle": "middle"}})
	assert.Error(t, err)

	_, err = e.Apply(Operation{Type: "element.width", Args: map[string]any{"value": []string{"x"}}})
	assert.Error(t, err)
}

func TestApplyScriptedSession(t *testing.T) {
	e := newTestEngine(t)
	script := []Operation{
		{Type: "tool.set", Args: map[string]any{"tool": "rectangle"}},
		{Type: "create.begin", Args: map[string]any{"x": 0, "y": 0}},
		{Type: "create.update", Args: map[string]any{"x": 40, "y": 20}},
		{Type: "create.finish"},
		{Type: "copy"},
		{Type: "paste"},
		{Type: "select.all"},
		{Type: "group"},
		{Type: "align", Args: map[string]any{"mode": "left"}},
	}
	var last Result
	for _, o := range script {
		res, err := e.Apply(o)
		require.NoError(t, err, o.Type)
		last = res
	}
	assert.False(t, last.Changed, "a single group has nothing to align against")
	assert.Equal(t, 3, e.Store().Len())
	assert.Len(t, e.DrawList(), 2)
}

func TestApplyCopyReturnsData(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, "a", 0, 0, 10, 10)
	require.True(t, e.Select("a"))

	res, err := e.Apply(Operation{Type: "copy"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Data)

	res, err = e.Apply(Operation{Type: "paste", Args: map[string]any{"data": res.Data}})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Len(t, res.IDs, 1)
}

func TestOperationsAreSorted(t *testing.T) {
	names := Operations()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "undo")
	assert.Contains(t, names, "freeform.point")
}
