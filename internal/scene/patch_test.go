package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stage/internal/geometry"
)

func TestSnapshotPicksNestedKeys(t *testing.T) {
	m := NewRect("a", geometry.Pt(0, 0), geometry.Pt(10, 10))
	p := m.Snapshot(StrokeKeys...)

	require.Contains(t, p, "styles")
	styles := p["styles"].(map[string]any)
	assert.Contains(t, styles, "strokes")
	assert.NotContains(t, styles, "fills")
	assert.NotContains(t, p, "coords")
}

func TestSnapshotRecordsAbsentKeysAsNull(t *testing.T) {
	m := NewRect("a", geometry.Pt(0, 0), geometry.Pt(10, 10))
	p := m.Snapshot(GroupKeys...)
	assert.Equal(t, Patch{"groupId": nil, "subIds": nil}, p)
}

func TestApplyMergesStylesRecursively(t *testing.T) {
	m := NewRect("a", geometry.Pt(0, 0), geometry.Pt(10, 10))
	m.Styles.Fills = []Fill{{Color: "#ff0000", ColorOpacity: 0.5}}

	next, err := m.Apply(Patch{"styles": map[string]any{
		"strokes": []any{map[string]any{"type": "outside", "width": 4, "color": "#00ff00", "colorOpacity": 1}},
	}})
	require.NoError(t, err)

	assert.Equal(t, []Fill{{Color: "#ff0000", ColorOpacity: 0.5}}, next.Styles.Fills)
	assert.Equal(t, []Stroke{{Type: geometry.StrokeOutside, Width: 4, Color: "#00ff00", ColorOpacity: 1}}, next.Styles.Strokes)
	assert.Equal(t, m.Coords, next.Coords)
}

func TestApplyClearsGroupMembership(t *testing.T) {
	m := NewRect("a", geometry.Pt(0, 0), geometry.Pt(10, 10))
	m.GroupID = "g"

	next, err := m.Apply(Patch{"groupId": nil})
	require.NoError(t, err)
	assert.Equal(t, "", next.GroupID)

	next, err = next.Apply(Patch{"groupId": "g2"})
	require.NoError(t, err)
	assert.Equal(t, "g2", next.GroupID)
}

func TestSnapshotApplyRoundTripIsExact(t *testing.T) {
	before := NewShape("a", KindFreeform, []geometry.Point{{X: 0.1, Y: 0.2}, {X: 1.0 / 3, Y: 2.0 / 3}, {X: 1e-7, Y: 123456.789}})
	before.Angle = 33.333333333333336
	snap := before.Snapshot(TransformKeys...)

	after := before.Clone()
	after.Coords = geometry.Translate(after.Coords, 10, 10)
	after.Angle = 12

	restored, err := after.Apply(snap)
	require.NoError(t, err)
	assert.Equal(t, before.Coords, restored.Coords)
	assert.Equal(t, before.Angle, restored.Angle)
}

func TestModelFromFullSnapshot(t *testing.T) {
	m := NewRect("a", geometry.Pt(0, 0), geometry.Pt(10, 10))
	m.Name = "box"
	got, err := ModelFromPatch(m.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestPatchCloneIsDeep(t *testing.T) {
	p := Patch{"styles": map[string]any{"fills": []any{}}}
	c := p.Clone()
	c["styles"].(map[string]any)["fills"] = nil
	assert.NotNil(t, p["styles"].(map[string]any)["fills"])
}
