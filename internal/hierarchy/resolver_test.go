package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type node struct {
	parent string
	subs   []string
}

type mapTree map[string]node

func (t mapTree) Has(id string) bool {
	_, ok := t[id]
	return ok
}

func (t mapTree) ParentOf(id string) string { return t[id].parent }

func (t mapTree) SubsOf(id string) []string { return t[id].subs }

// g1 { a, g2 { b, c } }, d
func sampleTree() mapTree {
	return mapTree{
		"g1": {subs: []string{"a", "g2"}},
		"a":  {parent: "g1"},
		"g2": {parent: "g1", subs: []string{"b", "c"}},
		"b":  {parent: "g2"},
		"c":  {parent: "g2"},
		"d":  {},
	}
}

func TestAncestorIDs(t *testing.T) {
	r := NewResolver(sampleTree())
	assert.Equal(t, []string{"g2", "g1"}, r.AncestorIDs("b"))
	assert.Empty(t, r.AncestorIDs("d"))
	assert.Empty(t, r.AncestorIDs("missing"))
}

func TestAncestorIDsStopsOnCycle(t *testing.T) {
	tree := mapTree{
		"x": {parent: "y"},
		"y": {parent: "x"},
	}
	assert.Equal(t, []string{"y"}, NewResolver(tree).AncestorIDs("x"))
}

func TestAncestorIDsStopsAtDanglingParent(t *testing.T) {
	tree := mapTree{"x": {parent: "gone"}}
	assert.Empty(t, NewResolver(tree).AncestorIDs("x"))
}

func TestNonHomologous(t *testing.T) {
	r := NewResolver(sampleTree())

	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"members collapse to highest selected ancestor", []string{"b", "g2", "g1"}, []string{"g1"}},
		{"unselected ancestors are not used", []string{"b", "c"}, []string{"b", "c"}},
		{"inner group keeps its members", []string{"b", "g2", "d"}, []string{"g2", "d"}},
		{"top level untouched", []string{"d"}, []string{"d"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.NonHomologous(tc.ids))
		})
	}
}

func TestAncestorGroup(t *testing.T) {
	r := NewResolver(sampleTree())

	id, ok := r.AncestorGroup([]string{"a", "b", "g1", "g2", "c"})
	assert.True(t, ok)
	assert.Equal(t, "g1", id)

	assert.False(t, r.IsSameAncestorGroup([]string{"a", "d"}))
	assert.False(t, r.IsSameAncestorGroup(nil))
}

func TestAncestorIDsByDetached(t *testing.T) {
	r := NewResolver(sampleTree())
	detached := func(id string) bool { return id == "b" || id == "a" || id == "d" }

	assert.Equal(t, []string{"g1", "g2"}, r.AncestorIDsByDetached([]string{"a", "b", "d"}, detached))
	assert.Empty(t, r.AncestorIDsByDetached([]string{"c"}, detached))
}

func TestDeepSubIDsAndFlat(t *testing.T) {
	r := NewResolver(sampleTree())
	assert.Equal(t, []string{"a", "g2", "b", "c"}, r.DeepSubIDs("g1"))
	assert.Empty(t, r.DeepSubIDs("d"))

	assert.Equal(t, []string{"b", "c", "g2", "d"}, r.FlatWithDeepSubs([]string{"g2", "d", "b"}))
}

func TestWithAncestors(t *testing.T) {
	r := NewResolver(sampleTree())
	assert.Equal(t, []string{"b", "d", "g2", "g1"}, r.WithAncestors([]string{"b", "d"}))
}

func TestOuterLayerIDs(t *testing.T) {
	summaries := []Summary{
		{ID: "a", GroupID: "g1"},
		{ID: "b", GroupID: "g2"},
		{ID: "g2", GroupID: "g1"},
		{ID: "g1"},
		{ID: "d"},
		{ID: "orphan", GroupID: "gone"},
	}
	assert.Equal(t, []string{"g1", "d", "orphan"}, OuterLayerIDs(summaries))
}

func TestOuterLayerIDsProperty(t *testing.T) {
	summaries := []Summary{
		{ID: "a", GroupID: "g"},
		{ID: "g", GroupID: "h"},
		{ID: "h"},
		{ID: "k", GroupID: "h"},
		{ID: "m", GroupID: "lost"},
		{ID: "n", GroupID: "m"},
	}
	byID := make(map[string]Summary)
	for _, s := range summaries {
		byID[s.ID] = s
	}
	outer := OuterLayerIDs(summaries)
	assert.Equal(t, []string{"h", "m"}, outer)

	for _, id := range outer {
		_, parentInSet := byID[byID[id].GroupID]
		assert.False(t, parentInSet, "outer id %s has a parent in the set", id)
	}
	// every element reaches exactly one outer id by walking parents
	for _, s := range summaries {
		cur := s.ID
		for {
			p, ok := byID[byID[cur].GroupID]
			if !ok {
				break
			}
			cur = p.ID
		}
		assert.Contains(t, outer, cur)
	}
}
