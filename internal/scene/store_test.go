package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stage/internal/geometry"
)

func newTestStore(t *testing.T, models ...Model) *Store {
	t.Helper()
	s := NewStore()
	for _, m := range models {
		_, err := s.Add(m, StatusFinished)
		require.NoError(t, err)
	}
	return s
}

// assertIndicesExact checks every index against a full scan of the flags.
func assertIndicesExact(t *testing.T, s *Store) {
	t.Helper()
	for _, idx := range AllIndices() {
		var want []string
		for _, e := range s.Elements() {
			if idx.Matches(e) {
				want = append(want, e.ID())
			}
		}
		got := IDs(s.Members(idx))
		if len(want) == 0 {
			assert.Empty(t, got, "index %d", idx)
			continue
		}
		assert.Equal(t, want, got, "index %d", idx)
	}
}

func TestStoreAddDerivesBox(t *testing.T) {
	s := newTestStore(t, NewShape("r1", KindRectangle, []geometry.Point{{X: 10, Y: 20}, {X: 110, Y: 20}, {X: 110, Y: 70}, {X: 10, Y: 70}}))
	e, ok := s.Get("r1")
	require.True(t, ok)

	m := e.Model()
	assert.Equal(t, 10.0, m.X)
	assert.Equal(t, 20.0, m.Y)
	assert.Equal(t, 100.0, m.Width)
	assert.Equal(t, 50.0, m.Height)
	assert.Equal(t, geometry.Pt(60, 45), e.Center())
	assert.True(t, e.IsVisible())
	assert.Equal(t, StatusFinished, e.Status())
}

func TestStoreRejectsDuplicateAndEmptyIDs(t *testing.T) {
	s := newTestStore(t, NewRect("a", geometry.Pt(0, 0), geometry.Pt(1, 1)))
	_, err := s.Add(NewRect("a", geometry.Pt(0, 0), geometry.Pt(1, 1)), StatusFinished)
	assert.ErrorIs(t, err, ErrDuplicateID)
	_, err = s.Add(Model{}, StatusFinished)
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestStoreRemoveIsIdempotentAndCascades(t *testing.T) {
	s := newTestStore(t,
		NewRect("a", geometry.Pt(0, 0), geometry.Pt(10, 10)),
		NewRect("b", geometry.Pt(0, 0), geometry.Pt(10, 10)),
	)
	s.UpdateFlags("a", FlagPatch{FlagSelected: true, FlagTarget: true, FlagProvisional: true})
	require.Len(t, s.Selected(), 1)

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.False(t, s.Remove("missing"))

	assert.Empty(t, s.Selected())
	assert.Empty(t, s.Targets())
	assert.Empty(t, s.Provisional())
	assert.Equal(t, []string{"b"}, s.Order())
	assert.Equal(t, 0, s.IndexOf("b"))
	assertIndicesExact(t, s)
}

func TestStoreIndicesFollowEveryWrite(t *testing.T) {
	s := newTestStore(t,
		NewRect("a", geometry.Pt(0, 0), geometry.Pt(10, 10)),
		NewRect("b", geometry.Pt(20, 0), geometry.Pt(30, 10)),
		NewRect("c", geometry.Pt(40, 0), geometry.Pt(50, 10)),
	)
	steps := []struct {
		id    string
		patch FlagPatch
	}{
		{"c", FlagPatch{FlagSelected: true}},
		{"a", FlagPatch{FlagSelected: true, FlagInRange: true}},
		{"b", FlagPatch{FlagRotatingTarget: true, FlagEditing: true}},
		{"c", FlagPatch{FlagSelected: false, FlagTarget: true}},
		{"a", FlagPatch{FlagDetachedSelected: true, FlagOnStage: false}},
		{"b", FlagPatch{FlagProvisional: true}},
	}
	for _, st := range steps {
		s.UpdateFlags(st.id, st.patch)
		assertIndicesExact(t, s)
	}
	assert.Equal(t, []string{"a"}, IDs(s.Selected()))
	assert.Equal(t, []string{"a"}, IDs(s.OffStage()))
	assert.Equal(t, []string{"b", "c"}, IDs(s.OnStage()))
}

func TestStoreMembersFollowLayerOrder(t *testing.T) {
	s := newTestStore(t,
		NewRect("a", geometry.Pt(0, 0), geometry.Pt(10, 10)),
		NewRect("b", geometry.Pt(0, 0), geometry.Pt(10, 10)),
		NewRect("c", geometry.Pt(0, 0), geometry.Pt(10, 10)),
	)
	s.UpdateFlagsMany([]string{"c", "a"}, FlagPatch{FlagSelected: true})
	assert.Equal(t, []string{"a", "c"}, IDs(s.Selected()))

	s.Reorder([]string{"c", "b", "a"})
	assert.Equal(t, []string{"c", "a"}, IDs(s.Selected()))
	assert.Equal(t, []string{"c", "a", "b"}, s.SortByOrder([]string{"a", "b", "c"}))
}

func TestStoreReorderKeepsUnlisted(t *testing.T) {
	s := newTestStore(t,
		NewRect("a", geometry.Pt(0, 0), geometry.Pt(1, 1)),
		NewRect("b", geometry.Pt(0, 0), geometry.Pt(1, 1)),
		NewRect("c", geometry.Pt(0, 0), geometry.Pt(1, 1)),
	)
	s.Reorder([]string{"c", "ghost", "a", "c"})
	assert.Equal(t, []string{"c", "a", "b"}, s.Order())
}

func TestStoreInsertAtIndex(t *testing.T) {
	s := newTestStore(t,
		NewRect("a", geometry.Pt(0, 0), geometry.Pt(1, 1)),
		NewRect("c", geometry.Pt(0, 0), geometry.Pt(1, 1)),
	)
	_, err := s.Insert(NewRect("b", geometry.Pt(0, 0), geometry.Pt(1, 1)), 1, StatusFinished)
	require.NoError(t, err)
	_, err = s.Insert(NewRect("z", geometry.Pt(0, 0), geometry.Pt(1, 1)), 99, StatusFinished)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "z"}, s.Order())
}

func TestStoreSingleCreatingElement(t *testing.T) {
	s := NewStore()
	_, err := s.Add(NewRect("a", geometry.Pt(0, 0), geometry.Pt(1, 1)), StatusStartCreating)
	require.NoError(t, err)
	_, err = s.Add(NewRect("b", geometry.Pt(0, 0), geometry.Pt(1, 1)), StatusFinished)
	require.NoError(t, err)

	assert.Equal(t, "a", s.CreatingID())
	assert.False(t, s.SetStatus("b", StatusCreating))
	assert.True(t, s.SetStatus("a", StatusCreating))
	assert.True(t, s.SetStatus("a", StatusFinished))
	assert.Equal(t, "", s.CreatingID())
	assert.True(t, s.SetStatus("b", StatusCreating))
	assert.Equal(t, "b", s.CreatingID())

	s.Remove("b")
	_, ok := s.Creating()
	assert.False(t, ok)
}

func TestStorePublishesOrderedChanges(t *testing.T) {
	s := newTestStore(t, NewRect("a", geometry.Pt(0, 0), geometry.Pt(10, 10)))

	var first, second []Property
	s.Bus().Subscribe(func(c Change) { first = append(first, c.Property) })
	s.Bus().Subscribe(func(c Change) { second = append(second, c.Property) }, PropAngle, FlagSelected.Property())

	s.Mutate("a", func(m *Model) {
		m.Coords = geometry.Translate(m.Coords, 5, 0)
		m.Angle = 30
	})
	s.UpdateFlags("a", FlagPatch{FlagSelected: true})
	s.UpdateFlags("a", FlagPatch{FlagSelected: true})

	assert.Equal(t, []Property{PropCoords, PropPosition, PropAngle, "isSelected"}, first)
	assert.Equal(t, []Property{PropAngle, "isSelected"}, second)
}

func TestBusUnsubscribeAndPanicIsolation(t *testing.T) {
	b := NewBus(nil)
	calls := 0
	id := b.Subscribe(func(Change) { panic("boom") })
	b.Subscribe(func(Change) { calls++ })

	b.Publish(Change{Property: PropAdded})
	assert.Equal(t, 1, calls)

	assert.True(t, b.Unsubscribe(id))
	assert.False(t, b.Unsubscribe(id))
	b.Publish(Change{Property: PropAdded})
	assert.Equal(t, 2, calls)
}

func TestStoreUpdateModelKeepsID(t *testing.T) {
	s := newTestStore(t, NewRect("a", geometry.Pt(0, 0), geometry.Pt(10, 10)))
	e, ok := s.UpdateModel("a", Patch{"id": "hijack", "angle": 45})
	require.True(t, ok)
	assert.Equal(t, "a", e.ID())
	assert.Equal(t, 45.0, e.Model().Angle)

	_, ok = s.UpdateModel("missing", Patch{"angle": 1})
	assert.False(t, ok)
}

func TestStoreFrameTogglesOnStage(t *testing.T) {
	s := newTestStore(t,
		NewRect("near", geometry.Pt(0, 0), geometry.Pt(10, 10)),
		NewRect("far", geometry.Pt(5000, 5000), geometry.Pt(5010, 5010)),
	)
	assert.Len(t, s.OnStage(), 2)

	s.SetFrame(geometry.StageFrame{Width: 200, Height: 200, Scale: 1})
	assert.Equal(t, []string{"near"}, IDs(s.OnStage()))
	assert.Equal(t, []string{"far"}, IDs(s.OffStage()))

	near, _ := s.Get("near")
	assert.Equal(t, geometry.Pt(100, 100), near.StageCoords()[0])
	assertIndicesExact(t, s)
}
