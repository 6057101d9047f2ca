package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/inamate/stage/internal/geometry"
)

var (
	ErrDuplicateID = errors.New("duplicate element id")
	ErrEmptyID     = errors.New("empty element id")
)

// Store is the authoritative id→element map of one editor session plus its
// reactive indices. Every write updates the indices and publishes on the bus
// before returning. Not safe for concurrent use.
type Store struct {
	elements   map[string]*Element
	order      []string
	pos        map[string]int
	indices    [indexCount]indexSet
	bus        *Bus
	frame      geometry.StageFrame
	creatingID string
	log        *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store logger.
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// WithFrame sets the initial stage frame.
func WithFrame(frame geometry.StageFrame) StoreOption {
	return func(s *Store) {
		s.frame = frame
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		elements: make(map[string]*Element),
		pos:      make(map[string]int),
		log:      slog.Default(),
	}
	for i := range s.indices {
		s.indices[i] = make(indexSet)
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bus = NewBus(s.log)
	return s
}

// Bus returns the change bus.
func (s *Store) Bus() *Bus { return s.bus }

// Frame returns the current stage frame.
func (s *Store) Frame() geometry.StageFrame { return s.frame }

// Len returns the number of elements.
func (s *Store) Len() int { return len(s.elements) }

// Get looks an element up by id.
func (s *Store) Get(id string) (*Element, bool) {
	e, ok := s.elements[id]
	return e, ok
}

// Has reports whether id is present.
func (s *Store) Has(id string) bool {
	_, ok := s.elements[id]
	return ok
}

// Lookup resolves ids in the given order, skipping unknown ones.
func (s *Store) Lookup(ids []string) []*Element {
	out := make([]*Element, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.elements[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Elements returns every element in layer order, bottom first.
func (s *Store) Elements() []*Element {
	out := make([]*Element, len(s.order))
	for i, id := range s.order {
		out[i] = s.elements[id]
	}
	return out
}

// Order returns a copy of the layer order.
func (s *Store) Order() []string {
	return slices.Clone(s.order)
}

// IndexOf returns the layer position of id, or -1.
func (s *Store) IndexOf(id string) int {
	if i, ok := s.pos[id]; ok {
		return i
	}
	return -1
}

// SortByOrder sorts ids by layer position; unknown ids go last.
func (s *Store) SortByOrder(ids []string) []string {
	out := slices.Clone(ids)
	slices.SortStableFunc(out, func(a, b string) int {
		return s.rank(a) - s.rank(b)
	})
	return out
}

func (s *Store) rank(id string) int {
	if i, ok := s.pos[id]; ok {
		return i
	}
	return len(s.order)
}

// ParentOf returns the group id of an element, "" at top level.
func (s *Store) ParentOf(id string) string {
	if e, ok := s.elements[id]; ok {
		return e.model.GroupID
	}
	return ""
}

// SubsOf returns the member ids of a group.
func (s *Store) SubsOf(id string) []string {
	if e, ok := s.elements[id]; ok {
		return e.SubIDs()
	}
	return nil
}

// CreatingID returns the element currently being drawn, if any.
func (s *Store) CreatingID() string { return s.creatingID }

// Creating returns the element currently being drawn.
func (s *Store) Creating() (*Element, bool) {
	if s.creatingID == "" {
		return nil, false
	}
	return s.Get(s.creatingID)
}

func (s *Store) rebuildPos() {
	clear(s.pos)
	for i, id := range s.order {
		s.pos[id] = i
	}
}

// Add appends a model on top of the layer order.
func (s *Store) Add(m Model, status Status) (*Element, error) {
	return s.Insert(m, len(s.order), status)
}

// Insert places a model at layer position index (clamped).
func (s *Store) Insert(m Model, index int, status Status) (*Element, error) {
	if m.ID == "" {
		return nil, ErrEmptyID
	}
	if s.Has(m.ID) {
		return nil, fmt.Errorf("insert %s: %w", m.ID, ErrDuplicateID)
	}
	if status.InProgress() && s.creatingID != "" {
		s.log.Warn("replacing in-progress element", "previous", s.creatingID, "id", m.ID)
		s.setStatus(s.elements[s.creatingID], StatusFinished)
	}

	e := &Element{model: m.Clone(), status: status}
	e.flags[FlagVisible] = true
	e.refresh(s.frame)
	e.flags[FlagOnStage] = e.onStage(s.frame)
	if status.InProgress() {
		s.creatingID = m.ID
	}

	index = max(0, min(index, len(s.order)))
	s.elements[m.ID] = e
	s.order = slices.Insert(s.order, index, m.ID)
	s.rebuildPos()
	s.reindex(e)

	s.bus.Publish(Change{Property: PropAdded, Element: e, Value: e.Model()})
	return e, nil
}

// Remove deletes an element and clears it from every index. Removing an
// absent id is a no-op.
func (s *Store) Remove(id string) bool {
	e, ok := s.elements[id]
	if !ok {
		return false
	}
	delete(s.elements, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.rebuildPos()
	s.unindex(id)
	if s.creatingID == id {
		s.creatingID = ""
	}
	s.bus.Publish(Change{Property: PropRemoved, Element: e, Value: id})
	return true
}

// RemoveMany removes every id; unknown ids are skipped.
func (s *Store) RemoveMany(ids []string) int {
	n := 0
	for _, id := range ids {
		if s.Remove(id) {
			n++
		}
	}
	return n
}

// Clear removes every element.
func (s *Store) Clear() {
	s.RemoveMany(s.Order())
}

// UpdateModel merges a patch into the element model, keeping its id.
func (s *Store) UpdateModel(id string, p Patch) (*Element, bool) {
	e, ok := s.elements[id]
	if !ok {
		return nil, false
	}
	next, err := e.model.Apply(p)
	if err != nil {
		s.log.Warn("patch rejected", "id", id, "error", err)
		return e, false
	}
	s.write(e, next)
	return e, true
}

// UpdateModels applies the same patch to every id.
func (s *Store) UpdateModels(ids []string, p Patch) {
	for _, id := range ids {
		s.UpdateModel(id, p)
	}
}

// Mutate edits a copy of the element model and writes it back.
func (s *Store) Mutate(id string, fn func(m *Model)) (*Element, bool) {
	e, ok := s.elements[id]
	if !ok {
		return nil, false
	}
	next := e.model.Clone()
	fn(&next)
	next.ID = id
	s.write(e, next)
	return e, true
}

// ReplaceModel overwrites the whole model of an element.
func (s *Store) ReplaceModel(id string, m Model) (*Element, bool) {
	return s.Mutate(id, func(dst *Model) {
		*dst = m.Clone()
	})
}

type modelProp struct {
	prop  Property
	value func(m *Model) any
}

// modelProps are compared after each write, in publish order.
var modelProps = []modelProp{
	{PropCoords, func(m *Model) any { return m.Coords }},
	{PropPosition, func(m *Model) any { return geometry.Pt(m.X, m.Y) }},
	{PropWidth, func(m *Model) any { return m.Width }},
	{PropHeight, func(m *Model) any { return m.Height }},
	{PropAngle, func(m *Model) any { return m.Angle }},
	{PropLeanYAngle, func(m *Model) any { return m.LeanYAngle }},
	{PropFlipX, func(m *Model) any { return m.FlipX }},
	{PropFlipY, func(m *Model) any { return m.FlipY }},
	{PropCorners, func(m *Model) any { return m.Corners }},
	{PropStrokes, func(m *Model) any { return m.Styles.Strokes }},
	{PropFills, func(m *Model) any { return m.Styles.Fills }},
	{PropGroupID, func(m *Model) any { return m.GroupID }},
	{PropSubIDs, func(m *Model) any { return m.SubIDs }},
	{PropName, func(m *Model) any { return m.Name }},
	{PropData, func(m *Model) any { return m.Data }},
}

func (s *Store) write(e *Element, next Model) {
	prev := e.model
	e.model = next
	e.refresh(s.frame)

	for _, mp := range modelProps {
		before, after := mp.value(&prev), mp.value(&e.model)
		if !reflect.DeepEqual(before, after) {
			s.bus.Publish(Change{Property: mp.prop, Element: e, Value: after})
		}
	}
	s.setFlag(e, FlagOnStage, e.onStage(s.frame))
}

// setFlag writes one flag, reindexes and publishes when it changed.
func (s *Store) setFlag(e *Element, f Flag, v bool) bool {
	if e.flags[f] == v {
		return false
	}
	e.flags[f] = v
	s.reindex(e)
	s.bus.Publish(Change{Property: f.Property(), Element: e, Value: v})
	return true
}

// UpdateFlags writes a set of flags on one element.
func (s *Store) UpdateFlags(id string, patch FlagPatch) bool {
	e, ok := s.elements[id]
	if !ok {
		return false
	}
	changed := false
	for _, f := range AllFlags() {
		if v, ok := patch[f]; ok {
			changed = s.setFlag(e, f, v) || changed
		}
	}
	return changed
}

// UpdateFlagsMany writes the same flags on every id.
func (s *Store) UpdateFlagsMany(ids []string, patch FlagPatch) {
	for _, id := range ids {
		s.UpdateFlags(id, patch)
	}
}

// ClearFlag resets f on every element that has it.
func (s *Store) ClearFlag(f Flag) {
	for _, e := range s.Elements() {
		s.setFlag(e, f, false)
	}
}

// SetStatus moves an element through the creation lifecycle. At most one
// element may be in progress; a second one is refused.
func (s *Store) SetStatus(id string, status Status) bool {
	e, ok := s.elements[id]
	if !ok {
		return false
	}
	if status.InProgress() && s.creatingID != "" && s.creatingID != id {
		return false
	}
	s.setStatus(e, status)
	return true
}

func (s *Store) setStatus(e *Element, status Status) {
	if status.InProgress() {
		s.creatingID = e.ID()
	} else if s.creatingID == e.ID() {
		s.creatingID = ""
	}
	if e.status == status {
		return
	}
	e.status = status
	s.bus.Publish(Change{Property: PropStatus, Element: e, Value: status})
}

// Reorder sets the layer order. Ids unknown to the store are ignored and
// elements missing from order keep their relative position at the top.
func (s *Store) Reorder(order []string) {
	seen := make(map[string]struct{}, len(order))
	next := make([]string, 0, len(s.order))
	for _, id := range order {
		if _, dup := seen[id]; dup || !s.Has(id) {
			continue
		}
		seen[id] = struct{}{}
		next = append(next, id)
	}
	for _, id := range s.order {
		if _, ok := seen[id]; !ok {
			next = append(next, id)
		}
	}
	prev := s.pos
	s.order = next
	s.pos = make(map[string]int, len(next))
	s.rebuildPos()
	for i, id := range s.order {
		if p, ok := prev[id]; !ok || p != i {
			s.bus.Publish(Change{Property: PropLayer, Element: s.elements[id], Value: i})
		}
	}
}

// SetFrame replaces the stage frame and refreshes render coordinates and
// on-stage flags of every element.
func (s *Store) SetFrame(frame geometry.StageFrame) {
	s.frame = frame
	s.RefreshStage()
}

// RefreshStage recomputes derived geometry of every element against the
// current frame.
func (s *Store) RefreshStage() {
	for _, id := range s.order {
		e := s.elements[id]
		e.refresh(s.frame)
		s.setFlag(e, FlagOnStage, e.onStage(s.frame))
	}
}
