package scene

// Index names a reactive secondary index of the store.
type Index int

const (
	IndexSelected Index = iota
	IndexDetachedSelected
	IndexTarget
	IndexInRange
	IndexOnStage
	IndexOffStage
	IndexProvisional
	IndexRotatingTarget
	IndexEditing
	indexCount
)

// predicates define membership of every index.
var predicates = [indexCount]func(e *Element) bool{
	IndexSelected:         func(e *Element) bool { return e.flags[FlagSelected] },
	IndexDetachedSelected: func(e *Element) bool { return e.flags[FlagDetachedSelected] },
	IndexTarget:           func(e *Element) bool { return e.flags[FlagTarget] },
	IndexInRange:          func(e *Element) bool { return e.flags[FlagInRange] },
	IndexOnStage:          func(e *Element) bool { return e.flags[FlagOnStage] },
	IndexOffStage:         func(e *Element) bool { return !e.flags[FlagOnStage] },
	IndexProvisional:      func(e *Element) bool { return e.flags[FlagProvisional] },
	IndexRotatingTarget:   func(e *Element) bool { return e.flags[FlagRotatingTarget] },
	IndexEditing:          func(e *Element) bool { return e.flags[FlagEditing] },
}

// Matches reports whether e satisfies the defining predicate of idx.
func (idx Index) Matches(e *Element) bool {
	if idx < 0 || idx >= indexCount {
		return false
	}
	return predicates[idx](e)
}

// AllIndices lists every index.
func AllIndices() []Index {
	out := make([]Index, indexCount)
	for i := range out {
		out[i] = Index(i)
	}
	return out
}

type indexSet map[string]struct{}

// reindex brings every index in line with the current flags of e.
func (s *Store) reindex(e *Element) {
	for i := range s.indices {
		if predicates[i](e) {
			s.indices[i][e.ID()] = struct{}{}
		} else {
			delete(s.indices[i], e.ID())
		}
	}
}

func (s *Store) unindex(id string) {
	for i := range s.indices {
		delete(s.indices[i], id)
	}
}

// Members returns the elements of idx in layer order.
func (s *Store) Members(idx Index) []*Element {
	if idx < 0 || idx >= indexCount {
		return nil
	}
	set := s.indices[idx]
	out := make([]*Element, 0, len(set))
	for _, id := range s.order {
		if _, ok := set[id]; ok {
			out = append(out, s.elements[id])
		}
	}
	return out
}

// Count returns the size of idx without materialising it.
func (s *Store) Count(idx Index) int {
	if idx < 0 || idx >= indexCount {
		return 0
	}
	return len(s.indices[idx])
}

func (s *Store) Selected() []*Element         { return s.Members(IndexSelected) }
func (s *Store) DetachedSelected() []*Element { return s.Members(IndexDetachedSelected) }
func (s *Store) Targets() []*Element          { return s.Members(IndexTarget) }
func (s *Store) InRange() []*Element          { return s.Members(IndexInRange) }
func (s *Store) OnStage() []*Element          { return s.Members(IndexOnStage) }
func (s *Store) OffStage() []*Element         { return s.Members(IndexOffStage) }
func (s *Store) Provisional() []*Element      { return s.Members(IndexProvisional) }
func (s *Store) RotatingTargets() []*Element  { return s.Members(IndexRotatingTarget) }
func (s *Store) Editing() []*Element          { return s.Members(IndexEditing) }

// IDs returns the ids of elements.
func IDs(elements []*Element) []string {
	out := make([]string, len(elements))
	for i, e := range elements {
		out[i] = e.ID()
	}
	return out
}
