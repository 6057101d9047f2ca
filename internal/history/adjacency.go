package history

// Direction is the stack movement an adjacency rule applies to.
type Direction int

const (
	DirPush Direction = iota
	DirUndo
	DirRedo
)

func (d Direction) String() string {
	switch d {
	case DirPush:
		return "push"
	case DirUndo:
		return "undo"
	case DirRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// Rule is the special handling applied when a command meets a neighbor of a
// given type.
type Rule int

const (
	// RuleNone replays the command on its own.
	RuleNone Rule = iota
	// RuleDropNeighbor removes the speculative neighbor from the done list
	// before pushing.
	RuleDropNeighbor
	// RuleFold discards the in-progress element and also redoes the
	// following command, reporting its type.
	RuleFold
	// RuleResume restores the terminal state and the previous in-progress
	// state so drawing continues, reporting the neighbor's type.
	RuleResume
	// RuleReselect selects the elements of the neighbor after undo.
	RuleReselect
)

func (r Rule) String() string {
	switch r {
	case RuleNone:
		return "none"
	case RuleDropNeighbor:
		return "dropNeighbor"
	case RuleFold:
		return "fold"
	case RuleResume:
		return "resume"
	case RuleReselect:
		return "reselect"
	default:
		return "unknown"
	}
}

// Adjacency identifies a (command, neighbor) pair. For push the neighbor is
// the done tail; for redo it is the undone tail after the step; for undo it
// is the done tail after the step.
type Adjacency struct {
	Direction Direction
	Type      CommandType
	Neighbor  CommandType
}

// Table maps adjacency pairs to rules. Pairs not listed replay plainly.
type Table map[Adjacency]Rule

// DefaultTable returns the known elisions.
func DefaultTable() Table {
	return Table{
		{DirPush, ElementsAdded, ElementsCreatorChanged}: RuleDropNeighbor,
		{DirRedo, ElementsCreating, ElementsAdded}:       RuleFold,
		{DirUndo, ElementsAdded, ElementsCreating}:       RuleResume,
		{DirUndo, ElementsAdded, ElementsAdded}:          RuleReselect,
	}
}

// Lookup returns the rule for the pair.
func (t Table) Lookup(dir Direction, typ, neighbor CommandType) Rule {
	return t[Adjacency{Direction: dir, Type: typ, Neighbor: neighbor}]
}

// Clone copies the table so callers can extend it.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
