package history

// DefaultLimit bounds the done list when no limit is configured.
const DefaultLimit = 200

// Stack is a linear undo history: a done list and an undone list sharing one
// cut point. Pushing clears the undone list.
type Stack struct {
	done   []Command
	undone []Command
	limit  int
}

// NewStack creates a stack keeping at most limit done commands. A limit of
// zero or less uses DefaultLimit.
func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Push records c as the newest done command and drops every undone command.
func (s *Stack) Push(c Command) {
	s.done = append(s.done, c)
	if over := len(s.done) - s.limit; over > 0 {
		s.done = append(s.done[:0:0], s.done[over:]...)
	}
	s.undone = nil
}

// TailUndo is the command the next undo would revert.
func (s *Stack) TailUndo() (Command, bool) {
	if len(s.done) == 0 {
		return Command{}, false
	}
	return s.done[len(s.done)-1], true
}

// TailRedo is the command the next redo would reapply.
func (s *Stack) TailRedo() (Command, bool) {
	if len(s.undone) == 0 {
		return Command{}, false
	}
	return s.undone[len(s.undone)-1], true
}

// StepBack moves the done tail to the undone list and returns it.
func (s *Stack) StepBack() (Command, bool) {
	c, ok := s.TailUndo()
	if !ok {
		return Command{}, false
	}
	s.done = s.done[:len(s.done)-1]
	s.undone = append(s.undone, c)
	return c, true
}

// StepForward moves the undone tail back to the done list and returns it.
func (s *Stack) StepForward() (Command, bool) {
	c, ok := s.TailRedo()
	if !ok {
		return Command{}, false
	}
	s.undone = s.undone[:len(s.undone)-1]
	s.done = append(s.done, c)
	return c, true
}

// Pop removes the done tail without replaying it.
func (s *Stack) Pop() (Command, bool) {
	c, ok := s.TailUndo()
	if !ok {
		return Command{}, false
	}
	s.done = s.done[:len(s.done)-1]
	return c, true
}

func (s *Stack) CanUndo() bool { return len(s.done) > 0 }
func (s *Stack) CanRedo() bool { return len(s.undone) > 0 }
func (s *Stack) Len() int      { return len(s.done) }

// Clear empties both lists.
func (s *Stack) Clear() {
	s.done, s.undone = nil, nil
}
