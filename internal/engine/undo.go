package engine

import (
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

// Undo reverts the last command and restores the interaction state around
// it. It reports false when there is nothing to undo or a gesture runs.
func (e *Engine) Undo() bool {
	return e.step(false)
}

// Redo reapplies the last undone command.
func (e *Engine) Redo() bool {
	return e.step(true)
}

func (e *Engine) step(redo bool) bool {
	if e.busy != BusyNone && e.busy != BusyMoveReady {
		return false
	}
	stack := e.history.Stack()
	next, ok := stack.TailUndo()
	if redo {
		next, ok = stack.TailRedo()
	}
	if !ok {
		return false
	}
	if e.editing != nil {
		e.EndEdit()
	}
	if next.Type != history.ElementsUpdated && next.Type != history.ElementsSelected {
		e.clearSelection()
	}

	var out history.Outcome
	if redo {
		out, ok = e.history.Redo()
	} else {
		out, ok = e.history.Undo()
	}
	if !ok {
		return false
	}
	e.afterReplay(out, redo)

	direction := "undo"
	if redo {
		direction = "redo"
	}
	replays.WithLabelValues(direction, string(out.Type)).Inc()
	e.log.Debug("history step", "direction", direction, "type", out.Type, "rule", out.Rule)
	return true
}

// afterReplay settles the tool, the creation state and the selection after
// a replayed command.
func (e *Engine) afterReplay(out history.Outcome, redo bool) {
	c := out.Command
	switch {
	case c.Type == history.ElementsCreatorChanged:
		if redo {
			e.setTool(Tool(c.Payload.Tool))
		} else {
			e.setTool(Tool(c.Payload.PrevTool))
		}

	case out.Rule == history.RuleResume && out.Neighbor != nil:
		e.setTool(toolOf(out.Neighbor.Payload.RedoDataList))

	case out.Rule == history.RuleReselect && out.Neighbor != nil:
		ids := out.Neighbor.Payload.RedoDataList.IDs()
		e.store.UpdateFlagsMany(e.resolver.FlatWithDeepSubs(ids), scene.FlagPatch{scene.FlagDetachedSelected: true})
		e.setTool(ToolMoveable)

	case redo && out.Type == history.ElementsStartCreating:
		e.setTool(toolOf(c.Payload.RedoDataList))

	case out.Type == history.ElementsAdded:
		e.setTool(ToolMoveable)
	}

	e.creation = nil
	if el, ok := e.store.Creating(); ok {
		m := el.Model()
		resumed := &creation{id: m.ID, kind: m.Type}
		if len(m.Coords) > 0 {
			resumed.start = m.Coords[0]
		}
		e.creation = resumed
		e.setTool(Tool(m.Type))
	}
	if c.Type.Structural() {
		e.store.RefreshStage()
	}
}

// toolOf returns the drawing tool of the first element in list.
func toolOf(list history.DataList) Tool {
	if len(list) == 0 {
		return ToolMoveable
	}
	kind, _ := list[0].Model["type"].(string)
	if t, ok := ParseTool(kind); ok {
		return t
	}
	return ToolMoveable
}
