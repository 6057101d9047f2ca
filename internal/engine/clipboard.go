package engine

import (
	"fmt"

	"github.com/inamate/stage/internal/hierarchy"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
)

// Copy stores the targets and their members in the session clipboard and
// returns them in the exchange format.
func (e *Engine) Copy() (string, error) {
	ids := e.store.SortByOrder(e.resolver.FlatWithDeepSubs(e.targets()))
	models := make([]scene.Model, 0, len(ids))
	for _, el := range e.store.Lookup(ids) {
		models = append(models, el.Model())
	}
	e.clipboard = models
	data, err := scene.MarshalModels(models)
	if err != nil {
		return "", fmt.Errorf("copy: %w", err)
	}
	return string(data), nil
}

// Paste inserts a fresh copy of the clipboard offset by the paste distance
// and selects the pasted outer layer.
func (e *Engine) Paste() []string {
	return e.paste(e.clipboard)
}

// PasteJSON pastes models from the exchange format.
func (e *Engine) PasteJSON(data string) ([]string, error) {
	models, err := scene.ParseModels([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	return e.paste(models), nil
}

func (e *Engine) paste(models []scene.Model) []string {
	if len(models) == 0 {
		return nil
	}
	converted := scene.ConvertModels(models, e.cfg.PasteOffset, func(m scene.Model) string {
		return e.newID(m.Type)
	})
	var ids []string
	summaries := make([]hierarchy.Summary, 0, len(converted))
	for _, m := range converted {
		if _, err := e.store.Add(m, scene.StatusFinished); err != nil {
			e.log.Warn("paste skipped element", "id", m.ID, "error", err)
			continue
		}
		ids = append(ids, m.ID)
		summaries = append(summaries, hierarchy.Summary{ID: m.ID, GroupID: m.GroupID})
	}
	if len(ids) == 0 {
		return nil
	}
	list := history.Capture(e.store, history.ActionAdded, ids)
	e.push(history.NewCommand(history.ElementsAdded, history.Payload{UndoDataList: list, RedoDataList: list}))

	outer := hierarchy.OuterLayerIDs(summaries)
	e.selectOnly(outer)
	return outer
}
