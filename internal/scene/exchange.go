package scene

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/inamate/stage/internal/geometry"
)

// MarshalModels encodes models in the exchange JSON shape.
func MarshalModels(models []Model) ([]byte, error) {
	data, err := json.Marshal(models)
	if err != nil {
		return nil, fmt.Errorf("marshal models: %w", err)
	}
	return data, nil
}

// ParseModels decodes the exchange JSON shape.
func ParseModels(data []byte) ([]Model, error) {
	var models []Model
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, fmt.Errorf("parse models: %w", err)
	}
	return models, nil
}

// ConvertModels prepares copied models for insertion: every id is
// regenerated with newID, groupId/subIds references are rebound to the new
// ids and every coordinate is shifted by offset on both axes.
//
// References that do not resolve inside the set are dropped, as are groups
// left without members, so a partial selection pastes as flattened elements.
func ConvertModels(models []Model, offset float64, newID func(m Model) string) []Model {
	idMap := make(map[string]string, len(models))
	out := make([]Model, 0, len(models))
	for _, m := range models {
		if m.ID == "" {
			continue
		}
		if _, dup := idMap[m.ID]; dup {
			continue
		}
		idMap[m.ID] = newID(m)
		out = append(out, m.Clone())
	}

	for i := range out {
		m := &out[i]
		m.ID = idMap[m.ID]
		if g, ok := idMap[m.GroupID]; ok && m.GroupID != "" {
			m.GroupID = g
		} else {
			m.GroupID = ""
		}
		if m.SubIDs != nil {
			subs := make([]string, 0, len(m.SubIDs))
			for _, sub := range m.SubIDs {
				if n, ok := idMap[sub]; ok {
					subs = append(subs, n)
				}
			}
			m.SubIDs = subs
		}
	}

	out = rebind(out)
	for i := range out {
		divate(&out[i], offset)
	}
	return out
}

// rebind enforces reciprocal membership and drops empty groups until stable.
func rebind(models []Model) []Model {
	for {
		byID := make(map[string]*Model, len(models))
		for i := range models {
			byID[models[i].ID] = &models[i]
		}
		for i := range models {
			m := &models[i]
			if m.GroupID == "" {
				continue
			}
			parent, ok := byID[m.GroupID]
			if !ok || !slices.Contains(parent.SubIDs, m.ID) {
				m.GroupID = ""
			}
		}
		for i := range models {
			m := &models[i]
			if !m.IsGroup() {
				continue
			}
			m.SubIDs = slices.DeleteFunc(m.SubIDs, func(sub string) bool {
				child, ok := byID[sub]
				return !ok || child.GroupID != m.ID
			})
		}

		kept := models[:0:0]
		dropped := false
		for _, m := range models {
			if m.IsGroup() && len(m.SubIDs) == 0 {
				dropped = true
				continue
			}
			kept = append(kept, m)
		}
		models = kept
		if !dropped {
			return models
		}
	}
}

func divate(m *Model, offset float64) {
	m.Coords = geometry.Translate(m.Coords, offset, offset)
	m.BoxCoords = geometry.Translate(m.BoxCoords, offset, offset)
	m.X += offset
	m.Y += offset
}
