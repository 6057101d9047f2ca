package scene

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonmerge "github.com/apapsch/go-jsonmerge/v2"
)

// Patch is a partial element model in its JSON form. Nested objects merge
// recursively, every other value (arrays included) replaces the target.
type Patch map[string]any

// Snapshot keys used by commands.
var (
	TranslateKeys = []string{"x", "y", "coords", "boxCoords"}
	TransformKeys = []string{"x", "y", "width", "height", "angle", "leanYAngle", "flipX", "flipY", "coords", "boxCoords", "corners"}
	CornerKeys    = []string{"corners"}
	StrokeKeys    = []string{"styles.strokes"}
	FillKeys      = []string{"styles.fills"}
	GroupKeys     = []string{"groupId", "subIds"}
)

// toGeneric turns v into plain JSON values (map[string]any, []any, float64...).
func toGeneric(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal patch source: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal patch source: %w", err)
	}
	return out, nil
}

// optionalKeys are the model fields omitted from JSON when empty.
var optionalKeys = []string{"name", "subIds", "groupId", "isFold", "data"}

// Snapshot returns the listed keys of m. Dotted keys select nested fields
// ("styles.strokes"). Keys absent from the model's JSON are recorded as null
// so that applying the snapshot clears them.
func (m Model) Snapshot(keys ...string) Patch {
	full, err := toGeneric(m)
	if err != nil {
		return Patch{}
	}
	if len(keys) == 0 {
		for _, key := range optionalKeys {
			if _, ok := full[key]; !ok {
				full[key] = nil
			}
		}
		return Patch(full)
	}
	out := Patch{}
	for _, key := range keys {
		path := strings.Split(key, ".")
		pick(full, out, path)
	}
	return out
}

func pick(src map[string]any, dst map[string]any, path []string) {
	head := path[0]
	v, ok := src[head]
	if len(path) == 1 {
		if !ok {
			v = nil
		}
		dst[head] = v
		return
	}
	child, _ := v.(map[string]any)
	if child == nil {
		child = map[string]any{}
	}
	next, _ := dst[head].(map[string]any)
	if next == nil {
		next = map[string]any{}
		dst[head] = next
	}
	pick(child, next, path[1:])
}

// Clone returns a deep copy of the patch in plain JSON form.
func (p Patch) Clone() Patch {
	out, err := toGeneric(map[string]any(p))
	if err != nil {
		return Patch{}
	}
	return Patch(out)
}

// Apply merges p into m and returns the result; the id of m is preserved.
func (m Model) Apply(p Patch) (Model, error) {
	data, err := toGeneric(m)
	if err != nil {
		return m, err
	}
	patch, err := toGeneric(map[string]any(p))
	if err != nil {
		return m, err
	}

	merger := jsonmerge.Merger{CopyNonexistent: true}
	merged := merger.Merge(data, patch)
	if len(merger.Errors) > 0 {
		return m, fmt.Errorf("merge patch into %s: %w", m.ID, merger.Errors[0])
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return m, fmt.Errorf("marshal merged model: %w", err)
	}
	var out Model
	if err := json.Unmarshal(raw, &out); err != nil {
		return m, fmt.Errorf("unmarshal merged model: %w", err)
	}
	out.ID = m.ID
	return out, nil
}

// ModelFromPatch decodes a full snapshot back into a model.
func ModelFromPatch(p Patch) (Model, error) {
	raw, err := json.Marshal(map[string]any(p))
	if err != nil {
		return Model{}, fmt.Errorf("marshal snapshot: %w", err)
	}
	var m Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return Model{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return m, nil
}
