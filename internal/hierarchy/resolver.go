// Package hierarchy resolves group relationships over id-based parent links.
package hierarchy

import "slices"

// Tree is the read-only view of group membership the resolver works on.
type Tree interface {
	Has(id string) bool
	ParentOf(id string) string
	SubsOf(id string) []string
}

// Summary is the minimal flat description of an element.
type Summary struct {
	ID      string `json:"id"`
	GroupID string `json:"groupId,omitempty"`
}

// Resolver answers ancestor and membership questions for one session.
type Resolver struct {
	tree Tree
}

// NewResolver creates a resolver over tree.
func NewResolver(tree Tree) *Resolver {
	return &Resolver{tree: tree}
}

// AncestorIDs returns the live ancestors of id, nearest first. The walk stops
// at a dangling or repeated parent.
func (r *Resolver) AncestorIDs(id string) []string {
	var out []string
	seen := map[string]struct{}{id: {}}
	for parent := r.tree.ParentOf(id); parent != "" && r.tree.Has(parent); parent = r.tree.ParentOf(parent) {
		if _, loop := seen[parent]; loop {
			break
		}
		seen[parent] = struct{}{}
		out = append(out, parent)
	}
	return out
}

// NonHomologous reduces ids to the elements not covered by another selected
// ancestor. Group members are replaced by their highest ancestor present in
// ids; others are kept as-is. Order follows first appearance.
func (r *Resolver) NonHomologous(ids []string) []string {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	var out []string
	added := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep := id
		ancestors := r.AncestorIDs(id)
		for i := len(ancestors) - 1; i >= 0; i-- {
			if _, ok := set[ancestors[i]]; ok {
				keep = ancestors[i]
				break
			}
		}
		if _, dup := added[keep]; dup {
			continue
		}
		added[keep] = struct{}{}
		out = append(out, keep)
	}
	return out
}

// AncestorGroup returns the single element the selection reduces to, when
// exactly one remains.
func (r *Resolver) AncestorGroup(ids []string) (string, bool) {
	reduced := r.NonHomologous(ids)
	if len(reduced) != 1 {
		return "", false
	}
	return reduced[0], true
}

// IsSameAncestorGroup reports whether the selection reduces to one element.
func (r *Resolver) IsSameAncestorGroup(ids []string) bool {
	_, ok := r.AncestorGroup(ids)
	return ok
}

// AncestorIDsByDetached collects every ancestor of the given elements that
// are independently selected while being group members. detached tells
// whether an id is detached-selected. The result is deduplicated, nearest
// ancestors first per element.
func (r *Resolver) AncestorIDsByDetached(ids []string, detached func(id string) bool) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, id := range ids {
		if !detached(id) || r.tree.ParentOf(id) == "" {
			continue
		}
		for _, a := range r.AncestorIDs(id) {
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

// DeepSubIDs returns every transitive member of a group, depth first.
func (r *Resolver) DeepSubIDs(id string) []string {
	var out []string
	seen := map[string]struct{}{id: {}}
	stack := slices.Clone(r.tree.SubsOf(id))
	slices.Reverse(stack)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, dup := seen[cur]; dup || !r.tree.Has(cur) {
			continue
		}
		seen[cur] = struct{}{}
		out = append(out, cur)
		subs := slices.Clone(r.tree.SubsOf(cur))
		slices.Reverse(subs)
		stack = append(stack, subs...)
	}
	return out
}

// FlatWithDeepSubs expands every group in ids into its transitive members
// followed by the group itself. Duplicates are dropped.
func (r *Resolver) FlatWithDeepSubs(ids []string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range ids {
		for _, sub := range r.DeepSubIDs(id) {
			add(sub)
		}
		add(id)
	}
	return out
}

// WithAncestors returns ids followed by every live ancestor of each of them,
// deduplicated.
func (r *Resolver) WithAncestors(ids []string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range ids {
		add(id)
	}
	for _, id := range ids {
		for _, a := range r.AncestorIDs(id) {
			add(a)
		}
	}
	return out
}

// OuterLayerIDs returns the ids of summaries with no live parent inside the
// set. Parents are chased iteratively; a parent id missing from the set makes
// the node that references it outer-layer.
func OuterLayerIDs(summaries []Summary) []string {
	parents := make(map[string]string, len(summaries))
	for _, s := range summaries {
		parents[s.ID] = s.GroupID
	}
	var out []string
	seen := make(map[string]struct{})
	for _, s := range summaries {
		cur := s.ID
		visited := map[string]struct{}{cur: {}}
		for {
			parent := parents[cur]
			if parent == "" {
				break
			}
			if _, ok := parents[parent]; !ok {
				break
			}
			if _, loop := visited[parent]; loop {
				break
			}
			visited[parent] = struct{}{}
			cur = parent
		}
		if _, dup := seen[cur]; dup {
			continue
		}
		seen[cur] = struct{}{}
		out = append(out, cur)
	}
	return out
}
