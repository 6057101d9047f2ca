package engine

import (
	"slices"
)

// block returns the contiguous layer run of an element: its transitive
// members followed by the element itself, in layer order.
func (e *Engine) block(id string) []string {
	return e.store.SortByOrder(e.resolver.FlatWithDeepSubs([]string{id}))
}

// siblings returns the elements sharing id's parent, in layer order.
func (e *Engine) siblings(id string) []string {
	if parent := e.store.ParentOf(id); parent != "" {
		return e.store.SortByOrder(e.store.SubsOf(parent))
	}
	return e.topLevel()
}

// topLevel returns the elements without a live parent, in layer order.
func (e *Engine) topLevel() []string {
	var out []string
	for _, el := range e.store.Elements() {
		if el.GroupID() == "" || !e.store.Has(el.GroupID()) {
			out = append(out, el.ID())
		}
	}
	return out
}

// without removes every id in drop from order.
func without(order, drop []string) []string {
	return slices.DeleteFunc(slices.Clone(order), func(id string) bool {
		return slices.Contains(drop, id)
	})
}

// placeBefore returns order with run moved so that it starts right before
// anchor. Anchor must not be part of run.
func placeBefore(order, run []string, anchor string) []string {
	rest := without(order, run)
	i := slices.Index(rest, anchor)
	if i < 0 {
		return order
	}
	return slices.Concat(rest[:i], run, rest[i:])
}

// placeAfter returns order with run moved right after anchor.
func placeAfter(order, run []string, anchor string) []string {
	rest := without(order, run)
	i := slices.Index(rest, anchor)
	if i < 0 {
		return order
	}
	return slices.Concat(rest[:i+1], run, rest[i+1:])
}
