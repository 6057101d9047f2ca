package scene

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

// Property names a change published on the bus.
type Property string

const (
	PropAdded      Property = "added"
	PropRemoved    Property = "removed"
	PropCoords     Property = "coords"
	PropPosition   Property = "position"
	PropWidth      Property = "width"
	PropHeight     Property = "height"
	PropAngle      Property = "angle"
	PropLeanYAngle Property = "leanYAngle"
	PropFlipX      Property = "flipX"
	PropFlipY      Property = "flipY"
	PropCorners    Property = "corners"
	PropStrokes    Property = "strokes"
	PropFills      Property = "fills"
	PropGroupID    Property = "groupId"
	PropSubIDs     Property = "subIds"
	PropName       Property = "name"
	PropData       Property = "data"
	PropStatus     Property = "status"
	PropLayer      Property = "layer"
)

// Change is one (propertyName, element, newValue) notification.
type Change struct {
	Property Property
	Element  *Element
	Value    any
}

// Handler receives changes.
type Handler func(Change)

type subscription struct {
	id      string
	props   []Property
	handler Handler
}

func (s *subscription) wants(p Property) bool {
	return len(s.props) == 0 || slices.Contains(s.props, p)
}

// Bus fans out changes synchronously, in subscription order, before Publish
// returns. It carries no business logic and is not safe for concurrent use.
type Bus struct {
	subs []*subscription
	log  *slog.Logger
}

// NewBus creates an empty bus.
func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{log: log}
}

// Subscribe registers handler for the given properties (none = all) and
// returns the subscription id.
func (b *Bus) Subscribe(handler Handler, props ...Property) string {
	sub := &subscription{id: uuid.NewString(), props: props, handler: handler}
	b.subs = append(b.subs, sub)
	return sub.id
}

// Unsubscribe removes a subscription. It reports whether the id was known.
func (b *Bus) Unsubscribe(id string) bool {
	for i, s := range b.subs {
		if s.id == id {
			b.subs = slices.Delete(b.subs, i, i+1)
			return true
		}
	}
	return false
}

// Publish delivers c to every matching subscriber. Subscriptions added by a
// handler during delivery see only later changes.
func (b *Bus) Publish(c Change) {
	subs := slices.Clone(b.subs)
	for _, s := range subs {
		if s.wants(c.Property) {
			b.deliver(s, c)
		}
	}
}

func (b *Bus) deliver(s *subscription, c Change) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("change handler panicked", "property", c.Property, "subscription", s.id, "panic", r)
		}
	}()
	s.handler(c)
}
