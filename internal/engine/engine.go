package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/inamate/stage/internal/config"
	"github.com/inamate/stage/internal/document"
	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/hierarchy"
	"github.com/inamate/stage/internal/history"
	"github.com/inamate/stage/internal/scene"
	"github.com/inamate/stage/internal/schedule"
	"github.com/inamate/stage/internal/typeid"
)

// Engine is one editor session. It owns the scene store, the hierarchy
// resolver, the undo history and the tick scheduler, and exposes the
// mutation entry points the interaction layer calls.
//
// All methods run on a single thread of control; callers that share an
// engine across goroutines must serialize access.
type Engine struct {
	cfg      config.Editor
	store    *scene.Store
	resolver *hierarchy.Resolver
	history  *history.History
	queue    *schedule.Queue
	moves    *schedule.Coalescer[geometry.Point]
	log      *slog.Logger
	newID    func(kind scene.Kind) string

	tool     Tool
	prevTool Tool
	busy     Busy
	gesture  *gesture
	creation *creation
	editing  *history.Span
	pointer  pointerState

	clipboard []scene.Model

	// Draw list state
	drawList []DrawCommand
	dirty    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the session logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithConfig sets the editor tunables.
func WithConfig(cfg config.Editor) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithIDs replaces element id generation.
func WithIDs(fn func(kind scene.Kind) string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// NewEngine creates an empty session.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cfg:   config.DefaultEditor(),
		log:   slog.Default(),
		newID: newElementID,
		tool:  ToolMoveable,
		dirty: true,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.store = scene.NewStore(
		scene.WithLogger(e.log),
		scene.WithFrame(geometry.StageFrame{Width: e.cfg.StageWidth, Height: e.cfg.StageHeight, Scale: 1}),
	)
	e.resolver = hierarchy.NewResolver(e.store)
	e.history = history.New(e.store, history.WithLimit(e.cfg.HistoryLimit), history.WithLogger(e.log))
	e.queue = schedule.NewQueue()
	e.moves = schedule.NewCoalescer(e.queue, e.handleMove)
	e.store.Bus().Subscribe(e.onChange)
	return e
}

func newElementID(kind scene.Kind) string {
	if kind == scene.KindGroup {
		return typeid.NewGroupID()
	}
	return typeid.NewElementID()
}

// onChange marks the draw list dirty and schedules one redraw per tick.
func (e *Engine) onChange(scene.Change) {
	if e.dirty {
		return
	}
	e.dirty = true
	e.queue.Add(e.redraw)
}

func (e *Engine) redraw() {
	if !e.dirty {
		return
	}
	e.drawList = CompileDrawCommands(e.store)
	e.dirty = false
}

func (e *Engine) Store() *scene.Store           { return e.store }
func (e *Engine) Resolver() *hierarchy.Resolver { return e.resolver }
func (e *Engine) History() *history.History     { return e.history }
func (e *Engine) Queue() *schedule.Queue        { return e.queue }
func (e *Engine) Tool() Tool                    { return e.tool }
func (e *Engine) Busy() Busy                    { return e.busy }
func (e *Engine) Config() config.Editor         { return e.cfg }

// --- Commands (frontend → backend) ---

// LoadDocument replaces the scene with a document and clears history.
func (e *Engine) LoadDocument(doc *document.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	e.reset()
	for _, m := range doc.Elements {
		if _, err := e.store.Add(m, scene.StatusFinished); err != nil {
			return fmt.Errorf("load element %s: %w", m.ID, err)
		}
	}
	if doc.Frame != nil {
		e.store.SetFrame(*doc.Frame)
	}
	e.log.Debug("document loaded", "elements", len(doc.Elements))
	return nil
}

// LoadDocumentJSON parses and loads a document.
func (e *Engine) LoadDocumentJSON(jsonData string) error {
	doc, err := document.Parse([]byte(jsonData))
	if err != nil {
		return err
	}
	return e.LoadDocument(doc)
}

// LoadSampleDocument loads the built-in sample scene.
func (e *Engine) LoadSampleDocument() {
	if err := e.LoadDocument(document.NewSampleDocument()); err != nil {
		e.log.Error("sample document rejected", "error", err)
	}
}

func (e *Engine) reset() {
	e.store.Clear()
	e.history.Clear()
	e.queue.Discard()
	e.moves.Reset()
	e.gesture, e.creation, e.editing = nil, nil, nil
	e.busy = BusyNone
	e.pointer = pointerState{}
	e.tool, e.prevTool = ToolMoveable, ""
	e.dirty = true
}

// SetFrame moves the viewport and refreshes on-stage flags.
func (e *Engine) SetFrame(frame geometry.StageFrame) {
	e.store.SetFrame(frame)
}

// Tick drains the work queued since the last tick and returns the draw list.
// This is called once per animation frame from the frontend.
func (e *Engine) Tick() string {
	start := time.Now()
	ran := e.queue.Drain()
	e.redraw()
	tickDuration.Observe(time.Since(start).Seconds())
	if ran > 0 {
		tickTasks.Add(float64(ran))
	}
	return e.Render()
}

// --- Queries (frontend ← backend) ---

// Render returns the current draw list as JSON.
func (e *Engine) Render() string {
	e.redraw()
	result, _ := DrawCommandsToJSON(e.drawList)
	return result
}

// DrawList returns the compiled draw commands.
func (e *Engine) DrawList() []DrawCommand {
	e.redraw()
	return e.drawList
}

// HitTest returns the id of the topmost element at the world point, or "".
func (e *Engine) HitTest(x, y float64) string {
	return HitTest(e.store, geometry.Pt(x, y), e.hitTolerance())
}

// GetSelectionBounds returns the world bounds of the selection as JSON.
func (e *Engine) GetSelectionBounds() string {
	return RectToJSON(SelectionBounds(e.store.Lookup(e.targets())))
}

// Document snapshots the scene in layer order.
func (e *Engine) Document() *document.Document {
	doc := document.New()
	for _, el := range e.store.Elements() {
		doc.Elements = append(doc.Elements, el.Model())
	}
	frame := e.store.Frame()
	doc.Frame = &frame
	return doc
}

// GetDocument returns the full document as JSON.
func (e *Engine) GetDocument() string {
	data, err := e.Document().Marshal()
	if err != nil {
		return "{}"
	}
	return string(data)
}

// GetSelection returns the selected and detached-selected ids as JSON.
func (e *Engine) GetSelection() string {
	data, _ := json.Marshal(map[string][]string{
		"selected": scene.IDs(e.store.Selected()),
		"detached": scene.IDs(e.store.DetachedSelected()),
	})
	return string(data)
}

// GetElement returns one element model plus its flags as JSON.
func (e *Engine) GetElement(id string) string {
	el, ok := e.store.Get(id)
	if !ok {
		return "{}"
	}
	data, _ := json.Marshal(map[string]any{
		"model":  el.Model(),
		"flags":  el.Flags(),
		"status": el.Status().String(),
	})
	return string(data)
}

// GetState returns the interaction state as JSON.
func (e *Engine) GetState() string {
	data, _ := json.Marshal(map[string]any{
		"tool":     e.tool,
		"busy":     e.busy.String(),
		"canUndo":  e.history.CanUndo(),
		"canRedo":  e.history.CanRedo(),
		"creating": e.store.CreatingID(),
		"elements": e.store.Len(),
	})
	return string(data)
}
