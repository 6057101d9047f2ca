package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/inamate/stage/internal/geometry"
)

// ErrUnknownOperation is returned by Apply for an unregistered operation type.
var ErrUnknownOperation = errors.New("unknown operation")

// Operation is a named engine call with loosely typed arguments, as received
// from a script or a collaboration client.
type Operation struct {
	Type string         `json:"type" yaml:"type" mapstructure:"type"`
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`
}

// Result reports what an operation did.
type Result struct {
	Changed bool     `json:"changed"`
	IDs     []string `json:"ids,omitempty"`
	Data    string   `json:"data,omitempty"`
}

type pointArgs struct {
	X     float64 `mapstructure:"x"`
	Y     float64 `mapstructure:"y"`
	Shift bool    `mapstructure:"shift"`
}

func (a pointArgs) point() geometry.Point { return geometry.Pt(a.X, a.Y) }

type valueArgs struct {
	Index int     `mapstructure:"index"`
	Value float64 `mapstructure:"value"`
	All   bool    `mapstructure:"all"`
}

type styleArgs struct {
	Index     int     `mapstructure:"index"`
	Color     string  `mapstructure:"color"`
	Placement string  `mapstructure:"placement"`
	Value     float64 `mapstructure:"value"`
}

type idArgs struct {
	ID     string   `mapstructure:"id"`
	IDs    []string `mapstructure:"ids"`
	Target string   `mapstructure:"target"`
	Drop   string   `mapstructure:"drop"`
}

type rectArgs struct {
	X      float64 `mapstructure:"x"`
	Y      float64 `mapstructure:"y"`
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
	Scale  float64 `mapstructure:"scale"`
}

type nameArgs struct {
	Tool   string  `mapstructure:"tool"`
	Mode   string  `mapstructure:"mode"`
	Axis   string  `mapstructure:"axis"`
	Handle string  `mapstructure:"handle"`
	Data   string  `mapstructure:"data"`
	X      float64 `mapstructure:"x"`
	Y      float64 `mapstructure:"y"`
	Index  int     `mapstructure:"index"`
}

func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}

// op adapts a typed handler to the operation table.
func op[A any](fn func(e *Engine, a A) (Result, error)) func(*Engine, map[string]any) (Result, error) {
	return func(e *Engine, args map[string]any) (Result, error) {
		var a A
		if err := decodeArgs(args, &a); err != nil {
			return Result{}, fmt.Errorf("decode args: %w", err)
		}
		return fn(e, a)
	}
}

func changedResult(ok bool) (Result, error) {
	return Result{Changed: ok}, nil
}

func noArgs(fn func(e *Engine) bool) func(*Engine, map[string]any) (Result, error) {
	return func(e *Engine, _ map[string]any) (Result, error) {
		return changedResult(fn(e))
	}
}

func atPoint(fn func(e *Engine, p geometry.Point) bool) func(*Engine, map[string]any) (Result, error) {
	return op(func(e *Engine, a pointArgs) (Result, error) {
		return changedResult(fn(e, a.point()))
	})
}

func withValue(fn func(e *Engine, v float64) bool) func(*Engine, map[string]any) (Result, error) {
	return op(func(e *Engine, a valueArgs) (Result, error) {
		return changedResult(fn(e, a.Value))
	})
}

func withID(fn func(e *Engine, id string) bool) func(*Engine, map[string]any) (Result, error) {
	return op(func(e *Engine, a idArgs) (Result, error) {
		return changedResult(fn(e, a.ID))
	})
}

var operations = map[string]func(*Engine, map[string]any) (Result, error){
	"document.load": op(func(e *Engine, a nameArgs) (Result, error) {
		if err := e.LoadDocumentJSON(a.Data); err != nil {
			return Result{}, err
		}
		return Result{Changed: true}, nil
	}),
	"document.sample": noArgs(func(e *Engine) bool {
		e.LoadSampleDocument()
		return true
	}),
	"frame.set": op(func(e *Engine, a rectArgs) (Result, error) {
		e.SetFrame(geometry.StageFrame{Width: a.Width, Height: a.Height, WorldCoord: geometry.Pt(a.X, a.Y), Scale: a.Scale})
		return Result{Changed: true}, nil
	}),
	"tick": noArgs(func(e *Engine) bool {
		e.Tick()
		return true
	}),

	"tool.set": op(func(e *Engine, a nameArgs) (Result, error) {
		t, ok := ParseTool(a.Tool)
		if !ok {
			return Result{}, fmt.Errorf("unknown tool %q", a.Tool)
		}
		return changedResult(e.SetTool(t))
	}),

	"pointer.down": op(func(e *Engine, a pointArgs) (Result, error) {
		e.PressDown(a.X, a.Y, a.Shift)
		return Result{Changed: true}, nil
	}),
	"pointer.move": op(func(e *Engine, a pointArgs) (Result, error) {
		e.PointerMove(a.X, a.Y)
		return Result{Changed: true}, nil
	}),
	"pointer.up": op(func(e *Engine, a pointArgs) (Result, error) {
		e.PressUp(a.X, a.Y)
		return Result{Changed: true}, nil
	}),
	"pointer.doubleClick": op(func(e *Engine, a pointArgs) (Result, error) {
		return changedResult(e.DoubleClick(a.X, a.Y))
	}),
	"cancel": noArgs((*Engine).Cancel),

	"select":          withID((*Engine).Select),
	"select.toggle":   withID((*Engine).ToggleSelect),
	"select.detached": withID((*Engine).SelectDetached),
	"select.ids": op(func(e *Engine, a idArgs) (Result, error) {
		return changedResult(e.SelectIDs(a.IDs))
	}),
	"select.all":  noArgs((*Engine).SelectAll),
	"select.none": noArgs((*Engine).DeselectAll),
	"select.range": op(func(e *Engine, a rectArgs) (Result, error) {
		return changedResult(e.SelectRange(geometry.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}))
	}),

	"element.position": op(func(e *Engine, a pointArgs) (Result, error) {
		return changedResult(e.SetPosition(a.X, a.Y))
	}),
	"element.width":  withValue((*Engine).SetWidth),
	"element.height": withValue((*Engine).SetHeight),
	"element.angle":  withValue((*Engine).SetAngle),
	"element.leanY":  withValue((*Engine).SetLeanYAngle),
	"element.flipX":  noArgs((*Engine).SetFlipX),
	"element.flipY":  noArgs((*Engine).SetFlipY),
	"element.corners": op(func(e *Engine, a valueArgs) (Result, error) {
		index := a.Index
		if a.All {
			index = -1
		}
		return changedResult(e.SetCorners(index, a.Value))
	}),

	"stroke.type": op(func(e *Engine, a styleArgs) (Result, error) {
		p := geometry.StrokePlacement(a.Placement)
		if !slices.Contains([]geometry.StrokePlacement{geometry.StrokeInside, geometry.StrokeMiddle, geometry.StrokeOutside}, p) {
			return Result{}, fmt.Errorf("unknown stroke placement %q", a.Placement)
		}
		return changedResult(e.SetStrokeType(a.Index, p))
	}),
	"stroke.width": op(func(e *Engine, a styleArgs) (Result, error) {
		return changedResult(e.SetStrokeWidth(a.Index, a.Value))
	}),
	"stroke.color": op(func(e *Engine, a styleArgs) (Result, error) {
		return changedResult(e.SetStrokeColor(a.Index, a.Color))
	}),
	"stroke.opacity": op(func(e *Engine, a styleArgs) (Result, error) {
		return changedResult(e.SetStrokeColorOpacity(a.Index, a.Value))
	}),
	"stroke.add": noArgs((*Engine).AddStroke),
	"stroke.remove": op(func(e *Engine, a styleArgs) (Result, error) {
		return changedResult(e.RemoveStroke(a.Index))
	}),
	"fill.color": op(func(e *Engine, a styleArgs) (Result, error) {
		return changedResult(e.SetFillColor(a.Index, a.Color))
	}),
	"fill.opacity": op(func(e *Engine, a styleArgs) (Result, error) {
		return changedResult(e.SetFillColorOpacity(a.Index, a.Value))
	}),
	"fill.add": noArgs((*Engine).AddFill),
	"fill.remove": op(func(e *Engine, a styleArgs) (Result, error) {
		return changedResult(e.RemoveFill(a.Index))
	}),

	"group": func(e *Engine, _ map[string]any) (Result, error) {
		id, ok := e.Group()
		if !ok {
			return Result{}, nil
		}
		return Result{Changed: true, IDs: []string{id}}, nil
	},
	"ungroup": noArgs((*Engine).Ungroup),
	"delete":  noArgs((*Engine).Delete),
	"copy": func(e *Engine, _ map[string]any) (Result, error) {
		data, err := e.Copy()
		if err != nil {
			return Result{}, err
		}
		return Result{Data: data}, nil
	},
	"paste": op(func(e *Engine, a nameArgs) (Result, error) {
		if a.Data == "" {
			ids := e.Paste()
			return Result{Changed: len(ids) > 0, IDs: ids}, nil
		}
		ids, err := e.PasteJSON(a.Data)
		if err != nil {
			return Result{}, err
		}
		return Result{Changed: len(ids) > 0, IDs: ids}, nil
	}),

	"align": op(func(e *Engine, a nameArgs) (Result, error) {
		return changedResult(e.Align(Align(a.Mode)))
	}),
	"distribute": op(func(e *Engine, a nameArgs) (Result, error) {
		return changedResult(e.Distribute(Distribution(a.Axis)))
	}),
	"layer.down": noArgs((*Engine).GoDown),
	"layer.up":   noArgs((*Engine).ShiftMove),
	"move": op(func(e *Engine, a idArgs) (Result, error) {
		return changedResult(e.MoveTo(a.IDs, a.Target, Drop(a.Drop)))
	}),

	"drag.begin":   atPoint((*Engine).BeginDrag),
	"drag":         atPoint((*Engine).Drag),
	"drag.end":     noArgs((*Engine).EndDrag),
	"rotate.begin": atPoint((*Engine).BeginRotate),
	"rotate":       atPoint((*Engine).Rotate),
	"rotate.end":   noArgs((*Engine).EndRotate),
	"transform.begin": op(func(e *Engine, a nameArgs) (Result, error) {
		h, ok := ParseHandle(a.Handle)
		if !ok {
			return Result{}, fmt.Errorf("unknown handle %q", a.Handle)
		}
		return changedResult(e.BeginTransform(h, geometry.Pt(a.X, a.Y)))
	}),
	"transform":     atPoint((*Engine).Transform),
	"transform.end": noArgs((*Engine).EndTransform),
	"corner.begin": op(func(e *Engine, a nameArgs) (Result, error) {
		return changedResult(e.BeginCornerMove(a.Index, geometry.Pt(a.X, a.Y)))
	}),
	"corner":     atPoint((*Engine).MoveCorner),
	"corner.end": noArgs((*Engine).EndCornerMove),

	"create.begin":     atPoint((*Engine).BeginCreate),
	"create.update":    atPoint((*Engine).UpdateCreate),
	"create.finish":    noArgs((*Engine).FinishCreate),
	"freeform.point":   atPoint((*Engine).AddFreeformPoint),
	"freeform.tail":    atPoint((*Engine).MoveFreeformTail),
	"freeform.commit":  noArgs((*Engine).CommitFreeform),
	"freeform.abandon": noArgs((*Engine).AbandonFreeform),

	"edit.begin": withID((*Engine).BeginEdit),
	"edit.vertex": op(func(e *Engine, a nameArgs) (Result, error) {
		return changedResult(e.EditVertex(a.Index, geometry.Pt(a.X, a.Y)))
	}),
	"edit.end": noArgs((*Engine).EndEdit),

	"undo": noArgs((*Engine).Undo),
	"redo": noArgs((*Engine).Redo),
}

// Operations lists the registered operation types.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Apply runs one operation.
func (e *Engine) Apply(o Operation) (Result, error) {
	fn, ok := operations[o.Type]
	if !ok {
		operationsApplied.WithLabelValues("unknown", "error").Inc()
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownOperation, o.Type)
	}
	res, err := fn(e, o.Args)
	if err != nil {
		operationsApplied.WithLabelValues(o.Type, "error").Inc()
		return Result{}, fmt.Errorf("%s: %w", o.Type, err)
	}
	operationsApplied.WithLabelValues(o.Type, "ok").Inc()
	return res, nil
}
