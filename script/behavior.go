// Package script runs entity behaviors written in tengo. A script must
// define four functions, each of which may be empty:
//
//	update := func(self, dt) { ... }
//	on_collision := func(self, other, event) { ... }
//	on_message := func(self, data) { ... }
//	on_kill := func(self) { ... }
//
// Hooks receive the entity as a mutable map (pos_x, pos_y, vel_x, vel_y,
// timer, counter, on_ground, kind, id); writes to it are copied back to
// the entity after the hook returns. The global `world` map exposes
// spawn/kill/send/pressed/held for queuing intents, mirroring what
// compiled behaviors can do.
package script

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/grit/common"
	"github.com/milk9111/grit/engine"
)

const dispatchScript = `
if __phase == "update" {
	update(__self, __dt)
} else if __phase == "collide" {
	on_collision(__self, __other, __event)
} else if __phase == "message" {
	on_message(__self, __data)
} else if __phase == "kill" {
	on_kill(__self)
}
`

// Behavior is an engine.Behavior backed by a compiled tengo script. One
// Behavior serves every entity of its kind; the world is single-threaded
// so the compiled program is reused across calls.
type Behavior struct {
	engine.NopBehavior
	name     string
	compiled *tengo.Compiled
	log      *logrus.Logger
}

// LoadFile compiles a script behavior from a .tengo file.
func LoadFile(filename string) (*Behavior, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", filename, err)
	}
	return Compile(filename, src)
}

// Compile builds a script behavior from source.
func Compile(name string, src []byte) (*Behavior, error) {
	s := tengo.NewScript(append(append([]byte{}, src...), []byte(dispatchScript)...))
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for _, global := range []string{"__phase", "__self", "__other", "__event", "__data", "__dt", "world"} {
		if err := s.Add(global, nil); err != nil {
			return nil, fmt.Errorf("script: declare %s: %w", global, err)
		}
	}
	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Behavior{name: name, compiled: compiled, log: logrus.StandardLogger()}, nil
}

// Name returns the script's source name.
func (b *Behavior) Name() string {
	return b.name
}

func (b *Behavior) Update(w *engine.World, e *engine.Entity, dt float64) {
	b.run(w, e, "update", map[string]any{"__dt": dt})
}

func (b *Behavior) Collide(w *engine.World, e *engine.Entity, other engine.Handle, ev engine.CollisionEvent) {
	axis := "y"
	if ev.Axis == engine.AxisX {
		axis = "x"
	}
	b.run(w, e, "collide", map[string]any{
		"__other": int64(other),
		"__event": map[string]any{
			"push_x":   ev.Push.X,
			"push_y":   ev.Push.Y,
			"normal_x": ev.Normal.X,
			"normal_y": ev.Normal.Y,
			"axis":     axis,
			"resolved": ev.Resolved,
		},
	})
}

func (b *Behavior) Message(w *engine.World, e *engine.Entity, data any) {
	b.run(w, e, "message", map[string]any{"__data": data})
}

func (b *Behavior) Kill(w *engine.World, e *engine.Entity) {
	b.run(w, e, "kill", nil)
}

func (b *Behavior) run(w *engine.World, e *engine.Entity, phase string, extras map[string]any) {
	globals := map[string]any{
		"__phase": phase,
		"__self":  entityMap(e),
		"__other": int64(0),
		"__event": map[string]any{},
		"__data":  nil,
		"__dt":    0.0,
		"world":   worldMap(w),
	}
	for k, v := range extras {
		globals[k] = v
	}
	for k, v := range globals {
		if err := b.compiled.Set(k, v); err != nil {
			b.log.WithError(err).WithField("script", b.name).Error("script: set global")
			return
		}
	}

	if err := b.compiled.Run(); err != nil {
		b.log.WithError(err).WithFields(logrus.Fields{
			"script": b.name,
			"phase":  phase,
			"entity": e.Handle().String(),
		}).Error("script: hook failed")
		return
	}
	applyEntityMap(e, b.compiled.Get("__self").Map())
}

// entityMap exposes the mutable slice of entity state scripts may touch.
func entityMap(e *engine.Entity) map[string]any {
	return map[string]any{
		"id":        int64(e.Handle()),
		"kind":      e.Kind,
		"pos_x":     e.Pos.X,
		"pos_y":     e.Pos.Y,
		"vel_x":     e.Vel.X,
		"vel_y":     e.Vel.Y,
		"accel_x":   e.Accel.X,
		"accel_y":   e.Accel.Y,
		"width":     e.Size.X,
		"height":    e.Size.Y,
		"on_ground": e.OnGround,
		"timer":     e.Timer,
		"counter":   int64(e.Counter),
	}
}

func applyEntityMap(e *engine.Entity, m map[string]any) {
	if m == nil {
		return
	}
	e.Pos.X = numField(m, "pos_x", e.Pos.X)
	e.Pos.Y = numField(m, "pos_y", e.Pos.Y)
	e.Vel.X = numField(m, "vel_x", e.Vel.X)
	e.Vel.Y = numField(m, "vel_y", e.Vel.Y)
	e.Accel.X = numField(m, "accel_x", e.Accel.X)
	e.Accel.Y = numField(m, "accel_y", e.Accel.Y)
	e.Timer = numField(m, "timer", e.Timer)
	if v, ok := m["counter"].(int64); ok {
		e.Counter = int(v)
	}
}

func numField(m map[string]any, key string, fallback float64) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return fallback
	}
}

// worldMap builds the world-facing API handed to every hook call.
func worldMap(w *engine.World) map[string]any {
	return map[string]any{
		"spawn": &tengo.UserFunction{
			Name: "spawn",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) != 5 {
					return nil, tengo.ErrWrongNumArguments
				}
				kind, ok := tengo.ToString(args[0])
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: "kind", Expected: "string"}
				}
				var vals [4]float64
				for i := 0; i < 4; i++ {
					f, ok := tengo.ToFloat64(args[i+1])
					if !ok {
						return nil, tengo.ErrInvalidArgumentType{Name: "rect", Expected: "number"}
					}
					vals[i] = f
				}
				h, err := w.Spawn(kind, common.NewRect(vals[0], vals[1], vals[2], vals[3]))
				if err != nil {
					return tengo.UndefinedValue, nil
				}
				return &tengo.Int{Value: int64(h)}, nil
			},
		},
		"kill": &tengo.UserFunction{
			Name: "kill",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) != 1 {
					return nil, tengo.ErrWrongNumArguments
				}
				id, ok := tengo.ToInt64(args[0])
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: "id", Expected: "int"}
				}
				w.Kill(engine.Handle(id))
				return tengo.UndefinedValue, nil
			},
		},
		"send": &tengo.UserFunction{
			Name: "send",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) != 2 {
					return nil, tengo.ErrWrongNumArguments
				}
				id, ok := tengo.ToInt64(args[0])
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: "to", Expected: "int"}
				}
				w.Send(engine.Handle(id), tengo.ToInterface(args[1]))
				return tengo.UndefinedValue, nil
			},
		},
		"pressed": &tengo.UserFunction{
			Name: "pressed",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) != 1 {
					return nil, tengo.ErrWrongNumArguments
				}
				key, ok := tengo.ToString(args[0])
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: "key", Expected: "string"}
				}
				if w.Input().IsPressed(key) {
					return tengo.TrueValue, nil
				}
				return tengo.FalseValue, nil
			},
		},
		"held": &tengo.UserFunction{
			Name: "held",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				if len(args) != 1 {
					return nil, tengo.ErrWrongNumArguments
				}
				key, ok := tengo.ToString(args[0])
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: "key", Expected: "string"}
				}
				if w.Input().IsHeld(key) {
					return tengo.TrueValue, nil
				}
				return tengo.FalseValue, nil
			},
		},
	}
}
