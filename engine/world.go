package engine

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/grit/common"
)

type stepState int

const (
	stateIdle stepState = iota
	stateStepping
	stateFlushing
	stateClosed
)

type message struct {
	to   Handle
	data any
}

// World owns the entity store and drives the simulation. One Step call
// runs to completion before another may begin; behaviors queue spawns,
// kills, and messages instead of mutating the store mid-iteration.
// Multiple Worlds are fully independent.
type World struct {
	config    Config
	log       *logrus.Logger
	store     *store
	grid      *grid
	behaviors map[string]Behavior

	input  Input
	events []CollisionEvent

	pendingSpawn []Handle
	pendingKill  []Handle
	messages     []message

	state   stepState
	frame   uint64
	scratch []Handle
}

// NewWorld creates an empty world.
func NewWorld(cfg Config) *World {
	if cfg.CellSize <= 0 {
		cfg.CellSize = defaultCellSize
	}
	return &World{
		config:    cfg,
		log:       logrus.StandardLogger(),
		store:     newStore(cfg.MaxEntities),
		grid:      newGrid(cfg.CellSize),
		behaviors: make(map[string]Behavior),
	}
}

// SetLogger replaces the world's diagnostic logger.
func (w *World) SetLogger(l *logrus.Logger) {
	if w == nil || l == nil {
		return
	}
	w.log = l
}

// Logger returns the world's diagnostic logger, so loaders and hosts
// can share it.
func (w *World) Logger() *logrus.Logger {
	if w == nil {
		return logrus.StandardLogger()
	}
	return w.log
}

// Config returns the world's config.
func (w *World) Config() Config {
	return w.config
}

// Spawn creates an entity of the given kind covering rect. Spawns
// requested while a step is in flight become visible at the end of that
// step; spawns requested between steps are visible immediately. An
// unregistered kind is a no-op spawn: logged, nothing created.
func (w *World) Spawn(kind string, rect common.Rect) (Handle, error) {
	return w.SpawnWith(kind, rect, nil)
}

// SpawnWith is Spawn plus custom fields routed through the behavior's
// Settings hook, e.g. from a level file.
func (w *World) SpawnWith(kind string, rect common.Rect, settings map[string]any) (Handle, error) {
	if w == nil || w.state == stateClosed {
		return 0, ErrClosed
	}
	b, registered := w.behaviorFor(kind)
	if !registered {
		w.log.WithField("kind", kind).Warn("engine: spawn for unregistered kind dropped")
		return 0, ErrUnknownKind
	}

	h, err := w.store.alloc(kind)
	if err != nil {
		return 0, err
	}
	e, _ := w.store.get(h)
	e.Pos = common.Vec2{X: rect.X, Y: rect.Y}
	e.Size = common.Vec2{X: rect.Width, Y: rect.Height}
	e.GravityScale = 1
	e.behavior = b

	if w.state == stateIdle {
		e.active = true
	} else {
		w.pendingSpawn = append(w.pendingSpawn, h)
	}
	if settings != nil {
		b.Settings(w, e, settings)
	}
	return h, nil
}

// Configure routes custom fields to an entity's Settings hook, e.g. after
// a loader has finished shaping the entity.
func (w *World) Configure(h Handle, settings map[string]any) {
	if w == nil || settings == nil {
		return
	}
	if e, ok := w.store.get(h); ok {
		e.behavior.Settings(w, e, settings)
	}
}

// Kill marks an entity for removal. The entity stays live through the
// rest of the current step and is freed at the step's flush; between
// steps the removal applies immediately.
func (w *World) Kill(h Handle) {
	if w == nil {
		return
	}
	e, ok := w.store.get(h)
	if !ok || e.pendingKill {
		return
	}
	e.pendingKill = true
	if w.state == stateIdle {
		w.commitKill(h)
		return
	}
	w.pendingKill = append(w.pendingKill, h)
}

// Get resolves a handle. A stale or dead handle returns (nil, false);
// treat that as "entity no longer exists".
func (w *World) Get(h Handle) (*Entity, bool) {
	if w == nil {
		return nil, false
	}
	return w.store.get(h)
}

// Each calls fn for every live entity in store order.
func (w *World) Each(fn func(*Entity)) {
	if w == nil || fn == nil {
		return
	}
	w.store.each(fn)
}

// Count returns the number of live entities, including ones spawned this
// step that are not yet visible to iteration.
func (w *World) Count() int {
	if w == nil {
		return 0
	}
	return w.store.count()
}

// Send queues data for an entity, delivered to its Message hook at the
// end of the current (or next) step.
func (w *World) Send(to Handle, data any) {
	if w == nil {
		return
	}
	w.messages = append(w.messages, message{to: to, data: data})
}

// Events returns the touch events produced by the most recent Step, in
// resolution order, each from its A participant's point of view. The
// slice is valid until the next Step call.
func (w *World) Events() []CollisionEvent {
	if w == nil {
		return nil
	}
	return w.events
}

// Frame returns the number of completed steps.
func (w *World) Frame() uint64 {
	return w.frame
}

// Shutdown moves the world to its terminal state. Further Step calls fail
// with ErrClosed.
func (w *World) Shutdown() {
	if w == nil {
		return
	}
	w.state = stateClosed
}

// Step advances the simulation by dt seconds: behavior updates and
// explicit-Euler integration, then broad- and narrow-phase collision with
// resolution and event dispatch, then the flush of queued spawns, kills,
// and messages. dt must be non-negative and finite; a zero dt skips
// integration but still collision-checks current positions.
func (w *World) Step(dt float64) error {
	if w == nil || w.state == stateClosed {
		return ErrClosed
	}
	if w.state != stateIdle {
		return ErrStepping
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return ErrBadStep
	}

	w.state = stateStepping
	w.frame++
	w.events = w.events[:0]

	// Snapshot the iteration set so spawns queued by behaviors cannot
	// join mid-pass.
	w.scratch = w.store.handles(w.scratch[:0])
	for _, h := range w.scratch {
		e, ok := w.store.get(h)
		if !ok {
			continue
		}
		e.behavior.Update(w, e, dt)
		w.integrate(e, dt)
		e.behavior.PostUpdate(w, e, dt)
	}

	w.state = stateFlushing
	w.updateCollision()
	w.dispatchEvents()
	w.flush()
	w.state = stateIdle
	return nil
}

// integrate applies acceleration, gravity, and friction to velocity, then
// velocity to position. Every entity sees the same dt.
func (w *World) integrate(e *Entity, dt float64) {
	e.OnGround = false
	if dt == 0 {
		return
	}
	e.Vel.Y += w.config.Gravity * e.GravityScale * dt
	e.Vel = e.Vel.Add(e.Accel.Scale(dt))
	e.Vel.X -= e.Vel.X * math.Min(e.Friction.X*dt, 1)
	e.Vel.Y -= e.Vel.Y * math.Min(e.Friction.Y*dt, 1)
	e.Pos = e.Pos.Add(e.Vel.Scale(dt))
}

// dispatchEvents delivers every touch event to both participants' Collide
// hooks, the B side seeing the event flipped. Trigger-style touches pass
// through each receiver's CheckAgainst filter; resolved collisions are
// delivered unconditionally.
func (w *World) dispatchEvents() {
	for _, ev := range w.events {
		a, okA := w.store.get(ev.A)
		b, okB := w.store.get(ev.B)
		if okA && (ev.Resolved || !okB || a.wantsTouch(b)) {
			a.behavior.Collide(w, a, ev.B, ev)
		}
		if okB && (ev.Resolved || !okA || b.wantsTouch(a)) {
			b.behavior.Collide(w, b, ev.A, ev.flipped())
		}
	}
}

// flush commits everything queued during the step: messages first, then
// kills, then spawn activation, so a message to an entity killed this
// step still arrives and new entities become iterable next step only.
func (w *World) flush() {
	msgs := w.messages
	w.messages = nil
	for _, m := range msgs {
		e, ok := w.store.get(m.to)
		if !ok {
			w.log.WithField("to", m.to.String()).Debug("engine: message to dead entity dropped")
			continue
		}
		e.behavior.Message(w, e, m.data)
	}

	kills := w.pendingKill
	w.pendingKill = nil
	for _, h := range kills {
		w.commitKill(h)
	}

	spawns := w.pendingSpawn
	w.pendingSpawn = nil
	for _, h := range spawns {
		if e, ok := w.store.get(h); ok {
			e.active = true
		}
	}
}

func (w *World) commitKill(h Handle) {
	e, ok := w.store.get(h)
	if !ok {
		return
	}
	e.behavior.Kill(w, e)
	w.store.release(h)
}
