package engine

import (
	"math"

	"github.com/milk9111/grit/common"
)

// Axis identifies the resolution axis of a collision.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// minBounceVelocity is the smallest reflected speed worth bouncing for.
// Below it a restitutive entity just settles.
const minBounceVelocity = 10.0

// CollisionEvent describes one touching pair for one frame. Events are
// delivered to both participants; the receiving side always sees itself
// as A, with Push pointing out of B.
type CollisionEvent struct {
	A, B Handle
	// Push is the minimum translation vector for A: adding it to A's
	// position separates the pair.
	Push common.Vec2
	// Normal is the unit direction of Push.
	Normal common.Vec2
	Axis   Axis
	// Resolved reports whether positional correction was applied, as
	// opposed to a trigger-style pass-through touch.
	Resolved bool
}

// flipped returns the same event seen from B's side.
func (ev CollisionEvent) flipped() CollisionEvent {
	return CollisionEvent{
		A:        ev.B,
		B:        ev.A,
		Push:     ev.Push.Neg(),
		Normal:   ev.Normal.Neg(),
		Axis:     ev.Axis,
		Resolved: ev.Resolved,
	}
}

// overlapAABB runs the separating-axis test for two AABBs: per-axis
// interval overlap. ok is false when either axis shows a gap, which
// includes every degenerate (zero or negative size) rect.
func overlapAABB(a, b common.Rect) (ox, oy float64, ok bool) {
	if a.Empty() || b.Empty() {
		return 0, 0, false
	}
	ox = a.OverlapX(b)
	if ox <= 0 {
		return 0, 0, false
	}
	oy = a.OverlapY(b)
	if oy <= 0 {
		return 0, 0, false
	}
	return ox, oy, true
}

// checkPair narrow-phases one candidate pair and, for solid pairs,
// resolves the penetration. The returned event is from a's point of view.
func (w *World) checkPair(a, b *Entity) (CollisionEvent, bool) {
	ox, oy, ok := overlapAABB(a.Bounds(), b.Bounds())
	if !ok {
		return CollisionEvent{}, false
	}

	// Resolve along the axis needing the least correction. Exactly equal
	// overlaps resolve on Y so the common resting-on-ground case wins.
	axis := AxisY
	if ox < oy {
		axis = AxisX
	}

	ev := CollisionEvent{A: a.handle, B: b.handle, Axis: axis}
	ac, bc := a.Bounds().Center(), b.Bounds().Center()
	if axis == AxisX {
		dir := -1.0
		if ac.X > bc.X {
			dir = 1.0
		}
		ev.Push = common.Vec2{X: ox * dir}
		ev.Normal = common.Vec2{X: dir}
	} else {
		dir := -1.0
		if ac.Y > bc.Y {
			dir = 1.0
		}
		ev.Push = common.Vec2{Y: oy * dir}
		ev.Normal = common.Vec2{Y: dir}
	}

	// Any non-solid participant makes this a pass-through touch: pickups
	// and triggers overlap freely.
	if !a.Solid || !b.Solid {
		return ev, true
	}

	aMove, bMove := separationWeights(a, b)
	if aMove > 0 {
		w.separate(a, ev.Push.Scale(aMove), ev.Normal, axis)
	}
	if bMove > 0 {
		w.separate(b, ev.Push.Scale(bMove).Neg(), ev.Normal.Neg(), axis)
	}
	ev.Resolved = aMove > 0 || bMove > 0
	return ev, true
}

// separationWeights splits the correction between two solid entities.
// A static side absorbs nothing; two movables split by inverse mass, or
// evenly when masses cancel out.
func separationWeights(a, b *Entity) (aMove, bMove float64) {
	switch {
	case a.Static && b.Static:
		return 0, 0
	case a.Static:
		return 0, 1
	case b.Static:
		return 1, 0
	}
	total := a.Mass + b.Mass
	if total <= 0 {
		return 0.5, 0.5
	}
	return b.Mass / total, a.Mass / total
}

// separate displaces e by push and settles its velocity on the resolution
// axis: reflected when the entity is restitutive enough, zeroed otherwise.
// Velocity already pointing away from the contact is left alone.
func (w *World) separate(e *Entity, push, normal common.Vec2, axis Axis) {
	e.Pos = e.Pos.Add(push)

	var v *float64
	if axis == AxisX {
		v = &e.Vel.X
	} else {
		v = &e.Vel.Y
	}
	n := normal.X
	if axis == AxisY {
		n = normal.Y
	}
	if *v*n >= 0 {
		return
	}
	if math.Abs(*v)*e.Restitution > minBounceVelocity {
		*v = -*v * e.Restitution
	} else {
		*v = 0
	}

	// Pushed up against gravity means standing on something.
	if axis == AxisY && n < 0 && w.config.Gravity > 0 && e.GravityScale != 0 {
		e.OnGround = true
	}
}

// updateCollision runs broad- and narrow-phase for the frame and queues
// one symmetric touch event per colliding pair.
func (w *World) updateCollision() {
	w.grid.rebuild(w.store)
	for _, pair := range w.grid.candidatePairs() {
		a, okA := w.store.get(pair.a)
		b, okB := w.store.get(pair.b)
		if !okA || !okB {
			continue
		}
		ev, hit := w.checkPair(a, b)
		if !hit {
			continue
		}
		w.events = append(w.events, ev)
	}
}
