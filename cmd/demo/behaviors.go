package main

import (
	"github.com/milk9111/grit/engine"
)

const (
	playerMoveSpeed = 160.0
	playerJumpSpeed = 360.0
)

type playerBehavior struct {
	engine.NopBehavior
	moveSpeed float64
	jumpSpeed float64
}

func (b *playerBehavior) Settings(_ *engine.World, _ *engine.Entity, s map[string]any) {
	if v, ok := s["move_speed"].(float64); ok {
		b.moveSpeed = v
	}
	if v, ok := s["jump_speed"].(float64); ok {
		b.jumpSpeed = v
	}
}

func (b *playerBehavior) Update(w *engine.World, e *engine.Entity, dt float64) {
	in := w.Input()
	e.Vel.X = 0
	if in.IsHeld("left") {
		e.Vel.X = -b.moveSpeed
	}
	if in.IsHeld("right") {
		e.Vel.X = b.moveSpeed
	}
	if in.IsPressed("jump") && e.OnGround {
		e.Vel.Y = -b.jumpSpeed
	}
}

func (b *playerBehavior) Message(_ *engine.World, e *engine.Entity, data any) {
	if data == "coin" {
		e.Counter++
	}
}

// coinBehavior is a trigger pickup: non-solid, kills itself on touch and
// credits whoever touched it.
type coinBehavior struct {
	engine.NopBehavior
}

func (coinBehavior) Collide(w *engine.World, e *engine.Entity, other engine.Handle, _ engine.CollisionEvent) {
	o, ok := w.Get(other)
	if !ok || o.Kind != "player" {
		return
	}
	w.Send(other, "coin")
	w.Kill(e.Handle())
}

type wallBehavior struct {
	engine.NopBehavior
}

// ballBehavior just exists to name the kind; bounce comes from restitution.
type ballBehavior struct {
	engine.NopBehavior
}

func registerBehaviors(w *engine.World) error {
	player := &playerBehavior{moveSpeed: playerMoveSpeed, jumpSpeed: playerJumpSpeed}
	for kind, b := range map[string]engine.Behavior{
		"player": player,
		"coin":   coinBehavior{},
		"wall":   wallBehavior{},
		"ball":   ballBehavior{},
	} {
		if err := w.Register(kind, b); err != nil {
			return err
		}
	}
	return nil
}
