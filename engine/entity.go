package engine

import (
	"strconv"

	"github.com/milk9111/grit/common"
)

// Handle is an opaque reference to an entity: a slot index packed with a
// generation counter. A handle left over from a freed slot never resolves
// to the entity that reuses the slot.
type Handle uint64

type slotIndex uint32
type generation uint32

const handleIndexBits = 32

func makeHandle(idx slotIndex, gen generation) Handle {
	return Handle(uint64(gen)<<handleIndexBits | uint64(idx))
}

func (h Handle) index() slotIndex {
	return slotIndex(uint32(h))
}

func (h Handle) generation() generation {
	return generation(uint32(uint64(h) >> handleIndexBits))
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// Valid reports whether h could refer to an entity. The zero Handle never
// resolves.
func (h Handle) Valid() bool {
	return h > 0
}

// Group is a bitmask used to tag entities for behavior-side filtering.
type Group uint8

// Built-in groups. Hosts may define their own bits above GroupPickup.
const (
	GroupNone       Group = 0
	GroupPlayer     Group = 1 << 0
	GroupNPC        Group = 1 << 1
	GroupEnemy      Group = 1 << 2
	GroupItem       Group = 1 << 3
	GroupProjectile Group = 1 << 4
	GroupPickup     Group = 1 << 5
)

// Matches reports whether g and other share any bit.
func (g Group) Matches(other Group) bool {
	return g&other != 0
}

// Entity is a live simulation object. Behaviors of the same kind share one
// implementation but each entity carries its own state here.
type Entity struct {
	handle Handle

	// Kind names the registered behavior this entity dispatches to. Fixed
	// at spawn.
	Kind string

	Pos      common.Vec2
	Size     common.Vec2
	Vel      common.Vec2
	Accel    common.Vec2
	Friction common.Vec2

	// GravityScale multiplies the world gravity. Zero disables gravity for
	// this entity.
	GravityScale float64
	Mass         float64
	// Restitution above zero makes the entity bounce off collisions instead
	// of having its velocity zeroed.
	Restitution float64

	// Solid entities take part in positional correction. Non-solid entities
	// only ever produce trigger-style touch events.
	Solid bool
	// Static entities never move during resolution; the other side absorbs
	// the full correction.
	Static bool
	// Collidable entities are inserted into the broad-phase. Non-collidable
	// ones are skipped entirely.
	Collidable bool

	OnGround bool

	// Group tags the entity so other entities can filter touches by it.
	Group Group
	// CheckAgainst filters trigger-style touch notifications: when set,
	// this entity's Collide hook only fires for overlaps with entities
	// in a matching group. Zero accepts everything. Resolved collisions
	// always notify.
	CheckAgainst Group

	// Scratch fields for behavior-specific state.
	Timer   float64
	Counter int
	Scratch common.Vec2
	Target  Handle

	behavior Behavior

	alive       bool
	active      bool
	pendingKill bool
}

// Handle returns the entity's handle.
func (e *Entity) Handle() Handle {
	return e.handle
}

// Bounds returns the entity's AABB, derived from Pos and Size.
func (e *Entity) Bounds() common.Rect {
	return common.Rect{X: e.Pos.X, Y: e.Pos.Y, Width: e.Size.X, Height: e.Size.Y}
}

// Alive reports whether the entity still occupies its slot. An entity
// killed mid-step stays alive until the step's flush.
func (e *Entity) Alive() bool {
	return e != nil && e.alive
}

// wantsTouch applies the CheckAgainst filter for a trigger-style touch
// with other.
func (e *Entity) wantsTouch(other *Entity) bool {
	return e.CheckAgainst == GroupNone || e.CheckAgainst.Matches(other.Group)
}
