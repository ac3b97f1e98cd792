package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/milk9111/grit/common"
)

func TestOverlapAABBDisjointProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		a := common.NewRect(rng.Float64()*100, rng.Float64()*100, 1+rng.Float64()*50, 1+rng.Float64()*50)
		b := common.NewRect(rng.Float64()*100, rng.Float64()*100, 1+rng.Float64()*50, 1+rng.Float64()*50)
		// Force a gap on one axis.
		if rng.Intn(2) == 0 {
			b.X = a.MaxX() + 1 + rng.Float64()*10
		} else {
			b.Y = a.MaxY() + 1 + rng.Float64()*10
		}
		if _, _, ok := overlapAABB(a, b); ok {
			t.Fatalf("iteration %d: disjoint rects %+v and %+v reported colliding", i, a, b)
		}
	}
}

func TestOverlapAABBMinimumTranslationProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	w := newTestWorld(t, "box")
	for i := 0; i < 500; i++ {
		a := common.NewRect(0, 0, 1+rng.Float64()*40, 1+rng.Float64()*40)
		// Keep b's origin inside a so the pair always overlaps.
		b := common.NewRect(rng.Float64()*a.Width*0.9, rng.Float64()*a.Height*0.9, 1+rng.Float64()*40, 1+rng.Float64()*40)

		ox, oy, ok := overlapAABB(a, b)
		if !ok {
			t.Fatalf("iteration %d: overlapping rects reported separate", i)
		}

		ea := &Entity{Size: common.Vec2{X: a.Width, Y: a.Height}, Pos: common.Vec2{X: a.X, Y: a.Y}}
		eb := &Entity{Size: common.Vec2{X: b.Width, Y: b.Height}, Pos: common.Vec2{X: b.X, Y: b.Y}}
		ev, hit := w.checkPair(ea, eb)
		if !hit {
			t.Fatalf("iteration %d: checkPair missed overlap", i)
		}
		switch ev.Axis {
		case AxisX:
			if ox > oy {
				t.Fatalf("iteration %d: resolved on X with larger overlap (%v > %v)", i, ox, oy)
			}
		case AxisY:
			if oy > ox {
				t.Fatalf("iteration %d: resolved on Y with larger overlap (%v > %v)", i, oy, ox)
			}
		}
	}
}

func TestEqualOverlapResolvesOnY(t *testing.T) {
	w := newTestWorld(t, "box")
	a := &Entity{Pos: common.Vec2{X: 0, Y: 0}, Size: common.Vec2{X: 10, Y: 10}}
	b := &Entity{Pos: common.Vec2{X: 5, Y: 5}, Size: common.Vec2{X: 10, Y: 10}}

	ev, hit := w.checkPair(a, b)
	if !hit {
		t.Fatalf("expected overlap")
	}
	if ev.Axis != AxisY {
		t.Fatalf("equal overlaps must resolve on Y, got axis %v", ev.Axis)
	}
}

func TestDegenerateRectNeverCollides(t *testing.T) {
	cases := []struct {
		name string
		a, b common.Rect
	}{
		{"zero_width", common.NewRect(0, 0, 0, 10), common.NewRect(0, 0, 10, 10)},
		{"zero_height", common.NewRect(0, 0, 10, 0), common.NewRect(0, 0, 10, 10)},
		{"negative_size", common.NewRect(0, 0, -5, -5), common.NewRect(-10, -10, 20, 20)},
		{"both_zero", common.NewRect(0, 0, 0, 0), common.NewRect(0, 0, 0, 0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, _, ok := overlapAABB(c.a, c.b); ok {
				t.Fatalf("degenerate rects must never collide")
			}
		})
	}
}

func TestStaticAbsorbsFullCorrection(t *testing.T) {
	w := newTestWorld(t, "box")
	mover, err := w.Spawn("box", common.NewRect(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	wall, err := w.Spawn("box", common.NewRect(12, 0, 10, 10))
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	a, _ := w.Get(mover)
	a.Solid = true
	a.Vel = common.Vec2{X: 5}
	b, _ := w.Get(wall)
	b.Solid = true
	b.Static = true

	if err := w.Step(1); err != nil {
		t.Fatalf("step: %v", err)
	}

	a, _ = w.Get(mover)
	if a.Pos.X != 2 || a.Pos.Y != 0 {
		t.Fatalf("expected mover at (2, 0), got (%v, %v)", a.Pos.X, a.Pos.Y)
	}
	if a.Vel.X != 0 {
		t.Fatalf("expected mover X velocity zeroed, got %v", a.Vel.X)
	}
	b, _ = w.Get(wall)
	if b.Pos.X != 12 {
		t.Fatalf("static wall must not move, got x=%v", b.Pos.X)
	}

	evs := w.Events()
	if len(evs) != 1 {
		t.Fatalf("expected 1 touch event, got %d", len(evs))
	}
	if !evs[0].Resolved {
		t.Fatalf("solid pair event should be marked resolved")
	}
}

func TestEqualMassSplitEvenly(t *testing.T) {
	w := newTestWorld(t, "box")
	left, _ := w.Spawn("box", common.NewRect(0, 0, 10, 10))
	right, _ := w.Spawn("box", common.NewRect(6, 0, 10, 10))
	for _, h := range []Handle{left, right} {
		e, _ := w.Get(h)
		e.Solid = true
	}

	if err := w.Step(0); err != nil {
		t.Fatalf("step: %v", err)
	}

	// Overlap is 4 on X (Y overlap 10 is larger); each side takes 2.
	a, _ := w.Get(left)
	b, _ := w.Get(right)
	if a.Pos.X != -2 {
		t.Fatalf("expected left pushed to -2, got %v", a.Pos.X)
	}
	if b.Pos.X != 8 {
		t.Fatalf("expected right pushed to 8, got %v", b.Pos.X)
	}
}

func TestInverseMassSplit(t *testing.T) {
	w := newTestWorld(t, "box")
	heavy, _ := w.Spawn("box", common.NewRect(0, 0, 10, 10))
	light, _ := w.Spawn("box", common.NewRect(6, 0, 10, 10))
	e, _ := w.Get(heavy)
	e.Solid = true
	e.Mass = 3
	e, _ = w.Get(light)
	e.Solid = true
	e.Mass = 1

	if err := w.Step(0); err != nil {
		t.Fatalf("step: %v", err)
	}

	// Overlap 4: heavy takes 1/4, light takes 3/4.
	a, _ := w.Get(heavy)
	b, _ := w.Get(light)
	if a.Pos.X != -1 {
		t.Fatalf("expected heavy pushed to -1, got %v", a.Pos.X)
	}
	if b.Pos.X != 9 {
		t.Fatalf("expected light pushed to 9, got %v", b.Pos.X)
	}
}

func TestEventSymmetry(t *testing.T) {
	type side struct {
		other Handle
		push  common.Vec2
	}
	var got []side

	w := NewWorld(Config{})
	rec := &recordingBehavior{}
	rec.onCollide = func(_ *World, e *Entity, other Handle, ev CollisionEvent) {
		got = append(got, side{other: other, push: ev.Push})
	}
	if err := w.Register("box", rec); err != nil {
		t.Fatalf("register: %v", err)
	}

	h1, _ := w.Spawn("box", common.NewRect(0, 0, 10, 10))
	h2, _ := w.Spawn("box", common.NewRect(7, 0, 10, 10))

	if err := w.Step(0); err != nil {
		t.Fatalf("step: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected both sides to receive the event, got %d calls", len(got))
	}
	if got[0].other != h2 || got[1].other != h1 {
		t.Fatalf("events delivered to wrong participants")
	}
	if got[0].push.X != -got[1].push.X || got[0].push.Y != -got[1].push.Y {
		t.Fatalf("penetration must be negated across sides: %+v vs %+v", got[0].push, got[1].push)
	}
}

func TestTriggerPairLeavesPositionsAlone(t *testing.T) {
	var coinTouched, playerTouched bool

	w := NewWorld(Config{})
	coinB := &recordingBehavior{}
	coinB.onCollide = func(w *World, e *Entity, _ Handle, _ CollisionEvent) {
		coinTouched = true
		w.Kill(e.Handle())
	}
	playerB := &recordingBehavior{}
	playerB.onCollide = func(_ *World, _ *Entity, _ Handle, _ CollisionEvent) {
		playerTouched = true
	}
	if err := w.Register("coin", coinB); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := w.Register("player", playerB); err != nil {
		t.Fatalf("register: %v", err)
	}

	coin, _ := w.Spawn("coin", common.NewRect(2, 2, 6, 6))
	player, _ := w.Spawn("player", common.NewRect(0, 0, 10, 10))
	p, _ := w.Get(player)
	p.Solid = true

	if err := w.Step(0); err != nil {
		t.Fatalf("step: %v", err)
	}

	if !coinTouched || !playerTouched {
		t.Fatalf("both hooks must fire: coin=%v player=%v", coinTouched, playerTouched)
	}
	c2, ok := w.Get(coin)
	if ok {
		t.Fatalf("coin kill queued in the hook must commit at flush, still at %+v", c2.Pos)
	}
	p, _ = w.Get(player)
	if p.Pos.X != 0 || p.Pos.Y != 0 {
		t.Fatalf("trigger pair must not displace the player, got (%v, %v)", p.Pos.X, p.Pos.Y)
	}
	if evs := w.Events(); len(evs) != 1 || evs[0].Resolved {
		t.Fatalf("expected one unresolved trigger event, got %+v", evs)
	}
}

func TestRestitutionReflectsVelocity(t *testing.T) {
	w := newTestWorld(t, "box")
	ball, _ := w.Spawn("box", common.NewRect(0, 0, 10, 10))
	floor, _ := w.Spawn("box", common.NewRect(-50, 18, 200, 10))

	e, _ := w.Get(ball)
	e.Solid = true
	e.Restitution = 1
	e.Vel = common.Vec2{Y: 100}
	f, _ := w.Get(floor)
	f.Solid = true
	f.Static = true

	// dt small enough that the ball penetrates rather than tunnels.
	if err := w.Step(0.1); err != nil {
		t.Fatalf("step: %v", err)
	}

	e, _ = w.Get(ball)
	if e.Vel.Y != -100 {
		t.Fatalf("expected reflected Y velocity -100, got %v", e.Vel.Y)
	}
	if got := e.Pos.Y + e.Size.Y; math.Abs(got-18) > 1e-9 {
		t.Fatalf("ball should rest on the floor surface, bottom at %v", got)
	}
}
