// Headless stress harness: fills a world with bouncing boxes and steps
// it under the profiler. Useful for sizing broad-phase cells.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/pkg/profile"

	"github.com/milk9111/grit/common"
	"github.com/milk9111/grit/engine"
)

func main() {
	entities := flag.Int("n", 2000, "number of entities")
	frames := flag.Int("frames", 600, "number of steps to run")
	cellSize := flag.Float64("cell", 64, "broad-phase cell size")
	memProfile := flag.Bool("mem", false, "profile memory instead of CPU")
	flag.Parse()

	if *memProfile {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	} else {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	w := engine.NewWorld(engine.Config{CellSize: *cellSize})
	if err := w.Register("box", boxBehavior{}); err != nil {
		log.Fatal(err)
	}
	if err := w.Register("wall", engine.NopBehavior{}); err != nil {
		log.Fatal(err)
	}

	buildArena(w)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < *entities; i++ {
		h, err := w.Spawn("box", common.NewRect(
			20+rng.Float64()*1960, 20+rng.Float64()*1960, 8, 8))
		if err != nil {
			log.Fatalf("spawn %d: %v", i, err)
		}
		e, _ := w.Get(h)
		e.Solid = true
		e.GravityScale = 0
		e.Restitution = 1
		e.Vel = common.Vec2{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
	}

	start := time.Now()
	events := 0
	for i := 0; i < *frames; i++ {
		if err := w.Step(1.0 / 60); err != nil {
			log.Fatalf("step %d: %v", i, err)
		}
		events += len(w.Events())
	}
	elapsed := time.Since(start)

	fmt.Printf("%d entities, %d frames in %v (%.2f ms/frame), %d touch events\n",
		*entities, *frames, elapsed,
		float64(elapsed.Milliseconds())/float64(*frames), events)
}

type boxBehavior struct {
	engine.NopBehavior
}

func buildArena(w *engine.World) {
	walls := []common.Rect{
		common.NewRect(0, 0, 2000, 10),
		common.NewRect(0, 1990, 2000, 10),
		common.NewRect(0, 0, 10, 2000),
		common.NewRect(1990, 0, 10, 2000),
	}
	for _, r := range walls {
		h, err := w.Spawn("wall", r)
		if err != nil {
			log.Fatal(err)
		}
		e, _ := w.Get(h)
		e.Solid = true
		e.Static = true
		e.GravityScale = 0
	}
}
