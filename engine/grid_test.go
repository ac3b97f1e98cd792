package engine

import (
	"testing"

	"github.com/milk9111/grit/common"
)

func TestCandidatePairsDeduped(t *testing.T) {
	cases := []struct {
		name  string
		rects []common.Rect
		want  int
	}{
		// Spans three cells alongside its neighbor but must pair once.
		{"multi_cell_overlap", []common.Rect{
			common.NewRect(0, 0, 200, 10),
			common.NewRect(0, 20, 200, 10),
		}, 1},
		{"far_apart", []common.Rect{
			common.NewRect(0, 0, 10, 10),
			common.NewRect(1000, 1000, 10, 10),
		}, 0},
		{"three_in_one_cell", []common.Rect{
			common.NewRect(0, 0, 10, 10),
			common.NewRect(5, 5, 10, 10),
			common.NewRect(10, 10, 10, 10),
		}, 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t, "thing")
			for _, r := range c.rects {
				if _, err := w.Spawn("thing", r); err != nil {
					t.Fatalf("spawn: %v", err)
				}
			}
			w.grid.rebuild(w.store)
			pairs := w.grid.candidatePairs()
			if len(pairs) != c.want {
				t.Fatalf("expected %d candidate pairs, got %d", c.want, len(pairs))
			}
			for _, p := range pairs {
				if p.b <= p.a {
					t.Fatalf("pair %v/%v not in canonical order", p.a, p.b)
				}
			}
		})
	}
}

func TestNonCollidableExcluded(t *testing.T) {
	w := newTestWorld(t, "thing")
	h1, _ := w.Spawn("thing", common.NewRect(0, 0, 10, 10))
	if _, err := w.Spawn("thing", common.NewRect(5, 5, 10, 10)); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	e, _ := w.Get(h1)
	e.Collidable = false

	w.grid.rebuild(w.store)
	if pairs := w.grid.candidatePairs(); len(pairs) != 0 {
		t.Fatalf("expected no pairs with a non-collidable entity, got %d", len(pairs))
	}
}

func TestCandidatePairsDeterministic(t *testing.T) {
	w := newTestWorld(t, "thing")
	for i := 0; i < 16; i++ {
		if _, err := w.Spawn("thing", common.NewRect(float64(i%4)*8, float64(i/4)*8, 12, 12)); err != nil {
			t.Fatalf("spawn: %v", err)
		}
	}

	w.grid.rebuild(w.store)
	first := append([]pairKey(nil), w.grid.candidatePairs()...)
	for run := 0; run < 5; run++ {
		w.grid.rebuild(w.store)
		got := w.grid.candidatePairs()
		if len(got) != len(first) {
			t.Fatalf("run %d: pair count changed: %d vs %d", run, len(got), len(first))
		}
		for i := range got {
			if got[i] != first[i] {
				t.Fatalf("run %d: pair order changed at %d", run, i)
			}
		}
	}
}
