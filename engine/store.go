package engine

// store is a generational arena holding every entity slot. Slots are
// pointers so entities stay put while the slot table grows mid-iteration;
// freed slots go on a free list and come back with a bumped generation so
// stale handles stop resolving.
type store struct {
	slots    []*Entity
	gens     []generation
	free     []slotIndex
	maxSlots int
	live     int
}

func newStore(maxEntities int) *store {
	return &store{maxSlots: maxEntities}
}

// alloc reserves a slot and returns its handle. The entity starts out
// alive but inactive; the world activates it at the proper flush point.
func (s *store) alloc(kind string) (Handle, error) {
	var idx slotIndex
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		if s.maxSlots > 0 && len(s.slots) >= s.maxSlots {
			return 0, ErrCapacity
		}
		s.slots = append(s.slots, &Entity{})
		// Generation starts at 1 so the zero Handle stays invalid.
		s.gens = append(s.gens, 1)
		idx = slotIndex(len(s.slots) - 1)
	}

	h := makeHandle(idx, s.gens[idx])
	*s.slots[idx] = Entity{
		handle:     h,
		Kind:       kind,
		Mass:       1,
		Collidable: true,
		alive:      true,
	}
	s.live++
	return h, nil
}

// get resolves a handle to its entity. Stale or dead handles return
// (nil, false), never a crash.
func (s *store) get(h Handle) (*Entity, bool) {
	idx := h.index()
	if !h.Valid() || int(idx) >= len(s.slots) {
		return nil, false
	}
	if s.gens[idx] != h.generation() {
		return nil, false
	}
	e := s.slots[idx]
	if !e.alive {
		return nil, false
	}
	return e, true
}

// release frees a slot, bumping its generation to invalidate old handles.
func (s *store) release(h Handle) {
	e, ok := s.get(h)
	if !ok {
		return
	}
	idx := h.index()
	e.alive = false
	e.behavior = nil
	s.gens[idx]++
	s.free = append(s.free, idx)
	s.live--
}

// each calls fn for every active entity in slot order, which is the
// store's documented iteration order. Entities alloc'd but not yet
// activated are skipped, as are freed slots.
func (s *store) each(fn func(*Entity)) {
	n := len(s.slots)
	for i := 0; i < n; i++ {
		e := s.slots[i]
		if e.alive && e.active {
			fn(e)
		}
	}
}

// handles appends the handle of every active entity to dst, in slot order.
func (s *store) handles(dst []Handle) []Handle {
	for _, e := range s.slots {
		if e.alive && e.active {
			dst = append(dst, e.handle)
		}
	}
	return dst
}

// count returns the number of live slots, active or pending.
func (s *store) count() int {
	return s.live
}
