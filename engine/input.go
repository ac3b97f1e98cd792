package engine

// Input is a discrete input-state snapshot handed to the world once per
// step. Behaviors only ever read it; the host owns producing it from
// whatever backend it polls.
type Input struct {
	// Pressed holds keys that went down since the previous snapshot.
	Pressed map[string]bool
	// Held holds keys currently down.
	Held map[string]bool
	// Released holds keys that went up since the previous snapshot.
	Released map[string]bool

	PointerX, PointerY float64
}

// IsPressed reports whether key went down this step.
func (in Input) IsPressed(key string) bool {
	return in.Pressed[key]
}

// IsHeld reports whether key is currently down.
func (in Input) IsHeld(key string) bool {
	return in.Held[key]
}

// IsReleased reports whether key went up this step.
func (in Input) IsReleased(key string) bool {
	return in.Released[key]
}

// SetInput installs the input snapshot behaviors will see during the next
// Step.
func (w *World) SetInput(in Input) {
	if w == nil {
		return
	}
	w.input = in
}

// Input returns the current input snapshot.
func (w *World) Input() Input {
	if w == nil {
		return Input{}
	}
	return w.input
}
