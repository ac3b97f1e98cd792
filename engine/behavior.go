package engine

// Behavior customizes entity callbacks for one kind. Entities of the same
// kind share a single Behavior value; per-entity state lives on the Entity.
// Embed NopBehavior to pick only the hooks you need.
type Behavior interface {
	// Settings is called once right after spawn with the entity's custom
	// fields, e.g. from a level file.
	Settings(w *World, e *Entity, settings map[string]any)

	// Update is called once per live entity per step, before integration.
	Update(w *World, e *Entity, dt float64)

	// PostUpdate is called after integration, before collision.
	PostUpdate(w *World, e *Entity, dt float64)

	// Collide is called once per touch event involving this entity, with
	// the other participant and the event seen from this entity's side.
	Collide(w *World, e *Entity, other Handle, ev CollisionEvent)

	// Message is called when another entity (or the host) sends this
	// entity data by handle.
	Message(w *World, e *Entity, data any)

	// Kill is called when the entity's removal is committed at flush.
	Kill(w *World, e *Entity)
}

// NopBehavior implements every Behavior hook as a no-op. It also backs
// entities whose kind has no registration.
type NopBehavior struct{}

func (NopBehavior) Settings(*World, *Entity, map[string]any)        {}
func (NopBehavior) Update(*World, *Entity, float64)                 {}
func (NopBehavior) PostUpdate(*World, *Entity, float64)             {}
func (NopBehavior) Collide(*World, *Entity, Handle, CollisionEvent) {}
func (NopBehavior) Message(*World, *Entity, any)                    {}
func (NopBehavior) Kill(*World, *Entity)                            {}

var nopBehavior = NopBehavior{}

// Register binds a behavior to an entity kind. Registering the same kind
// twice is a configuration error. Call before the first Step.
func (w *World) Register(kind string, b Behavior) error {
	if w == nil || kind == "" || b == nil {
		return ErrBadRegistration
	}
	if _, ok := w.behaviors[kind]; ok {
		return ErrKindRegistered
	}
	w.behaviors[kind] = b
	return nil
}

// behaviorFor resolves the behavior for a kind, falling back to the no-op
// default for unregistered kinds.
func (w *World) behaviorFor(kind string) (Behavior, bool) {
	b, ok := w.behaviors[kind]
	if !ok {
		return nopBehavior, false
	}
	return b, true
}
