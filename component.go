package ecs

// Component is the contract user-defined component payloads satisfy.
// A component is a plain data record; the only behavior the core requires
// of it is a pair of lifecycle hooks invoked around slot fixation and
// release.
type Component interface {
	// OnCreate is invoked once, synchronously, right after the component's
	// slot becomes live.
	OnCreate(entity uint64)

	// OnDestroy is invoked once, synchronously, right before the
	// component's slot is marked dead.
	OnDestroy(entity uint64)
}

// BaseComponent gives concrete component types a no-op OnCreate/OnDestroy
// pair to embed, so payloads that don't care about lifecycle hooks don't
// have to declare empty methods of their own.
type BaseComponent struct{}

// OnCreate is a default no-op implementation.
func (BaseComponent) OnCreate(entity uint64) {}

// OnDestroy is a default no-op implementation.
func (BaseComponent) OnDestroy(entity uint64) {}

// ComponentRef is a typed, read/write capable wrapper around a RefCore.
// It is the user-facing handle returned by CreateComponent.
// version is captured once, at grant time; core.offset is read live so the
// handle keeps tracking its slot across Rearrange.
type ComponentRef[T Component] struct {
	core    *RefCore
	version uint32
}

// newComponentRef wraps a freshly allocated RefCore into a typed reference,
// freezing its current version.
func newComponentRef[T Component](core *RefCore) ComponentRef[T] {
	return ComponentRef[T]{core: core, version: core.version}
}

// Valid reports whether the underlying handle still validates against its
// locator.
func (r ComponentRef[T]) Valid() bool {
	return r.core != nil && r.core.locator != nil && r.core.locator.NotNull(r.version, r.core.offset)
}

// RO returns read-only access to the component. Reading does not advance
// the slot's revision.
func (r ComponentRef[T]) RO() (T, bool) {
	var zero T
	if !r.Valid() {
		return zero, false
	}
	v, ok := r.core.locator.Get(r.core.offset)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// RW returns a pointer to the live component and bumps the slot's revision.
func (r ComponentRef[T]) RW() (*T, bool) {
	if !r.Valid() {
		return nil, false
	}
	ptr, ok := r.core.locator.GetPtr(r.core.offset)
	if !ok {
		return nil, false
	}
	typed, ok := ptr.(*T)
	if !ok {
		return nil, false
	}
	r.core.locator.BumpRevision(r.core.offset)
	return typed, true
}

// Untyped erases the static component type, yielding a ComponentRef that can
// cross API boundaries that only deal in handles (e.g. destruction paths).
func (r ComponentRef[T]) Untyped() ComponentRef_ {
	return ComponentRef_{core: r.core, version: r.version}
}

// EntityID returns the owning entity id, or 0 if the handle is invalid.
func (r ComponentRef[T]) EntityID() uint64 {
	if !r.Valid() {
		return 0
	}
	return r.core.locator.EntityID(r.core.offset)
}

// Revision returns the slot's current revision, or 0 if invalid.
func (r ComponentRef[T]) Revision() uint32 {
	if !r.Valid() {
		return 0
	}
	return r.core.locator.Revision(r.core.offset)
}

// ComponentRef_ is the untyped counterpart to ComponentRef[T]. The trailing
// underscore keeps it visually distinct from the generic type at call
// sites; it exists because destruction paths (ComponentManager.DestroyComponent)
// only ever carry a type-erased handle.
type ComponentRef_ struct {
	core    *RefCore
	version uint32
}

// Valid reports whether the underlying handle still validates.
func (r ComponentRef_) Valid() bool {
	return r.core != nil && r.core.locator != nil && r.core.locator.NotNull(r.version, r.core.offset)
}

// ElemType reports the element type name this handle's locator advertises,
// or ("", false) if the handle carries no locator.
func (r ComponentRef_) ElemType() (elemType string, ok bool) {
	if r.core == nil || r.core.locator == nil {
		return "", false
	}
	return r.core.locator.ElemTypeName(), true
}

// EntityID returns the owning entity id, or 0 if the handle is invalid.
func (r ComponentRef_) EntityID() uint64 {
	if !r.Valid() {
		return 0
	}
	return r.core.locator.EntityID(r.core.offset)
}

// Typed converts an untyped reference back into a typed ComponentRef[T],
// guarded by the locator's IsT check so the conversion can never silently
// reinterpret one component type's memory as another's. For any non-null
// handle whose slot actually has type T, Untyped(Typed[T](u)) == u.
func Typed[T Component](r ComponentRef_) (ComponentRef[T], bool) {
	if r.core == nil || r.core.locator == nil {
		return ComponentRef[T]{}, false
	}
	var zero T
	if !r.core.locator.IsT(zero) {
		return ComponentRef[T]{}, false
	}
	return ComponentRef[T]{core: r.core, version: r.version}, true
}
