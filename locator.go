package ecs

import "reflect"

// Locator is the per-store, type-erased gateway a RefCore uses to reach its
// slot. Exactly one Locator instance exists per ComponentStore[T]; it is the
// non-owning back-reference a RefCore carries so outside code can reach a
// slot's data without knowing the store's concrete generic type.
//
// All operations take a slot offset. Out-of-range offsets return the
// documented "empty" result rather than faulting.
type Locator interface {
	// NotNull reports whether offset is in [0, allocated) and the slot at
	// offset currently carries the given version.
	NotNull(version uint32, offset int32) bool

	// Get returns a copy of the slot's component data, boxed as any. The
	// caller is expected to already know the concrete type (via IsT) before
	// calling this on a type-erased path.
	Get(offset int32) (any, bool)

	// GetPtr returns a pointer to the slot's component data, boxed as any.
	// Used by the RW access path; it does not itself bump the revision.
	GetPtr(offset int32) (any, bool)

	// IsT reports whether this locator's store element type matches the
	// type of the given zero-valued sample.
	IsT(sample any) bool

	// ElemTypeName reveals the store's element type name, for diagnostics
	// and for the untyped ComponentRef_.ElemType accessor.
	ElemTypeName() string

	// ElemType reveals the store's element reflect.Type, used to resolve
	// the backing Store from a type-erased handle.
	ElemType() reflect.Type

	// EntityID returns the owning entity id of the slot at offset, or 0 if
	// offset is out of range.
	EntityID(offset int32) uint64

	// RefCoreAt returns the in-slot RefCore, or nil if offset is out of
	// range.
	RefCoreAt(offset int32) *RefCore

	// Revision returns the slot's current revision, or 0 if out of range.
	Revision(offset int32) uint32

	// BumpRevision advances the slot's revision (wrapping MAX -> 1, never
	// producing 0) and returns the new value. Returns 0 if out of range.
	BumpRevision(offset int32) uint32
}

// locator is the concrete per-ComponentStore[T] implementation of Locator.
// It holds only a non-owning pointer back to its store: the locator's
// lifetime is bounded by its store, never the reverse.
type locator[T Component] struct {
	store *ComponentStore[T]
}

func newLocator[T Component](store *ComponentStore[T]) *locator[T] {
	return &locator[T]{store: store}
}

func (l *locator[T]) NotNull(version uint32, offset int32) bool {
	if offset < 0 || offset >= l.store.allocated {
		return false
	}
	return l.store.slots[offset].version == version
}

func (l *locator[T]) Get(offset int32) (any, bool) {
	if offset < 0 || offset >= l.store.allocated {
		return nil, false
	}
	return l.store.slots[offset].data, true
}

func (l *locator[T]) GetPtr(offset int32) (any, bool) {
	if offset < 0 || offset >= l.store.allocated {
		return nil, false
	}
	return &l.store.slots[offset].data, true
}

func (l *locator[T]) IsT(sample any) bool {
	_, ok := sample.(T)
	return ok
}

func (l *locator[T]) ElemTypeName() string {
	return l.store.elemTypeName
}

func (l *locator[T]) ElemType() reflect.Type {
	return l.store.ElemType()
}

func (l *locator[T]) EntityID(offset int32) uint64 {
	if offset < 0 || offset >= l.store.allocated {
		return 0
	}
	return l.store.slots[offset].entity
}

func (l *locator[T]) RefCoreAt(offset int32) *RefCore {
	if offset < 0 || offset >= l.store.allocated {
		return nil
	}
	return l.store.slots[offset].refCore
}

func (l *locator[T]) Revision(offset int32) uint32 {
	if offset < 0 || offset >= l.store.allocated {
		return 0
	}
	return l.store.slots[offset].revision
}

func (l *locator[T]) BumpRevision(offset int32) uint32 {
	if offset < 0 || offset >= l.store.allocated {
		return 0
	}
	s := &l.store.slots[offset]
	s.revision = nextWrapping(s.revision)
	return s.revision
}
