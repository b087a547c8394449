package ecs

import (
	"fmt"
	"log/slog"
	"reflect"
)

// CreatedListener is invoked after a component's slot is live and its
// OnCreate hook has been attempted.
type CreatedListener func(ref ComponentRef_, entityID uint64)

// RemovedListener is invoked after a component's OnDestroy hook has run and
// its RefCore has been invalidated. The ref handlers see is therefore
// already invalid; entityID is the value cached before release.
type RemovedListener func(ref ComponentRef_, entityID uint64)

// ComponentManager is the type -> store registry. It multiplexes every
// component type through the uniform Store interface and fans created/
// removed events out to registered listeners, in registration order.
type ComponentManager struct {
	stores map[reflect.Type]Store

	onCreated []CreatedListener
	onRemoved []RemovedListener

	logger *slog.Logger
}

// NewComponentManager creates an empty registry.
func NewComponentManager(logger *slog.Logger) *ComponentManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComponentManager{
		stores: make(map[reflect.Type]Store),
		logger: logger,
	}
}

// OnCreated registers a listener for component-created events.
func (m *ComponentManager) OnCreated(l CreatedListener) {
	m.onCreated = append(m.onCreated, l)
}

// OnRemoved registers a listener for component-removed events.
func (m *ComponentManager) OnRemoved(l RemovedListener) {
	m.onRemoved = append(m.onRemoved, l)
}

// RegisterStore installs a ComponentStore[T] built from opts as the backing
// store for T, if one doesn't already exist. Returns false without
// replacing anything if a store for T was already registered (e.g. by a
// prior CreateComponent[T] call using default options). Callers that care
// about custom StoreOptions should call this before the first
// CreateComponent[T]/GetStore[T] for that type.
func RegisterStore[T Component](m *ComponentManager, opts StoreOptions) bool {
	var zero T
	key := reflect.TypeOf(zero)
	if _, exists := m.stores[key]; exists {
		return false
	}
	if opts.Logger == nil {
		opts.Logger = m.logger
	}
	m.stores[key] = NewComponentStore[T](opts)
	return true
}

// getStore looks up (and optionally lazily creates) the store for T.
func getStore[T Component](m *ComponentManager, createIfMissing bool) *ComponentStore[T] {
	var zero T
	key := reflect.TypeOf(zero)

	existing, ok := m.stores[key]
	if ok {
		typed, ok := existing.(*ComponentStore[T])
		if !ok {
			// Programmer error: the registry holds a store for this type
			// key whose concrete type doesn't match T. Fail loudly.
			m.logger.Error("component store type mismatch", "type", key)
			panic(errStoreTypeMismatch(key, existing.ElemType()))
		}
		return typed
	}

	if !createIfMissing {
		return nil
	}

	store := NewComponentStore[T](StoreOptions{Logger: m.logger})
	m.stores[key] = store
	return store
}

// getStoreByType is the dynamic variant used by destruction paths that only
// have a type token (from a locator's ElemType), not a static T.
func (m *ComponentManager) getStoreByType(t reflect.Type) (Store, bool) {
	s, ok := m.stores[t]
	return s, ok
}

// CreateComponent fixes a new component of type T on entityID, emits
// *created*, and returns the handle.
func CreateComponent[T Component](m *ComponentManager, entityID uint64, initial ...T) ComponentRef[T] {
	store := getStore[T](m, true)
	offset := store.Fix(entityID, initial...)
	ref := store.refAt(offset)

	untyped := ref.Untyped()
	for _, l := range m.onCreated {
		l(untyped, entityID)
	}

	return ref
}

// DestroyComponent releases the component behind ref, emitting *removed*
// after the hook has run and the handle has been invalidated. Destroying an
// already-invalid handle is a programmer error and fails loudly.
func (m *ComponentManager) DestroyComponent(ref ComponentRef_) {
	if ref.core == nil || ref.core.locator == nil {
		panic(ErrInvalidHandle)
	}
	if !ref.core.locator.NotNull(ref.version, ref.core.offset) {
		panic(ErrInvalidHandle)
	}

	offset := ref.core.offset
	entityID := ref.core.locator.EntityID(offset)
	elemType := ref.core.locator.ElemType()

	store, ok := m.getStoreByType(elemType)
	if !ok {
		panic(fmt.Errorf("%w: type %s", ErrNoBackingStore, ref.core.locator.ElemTypeName()))
	}

	if !store.Release(offset) {
		return
	}

	for _, l := range m.onRemoved {
		l(ref, entityID)
	}
}

// CleanupComponents invokes Rearrange on every registered store. Intended
// to be called at a well-defined world tick boundary, never concurrently
// with Fix/Release.
func (m *ComponentManager) CleanupComponents() {
	for _, s := range m.stores {
		s.Rearrange()
	}
}

// StoreCount returns the number of distinct component-type stores
// registered so far.
func (m *ComponentManager) StoreCount() int {
	return len(m.stores)
}

// HasStore reports whether a store for T has been created yet, without
// creating one as a side effect.
func HasStore[T Component](m *ComponentManager) bool {
	return getStore[T](m, false) != nil
}

// GetStore returns the store for T, creating it if createIfMissing is true
// and it doesn't exist yet.
func GetStore[T Component](m *ComponentManager, createIfMissing bool) *ComponentStore[T] {
	return getStore[T](m, createIfMissing)
}
