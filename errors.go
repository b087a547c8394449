package ecs

import "errors"

// Sentinel errors surfaced by programmer-error paths. These are always
// wrapped in a panic, never returned plain.
var (
	// ErrStoreTypeMismatch indicates the registry already holds a store for
	// a type key whose concrete element type doesn't match the type
	// requested under it. This can only happen if a caller bypasses
	// CreateComponent[T]/GetStore[T] to register a store directly.
	ErrStoreTypeMismatch = errors.New("ecs: store type mismatch")

	// ErrInvalidHandle indicates DestroyComponent (or any handle-consuming
	// operation) was called with a RefCore that has already been
	// invalidated, either never allocated or already released.
	ErrInvalidHandle = errors.New("ecs: handle is already invalid")

	// ErrNoBackingStore indicates a handle's locator doesn't correspond to
	// any store currently registered on this manager. Under the
	// single-threaded, single-manager model this should not occur unless a
	// handle from one ComponentManager is passed to another.
	ErrNoBackingStore = errors.New("ecs: handle has no registered backing store")
)
