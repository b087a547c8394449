package ecs

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"sort"
)

// StoreOptions configures a ComponentStore at construction time.
type StoreOptions struct {
	// InitialSize is the initial capacity of the dense slot array.
	InitialSize int
	// AutoIncreaseRate is the multiplier applied to capacity when growth
	// triggers.
	AutoIncreaseRate float64
	// AutoIncreaseTriggerEdge is the fractional fill of capacity that
	// pre-triggers growth.
	AutoIncreaseTriggerEdge float64
	// Logger receives structured records for hook faults and programmer
	// errors. Defaults to slog.Default() when nil.
	Logger *slog.Logger
}

// DefaultStoreOptions returns the baseline growth policy: InitialSize 100,
// AutoIncreaseRate 2.0, AutoIncreaseTriggerEdge 1.2.
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		InitialSize:             100,
		AutoIncreaseRate:        2.0,
		AutoIncreaseTriggerEdge: 1.2,
	}
}

// slot is the internal per-store record: {data, refCore, entity, version,
// revision}.
type slot[T Component] struct {
	data     T
	refCore  *RefCore
	entity   uint64
	version  uint32
	revision uint32
}

// Store is the object-safe, type-erased interface the manager keys its
// registry by. A ComponentStore[T] implements it so the manager can hold a
// heterogeneous map[reflect.Type]Store without knowing any concrete T.
type Store interface {
	// RefLocator returns this store's single Locator instance.
	RefLocator() Locator
	// Release marks the slot at offset dead. Returns false on an
	// out-of-range offset or a slot whose RefCore is already nil
	// (double-release); both are benign no-ops.
	Release(offset int32) bool
	// Rearrange compacts the store, physically reclaiming dead slots.
	Rearrange()
	// Expand grows capacity by count without touching allocated.
	Expand(count int) int
	// Allocated returns the current live-slot count.
	Allocated() int32
	// ElemType returns the store's element reflect.Type, used by the
	// manager's registry key.
	ElemType() reflect.Type
}

// ComponentStore is the dense, growable, deferred-compaction array backing
// a single component type. One instance exists per component type T,
// created lazily by the ComponentManager on first request.
type ComponentStore[T Component] struct {
	slots            []slot[T]
	allocated        int32
	markedCleanupPos []int32

	autoIncreaseRate        float64
	autoIncreaseTriggerEdge float64

	locator      *locator[T]
	elemTypeName string
	logger       *slog.Logger
}

// NewComponentStore creates a store for component type T with the given
// options, applying the baseline growth policy for zero-valued fields.
func NewComponentStore[T Component](opts StoreOptions) *ComponentStore[T] {
	if opts.InitialSize <= 0 {
		opts.InitialSize = 100
	}
	if opts.AutoIncreaseRate <= 1.0 {
		opts.AutoIncreaseRate = 2.0
	}
	if opts.AutoIncreaseTriggerEdge <= 0 {
		opts.AutoIncreaseTriggerEdge = 1.2
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var zero T
	s := &ComponentStore[T]{
		slots:                   make([]slot[T], opts.InitialSize),
		markedCleanupPos:        make([]int32, 0),
		autoIncreaseRate:        opts.AutoIncreaseRate,
		autoIncreaseTriggerEdge: opts.AutoIncreaseTriggerEdge,
		elemTypeName:            reflect.TypeOf(zero).String(),
		logger:                  opts.Logger,
	}
	s.locator = newLocator(s)
	return s
}

// RefLocator returns this store's Locator.
func (s *ComponentStore[T]) RefLocator() Locator { return s.locator }

// Allocated returns the current live-slot count.
func (s *ComponentStore[T]) Allocated() int32 { return s.allocated }

// ElemType returns T's reflect.Type.
func (s *ComponentStore[T]) ElemType() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// capacity returns the current backing array length.
func (s *ComponentStore[T]) capacity() int32 { return int32(len(s.slots)) }

// grow resizes slots[] to hold at least need elements, preserving existing
// entries.
func (s *ComponentStore[T]) grow(need int32) {
	target := int32(math.Round(float64(s.capacity()) * s.autoIncreaseRate))
	if target < need {
		target = need
	}
	s.resizeTo(target)
}

// resizeTo resizes slots[] to exactly target elements, preserving existing
// entries.
func (s *ComponentStore[T]) resizeTo(target int32) {
	grown := make([]slot[T], target)
	copy(grown, s.slots)
	s.slots = grown
}

// Fix creates a new live slot for entityId, optionally seeded with
// initial, and returns its offset.
func (s *ComponentStore[T]) Fix(entityID uint64, initial ...T) int32 {
	pos := s.allocated

	// Growth: the trigger-edge check may fire before the array is full to
	// amortize growth; the hard pos >= capacity clause is non-negotiable.
	if pos > int32(float64(s.capacity())*s.autoIncreaseTriggerEdge) || pos >= s.capacity() {
		s.grow(pos + 1)
	}

	sl := &s.slots[pos]
	var data T
	if len(initial) > 0 {
		data = initial[0]
	}
	sl.data = data
	sl.entity = entityID

	// Version bump: never 0 post-bump; wraps 2^32-1 -> 1.
	sl.version = nextVersion(sl.version)
	sl.revision = 0

	core := acquireRefCore()
	core.allocate(s.locator, pos, sl.version)
	sl.refCore = core

	s.allocated++

	s.invokeOnCreate(&sl.data, entityID)

	return pos
}

// invokeOnCreate calls data.OnCreate, recovering and logging any panic
// without aborting Fix.
func (s *ComponentStore[T]) invokeOnCreate(data *T, entityID uint64) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("component OnCreate hook panicked",
				"component_type", s.elemTypeName,
				"entity", entityID,
				"panic", r,
			)
		}
	}()
	(*data).OnCreate(entityID)
}

// invokeOnDestroy calls data.OnDestroy, recovering and logging any panic
// without aborting Release.
func (s *ComponentStore[T]) invokeOnDestroy(data *T, entityID uint64) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("component OnDestroy hook panicked",
				"component_type", s.elemTypeName,
				"entity", entityID,
				"panic", r,
			)
		}
	}()
	(*data).OnDestroy(entityID)
}

// Release marks the slot at offset dead. Returns false on an out-of-range
// offset or double-release, both benign no-ops.
func (s *ComponentStore[T]) Release(offset int32) bool {
	if offset < 0 || offset >= s.allocated {
		return false
	}
	sl := &s.slots[offset]
	if sl.refCore == nil {
		return false
	}

	s.invokeOnDestroy(&sl.data, sl.entity)

	sl.revision = 0
	sl.entity = 0

	releaseRefCore(sl.refCore)
	sl.refCore = nil

	s.markedCleanupPos = append(s.markedCleanupPos, offset)
	return true
}

// Rearrange compacts the store: after this call, live slots occupy offsets
// [0, allocated-k) with no holes, where k is the number of slots marked
// dead since the last Rearrange.
func (s *ComponentStore[T]) Rearrange() {
	k := len(s.markedCleanupPos)
	if k == 0 {
		return
	}

	sort.Slice(s.markedCleanupPos, func(i, j int) bool {
		return s.markedCleanupPos[i] < s.markedCleanupPos[j]
	})

	for i := 0; i < k; i++ {
		emptyPos := s.markedCleanupPos[k-1-i]
		lastPos := s.allocated - 1 - int32(i)
		if emptyPos >= lastPos {
			continue
		}
		s.slots[emptyPos] = s.slots[lastPos]
		if moved := s.slots[emptyPos].refCore; moved != nil {
			moved.relocate(emptyPos)
		}
	}

	s.allocated -= int32(k)
	s.markedCleanupPos = s.markedCleanupPos[:0]
}

// Expand grows capacity by max(0, count) without touching allocated.
func (s *ComponentStore[T]) Expand(count int) int {
	if count <= 0 {
		return 0
	}
	s.resizeTo(s.capacity() + int32(count))
	return count
}

// refAt builds a typed ComponentRef[T] for the live slot at offset. Used
// internally by the manager right after Fix.
func (s *ComponentStore[T]) refAt(offset int32) ComponentRef[T] {
	return newComponentRef[T](s.slots[offset].refCore)
}

// ForEach visits every live slot's (entity id, component pointer), in
// current offset order. Callers must not mutate the store from within fn.
func (s *ComponentStore[T]) ForEach(fn func(entityID uint64, data *T)) {
	for i := int32(0); i < s.allocated; i++ {
		sl := &s.slots[i]
		if sl.refCore == nil {
			continue
		}
		fn(sl.entity, &sl.data)
	}
}

var _ Store = (*ComponentStore[BaseComponent])(nil)

// errStoreTypeMismatch wraps ErrStoreTypeMismatch with the offending type
// pair, for the panic path in getStore.
func errStoreTypeMismatch(want, got reflect.Type) error {
	return fmt.Errorf("%w: registry holds %s, requested %s", ErrStoreTypeMismatch, got, want)
}
