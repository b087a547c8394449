package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecscore"
)

type Position struct {
	ecs.BaseComponent
	X, Y float64
}

type Velocity struct {
	ecs.BaseComponent
	X, Y float64
}

type HealthComp struct {
	ecs.BaseComponent
	Current int
}

type lifecycleComp struct {
	ecs.BaseComponent
	created   *bool
	destroyed *bool
}

func (c lifecycleComp) OnCreate(entity uint64) {
	if c.created != nil {
		*c.created = true
	}
}

func (c lifecycleComp) OnDestroy(entity uint64) {
	if c.destroyed != nil {
		*c.destroyed = true
	}
}

type panickyComp struct {
	ecs.BaseComponent
}

func (panickyComp) OnCreate(entity uint64) { panic("boom on create") }
func (panickyComp) OnDestroy(entity uint64) { panic("boom on destroy") }

// Basic create / read / write / destroy round trip.
func TestCreateReadWriteDestroy(t *testing.T) {
	m := ecs.NewComponentManager(nil)
	const entity uint64 = 42

	ref := ecs.CreateComponent[Position](m, entity, Position{X: 15, Y: 25})

	pos, ok := ref.RO()
	require.True(t, ok)
	assert.Equal(t, 15.0, pos.X)
	assert.Equal(t, 25.0, pos.Y)

	rw, ok := ref.RW()
	require.True(t, ok)
	rw.X = 30

	pos2, ok := ref.RO()
	require.True(t, ok)
	assert.Equal(t, 30.0, pos2.X)

	m.DestroyComponent(ref.Untyped())
	assert.False(t, ref.Valid())
	_, ok = ref.RO()
	assert.False(t, ok)
}

// Multiple component types can coexist across entities without
// interfering with each other's stores.
func TestMixedComponentTypes(t *testing.T) {
	m := ecs.NewComponentManager(nil)

	e1, e2 := uint64(1), uint64(2)
	ecs.CreateComponent[Position](m, e1, Position{})
	ecs.CreateComponent[Velocity](m, e1, Velocity{})
	ecs.CreateComponent[Position](m, e2, Position{})
	ecs.CreateComponent[HealthComp](m, e2, HealthComp{Current: 100})

	assert.Equal(t, 3, m.StoreCount())
	assert.True(t, ecs.HasStore[Position](m))
	assert.True(t, ecs.HasStore[Velocity](m))
	assert.True(t, ecs.HasStore[HealthComp](m))
}

// Compaction reclaims dead slots while leaving surviving handles valid
// and pointing at the right data.
func TestCompactionPreservesHandles(t *testing.T) {
	m := ecs.NewComponentManager(nil)

	var refs []ecs.ComponentRef[Position]
	var entities []uint64
	for i := 0; i < 10; i++ {
		entity := uint64(100 + i)
		entities = append(entities, entity)
		refs = append(refs, ecs.CreateComponent[Position](m, entity, Position{X: float64(i)}))
	}

	for _, idx := range []int{3, 5, 7} {
		m.DestroyComponent(refs[idx].Untyped())
	}

	m.CleanupComponents()

	store := ecs.GetStore[Position](m, false)
	require.NotNil(t, store)
	assert.EqualValues(t, 7, store.Allocated())

	for i, ref := range refs {
		if i == 3 || i == 5 || i == 7 {
			assert.False(t, ref.Valid())
			continue
		}
		require.True(t, ref.Valid(), "handle %d should still be valid after compaction", i)
		assert.Equal(t, entities[i], ref.EntityID())
		pos, ok := ref.RO()
		require.True(t, ok)
		assert.Equal(t, float64(i), pos.X)
	}
}

// Growth policy: a store that starts under capacity must keep accepting
// Fix calls past its initial size without losing or corrupting existing
// data, and handles taken out before growth must stay valid and correct
// afterward (growth reallocates the backing array but never the offset a
// handle points at).
func TestGrowthPolicy(t *testing.T) {
	m := ecs.NewComponentManager(nil)
	ecs.RegisterStore[Position](m, ecs.StoreOptions{
		InitialSize:             4,
		AutoIncreaseRate:        2.0,
		AutoIncreaseTriggerEdge: 1.2,
	})

	var refs []ecs.ComponentRef[Position]
	for i := 0; i < 9; i++ {
		refs = append(refs, ecs.CreateComponent[Position](m, uint64(i), Position{X: float64(i)}))
	}

	store := ecs.GetStore[Position](m, false)
	require.NotNil(t, store)
	assert.EqualValues(t, 9, store.Allocated())

	for i, ref := range refs {
		require.True(t, ref.Valid())
		pos, ok := ref.RO()
		require.True(t, ok)
		assert.Equal(t, float64(i), pos.X)
	}
}

// Lifecycle hooks fire on create/destroy; reads fail fast after release.
func TestLifecycleHooks(t *testing.T) {
	m := ecs.NewComponentManager(nil)
	created, destroyed := false, false

	ref := ecs.CreateComponent[lifecycleComp](m, 7, lifecycleComp{created: &created, destroyed: &destroyed})
	assert.True(t, created)
	assert.False(t, destroyed)

	m.DestroyComponent(ref.Untyped())
	assert.True(t, destroyed)

	_, ok := ref.RO()
	assert.False(t, ok, "reading through an invalidated handle must fail fast")
}

// A panicking lifecycle hook is recovered and logged, never aborting
// Fix/Release.
func TestHookPanicsAreSwallowed(t *testing.T) {
	m := ecs.NewComponentManager(nil)

	require.NotPanics(t, func() {
		ref := ecs.CreateComponent[panickyComp](m, 1, panickyComp{})
		assert.True(t, ref.Valid())
		m.DestroyComponent(ref.Untyped())
	})
}

// Revision accounting: RW bumps it, RO never does, and it's scoped per
// component type, not per entity.
func TestRevisionAccounting(t *testing.T) {
	m := ecs.NewComponentManager(nil)

	posRef := ecs.CreateComponent[Position](m, 1, Position{X: 1, Y: 2})
	assert.EqualValues(t, 0, posRef.Revision())

	rw, ok := posRef.RW()
	require.True(t, ok)
	rw.X = 10
	firstRevision := posRef.Revision()
	assert.Greater(t, firstRevision, uint32(0))

	_, ok = posRef.RO()
	require.True(t, ok)
	assert.Equal(t, firstRevision, posRef.Revision(), "RO must not advance revision")

	rw2, ok := posRef.RW()
	require.True(t, ok)
	rw2.Y = 20
	assert.Greater(t, posRef.Revision(), firstRevision)

	velRef := ecs.CreateComponent[Velocity](m, 1, Velocity{})
	rw3, ok := posRef.RW()
	require.True(t, ok)
	rw3.X = 99
	assert.EqualValues(t, 0, velRef.Revision(), "mutating Position must not touch Velocity's revision")
}

// Creating and then destroying every entity should leave the store
// fully reclaimed after cleanup.
func TestCreateDestroyRoundTrip(t *testing.T) {
	m := ecs.NewComponentManager(nil)

	const n = 25
	var refs []ecs.ComponentRef_
	for i := 0; i < n; i++ {
		refs = append(refs, ecs.CreateComponent[Position](m, uint64(i), Position{}).Untyped())
	}
	for _, r := range refs {
		m.DestroyComponent(r)
	}
	m.CleanupComponents()

	store := ecs.GetStore[Position](m, false)
	require.NotNil(t, store)
	assert.EqualValues(t, 0, store.Allocated())
}

// Converting a typed handle to its untyped form and back must round-trip
// exactly, and must refuse a mismatched element type.
func TestUntypedTypedRoundTrip(t *testing.T) {
	m := ecs.NewComponentManager(nil)
	ref := ecs.CreateComponent[Position](m, 3, Position{X: 5})
	untyped := ref.Untyped()

	typed, ok := ecs.Typed[Position](untyped)
	require.True(t, ok)

	roundTripped := typed.Untyped()
	assert.Equal(t, untyped, roundTripped)

	_, ok = ecs.Typed[Velocity](untyped)
	assert.False(t, ok, "Typed must refuse a mismatched element type")
}

// A released slot reused by a later Fix gets a new version, invalidating
// the old handle while the new one stays valid.
func TestVersionMonotonicity(t *testing.T) {
	m := ecs.NewComponentManager(nil)
	ecs.RegisterStore[Position](m, ecs.StoreOptions{InitialSize: 1})

	first := ecs.CreateComponent[Position](m, 1, Position{})
	m.DestroyComponent(first.Untyped())
	m.CleanupComponents()

	second := ecs.CreateComponent[Position](m, 2, Position{})
	assert.NotEqual(t, first, second)
	assert.True(t, second.Valid())
	assert.False(t, first.Valid())
}

// Destroying an already-invalid handle is a programmer error and panics.
func TestDestroyInvalidHandlePanics(t *testing.T) {
	m := ecs.NewComponentManager(nil)
	ref := ecs.CreateComponent[Position](m, 1, Position{})
	m.DestroyComponent(ref.Untyped())

	assert.Panics(t, func() {
		m.DestroyComponent(ref.Untyped())
	})
}
