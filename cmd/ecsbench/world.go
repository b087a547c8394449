package main

import (
	"log/slog"

	"ecscore"
	"ecscore/internal/entitytable"
)

// demoWorld is a toy stand-in for a world bootstrap: an entity allocator
// plus a component registry plus an ordered list of systems. It exists only
// so this command can exercise ComponentManager end-to-end; it is
// intentionally not part of the ecs package's public API.
type demoWorld struct {
	entities  *entitytable.Manager
	manager   *ecs.ComponentManager
	systems   []demoSystem
	logger    *slog.Logger
	destroyed int
	created   int
}

// demoSystem is a minimal per-tick unit of update logic.
type demoSystem interface {
	Name() string
	Update(w *demoWorld)
}

func newDemoWorld(logger *slog.Logger) *demoWorld {
	w := &demoWorld{
		entities: entitytable.NewManager(),
		manager:  ecs.NewComponentManager(logger),
		logger:   logger,
	}
	w.manager.OnCreated(func(ref ecs.ComponentRef_, entityID uint64) {
		w.created++
	})
	w.manager.OnRemoved(func(ref ecs.ComponentRef_, entityID uint64) {
		w.destroyed++
	})
	return w
}

func (w *demoWorld) AddSystem(s demoSystem) {
	w.systems = append(w.systems, s)
}

// Tick runs every registered system once, then compacts every store at this
// well-defined tick boundary.
func (w *demoWorld) Tick() {
	for _, s := range w.systems {
		s.Update(w)
	}
	w.manager.CleanupComponents()
}

// movementSystem advances Position by Velocity for every entity carrying
// both, written out longhand against ForEach since this demo has no need
// for a general join-query machinery.
type movementSystem struct{}

func (movementSystem) Name() string { return "movement" }

func (movementSystem) Update(w *demoWorld) {
	positions := ecs.GetStore[Position](w.manager, false)
	velocities := ecs.GetStore[Velocity](w.manager, false)
	if positions == nil || velocities == nil {
		return
	}

	velocityByEntity := make(map[uint64]Velocity)
	velocities.ForEach(func(entityID uint64, v *Velocity) {
		velocityByEntity[entityID] = *v
	})

	positions.ForEach(func(entityID uint64, p *Position) {
		if v, ok := velocityByEntity[entityID]; ok {
			p.X += v.DX
			p.Y += v.DY
		}
	})
}
