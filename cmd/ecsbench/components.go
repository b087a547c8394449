package main

import (
	"log/slog"

	"ecscore"
)

// Position is a demo component exercising the plain read/write path.
type Position struct {
	ecs.BaseComponent
	X, Y float64
}

// Velocity is a demo component, paired with Position in the movement
// system in world.go.
type Velocity struct {
	ecs.BaseComponent
	DX, DY float64
}

// Health is a demo component with non-trivial lifecycle hooks, to exercise
// the OnCreate/OnDestroy logging path.
type Health struct {
	Max, Current int
	logger       *slog.Logger
}

// OnCreate logs creation. Value receiver: components are copied-by-value
// payloads, so the hook must not require a pointer to observe the
// component's own fields.
func (h Health) OnCreate(entity uint64) {
	if h.logger != nil {
		h.logger.Debug("health attached", "entity", entity, "max", h.Max)
	}
}

// OnDestroy logs destruction.
func (h Health) OnDestroy(entity uint64) {
	if h.logger != nil {
		h.logger.Debug("health detached", "entity", entity)
	}
}

// NewHealth constructs a Health component at full health.
func NewHealth(max int, logger *slog.Logger) Health {
	return Health{Max: max, Current: max, logger: logger}
}
