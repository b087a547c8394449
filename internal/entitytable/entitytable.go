// Package entitytable allocates and recycles entity ids outside the
// component core: generational index reuse, hidden behind a flattened
// uint64. The core only ever sees that uint64; it never imports the
// generational representation below.
package entitytable

import "fmt"

const (
	indexBits      = 32
	indexMask      = (uint64(1) << indexBits) - 1
	generationBits = 32
	generationMask = (uint64(1) << generationBits) - 1
)

// id packs index (low 32 bits) and generation (high 32 bits) into a single
// uint64, the value handed to core code as the opaque "entity id".
type id uint64

func makeID(index, generation uint32) id {
	return id(uint64(generation)<<indexBits | uint64(index))
}

func (e id) index() uint32      { return uint32(uint64(e) & indexMask) }
func (e id) generation() uint32 { return uint32((uint64(e) >> indexBits) & generationMask) }

// Manager allocates and recycles entity ids with generational reuse
// protection.
type Manager struct {
	generations []uint32
	freeHead    int32
}

// NewManager creates an empty entity table.
func NewManager() *Manager {
	return &Manager{
		generations: make([]uint32, 0),
		freeHead:    -1,
	}
}

// Create allocates a fresh entity id, reusing a released index when one is
// available.
func (m *Manager) Create() uint64 {
	var index uint32
	var generation uint32

	if m.freeHead >= 0 {
		index = uint32(m.freeHead)
		stored := m.generations[index]
		if stored == uint32(m.freeHead) {
			m.freeHead = -1
		} else {
			m.freeHead = int32(stored)
		}
		generation = 0
		m.generations[index] = generation
	} else {
		index = uint32(len(m.generations))
		generation = 0
		m.generations = append(m.generations, generation)
	}

	return uint64(makeID(index, generation))
}

// Destroy releases entityID for reuse. Returns false if entityID is stale
// (already released, or never allocated).
func (m *Manager) Destroy(entityID uint64) bool {
	e := id(entityID)
	index := e.index()
	if index >= uint32(len(m.generations)) {
		return false
	}
	if m.generations[index] != e.generation() {
		return false
	}

	if m.freeHead >= 0 {
		m.generations[index] = uint32(m.freeHead)
	} else {
		m.generations[index] = index
	}
	m.freeHead = int32(index)
	return true
}

// IsValid reports whether entityID is currently live.
func (m *Manager) IsValid(entityID uint64) bool {
	e := id(entityID)
	index := e.index()
	if index >= uint32(len(m.generations)) {
		return false
	}
	return m.generations[index] == e.generation()
}

// String renders an entity id as "index.generation", for log lines.
func String(entityID uint64) string {
	e := id(entityID)
	return fmt.Sprintf("%d.%d", e.index(), e.generation())
}
