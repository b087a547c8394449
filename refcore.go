package ecs

import (
	"math"
	"sync"
)

// RefCore is the body of a handle: {locator, offset, version}. It is shared
// by the slot that owns it and by user-facing ComponentRef wrappers that
// merely borrow it. Storing the RefCore inside the slot lets
// ComponentStore.Rearrange rewrite offset in O(1) during compaction.
type RefCore struct {
	locator Locator
	offset  int32
	version uint32
}

// refCorePool is the process-wide, init-on-first-use RefCore pool. It has no
// teardown: entries are dropped on process exit.
var refCorePool = sync.Pool{
	New: func() any { return &RefCore{} },
}

// acquireRefCore obtains a RefCore from the pool. Fresh instances are
// zero-valued (nil locator, version 0), which Empty already reports as
// invalid; recycled instances were invalidated on release.
func acquireRefCore() *RefCore {
	return refCorePool.Get().(*RefCore)
}

// releaseRefCore invalidates and returns a RefCore to the pool. Callers must
// not retain the pointer after calling this.
func releaseRefCore(r *RefCore) {
	r.invalidate()
	refCorePool.Put(r)
}

// allocate overwrites all three fields. Precondition: r was freshly
// obtained from the pool or has been invalidated.
func (r *RefCore) allocate(locator Locator, offset int32, version uint32) {
	r.locator = locator
	r.offset = offset
	r.version = version
}

// relocate overwrites only offset, used by Rearrange when a slot moves but
// its logical identity (version) is unchanged.
func (r *RefCore) relocate(offset int32) {
	r.offset = offset
}

// invalidate sets the RefCore to the invalid triple {nil, -1, 0}.
func (r *RefCore) invalidate() {
	r.locator = nil
	r.offset = -1
	r.version = 0
}

// Empty reports whether this RefCore is the invalid triple.
func (r *RefCore) Empty() bool {
	return r == nil || r.locator == nil || r.offset == -1 || r.version == 0
}

// maxVersion is 2^32 - 1; version increments modulo maxVersion, skipping the
// 0 sentinel reserved to mean "invalid".
const maxVersion = math.MaxUint32

// nextVersion implements the version bump used by ComponentStore.Fix:
// slot.version = (slot.version mod (2^32 - 1)) + 1. The result is never 0;
// it wraps 2^32-1 back to 1.
func nextVersion(current uint32) uint32 {
	return current%maxVersion + 1
}

// nextWrapping implements the revision bump used by Locator.BumpRevision:
// identical wrap discipline to nextVersion (wrap MAX -> 1, skip 0).
func nextWrapping(current uint32) uint32 {
	return current%maxVersion + 1
}
