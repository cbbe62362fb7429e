// Package handle ties typed views of native pointers to the pool that
// allocated them.
//
// A Handle is a capability, not an owner: the pool owns the memory and
// the handle is only usable while that pool is alive. Access after the
// backing pool (or any ancestor) has been released fails with a bridge
// error; it never dereferences freed native memory.
//
// Exclusivity is enforced per pool only. The native library does not
// police aliasing of the same address across sibling pools, and neither
// does the bridge; that remains a caller obligation.
package handle

import (
	"sync"

	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/svnerr"
)

// Handle is a typed capability over a native pointer allocated in a
// specific pool. The type parameter is a phantom tag (typically a
// native mirror struct) that keeps handles of different native types
// from mixing.
type Handle[T any] struct {
	ptr  uintptr
	pool *pool.Pool

	mu        sync.Mutex
	exclusive bool
	dropped   bool
}

// Wrap associates a shared (read-only aliasable) view over ptr with
// the pool that allocated it.
func Wrap[T any](ptr uintptr, p *pool.Pool) (*Handle[T], error) {
	if !p.Alive() {
		return nil, svnerr.UseAfterRelease("handle wrap")
	}
	return &Handle[T]{ptr: ptr, pool: p}, nil
}

// WrapExclusive associates a mutable view over ptr with its pool. It
// fails if another live exclusive handle already covers the address in
// the same pool.
func WrapExclusive[T any](ptr uintptr, p *pool.Pool) (*Handle[T], error) {
	if err := p.ClaimExclusive(ptr); err != nil {
		return nil, err
	}
	return &Handle[T]{ptr: ptr, pool: p, exclusive: true}, nil
}

// Borrow returns the native pointer for read access while the backing
// pool is proven live.
func (h *Handle[T]) Borrow() (uintptr, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.dropped {
		return 0, svnerr.UseAfterRelease("released handle")
	}
	if !h.pool.Alive() {
		return 0, svnerr.UseAfterRelease("handle borrow")
	}
	return h.ptr, nil
}

// BorrowMut returns the native pointer for mutation. Only exclusive
// handles may borrow mutably.
func (h *Handle[T]) BorrowMut() (uintptr, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.dropped {
		return 0, svnerr.UseAfterRelease("released handle")
	}
	if !h.exclusive {
		return 0, svnerr.Bridgef(svnerr.CodeAliased, "mutable borrow through shared handle")
	}
	if !h.pool.Alive() {
		return 0, svnerr.UseAfterRelease("handle borrow")
	}
	return h.ptr, nil
}

// Pool returns the backing pool.
func (h *Handle[T]) Pool() *pool.Pool { return h.pool }

// Release drops the handle and, for exclusive handles, its aliasing
// claim so the address can be re-wrapped. Idempotent. The underlying
// memory stays alive until the pool is closed.
func (h *Handle[T]) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.dropped {
		return
	}
	h.dropped = true
	if h.exclusive {
		h.pool.ReleaseExclusive(h.ptr)
	}
}
