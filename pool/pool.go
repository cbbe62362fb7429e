// Package pool manages APR memory pools, the arenas every native
// Subversion allocation is served from.
//
// A Pool owns one apr_pool_t. Pools nest: closing a pool destroys its
// native memory and, through APR, the memory of every descendant pool
// in one step. The Go side mirrors that in its own bookkeeping so a
// handle backed by any pool in the destroyed subtree fails its liveness
// check instead of dereferencing freed memory.
//
// A pool is owned by exactly one operation scope and must not be
// mutated from multiple goroutines. Run concurrent operations on
// separate pools.
package pool

import (
	"sync"

	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/svnerr"
)

// Pool wraps one apr_pool_t.
type Pool struct {
	lib    *native.Library
	parent *Pool

	mu        sync.Mutex
	ptr       uintptr
	released  bool
	children  []*Pool
	exclusive map[uintptr]struct{}
}

// New creates a root pool. Allocation failure in the native allocator
// is fatal to the scope and surfaces as a bridge error.
func New(lib *native.Library) (*Pool, error) {
	return create(lib, nil, 0)
}

// Child creates a pool subordinate to p. It is released automatically
// when p is closed, or earlier by its own Close.
func (p *Pool) Child() (*Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil, svnerr.ErrPoolClosed
	}
	c, err := create(p.lib, p, p.ptr)
	if err != nil {
		return nil, err
	}
	p.children = append(p.children, c)
	return c, nil
}

func create(lib *native.Library, parent *Pool, parentPtr uintptr) (*Pool, error) {
	var ptr uintptr
	if status := lib.AprPoolCreateEx(&ptr, parentPtr, 0, 0); status != 0 || ptr == 0 {
		return nil, svnerr.AllocationFailed(status)
	}
	return &Pool{lib: lib, parent: parent, ptr: ptr}, nil
}

// Close destroys the pool and everything allocated from it, including
// all descendant pools. Closing an already-closed pool is a no-op.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return nil
	}
	ptr := p.ptr
	p.markReleasedLocked()
	parent := p.parent
	p.mu.Unlock()

	if parent != nil {
		parent.forget(p)
	}
	// APR destroys descendant pools itself; only the subtree root needs
	// the native call.
	p.lib.AprPoolDestroy(ptr)
	return nil
}

// markReleasedLocked flags p and its whole subtree as dead. Callers
// hold p.mu; child locks nest strictly parent-to-child so this cannot
// deadlock.
func (p *Pool) markReleasedLocked() {
	p.released = true
	p.ptr = 0
	p.exclusive = nil
	for _, c := range p.children {
		c.mu.Lock()
		if !c.released {
			c.markReleasedLocked()
		}
		c.mu.Unlock()
	}
	p.children = nil
}

func (p *Pool) forget(child *Pool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

// Alive reports whether the pool's memory is still valid.
func (p *Pool) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.released
}

// Ptr returns the native pool pointer, failing once the pool (or any
// ancestor) has been released.
func (p *Pool) Ptr() (uintptr, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return 0, svnerr.UseAfterRelease("apr pool")
	}
	return p.ptr, nil
}

// Lib returns the library this pool allocates from.
func (p *Pool) Lib() *native.Library { return p.lib }

// Strdup copies s into the pool and returns the native pointer.
func (p *Pool) Strdup(s string) (uintptr, error) {
	ptr, err := p.Ptr()
	if err != nil {
		return 0, err
	}
	c := p.lib.AprPstrdup(ptr, s)
	if c == 0 {
		return 0, svnerr.ErrAllocFailed
	}
	return c, nil
}

// Alloc reserves size bytes in the pool.
func (p *Pool) Alloc(size uint64) (uintptr, error) {
	ptr, err := p.Ptr()
	if err != nil {
		return 0, err
	}
	mem := p.lib.AprPalloc(ptr, size)
	if mem == 0 {
		return 0, svnerr.ErrAllocFailed
	}
	return mem, nil
}

// ClaimExclusive records an exclusive handle over addr. A second claim
// for the same address in the same pool fails.
func (p *Pool) ClaimExclusive(addr uintptr) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return svnerr.ErrPoolClosed
	}
	if p.exclusive == nil {
		p.exclusive = make(map[uintptr]struct{})
	}
	if _, taken := p.exclusive[addr]; taken {
		return svnerr.ErrAliased
	}
	p.exclusive[addr] = struct{}{}
	return nil
}

// ReleaseExclusive drops an exclusive claim early. Unknown addresses
// are ignored.
func (p *Pool) ReleaseExclusive(addr uintptr) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.exclusive, addr)
}

// With runs fn with a fresh root pool and guarantees the pool is
// closed on every exit path, including panic.
func With(lib *native.Library, fn func(*Pool) error) error {
	p, err := New(lib)
	if err != nil {
		return err
	}
	defer p.Close()
	return fn(p)
}

// WithChild runs fn with a child pool of p, closed on every exit path.
func (p *Pool) WithChild(fn func(*Pool) error) error {
	c, err := p.Child()
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}
