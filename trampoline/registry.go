// Package trampoline dispatches callbacks from native Subversion code
// into Go closures.
//
// Native callback slots take a function pointer plus an opaque baton.
// The bridge never hands native code a Go pointer: it registers the
// closure in a process-global table and passes the table index as the
// baton. The C-callable entry points (created once with
// purego.NewCallback) recover the closure from the baton, marshal the
// native arguments, and invoke it on the same thread, in the order the
// native library calls.
//
// A panic escaping a callback must not unwind across native frames.
// Every entry point recovers, parks the panic on the Registration, and
// returns a cancellation error so the native operation aborts; the
// domain module surfaces the parked panic once the native call has
// fully returned.
package trampoline

import (
	"sync"

	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/svnerr"
	"go.uber.org/zap"
)

// Registration pins one closure (and its captured state) for as long
// as native code may call back through its baton.
type Registration struct {
	id    uintptr
	lib   *native.Library
	value any

	mu     sync.Mutex
	panics []any
}

var (
	tableMu  sync.Mutex
	table    []*Registration
	freeList []uintptr
)

// Register stores v in the dispatch table and returns its
// registration. The caller must Close it after the native call that
// used the baton has fully returned.
func Register(lib *native.Library, v any) *Registration {
	r := &Registration{lib: lib, value: v}

	tableMu.Lock()
	defer tableMu.Unlock()
	if n := len(freeList); n > 0 {
		r.id = freeList[n-1]
		freeList = freeList[:n-1]
		table[r.id-1] = r
	} else {
		table = append(table, r)
		r.id = uintptr(len(table))
	}
	return r
}

// Baton returns the opaque value handed to native code. Never zero.
func (r *Registration) Baton() uintptr { return r.id }

// Lib returns the library the registration dispatches against.
func (r *Registration) Lib() *native.Library { return r.lib }

// Value returns the registered closure or state object.
func (r *Registration) Value() any { return r.value }

// Lookup resolves a baton to its live registration, or nil for a stale
// or never-issued baton. Exported for packages that build their own
// entry points on the shared table (the delta editor vtable).
func Lookup(baton uintptr) *Registration { return lookup(baton) }

// Close releases the table slot. The baton must not reach native code
// again after this.
func (r *Registration) Close() {
	tableMu.Lock()
	defer tableMu.Unlock()
	if r.id == 0 {
		return
	}
	table[r.id-1] = nil
	freeList = append(freeList, r.id)
	r.id = 0
}

// Resolve combines the outcome of the native call with any panic
// parked during callback dispatch. The panic takes precedence: the
// native error it forced is an artifact of containment, not the real
// failure.
func (r *Registration) Resolve(callErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.panics) > 0 {
		v := r.panics[0]
		r.panics = nil
		return svnerr.Panicked(v)
	}
	return callErr
}

func (r *Registration) park(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, v)
	native.Logger().Error("panic contained at FFI boundary", zap.Any("panic", v))
}

func lookup(baton uintptr) *Registration {
	tableMu.Lock()
	defer tableMu.Unlock()
	if baton == 0 || baton > uintptr(len(table)) {
		return nil
	}
	return table[baton-1]
}

// Registered reports the number of live registrations.
func Registered() int {
	tableMu.Lock()
	defer tableMu.Unlock()
	n := 0
	for _, r := range table {
		if r != nil {
			n++
		}
	}
	return n
}
