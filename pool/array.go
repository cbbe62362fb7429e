package pool

import (
	"unsafe"

	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/svnerr"
)

const ptrSize = int32(unsafe.Sizeof(uintptr(0)))

// PtrArray builds an apr_array_header_t of pointers inside a pool, the
// shape most svn_client entry points take target lists in.
type PtrArray struct {
	pool *Pool
	arr  uintptr
}

// NewPtrArray allocates an empty pointer array with the given initial
// capacity.
func (p *Pool) NewPtrArray(capacity int) (*PtrArray, error) {
	ptr, err := p.Ptr()
	if err != nil {
		return nil, err
	}
	arr := p.lib.AprArrayMake(ptr, int32(capacity), ptrSize)
	if arr == 0 {
		return nil, svnerr.ErrAllocFailed
	}
	return &PtrArray{pool: p, arr: arr}, nil
}

// Push appends one pointer element.
func (a *PtrArray) Push(v uintptr) error {
	if !a.pool.Alive() {
		return svnerr.UseAfterRelease("apr array")
	}
	slot := a.pool.lib.AprArrayPush(a.arr)
	if slot == 0 {
		return svnerr.ErrAllocFailed
	}
	native.PokePtr(slot, v)
	return nil
}

// Ptr returns the native array pointer for passing into an entry point.
func (a *PtrArray) Ptr() (uintptr, error) {
	if !a.pool.Alive() {
		return 0, svnerr.UseAfterRelease("apr array")
	}
	return a.arr, nil
}

// StringArray copies items into the pool and builds a pointer array
// over the copies.
func (p *Pool) StringArray(items []string) (*PtrArray, error) {
	arr, err := p.NewPtrArray(len(items))
	if err != nil {
		return nil, err
	}
	for _, s := range items {
		c, err := p.Strdup(s)
		if err != nil {
			return nil, err
		}
		if err := arr.Push(c); err != nil {
			return nil, err
		}
	}
	return arr, nil
}
