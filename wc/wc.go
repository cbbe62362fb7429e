// Package wc inspects working copies through libsvn_wc, below the
// client layer: administrative directory checks, local modification and
// conflict queries.
package wc

import (
	"github.com/gosvn/gosvn/handle"
	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/svnerr"
)

type wcCtxTag struct{}

// Context wraps svn_wc_context_t with its own pool.
type Context struct {
	lib  *native.Library
	pool *pool.Pool
	h    *handle.Handle[wcCtxTag]
}

// New creates a working copy context. The caller must Close it.
func New(lib *native.Library) (*Context, error) {
	if err := lib.EnsureInitialized(); err != nil {
		return nil, err
	}
	p, err := pool.New(lib)
	if err != nil {
		return nil, err
	}
	ptr, err := p.Ptr()
	if err != nil {
		p.Close()
		return nil, err
	}
	var out uintptr
	if err := svnerr.Translate(lib, lib.SvnWcContextCreate(&out, 0, ptr, ptr)); err != nil {
		p.Close()
		return nil, err
	}
	h, err := handle.WrapExclusive[wcCtxTag](out, p)
	if err != nil {
		p.Close()
		return nil, err
	}
	return &Context{lib: lib, pool: p, h: h}, nil
}

// Close destroys the native context and its pool. Idempotent.
func (c *Context) Close() error {
	if ptr, err := c.h.Borrow(); err == nil {
		c.lib.SvnWcContextDestroy(ptr)
	}
	c.h.Release()
	return c.pool.Close()
}

// CheckWC reports the working copy format at localAbspath, or 0 when
// the path is not a working copy root or inside one.
func (c *Context) CheckWC(localAbspath string) (int32, error) {
	var format int32
	err := c.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		ptr, err := c.h.Borrow()
		if err != nil {
			return err
		}
		return svnerr.Translate(c.lib, c.lib.SvnWcCheckWc2(&format, ptr, localAbspath, spPtr))
	})
	if err != nil {
		return 0, err
	}
	return format, nil
}

// IsWorkingCopy reports whether localAbspath is versioned in a working
// copy.
func (c *Context) IsWorkingCopy(localAbspath string) (bool, error) {
	format, err := c.CheckWC(localAbspath)
	if err != nil {
		if svnerr.IsCode(err, svnerr.CodeWCNotWorkingCopy) {
			return false, nil
		}
		return false, err
	}
	return format > 0, nil
}

// TextModified reports whether the file at localAbspath differs from
// its pristine base.
func (c *Context) TextModified(localAbspath string) (bool, error) {
	var modified int32
	err := c.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		ptr, err := c.h.Borrow()
		if err != nil {
			return err
		}
		return svnerr.Translate(c.lib, c.lib.SvnWcTextModifiedP2(&modified, ptr, localAbspath, 0, spPtr))
	})
	return modified != 0, err
}

// Conflict reports which conflict markers are present on a node.
type Conflict struct {
	Text bool
	Prop bool
	Tree bool
}

// Any reports whether the node is conflicted at all.
func (c Conflict) Any() bool { return c.Text || c.Prop || c.Tree }

// Conflicted reports the conflict state of localAbspath.
func (c *Context) Conflicted(localAbspath string) (Conflict, error) {
	var text, prop, tree int32
	err := c.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		ptr, err := c.h.Borrow()
		if err != nil {
			return err
		}
		return svnerr.Translate(c.lib, c.lib.SvnWcConflictedP3(&text, &prop, &tree, ptr, localAbspath, spPtr))
	})
	return Conflict{Text: text != 0, Prop: prop != 0, Tree: tree != 0}, err
}

// IsAdmDir reports whether name is reserved for the administrative
// directory (".svn", and "_svn" where configured).
func IsAdmDir(lib *native.Library, name string) (bool, error) {
	var is bool
	err := pool.With(lib, func(p *pool.Pool) error {
		ptr, err := p.Ptr()
		if err != nil {
			return err
		}
		is = lib.SvnWcIsAdmDir(name, ptr) != 0
		return nil
	})
	return is, err
}

// GetAdmDir returns the administrative directory name in use.
func GetAdmDir(lib *native.Library) (string, error) {
	var name string
	err := pool.With(lib, func(p *pool.Pool) error {
		ptr, err := p.Ptr()
		if err != nil {
			return err
		}
		name = native.GoString(lib.SvnWcGetAdmDir(ptr))
		return nil
	})
	return name, err
}

// SetAdmDir changes the administrative directory name for the process.
// Only ".svn" and "_svn" are accepted by the native library.
func SetAdmDir(lib *native.Library, name string) error {
	return pool.With(lib, func(p *pool.Pool) error {
		ptr, err := p.Ptr()
		if err != nil {
			return err
		}
		return svnerr.Translate(lib, lib.SvnWcSetAdmDir(name, ptr))
	})
}
