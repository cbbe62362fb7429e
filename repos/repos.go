// Package repos administers local repositories through libsvn_repos:
// create, open, delete, and capability queries. All paths are local
// filesystem paths, not URLs.
package repos

import (
	"github.com/gosvn/gosvn/handle"
	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/svnerr"
)

// Capability names understood by HasCapability.
const (
	CapabilityMergeinfo = "mergeinfo"
)

type reposTag struct{}

// Repos wraps an open svn_repos_t with its own pool.
type Repos struct {
	lib  *native.Library
	pool *pool.Pool
	h    *handle.Handle[reposTag]
}

func wrap(lib *native.Library, p *pool.Pool, ptr uintptr) (*Repos, error) {
	h, err := handle.WrapExclusive[reposTag](ptr, p)
	if err != nil {
		p.Close()
		return nil, err
	}
	return &Repos{lib: lib, pool: p, h: h}, nil
}

// Create makes a new repository at path and opens it.
func Create(lib *native.Library, path string) (*Repos, error) {
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
	if err := svnerr.Translate(lib, lib.SvnReposCreate(&out, path, 0, 0, 0, 0, ptr)); err != nil {
		p.Close()
		return nil, err
	}
	return wrap(lib, p, out)
}

// Open opens the repository at path.
func Open(lib *native.Library, path string) (*Repos, error) {
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
	if err := svnerr.Translate(lib, lib.SvnReposOpen3(&out, path, 0, ptr, ptr)); err != nil {
		p.Close()
		return nil, err
	}
	return wrap(lib, p, out)
}

// Close releases the repository. Idempotent.
func (r *Repos) Close() error {
	r.h.Release()
	return r.pool.Close()
}

// Path returns the repository's filesystem path.
func (r *Repos) Path() (string, error) {
	ptr, err := r.h.Borrow()
	if err != nil {
		return "", err
	}
	var path string
	err = r.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		path = native.GoString(r.lib.SvnReposPath(ptr, spPtr))
		return nil
	})
	return path, err
}

// HasCapability reports whether the repository supports capability.
func (r *Repos) HasCapability(capability string) (bool, error) {
	ptr, err := r.h.Borrow()
	if err != nil {
		return false, err
	}
	var has int32
	err = r.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		return svnerr.Translate(r.lib, r.lib.SvnReposHasCapability(ptr, &has, capability, spPtr))
	})
	return has != 0, err
}

// Delete removes the repository at path from disk. The repository must
// not be open.
func Delete(lib *native.Library, path string) error {
	if err := lib.EnsureInitialized(); err != nil {
		return err
	}
	return pool.With(lib, func(p *pool.Pool) error {
		ptr, err := p.Ptr()
		if err != nil {
			return err
		}
		return svnerr.Translate(lib, lib.SvnReposDelete(path, ptr))
	})
}

// FindRootPath walks up from path looking for a repository root.
// Returns the empty string when path is not inside a repository.
func FindRootPath(lib *native.Library, path string) (string, error) {
	if err := lib.EnsureInitialized(); err != nil {
		return "", err
	}
	var root string
	err := pool.With(lib, func(p *pool.Pool) error {
		ptr, err := p.Ptr()
		if err != nil {
			return err
		}
		root = native.GoString(lib.SvnReposFindRootPath(path, ptr))
		return nil
	})
	return root, err
}
