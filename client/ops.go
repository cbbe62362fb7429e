package client

import (
	"io"
	"unsafe"

	gosvn "github.com/gosvn/gosvn"
	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/svnerr"
	"github.com/gosvn/gosvn/trampoline"
)

// Version reports the loaded libsvn_client version.
func Version(lib *native.Library) gosvn.Version {
	v := (*native.VersionInfo)(unsafe.Pointer(lib.SvnClientVersion()))
	return gosvn.Version{
		Major: v.Major,
		Minor: v.Minor,
		Patch: v.Patch,
		Tag:   native.GoString(v.Tag),
	}
}

// Version reports the loaded libsvn_client version.
func (c *Context) Version() gosvn.Version { return Version(c.lib) }

// optRev marshals a Revision into a pool-allocated svn_opt_revision_t.
func optRev(p *pool.Pool, r gosvn.Revision) (uintptr, error) {
	mem, err := p.Alloc(uint64(unsafe.Sizeof(native.OptRevision{})))
	if err != nil {
		return 0, err
	}
	o := (*native.OptRevision)(unsafe.Pointer(mem))
	o.Kind, o.Value = r.Abi()
	return mem, nil
}

func b32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// CheckoutOpts tunes Checkout. The zero value checks out HEAD at
// infinite depth.
type CheckoutOpts struct {
	Peg                    gosvn.Revision // default HEAD for URLs
	Revision               gosvn.Revision // default HEAD
	Depth                  gosvn.Depth    // unset means infinity
	IgnoreExternals        bool
	AllowUnverObstructions bool
}

// Checkout checks out a working copy of url at path and returns the
// revision actually checked out.
func (c *Context) Checkout(url, path string, opts CheckoutOpts) (gosvn.Revnum, error) {
	if opts.Revision == gosvn.Unspecified {
		opts.Revision = gosvn.Head
	}
	if opts.Depth == gosvn.DepthUnknown {
		opts.Depth = gosvn.DepthInfinity
	}
	if !opts.Depth.Valid() {
		return gosvn.InvalidRevnum, svnerr.Bridgef(svnerr.CodeInvalidArg, "invalid depth %d", opts.Depth)
	}

	resultRev := int64(gosvn.InvalidRevnum)
	err := c.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		peg, err := optRev(sp, opts.Peg)
		if err != nil {
			return err
		}
		rev, err := optRev(sp, opts.Revision)
		if err != nil {
			return err
		}
		ctxPtr, err := c.h.Borrow()
		if err != nil {
			return err
		}
		raw := c.lib.SvnClientCheckout3(&resultRev, url, path,
			peg, rev, opts.Depth.Abi(),
			b32(opts.IgnoreExternals), b32(opts.AllowUnverObstructions),
			ctxPtr, spPtr)
		return c.resolve(svnerr.Translate(c.lib, raw))
	})
	if err != nil {
		return gosvn.InvalidRevnum, err
	}
	return gosvn.Revnum(resultRev), nil
}

// UpdateOpts tunes Update. The zero value updates to HEAD at the
// working copy's recorded depth.
type UpdateOpts struct {
	Revision               gosvn.Revision // default HEAD
	Depth                  gosvn.Depth
	DepthIsSticky          bool
	IgnoreExternals        bool
	AllowUnverObstructions bool
	MakeParents            bool
}

// Update brings each path to the requested revision and returns the
// resulting revision numbers, parallel to paths.
func (c *Context) Update(paths []string, opts UpdateOpts) ([]gosvn.Revnum, error) {
	if opts.Revision == gosvn.Unspecified {
		opts.Revision = gosvn.Head
	}

	var revs []gosvn.Revnum
	err := c.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		targets, err := sp.StringArray(paths)
		if err != nil {
			return err
		}
		targetsPtr, err := targets.Ptr()
		if err != nil {
			return err
		}
		rev, err := optRev(sp, opts.Revision)
		if err != nil {
			return err
		}
		ctxPtr, err := c.h.Borrow()
		if err != nil {
			return err
		}
		var resultRevs uintptr
		raw := c.lib.SvnClientUpdate4(&resultRevs, targetsPtr, rev,
			opts.Depth.Abi(), b32(opts.DepthIsSticky),
			b32(opts.IgnoreExternals), b32(opts.AllowUnverObstructions),
			1, // adds as modification, the non-deprecated behavior
			b32(opts.MakeParents),
			ctxPtr, spPtr)
		if err := c.resolve(svnerr.Translate(c.lib, raw)); err != nil {
			return err
		}
		for _, n := range native.ArrayLongs(resultRevs) {
			revs = append(revs, gosvn.Revnum(n))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return revs, nil
}

// CommitOpts tunes Commit. The zero value commits at infinite depth,
// releasing locks.
type CommitOpts struct {
	Depth                gosvn.Depth // default infinity
	KeepLocks            bool
	KeepChangelists      bool
	IncludeFileExternals bool
	IncludeDirExternals  bool
}

// Commit commits the local modifications under paths. The log message
// comes from the source installed with SetLogMessage. One CommitInfo is
// returned per committed revision; an empty slice means there was
// nothing to commit.
func (c *Context) Commit(paths []string, opts CommitOpts) ([]gosvn.CommitInfo, error) {
	if opts.Depth == gosvn.DepthUnknown {
		opts.Depth = gosvn.DepthInfinity
	}

	var infos []gosvn.CommitInfo
	reg := trampoline.Register(c.lib, trampoline.CommitFunc(func(ci gosvn.CommitInfo) error {
		infos = append(infos, ci)
		return nil
	}))
	defer reg.Close()

	err := c.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		targets, err := sp.StringArray(paths)
		if err != nil {
			return err
		}
		targetsPtr, err := targets.Ptr()
		if err != nil {
			return err
		}
		ctxPtr, err := c.h.Borrow()
		if err != nil {
			return err
		}
		raw := c.lib.SvnClientCommit6(targetsPtr,
			opts.Depth.Abi(), b32(opts.KeepLocks), b32(opts.KeepChangelists),
			1, // commit as operations
			b32(opts.IncludeFileExternals), b32(opts.IncludeDirExternals),
			0, 0,
			trampoline.CommitEntry, reg.Baton(),
			ctxPtr, spPtr)
		return c.resolve(reg.Resolve(svnerr.Translate(c.lib, raw)))
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// AddOpts tunes Add. The zero value schedules recursively and honors
// ignore patterns.
type AddOpts struct {
	Depth       gosvn.Depth // default infinity
	Force       bool
	NoIgnore    bool
	NoAutoprops bool
	AddParents  bool
}

// Add schedules path for addition in the next commit.
func (c *Context) Add(path string, opts AddOpts) error {
	if opts.Depth == gosvn.DepthUnknown {
		opts.Depth = gosvn.DepthInfinity
	}
	return c.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		ctxPtr, err := c.h.Borrow()
		if err != nil {
			return err
		}
		raw := c.lib.SvnClientAdd5(path,
			opts.Depth.Abi(), b32(opts.Force), b32(opts.NoIgnore),
			b32(opts.NoAutoprops), b32(opts.AddParents),
			ctxPtr, spPtr)
		return c.resolve(svnerr.Translate(c.lib, raw))
	})
}

// CatOpts tunes Cat. The zero value fetches HEAD for URLs and WORKING
// for local paths, without keyword expansion.
type CatOpts struct {
	Peg            gosvn.Revision
	Revision       gosvn.Revision
	ExpandKeywords bool
}

// Cat streams the contents of pathOrURL at the requested revision into
// w.
func (c *Context) Cat(w io.Writer, pathOrURL string, opts CatOpts) error {
	if opts.Revision == gosvn.Unspecified {
		if c.lib.SvnPathIsURL(pathOrURL) != 0 {
			opts.Revision = gosvn.Head
		} else {
			opts.Revision = gosvn.Working
		}
	}

	reg := trampoline.Register(c.lib, trampoline.StreamWriteFunc(func(p []byte) error {
		_, err := w.Write(p)
		return err
	}))
	defer reg.Close()

	return c.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		peg, err := optRev(sp, opts.Peg)
		if err != nil {
			return err
		}
		rev, err := optRev(sp, opts.Revision)
		if err != nil {
			return err
		}
		stream := c.lib.SvnStreamCreate(reg.Baton(), spPtr)
		if stream == 0 {
			return svnerr.ErrAllocFailed
		}
		c.lib.SvnStreamSetWrite(stream, trampoline.StreamWriteEntry)
		ctxPtr, err := c.h.Borrow()
		if err != nil {
			return err
		}
		raw := c.lib.SvnClientCat3(nil, stream, pathOrURL,
			peg, rev, b32(opts.ExpandKeywords),
			ctxPtr, spPtr, spPtr)
		return c.resolve(reg.Resolve(svnerr.Translate(c.lib, raw)))
	})
}

// Status is the Go copy of one working-copy status entry.
type Status struct {
	Path          string
	Kind          gosvn.NodeKind
	Versioned     bool
	Conflicted    bool
	NodeStatus    gosvn.StatusKind
	TextStatus    gosvn.StatusKind
	PropStatus    gosvn.StatusKind
	Copied        bool
	Locked        bool
	Revision      gosvn.Revnum
	ChangedRev    gosvn.Revnum
	ChangedAuthor string
	ReposRelpath  string
}

// StatusOpts tunes Status. The zero value walks the working copy at
// infinite depth reporting only interesting items.
type StatusOpts struct {
	Revision        gosvn.Revision // out-of-date baseline, default HEAD
	Depth           gosvn.Depth    // default infinity
	GetAll          bool
	CheckOutOfDate  bool
	NoIgnore        bool
	IgnoreExternals bool
	DepthAsSticky   bool
}

// Status invokes fn once per status entry under path, in the order the
// native library reports them, and returns the revision the status run
// was against.
func (c *Context) Status(path string, opts StatusOpts, fn func(Status) error) (gosvn.Revnum, error) {
	if opts.Revision == gosvn.Unspecified {
		opts.Revision = gosvn.Head
	}
	if opts.Depth == gosvn.DepthUnknown {
		opts.Depth = gosvn.DepthInfinity
	}

	reg := trampoline.Register(c.lib, trampoline.StatusFunc(func(p string, st *native.ClientStatus) error {
		return fn(Status{
			Path:          p,
			Kind:          gosvn.NodeKind(st.Kind),
			Versioned:     st.Versioned != 0,
			Conflicted:    st.Conflicted != 0,
			NodeStatus:    gosvn.StatusKind(st.NodeStatus),
			TextStatus:    gosvn.StatusKind(st.TextStatus),
			PropStatus:    gosvn.StatusKind(st.PropStatus),
			Copied:        st.Copied != 0,
			Locked:        st.WcIsLocked != 0,
			Revision:      gosvn.Revnum(st.Revision),
			ChangedRev:    gosvn.Revnum(st.ChangedRev),
			ChangedAuthor: native.GoString(st.ChangedAuthor),
			ReposRelpath:  native.GoString(st.ReposRelpath),
		})
	}))
	defer reg.Close()

	resultRev := int64(gosvn.InvalidRevnum)
	err := c.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		rev, err := optRev(sp, opts.Revision)
		if err != nil {
			return err
		}
		ctxPtr, err := c.h.Borrow()
		if err != nil {
			return err
		}
		raw := c.lib.SvnClientStatus6(&resultRev, ctxPtr, path, rev,
			opts.Depth.Abi(), b32(opts.GetAll), b32(opts.CheckOutOfDate),
			1, // check working copy
			b32(opts.NoIgnore), b32(opts.IgnoreExternals), b32(opts.DepthAsSticky),
			0, trampoline.StatusEntry, reg.Baton(), spPtr)
		return c.resolve(reg.Resolve(svnerr.Translate(c.lib, raw)))
	})
	if err != nil {
		return gosvn.InvalidRevnum, err
	}
	return gosvn.Revnum(resultRev), nil
}
