// Package ra opens repository access sessions: the protocol-neutral
// connection layer the client operations run over. A Session speaks to
// one repository URL over whichever RA implementation matches the
// scheme (file, http, svn).
package ra

import (
	"time"
	"unsafe"

	gosvn "github.com/gosvn/gosvn"
	"github.com/gosvn/gosvn/auth"
	"github.com/gosvn/gosvn/handle"
	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/svnerr"
	"github.com/gosvn/gosvn/trampoline"
)

type sessionTag struct{}

// SessionOpts configures Open. All fields are optional; sessions
// without an auth baton can only reach repositories that need none.
type SessionOpts struct {
	Auth     *auth.Baton
	Cancel   trampoline.CancelFunc
	Progress trampoline.ProgressFunc
}

// Session wraps svn_ra_session_t with its own pool.
type Session struct {
	lib  *native.Library
	pool *pool.Pool
	h    *handle.Handle[sessionTag]

	cancel   *trampoline.Registration
	progress *trampoline.Registration

	url       string
	corrected string
}

// Open connects to the repository at url. A server-side redirect is
// followed by the native library; CorrectedURL reports where the
// session actually landed.
func Open(lib *native.Library, url string, opts SessionOpts) (*Session, error) {
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

	var cbPtr uintptr
	if err := svnerr.Translate(lib, lib.SvnRaCreateCallbacks(&cbPtr, ptr)); err != nil {
		p.Close()
		return nil, err
	}
	cb := (*native.RaCallbacks)(unsafe.Pointer(cbPtr))

	s := &Session{lib: lib, pool: p, url: url}
	if opts.Auth != nil {
		ap, err := opts.Auth.Ptr()
		if err != nil {
			p.Close()
			return nil, err
		}
		cb.AuthBaton = ap
	}
	var callbackBaton uintptr
	if opts.Cancel != nil {
		s.cancel = trampoline.Register(lib, opts.Cancel)
		cb.CancelFunc = trampoline.CancelEntry
		// The session-wide callback baton is what cancel_func receives.
		callbackBaton = s.cancel.Baton()
	}
	if opts.Progress != nil {
		s.progress = trampoline.Register(lib, opts.Progress)
		cb.ProgressFunc = trampoline.ProgressEntry
		cb.ProgressBaton = s.progress.Baton()
	}

	var session, correctedURL uintptr
	raw := lib.SvnRaOpen5(&session, &correctedURL, url, 0, cbPtr, callbackBaton, 0, ptr)
	if err := s.resolve(svnerr.Translate(lib, raw)); err != nil {
		s.closeRegs()
		p.Close()
		return nil, err
	}
	s.corrected = native.GoString(correctedURL)

	h, err := handle.WrapExclusive[sessionTag](session, p)
	if err != nil {
		s.closeRegs()
		p.Close()
		return nil, err
	}
	s.h = h
	return s, nil
}

func (s *Session) closeRegs() {
	for _, r := range []*trampoline.Registration{s.cancel, s.progress} {
		if r != nil {
			r.Close()
		}
	}
	s.cancel, s.progress = nil, nil
}

func (s *Session) resolve(err error) error {
	for _, r := range []*trampoline.Registration{s.cancel, s.progress} {
		if r != nil {
			err = r.Resolve(err)
		}
	}
	return err
}

// Close drops the session and its pool. Idempotent.
func (s *Session) Close() error {
	s.closeRegs()
	if s.h != nil {
		s.h.Release()
	}
	return s.pool.Close()
}

// URL returns the URL the session was opened with.
func (s *Session) URL() string { return s.url }

// CorrectedURL returns the redirect target the server supplied, or the
// empty string when the session opened at the requested URL.
func (s *Session) CorrectedURL() string { return s.corrected }

// LatestRevnum returns the youngest revision in the repository.
func (s *Session) LatestRevnum() (gosvn.Revnum, error) {
	rev := int64(gosvn.InvalidRevnum)
	err := s.op(func(session, sp uintptr) uintptr {
		return s.lib.SvnRaGetLatestRevnum(session, &rev, sp)
	})
	return gosvn.Revnum(rev), err
}

// UUID returns the repository's universally unique identifier.
func (s *Session) UUID() (string, error) {
	var out uintptr
	err := s.op(func(session, sp uintptr) uintptr {
		return s.lib.SvnRaGetUUID2(session, &out, sp)
	})
	if err != nil {
		return "", err
	}
	return native.GoString(out), nil
}

// ReposRoot returns the repository root URL. Session URLs below the
// root are relative to this.
func (s *Session) ReposRoot() (string, error) {
	var out uintptr
	err := s.op(func(session, sp uintptr) uintptr {
		return s.lib.SvnRaGetReposRoot2(session, &out, sp)
	})
	if err != nil {
		return "", err
	}
	return native.GoString(out), nil
}

// CheckPath reports the node kind of path (relative to the session URL)
// at revision rev, or NodeNone when it does not exist.
func (s *Session) CheckPath(path string, rev gosvn.Revnum) (gosvn.NodeKind, error) {
	var kind int32
	err := s.op(func(session, sp uintptr) uintptr {
		return s.lib.SvnRaCheckPath(session, path, int64(rev), &kind, sp)
	})
	return gosvn.NodeKind(kind), err
}

// Reparent points the session at a different URL within the same
// repository.
func (s *Session) Reparent(url string) error {
	err := s.op(func(session, sp uintptr) uintptr {
		return s.lib.SvnRaReparent(session, url, sp)
	})
	if err == nil {
		s.url = url
	}
	return err
}

// DatedRevision returns the last revision committed at or before t.
func (s *Session) DatedRevision(t time.Time) (gosvn.Revnum, error) {
	rev := int64(gosvn.InvalidRevnum)
	err := s.op(func(session, sp uintptr) uintptr {
		return s.lib.SvnRaGetDatedRevision(session, &rev, t.UnixMicro(), sp)
	})
	return gosvn.Revnum(rev), err
}

// op runs one native session call in a scratch pool and folds in
// callback panics.
func (s *Session) op(fn func(session, scratchPool uintptr) uintptr) error {
	session, err := s.h.Borrow()
	if err != nil {
		return err
	}
	return s.pool.WithChild(func(sp *pool.Pool) error {
		spPtr, err := sp.Ptr()
		if err != nil {
			return err
		}
		return s.resolve(svnerr.Translate(s.lib, fn(session, spPtr)))
	})
}
