// Package client drives the high-level Subversion client operations:
// checkout, update, commit, add, cat, and status.
//
// A Context wraps one svn_client_ctx_t and owns the pool it lives in.
// Callback setters wire Go closures into the context through the
// trampoline package; the closures stay registered until replaced or
// the context is closed. A context is single-operation at a time, like
// the native object it wraps.
package client

import (
	"unsafe"

	"github.com/gosvn/gosvn/auth"
	"github.com/gosvn/gosvn/handle"
	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/svnerr"
	"github.com/gosvn/gosvn/trampoline"
)

// Context wraps svn_client_ctx_t.
type Context struct {
	lib  *native.Library
	pool *pool.Pool
	h    *handle.Handle[native.ClientCtx]

	cancel   *trampoline.Registration
	notify   *trampoline.Registration
	progress *trampoline.Registration
	logMsg   *trampoline.Registration
}

// New creates a client context backed by its own root pool. The caller
// must Close it.
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
	if err := svnerr.Translate(lib, lib.SvnClientCreateContext2(&out, 0, ptr)); err != nil {
		p.Close()
		return nil, err
	}
	h, err := handle.WrapExclusive[native.ClientCtx](out, p)
	if err != nil {
		p.Close()
		return nil, err
	}
	return &Context{lib: lib, pool: p, h: h}, nil
}

// Close releases the callback registrations and destroys the context
// pool. Idempotent.
func (c *Context) Close() error {
	for _, r := range []*trampoline.Registration{c.cancel, c.notify, c.progress, c.logMsg} {
		if r != nil {
			r.Close()
		}
	}
	c.cancel, c.notify, c.progress, c.logMsg = nil, nil, nil, nil
	c.h.Release()
	return c.pool.Close()
}

// Pool returns the context's pool, for allocating objects that must
// outlive a single operation (an auth baton, typically).
func (c *Context) Pool() *pool.Pool { return c.pool }

func (c *Context) mirror() (*native.ClientCtx, error) {
	ptr, err := c.h.BorrowMut()
	if err != nil {
		return nil, err
	}
	return (*native.ClientCtx)(unsafe.Pointer(ptr)), nil
}

// SetAuth attaches an authentication baton. The baton must stay open
// while the context uses it.
func (c *Context) SetAuth(b *auth.Baton) error {
	m, err := c.mirror()
	if err != nil {
		return err
	}
	ap, err := b.Ptr()
	if err != nil {
		return err
	}
	m.AuthBaton = ap
	return nil
}

// SetCancel installs a cancellation poll. Long-running operations call
// it repeatedly; a non-nil return aborts with ErrCancelled. A nil fn
// removes the poll.
func (c *Context) SetCancel(fn trampoline.CancelFunc) error {
	m, err := c.mirror()
	if err != nil {
		return err
	}
	if c.cancel != nil {
		c.cancel.Close()
		c.cancel = nil
	}
	if fn == nil {
		m.CancelFunc, m.CancelBaton = 0, 0
		return nil
	}
	c.cancel = trampoline.Register(c.lib, fn)
	m.CancelFunc = trampoline.CancelEntry
	m.CancelBaton = c.cancel.Baton()
	return nil
}

// SetNotify installs a progress notification receiver.
func (c *Context) SetNotify(fn trampoline.NotifyFunc) error {
	m, err := c.mirror()
	if err != nil {
		return err
	}
	if c.notify != nil {
		c.notify.Close()
		c.notify = nil
	}
	if fn == nil {
		m.NotifyFunc2, m.NotifyBaton2 = 0, 0
		return nil
	}
	c.notify = trampoline.Register(c.lib, fn)
	m.NotifyFunc2 = trampoline.NotifyEntry
	m.NotifyBaton2 = c.notify.Baton()
	return nil
}

// SetProgress installs a network byte-count receiver.
func (c *Context) SetProgress(fn trampoline.ProgressFunc) error {
	m, err := c.mirror()
	if err != nil {
		return err
	}
	if c.progress != nil {
		c.progress.Close()
		c.progress = nil
	}
	if fn == nil {
		m.ProgressFunc, m.ProgressBaton = 0, 0
		return nil
	}
	c.progress = trampoline.Register(c.lib, fn)
	m.ProgressFunc = trampoline.ProgressEntry
	m.ProgressBaton = c.progress.Baton()
	return nil
}

// SetLogMessage installs the commit log message source. Commit fails
// without one.
func (c *Context) SetLogMessage(fn trampoline.LogMessageFunc) error {
	m, err := c.mirror()
	if err != nil {
		return err
	}
	if c.logMsg != nil {
		c.logMsg.Close()
		c.logMsg = nil
	}
	if fn == nil {
		m.LogMsgFunc3, m.LogMsgBaton3 = 0, 0
		return nil
	}
	c.logMsg = trampoline.Register(c.lib, fn)
	m.LogMsgFunc3 = trampoline.LogMessageEntry
	m.LogMsgBaton3 = c.logMsg.Baton()
	return nil
}

// SetLogMessageString installs a fixed commit log message.
func (c *Context) SetLogMessageString(msg string) error {
	return c.SetLogMessage(func() (string, error) { return msg, nil })
}

// resolve folds panics parked in the persistent registrations into the
// outcome of a native call.
func (c *Context) resolve(err error) error {
	for _, r := range []*trampoline.Registration{c.cancel, c.notify, c.progress, c.logMsg} {
		if r != nil {
			err = r.Resolve(err)
		}
	}
	return err
}
