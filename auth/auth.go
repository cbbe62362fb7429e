// Package auth assembles svn_auth_baton_t credential chains.
//
// A Baton is built from an ordered list of providers. The native
// library walks the list until one yields a credential; if every
// provider declines, the operation fails with an authentication error.
// Prompt providers call back into Go closures through the trampoline
// package, so the Baton must stay open for as long as any session or
// client context references it.
package auth

import (
	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/svnerr"
	"github.com/gosvn/gosvn/trampoline"
)

// Provider is one credential source in a baton's chain.
type Provider struct {
	ptr uintptr
	reg *trampoline.Registration
}

// Username yields the process owner's name for operations that only
// need identity, such as local file:// access.
func Username(p *pool.Pool) (Provider, error) {
	ptr, err := p.Ptr()
	if err != nil {
		return Provider{}, err
	}
	var out uintptr
	p.Lib().SvnAuthGetUsernameProvider(&out, ptr)
	if out == 0 {
		return Provider{}, svnerr.ErrAllocFailed
	}
	return Provider{ptr: out}, nil
}

// SimpleStored serves username/password credentials from the on-disk
// auth cache. It never prompts; plaintext storage of new credentials is
// declined.
func SimpleStored(p *pool.Pool) (Provider, error) {
	ptr, err := p.Ptr()
	if err != nil {
		return Provider{}, err
	}
	var out uintptr
	p.Lib().SvnAuthGetSimpleProvider2(&out, 0, 0, ptr)
	if out == 0 {
		return Provider{}, svnerr.ErrAllocFailed
	}
	return Provider{ptr: out}, nil
}

// SimplePrompt asks fn for username/password credentials, retrying up
// to retries times after a rejected attempt.
func SimplePrompt(p *pool.Pool, fn trampoline.SimplePromptFunc, retries int) (Provider, error) {
	ptr, err := p.Ptr()
	if err != nil {
		return Provider{}, err
	}
	reg := trampoline.Register(p.Lib(), fn)
	var out uintptr
	p.Lib().SvnAuthGetSimplePromptProvider(&out, trampoline.SimplePromptEntry, reg.Baton(), int32(retries), ptr)
	if out == 0 {
		reg.Close()
		return Provider{}, svnerr.ErrAllocFailed
	}
	return Provider{ptr: out, reg: reg}, nil
}

// SSLServerTrustFile trusts server certificates previously accepted and
// recorded in the auth cache.
func SSLServerTrustFile(p *pool.Pool) (Provider, error) {
	ptr, err := p.Ptr()
	if err != nil {
		return Provider{}, err
	}
	var out uintptr
	p.Lib().SvnAuthGetSSLServerTrustFileProvider(&out, ptr)
	if out == 0 {
		return Provider{}, svnerr.ErrAllocFailed
	}
	return Provider{ptr: out}, nil
}

// SSLServerTrustPrompt asks fn whether to trust an unverified server
// certificate.
func SSLServerTrustPrompt(p *pool.Pool, fn trampoline.SSLServerTrustPromptFunc) (Provider, error) {
	ptr, err := p.Ptr()
	if err != nil {
		return Provider{}, err
	}
	reg := trampoline.Register(p.Lib(), fn)
	var out uintptr
	p.Lib().SvnAuthGetSSLServerTrustPromptProvider(&out, trampoline.SSLServerTrustPromptEntry, reg.Baton(), ptr)
	if out == 0 {
		reg.Close()
		return Provider{}, svnerr.ErrAllocFailed
	}
	return Provider{ptr: out, reg: reg}, nil
}

// Baton is an opened credential chain ready to attach to a client
// context or RA session.
type Baton struct {
	ptr  uintptr
	pool *pool.Pool
	regs []*trampoline.Registration
}

// Open builds the baton from providers, consulted in order. The baton
// is allocated in p and dies with it; Close earlier to release the
// prompt registrations.
func Open(p *pool.Pool, providers ...Provider) (*Baton, error) {
	ptr, err := p.Ptr()
	if err != nil {
		return nil, err
	}
	arr, err := p.NewPtrArray(len(providers))
	if err != nil {
		return nil, err
	}
	var regs []*trampoline.Registration
	for _, prov := range providers {
		if err := arr.Push(prov.ptr); err != nil {
			return nil, err
		}
		if prov.reg != nil {
			regs = append(regs, prov.reg)
		}
	}
	arrPtr, err := arr.Ptr()
	if err != nil {
		return nil, err
	}
	var out uintptr
	p.Lib().SvnAuthOpen(&out, arrPtr, ptr)
	if out == 0 {
		return nil, svnerr.ErrAllocFailed
	}
	return &Baton{ptr: out, pool: p, regs: regs}, nil
}

// Ptr returns the native baton pointer while the backing pool is live.
func (b *Baton) Ptr() (uintptr, error) {
	if !b.pool.Alive() {
		return 0, svnerr.UseAfterRelease("auth baton")
	}
	return b.ptr, nil
}

// Close releases the prompt registrations. The baton must not be used
// by native code afterwards. Idempotent.
func (b *Baton) Close() {
	for _, r := range b.regs {
		r.Close()
	}
	b.regs = nil
}
