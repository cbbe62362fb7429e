package auth

import (
	"testing"
	"unsafe"

	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/trampoline"
)

type fakeNative struct {
	funcs native.Funcs
	alive [][]byte

	nextPool uintptr
	next     uintptr

	promptFn     uintptr
	promptBaton  uintptr
	retries      int32
	openedChain  []uintptr
	sslPromptFn  uintptr
	sslBaton     uintptr
	authBatonPtr uintptr
}

func (f *fakeNative) keep(b []byte) uintptr {
	f.alive = append(f.alive, b)
	return uintptr(unsafe.Pointer(&b[0]))
}

func newFakeNative() *fakeNative {
	f := &fakeNative{nextPool: 0x1000, next: 0x8000, authBatonPtr: 0xa000}
	newProvider := func() uintptr {
		f.next++
		return f.next
	}
	f.funcs = native.Funcs{
		AprPoolCreateEx: func(out *uintptr, parent, abortFn, allocator uintptr) int32 {
			f.nextPool++
			*out = f.nextPool
			return 0
		},
		AprPoolDestroy: func(pool uintptr) {},
		AprPstrdup:     func(pool uintptr, s string) uintptr { return f.keep(append([]byte(s), 0)) },
		AprArrayMake: func(pool uintptr, nelts, eltSize int32) uintptr {
			if nelts < 1 {
				nelts = 1
			}
			buf := make([]byte, int(nelts)*int(eltSize)*8)
			hdr := &native.AprArrayHeader{
				Pool:    pool,
				EltSize: eltSize,
				Nalloc:  nelts * 8,
				Elts:    f.keep(buf),
			}
			f.alive = append(f.alive, unsafe.Slice((*byte)(unsafe.Pointer(hdr)), unsafe.Sizeof(*hdr)))
			return uintptr(unsafe.Pointer(hdr))
		},
		AprArrayPush: func(arr uintptr) uintptr {
			hdr := (*native.AprArrayHeader)(unsafe.Pointer(arr))
			slot := hdr.Elts + uintptr(hdr.Nelts)*uintptr(hdr.EltSize)
			hdr.Nelts++
			return slot
		},
		SvnAuthGetUsernameProvider: func(out *uintptr, pool uintptr) {
			*out = newProvider()
		},
		SvnAuthGetSimpleProvider2: func(out *uintptr, plaintextFn, baton, pool uintptr) {
			*out = newProvider()
		},
		SvnAuthGetSimplePromptProvider: func(out *uintptr, promptFn, baton uintptr, retries int32, pool uintptr) {
			f.promptFn = promptFn
			f.promptBaton = baton
			f.retries = retries
			*out = newProvider()
		},
		SvnAuthGetSSLServerTrustFileProvider: func(out *uintptr, pool uintptr) {
			*out = newProvider()
		},
		SvnAuthGetSSLServerTrustPromptProvider: func(out *uintptr, promptFn, baton, pool uintptr) {
			f.sslPromptFn = promptFn
			f.sslBaton = baton
			*out = newProvider()
		},
		SvnAuthOpen: func(out *uintptr, providers, pool uintptr) {
			f.openedChain = native.ArrayPtrs(providers)
			*out = f.authBatonPtr
		},
	}
	return f
}

func (f *fakeNative) library() *native.Library {
	return native.NewUnloaded(f.funcs)
}

func TestOpenBuildsProviderChain(t *testing.T) {
	f := newFakeNative()
	lib := f.library()
	p, err := pool.New(lib)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	username, err := Username(p)
	if err != nil {
		t.Fatal(err)
	}
	stored, err := SimpleStored(p)
	if err != nil {
		t.Fatal(err)
	}
	prompt, err := SimplePrompt(p, func(realm, user string, maySave bool) (*trampoline.SimpleCred, error) {
		return &trampoline.SimpleCred{Username: "jrandom", Password: "secret"}, nil
	}, 2)
	if err != nil {
		t.Fatal(err)
	}

	b, err := Open(p, username, stored, prompt)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if len(f.openedChain) != 3 {
		t.Fatalf("provider chain length = %d, want 3", len(f.openedChain))
	}
	// Order decides which credential source wins; it must match the
	// order given to Open.
	if f.openedChain[0] != username.ptr || f.openedChain[1] != stored.ptr || f.openedChain[2] != prompt.ptr {
		t.Fatalf("provider chain out of order: %#v", f.openedChain)
	}
	if f.retries != 2 {
		t.Fatalf("retries = %d, want 2", f.retries)
	}
	if f.promptFn != trampoline.SimplePromptEntry || f.promptBaton == 0 {
		t.Fatal("prompt trampoline not wired")
	}

	ptr, err := b.Ptr()
	if err != nil || ptr != f.authBatonPtr {
		t.Fatalf("baton ptr = %#x, %v", ptr, err)
	}
}

func TestSSLServerTrustPromptWiring(t *testing.T) {
	f := newFakeNative()
	p, err := pool.New(f.library())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	prov, err := SSLServerTrustPrompt(p, func(realm string, failures uint32) (bool, bool, error) {
		return true, false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if f.sslPromptFn != trampoline.SSLServerTrustPromptEntry || f.sslBaton == 0 {
		t.Fatal("ssl trust trampoline not wired")
	}

	b, err := Open(p, prov)
	if err != nil {
		t.Fatal(err)
	}
	b.Close()
	b.Close() // idempotent
}

func TestBatonPtrAfterPoolRelease(t *testing.T) {
	f := newFakeNative()
	p, err := pool.New(f.library())
	if err != nil {
		t.Fatal(err)
	}

	prov, err := Username(p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Open(p, prov)
	if err != nil {
		t.Fatal(err)
	}
	p.Close()
	if _, err := b.Ptr(); err == nil {
		t.Fatal("baton usable after its pool was released")
	}
}

func TestRegistrationsReleasedOnClose(t *testing.T) {
	f := newFakeNative()
	p, err := pool.New(f.library())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	before := trampoline.Registered()
	prompt, err := SimplePrompt(p, func(realm, user string, maySave bool) (*trampoline.SimpleCred, error) {
		return nil, nil
	}, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Open(p, prompt)
	if err != nil {
		t.Fatal(err)
	}
	if trampoline.Registered() != before+1 {
		t.Fatalf("registrations = %d, want %d", trampoline.Registered(), before+1)
	}
	b.Close()
	if trampoline.Registered() != before {
		t.Fatalf("registrations after close = %d, want %d", trampoline.Registered(), before)
	}
}
