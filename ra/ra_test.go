package ra

import (
	"testing"
	"time"
	"unsafe"

	gosvn "github.com/gosvn/gosvn"
	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/svnerr"
)

type fakeNative struct {
	funcs native.Funcs
	alive [][]byte

	nextPool uintptr
	cb       *native.RaCallbacks

	openURL     string
	openBaton   uintptr
	sessionURL  string
	latest      int64
	uuid        string
	root        string
	checkedPath string
	checkedRev  int64
}

func (f *fakeNative) cstr(s string) uintptr {
	b := append([]byte(s), 0)
	f.alive = append(f.alive, b)
	return uintptr(unsafe.Pointer(&b[0]))
}

func (f *fakeNative) svnError(code int32, msg string) uintptr {
	e := &native.SvnError{AprErr: code, Message: f.cstr(msg)}
	f.alive = append(f.alive, unsafe.Slice((*byte)(unsafe.Pointer(e)), unsafe.Sizeof(*e)))
	return uintptr(unsafe.Pointer(e))
}

func newFakeNative() *fakeNative {
	f := &fakeNative{
		nextPool: 0x1000,
		latest:   100,
		uuid:     "5b63a3c8-0f33-4a33-9b5e-000000000001",
		root:     "https://svn.example.com/repo",
	}
	f.funcs = native.Funcs{
		AprInitialize: func() int32 { return 0 },
		AprPoolCreateEx: func(out *uintptr, parent, abortFn, allocator uintptr) int32 {
			f.nextPool++
			*out = f.nextPool
			return 0
		},
		AprPoolDestroy:    func(pool uintptr) {},
		SvnErrorCreate:    func(code int32, child uintptr, msg string) uintptr { return f.svnError(code, msg) },
		SvnErrorClear:     func(err uintptr) {},
		SvnDsoInitialize2: func() uintptr { return 0 },
		SvnFsInitialize:   func(pool uintptr) uintptr { return 0 },
		SvnRaInitialize:   func(pool uintptr) uintptr { return 0 },
		SvnRaCreateCallbacks: func(out *uintptr, pool uintptr) uintptr {
			f.cb = &native.RaCallbacks{}
			*out = uintptr(unsafe.Pointer(f.cb))
			return 0
		},
		SvnRaOpen5: func(session, correctedURL *uintptr, url string, uuid uintptr, callbacks, callbackBaton, config, pool uintptr) uintptr {
			f.openURL = url
			f.openBaton = callbackBaton
			f.sessionURL = url
			*session = 0x6000
			*correctedURL = 0
			return 0
		},
		SvnRaGetLatestRevnum: func(session uintptr, rev *int64, pool uintptr) uintptr {
			*rev = f.latest
			return 0
		},
		SvnRaGetUUID2: func(session uintptr, uuid *uintptr, pool uintptr) uintptr {
			*uuid = f.cstr(f.uuid)
			return 0
		},
		SvnRaGetReposRoot2: func(session uintptr, url *uintptr, pool uintptr) uintptr {
			*url = f.cstr(f.root)
			return 0
		},
		SvnRaCheckPath: func(session uintptr, path string, rev int64, kind *int32, pool uintptr) uintptr {
			f.checkedPath = path
			f.checkedRev = rev
			if path == "trunk" {
				*kind = int32(gosvn.NodeDir)
			} else {
				*kind = int32(gosvn.NodeNone)
			}
			return 0
		},
		SvnRaReparent: func(session uintptr, url string, pool uintptr) uintptr {
			if url == f.root || len(url) > len(f.root) && url[:len(f.root)] == f.root {
				f.sessionURL = url
				return 0
			}
			return f.svnError(svnerr.CodeBadURL, "different repository")
		},
		SvnRaGetDatedRevision: func(session uintptr, rev *int64, tm int64, pool uintptr) uintptr {
			*rev = 55
			return 0
		},
	}
	return f
}

func (f *fakeNative) library() *native.Library {
	return native.NewUnloaded(f.funcs)
}

func TestOpenAndQuery(t *testing.T) {
	f := newFakeNative()
	s, err := Open(f.library(), "https://svn.example.com/repo/trunk", SessionOpts{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if f.openURL != "https://svn.example.com/repo/trunk" {
		t.Fatalf("open url = %q", f.openURL)
	}
	if s.CorrectedURL() != "" {
		t.Fatalf("corrected url = %q, want empty", s.CorrectedURL())
	}

	rev, err := s.LatestRevnum()
	if err != nil || rev != 100 {
		t.Fatalf("LatestRevnum = %v, %v", rev, err)
	}
	uuid, err := s.UUID()
	if err != nil || uuid != f.uuid {
		t.Fatalf("UUID = %q, %v", uuid, err)
	}
	root, err := s.ReposRoot()
	if err != nil || root != f.root {
		t.Fatalf("ReposRoot = %q, %v", root, err)
	}
}

func TestOpenFollowsRedirect(t *testing.T) {
	f := newFakeNative()
	f.funcs.SvnRaOpen5 = func(session, correctedURL *uintptr, url string, uuid uintptr, callbacks, callbackBaton, config, pool uintptr) uintptr {
		*session = 0x6000
		*correctedURL = f.cstr("https://svn.example.com/moved")
		return 0
	}
	s, err := Open(f.library(), "https://svn.example.com/repo", SessionOpts{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.CorrectedURL() != "https://svn.example.com/moved" {
		t.Fatalf("corrected url = %q", s.CorrectedURL())
	}
}

func TestOpenWiresCallbacks(t *testing.T) {
	f := newFakeNative()
	s, err := Open(f.library(), "https://svn.example.com/repo", SessionOpts{
		Cancel:   func() error { return nil },
		Progress: func(progress, total int64) {},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if f.cb.CancelFunc == 0 {
		t.Fatal("cancel slot not wired")
	}
	if f.openBaton == 0 {
		t.Fatal("callback baton not passed to open")
	}
	if f.cb.ProgressFunc == 0 || f.cb.ProgressBaton == 0 {
		t.Fatal("progress slots not wired")
	}
}

func TestCheckPath(t *testing.T) {
	f := newFakeNative()
	s, err := Open(f.library(), "https://svn.example.com/repo", SessionOpts{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	kind, err := s.CheckPath("trunk", 100)
	if err != nil {
		t.Fatal(err)
	}
	if kind != gosvn.NodeDir {
		t.Fatalf("kind = %v, want dir", kind)
	}
	if f.checkedPath != "trunk" || f.checkedRev != 100 {
		t.Fatalf("native saw %q@%d", f.checkedPath, f.checkedRev)
	}

	kind, err = s.CheckPath("no-such", 100)
	if err != nil || kind != gosvn.NodeNone {
		t.Fatalf("missing path kind = %v, %v", kind, err)
	}
}

func TestReparent(t *testing.T) {
	f := newFakeNative()
	s, err := Open(f.library(), "https://svn.example.com/repo/trunk", SessionOpts{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Reparent("https://svn.example.com/repo/branches/1.x"); err != nil {
		t.Fatal(err)
	}
	if s.URL() != "https://svn.example.com/repo/branches/1.x" {
		t.Fatalf("url = %q", s.URL())
	}

	if err := s.Reparent("https://other.example.com/repo"); err == nil {
		t.Fatal("reparent across repositories succeeded")
	}
	if s.URL() != "https://svn.example.com/repo/branches/1.x" {
		t.Fatal("failed reparent changed the session URL")
	}
}

func TestDatedRevision(t *testing.T) {
	f := newFakeNative()
	s, err := Open(f.library(), "https://svn.example.com/repo", SessionOpts{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	rev, err := s.DatedRevision(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil || rev != 55 {
		t.Fatalf("DatedRevision = %v, %v", rev, err)
	}
}

func TestUseAfterClose(t *testing.T) {
	f := newFakeNative()
	s, err := Open(f.library(), "https://svn.example.com/repo", SessionOpts{})
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if _, err := s.LatestRevnum(); err == nil {
		t.Fatal("query succeeded on a closed session")
	}
}
