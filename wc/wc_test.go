package wc

import (
	"testing"
	"unsafe"

	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/svnerr"
)

type fakeNative struct {
	funcs native.Funcs
	alive [][]byte

	nextPool  uintptr
	destroyed int
	wcCtx     uintptr
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
	f := &fakeNative{nextPool: 0x1000}
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
		SvnWcContextCreate: func(out *uintptr, config, resultPool, scratchPool uintptr) uintptr {
			f.wcCtx = 0x7000
			*out = f.wcCtx
			return 0
		},
		SvnWcContextDestroy: func(wcCtx uintptr) uintptr {
			f.destroyed++
			return 0
		},
	}
	return f
}

func (f *fakeNative) library() *native.Library {
	return native.NewUnloaded(f.funcs)
}

func TestCheckWCReportsFormat(t *testing.T) {
	f := newFakeNative()
	f.funcs.SvnWcCheckWc2 = func(format *int32, wcCtx uintptr, localAbspath string, scratchPool uintptr) uintptr {
		if wcCtx != f.wcCtx {
			t.Errorf("wc ctx = %#x, want %#x", wcCtx, f.wcCtx)
		}
		if localAbspath != "/tmp/wc" {
			t.Errorf("path = %q", localAbspath)
		}
		*format = 31
		return 0
	}
	c, err := New(f.library())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	format, err := c.CheckWC("/tmp/wc")
	if err != nil {
		t.Fatal(err)
	}
	if format != 31 {
		t.Fatalf("format = %d, want 31", format)
	}
	ok, err := c.IsWorkingCopy("/tmp/wc")
	if err != nil || !ok {
		t.Fatalf("IsWorkingCopy = %v, %v", ok, err)
	}
}

func TestIsWorkingCopySwallowsNotWCError(t *testing.T) {
	f := newFakeNative()
	f.funcs.SvnWcCheckWc2 = func(format *int32, wcCtx uintptr, localAbspath string, scratchPool uintptr) uintptr {
		return f.svnError(svnerr.CodeWCNotWorkingCopy, "is not a working copy")
	}
	c, err := New(f.library())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ok, err := c.IsWorkingCopy("/tmp/elsewhere")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("path outside a working copy reported as versioned")
	}
}

func TestTextModified(t *testing.T) {
	f := newFakeNative()
	f.funcs.SvnWcTextModifiedP2 = func(modified *int32, wcCtx uintptr, localAbspath string, unused int32, scratchPool uintptr) uintptr {
		*modified = 1
		return 0
	}
	c, err := New(f.library())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	mod, err := c.TextModified("/tmp/wc/file.c")
	if err != nil {
		t.Fatal(err)
	}
	if !mod {
		t.Fatal("modification not reported")
	}
}

func TestConflicted(t *testing.T) {
	f := newFakeNative()
	f.funcs.SvnWcConflictedP3 = func(text, prop, tree *int32, wcCtx uintptr, localAbspath string, scratchPool uintptr) uintptr {
		*text = 1
		*tree = 1
		return 0
	}
	c, err := New(f.library())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	conflict, err := c.Conflicted("/tmp/wc/file.c")
	if err != nil {
		t.Fatal(err)
	}
	if !conflict.Text || conflict.Prop || !conflict.Tree {
		t.Fatalf("conflict = %+v", conflict)
	}
	if !conflict.Any() {
		t.Fatal("Any() = false with conflicts present")
	}
}

func TestCloseDestroysContextOnce(t *testing.T) {
	f := newFakeNative()
	c, err := New(f.library())
	if err != nil {
		t.Fatal(err)
	}
	c.Close()
	c.Close()
	if f.destroyed != 1 {
		t.Fatalf("context destroyed %d times, want 1", f.destroyed)
	}
}

func TestAdmDirHelpers(t *testing.T) {
	f := newFakeNative()
	admDir := ".svn"
	f.funcs.SvnWcIsAdmDir = func(name string, pool uintptr) int32 {
		if name == admDir || name == "_svn" {
			return 1
		}
		return 0
	}
	f.funcs.SvnWcGetAdmDir = func(pool uintptr) uintptr { return f.cstr(admDir) }
	f.funcs.SvnWcSetAdmDir = func(name string, pool uintptr) uintptr {
		if name != ".svn" && name != "_svn" {
			return f.svnError(svnerr.CodeBadURL, "not a valid administrative directory name")
		}
		admDir = name
		return 0
	}
	lib := f.library()

	if ok, err := IsAdmDir(lib, ".svn"); err != nil || !ok {
		t.Fatalf("IsAdmDir(.svn) = %v, %v", ok, err)
	}
	if ok, err := IsAdmDir(lib, "CVS"); err != nil || ok {
		t.Fatalf("IsAdmDir(CVS) = %v, %v", ok, err)
	}
	if name, err := GetAdmDir(lib); err != nil || name != ".svn" {
		t.Fatalf("GetAdmDir = %q, %v", name, err)
	}
	if err := SetAdmDir(lib, "_svn"); err != nil {
		t.Fatal(err)
	}
	if name, _ := GetAdmDir(lib); name != "_svn" {
		t.Fatalf("GetAdmDir after set = %q", name)
	}
	if err := SetAdmDir(lib, "nope"); err == nil {
		t.Fatal("invalid adm dir accepted")
	}
}
