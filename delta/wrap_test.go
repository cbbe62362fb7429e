package delta

import (
	"errors"
	"fmt"
	"testing"
	"unsafe"

	gosvn "github.com/gosvn/gosvn"
	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/svnerr"
	"github.com/gosvn/gosvn/trampoline"
)

type fakeNative struct {
	funcs native.Funcs
	alive [][]byte

	nextPool uintptr
}

func (f *fakeNative) cstr(s string) uintptr {
	b := append([]byte(s), 0)
	f.alive = append(f.alive, b)
	return uintptr(unsafe.Pointer(&b[0]))
}

func newFakeNative() *fakeNative {
	f := &fakeNative{nextPool: 0x1000}
	f.funcs = native.Funcs{
		AprPoolCreateEx: func(out *uintptr, parent, abortFn, allocator uintptr) int32 {
			f.nextPool++
			*out = f.nextPool
			return 0
		},
		AprPoolDestroy: func(pool uintptr) {},
		SvnErrorCreate: func(code int32, child uintptr, msg string) uintptr {
			e := &native.SvnError{AprErr: code, Message: f.cstr(msg)}
			f.alive = append(f.alive, unsafe.Slice((*byte)(unsafe.Pointer(e)), unsafe.Sizeof(*e)))
			return uintptr(unsafe.Pointer(e))
		},
		SvnErrorClear: func(err uintptr) {},
		SvnDeltaDefaultEditor: func(pool uintptr) uintptr {
			v := &native.DeltaEditor{}
			f.alive = append(f.alive, unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v)))
			return uintptr(unsafe.Pointer(v))
		},
	}
	return f
}

// logEditor records every callback in order.
type logEditor struct {
	events  *[]string
	failAt  string
	panicAt string
}

func (e *logEditor) hit(ev string) error {
	*e.events = append(*e.events, ev)
	if e.panicAt == ev {
		panic("editor exploded at " + ev)
	}
	if e.failAt == ev {
		return svnerr.New(svnerr.KindDomain, svnerr.CodeFSNoSuchRevision, "no such revision")
	}
	return nil
}

func (e *logEditor) SetTargetRevision(rev gosvn.Revnum) error {
	return e.hit(fmt.Sprintf("set-target-revision %s", rev))
}

func (e *logEditor) OpenRoot(baseRev gosvn.Revnum) (DirectoryEditor, error) {
	if err := e.hit("open-root"); err != nil {
		return nil, err
	}
	return &logDir{ed: e, path: ""}, nil
}

func (e *logEditor) CloseEdit() error { return e.hit("close-edit") }
func (e *logEditor) AbortEdit() error { return e.hit("abort-edit") }

type logDir struct {
	ed   *logEditor
	path string
}

func (d *logDir) DeleteEntry(path string, rev gosvn.Revnum) error {
	return d.ed.hit("delete " + path)
}

func (d *logDir) AddDirectory(path, copyfromPath string, copyfromRev gosvn.Revnum) (DirectoryEditor, error) {
	if err := d.ed.hit("add-dir " + path); err != nil {
		return nil, err
	}
	return &logDir{ed: d.ed, path: path}, nil
}

func (d *logDir) OpenDirectory(path string, baseRev gosvn.Revnum) (DirectoryEditor, error) {
	if err := d.ed.hit("open-dir " + path); err != nil {
		return nil, err
	}
	return &logDir{ed: d.ed, path: path}, nil
}

func (d *logDir) AbsentDirectory(path string) error { return d.ed.hit("absent-dir " + path) }

func (d *logDir) AddFile(path, copyfromPath string, copyfromRev gosvn.Revnum) (FileEditor, error) {
	if err := d.ed.hit("add-file " + path); err != nil {
		return nil, err
	}
	return &logFile{ed: d.ed, path: path}, nil
}

func (d *logDir) OpenFile(path string, baseRev gosvn.Revnum) (FileEditor, error) {
	if err := d.ed.hit("open-file " + path); err != nil {
		return nil, err
	}
	return &logFile{ed: d.ed, path: path}, nil
}

func (d *logDir) AbsentFile(path string) error { return d.ed.hit("absent-file " + path) }

func (d *logDir) ChangeProp(name string, value []byte) error {
	return d.ed.hit(fmt.Sprintf("dir-prop %s=%s", name, value))
}

func (d *logDir) Close() error { return d.ed.hit("close-dir " + d.path) }

type logFile struct {
	ed   *logEditor
	path string
}

func (f *logFile) ApplyTextDelta(baseChecksum string) error {
	return f.ed.hit("textdelta " + f.path)
}

func (f *logFile) ChangeProp(name string, value []byte) error {
	return f.ed.hit(fmt.Sprintf("file-prop %s=%s", name, value))
}

func (f *logFile) Close(textChecksum string) error { return f.ed.hit("close-file " + f.path) }

// drive plays a small canonical edit against the wrapped editor the way
// the native library would, calling the in-package slot functions.
func drive(t *testing.T, f *fakeNative, ne *NativeEditor) uintptr {
	t.Helper()

	if ret := setTargetRevision(ne.Baton(), 3, 0); ret != 0 {
		return ret
	}
	var root uintptr
	if ret := openRoot(ne.Baton(), 2, 0, uintptr(unsafe.Pointer(&root))); ret != 0 {
		return ret
	}
	var dir uintptr
	if ret := addDirectory(f.cstr("docs"), root, 0, -1, 0, uintptr(unsafe.Pointer(&dir))); ret != 0 {
		return ret
	}
	var file uintptr
	if ret := addFile(f.cstr("docs/README"), dir, 0, -1, 0, uintptr(unsafe.Pointer(&file))); ret != 0 {
		return ret
	}
	var handler, handlerBaton uintptr
	if ret := applyTextdelta(file, 0, 0, uintptr(unsafe.Pointer(&handler)), uintptr(unsafe.Pointer(&handlerBaton))); ret != 0 {
		return ret
	}
	// Drivers may call the returned handler without a NULL check, so a
	// real discarding handler must come back.
	if handler != discardWindowEntry {
		t.Fatalf("apply_textdelta handler = %#x, want the discarding handler", handler)
	}
	if ret := discardWindow(0, handlerBaton); ret != 0 {
		return ret
	}
	propVal := []byte("native")
	sv := native.SvnString{Data: uintptr(unsafe.Pointer(&propVal[0])), Len: uint64(len(propVal))}
	if ret := changeFileProp(file, f.cstr("svn:eol-style"), uintptr(unsafe.Pointer(&sv)), 0); ret != 0 {
		return ret
	}
	if ret := closeFile(file, 0, 0); ret != 0 {
		return ret
	}
	if ret := closeDirectory(dir, 0); ret != 0 {
		return ret
	}
	if ret := closeDirectory(root, 0); ret != 0 {
		return ret
	}
	return closeEdit(ne.Baton(), 0)
}

func TestDriveDispatchesInOrder(t *testing.T) {
	f := newFakeNative()
	lib := native.NewUnloaded(f.funcs)
	p, err := pool.New(lib)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	before := trampoline.Registered()
	var events []string
	ne, err := Wrap(&logEditor{events: &events}, p)
	if err != nil {
		t.Fatal(err)
	}

	if ret := drive(t, f, ne); ret != 0 {
		t.Fatalf("drive returned native error %#x", ret)
	}
	if err := ne.Resolve(nil); err != nil {
		t.Fatal(err)
	}
	ne.Close()

	want := []string{
		"set-target-revision 3",
		"open-root",
		"add-dir docs",
		"add-file docs/README",
		"textdelta docs/README",
		"file-prop svn:eol-style=native",
		"close-file docs/README",
		"close-dir docs",
		"close-dir ",
		"close-edit",
	}
	if len(events) != len(want) {
		t.Fatalf("events = %q", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event[%d] = %q, want %q", i, events[i], want[i])
		}
	}

	if got := trampoline.Registered(); got != before {
		t.Fatalf("registrations leaked: %d, want %d", got, before)
	}
}

func TestEditorErrorStopsDrive(t *testing.T) {
	f := newFakeNative()
	lib := native.NewUnloaded(f.funcs)
	p, err := pool.New(lib)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	var events []string
	ne, err := Wrap(&logEditor{events: &events, failAt: "add-file docs/README"}, p)
	if err != nil {
		t.Fatal(err)
	}
	defer ne.Close()

	ret := drive(t, f, ne)
	if ret == 0 {
		t.Fatal("drive succeeded past a failing editor")
	}
	e := (*native.SvnError)(unsafe.Pointer(ret))
	if e.AprErr != svnerr.CodeFSNoSuchRevision {
		t.Fatalf("native error code = %d", e.AprErr)
	}
	if events[len(events)-1] != "add-file docs/README" {
		t.Fatalf("last event = %q", events[len(events)-1])
	}
}

func TestEditorPanicIsContained(t *testing.T) {
	f := newFakeNative()
	lib := native.NewUnloaded(f.funcs)
	p, err := pool.New(lib)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	var events []string
	ne, err := Wrap(&logEditor{events: &events, panicAt: "textdelta docs/README"}, p)
	if err != nil {
		t.Fatal(err)
	}
	defer ne.Close()

	ret := drive(t, f, ne)
	if ret == 0 {
		t.Fatal("panic did not abort the drive")
	}
	e := (*native.SvnError)(unsafe.Pointer(ret))
	if e.AprErr != svnerr.CodeCancelled {
		t.Fatalf("containment code = %d, want cancellation", e.AprErr)
	}

	err = ne.Resolve(svnerr.Translate(lib, ret))
	var se *svnerr.Error
	if !errors.As(err, &se) || se.Code != svnerr.CodePanic {
		t.Fatalf("Resolve = %v, want panic error", err)
	}
}

func TestPropDeletionMapsToNil(t *testing.T) {
	if got := propValue(0); got != nil {
		t.Fatalf("propValue(NULL) = %v, want nil", got)
	}
	empty := native.SvnString{}
	if got := propValue(uintptr(unsafe.Pointer(&empty))); got == nil || len(got) != 0 {
		t.Fatalf("propValue(empty) = %v, want empty non-nil", got)
	}
}
