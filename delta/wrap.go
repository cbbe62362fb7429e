package delta

import (
	"unsafe"

	"github.com/ebitengine/purego"
	gosvn "github.com/gosvn/gosvn"
	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/svnerr"
	"github.com/gosvn/gosvn/trampoline"
)

// editState is the edit-baton registration value. All panics from
// nested directory and file callbacks park here, so the caller driving
// the edit resolves them in one place.
type editState struct {
	editor Editor
	reg    *trampoline.Registration
}

type dirState struct {
	edit *editState
	dir  DirectoryEditor
	reg  *trampoline.Registration
}

type fileState struct {
	edit *editState
	file FileEditor
	reg  *trampoline.Registration
}

// NativeEditor is a svn_delta_editor_t vtable dispatching into a Go
// Editor.
type NativeEditor struct {
	state  *editState
	editor uintptr
	baton  uintptr
}

// Wrap builds the native vtable in p. The editor stays registered until
// Close; the native drive must finish before either Close or the pool's
// release.
func Wrap(ed Editor, p *pool.Pool) (*NativeEditor, error) {
	lib := p.Lib()
	ptr, err := p.Ptr()
	if err != nil {
		return nil, err
	}
	vtable := lib.SvnDeltaDefaultEditor(ptr)
	if vtable == 0 {
		return nil, svnerr.ErrAllocFailed
	}

	st := &editState{editor: ed}
	st.reg = trampoline.Register(lib, st)

	m := (*native.DeltaEditor)(unsafe.Pointer(vtable))
	m.SetTargetRevision = setTargetRevisionEntry
	m.OpenRoot = openRootEntry
	m.DeleteEntry = deleteEntryEntry
	m.AddDirectory = addDirectoryEntry
	m.OpenDirectory = openDirectoryEntry
	m.ChangeDirProp = changeDirPropEntry
	m.CloseDirectory = closeDirectoryEntry
	m.AbsentDirectory = absentDirectoryEntry
	m.AddFile = addFileEntry
	m.OpenFile = openFileEntry
	m.ApplyTextdelta = applyTextdeltaEntry
	m.ChangeFileProp = changeFilePropEntry
	m.CloseFile = closeFileEntry
	m.AbsentFile = absentFileEntry
	m.CloseEdit = closeEditEntry
	m.AbortEdit = abortEditEntry

	return &NativeEditor{state: st, editor: vtable, baton: st.reg.Baton()}, nil
}

// Ptr returns the native vtable pointer.
func (n *NativeEditor) Ptr() uintptr { return n.editor }

// Baton returns the edit baton to pass alongside the vtable.
func (n *NativeEditor) Baton() uintptr { return n.baton }

// Resolve folds panics parked during the drive into the native call's
// outcome.
func (n *NativeEditor) Resolve(callErr error) error {
	return n.state.reg.Resolve(callErr)
}

// Close releases the edit registration. Call after the native drive has
// fully returned.
func (n *NativeEditor) Close() {
	n.state.reg.Close()
}

// C-callable vtable slots, created once.
var (
	setTargetRevisionEntry = purego.NewCallback(setTargetRevision)
	openRootEntry          = purego.NewCallback(openRoot)
	deleteEntryEntry       = purego.NewCallback(deleteEntry)
	addDirectoryEntry      = purego.NewCallback(addDirectory)
	openDirectoryEntry     = purego.NewCallback(openDirectory)
	changeDirPropEntry     = purego.NewCallback(changeDirProp)
	closeDirectoryEntry    = purego.NewCallback(closeDirectory)
	absentDirectoryEntry   = purego.NewCallback(absentDirectory)
	addFileEntry           = purego.NewCallback(addFile)
	openFileEntry          = purego.NewCallback(openFile)
	applyTextdeltaEntry    = purego.NewCallback(applyTextdelta)
	changeFilePropEntry    = purego.NewCallback(changeFileProp)
	closeFileEntry         = purego.NewCallback(closeFile)
	absentFileEntry        = purego.NewCallback(absentFile)
	closeEditEntry         = purego.NewCallback(closeEdit)
	abortEditEntry         = purego.NewCallback(abortEdit)
	discardWindowEntry     = purego.NewCallback(discardWindow)
)

// discardWindow is an svn_txdelta_window_handler_t that accepts every
// window, including the final NULL, and drops it. Some drivers invoke
// the handler returned by apply_textdelta without checking for NULL,
// so a real function pointer goes back instead of one.
func discardWindow(window, baton uintptr) uintptr { return 0 }

func editOf(baton uintptr) (*trampoline.Registration, *editState) {
	r := trampoline.Lookup(baton)
	if r == nil {
		return nil, nil
	}
	st, _ := r.Value().(*editState)
	return r, st
}

func dirOf(baton uintptr) (*trampoline.Registration, *dirState) {
	r := trampoline.Lookup(baton)
	if r == nil {
		return nil, nil
	}
	st, _ := r.Value().(*dirState)
	return r, st
}

func fileOf(baton uintptr) (*trampoline.Registration, *fileState) {
	r := trampoline.Lookup(baton)
	if r == nil {
		return nil, nil
	}
	st, _ := r.Value().(*fileState)
	return r, st
}

// propValue copies an optional svn_string_t. NULL means deletion and
// maps to nil.
func propValue(value uintptr) []byte {
	if value == 0 {
		return nil
	}
	s := (*native.SvnString)(unsafe.Pointer(value))
	if s.Len == 0 {
		return []byte{}
	}
	out := make([]byte, s.Len)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(s.Data)), s.Len))
	return out
}

func setTargetRevision(editBaton uintptr, rev int64, scratchPool uintptr) (ret uintptr) {
	r, st := editOf(editBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.reg.Contain(v)
		}
	}()
	return r.NativeError(st.editor.SetTargetRevision(gosvn.Revnum(rev)))
}

func openRoot(editBaton uintptr, baseRev int64, resultPool, rootBaton uintptr) (ret uintptr) {
	r, st := editOf(editBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.reg.Contain(v)
		}
	}()
	dir, err := st.editor.OpenRoot(gosvn.Revnum(baseRev))
	if err != nil {
		return r.NativeError(err)
	}
	child := &dirState{edit: st, dir: dir}
	child.reg = trampoline.Register(r.Lib(), child)
	native.PokePtr(rootBaton, child.reg.Baton())
	return 0
}

func deleteEntry(path uintptr, rev int64, parentBaton, scratchPool uintptr) (ret uintptr) {
	r, st := dirOf(parentBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	return r.NativeError(st.dir.DeleteEntry(native.GoString(path), gosvn.Revnum(rev)))
}

func addDirectory(path, parentBaton, copyfromPath uintptr, copyfromRev int64, resultPool, childBaton uintptr) (ret uintptr) {
	r, st := dirOf(parentBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	dir, err := st.dir.AddDirectory(native.GoString(path), native.GoString(copyfromPath), gosvn.Revnum(copyfromRev))
	if err != nil {
		return r.NativeError(err)
	}
	child := &dirState{edit: st.edit, dir: dir}
	child.reg = trampoline.Register(r.Lib(), child)
	native.PokePtr(childBaton, child.reg.Baton())
	return 0
}

func openDirectory(path, parentBaton uintptr, baseRev int64, resultPool, childBaton uintptr) (ret uintptr) {
	r, st := dirOf(parentBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	dir, err := st.dir.OpenDirectory(native.GoString(path), gosvn.Revnum(baseRev))
	if err != nil {
		return r.NativeError(err)
	}
	child := &dirState{edit: st.edit, dir: dir}
	child.reg = trampoline.Register(r.Lib(), child)
	native.PokePtr(childBaton, child.reg.Baton())
	return 0
}

func changeDirProp(dirBaton, name, value, scratchPool uintptr) (ret uintptr) {
	r, st := dirOf(dirBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	return r.NativeError(st.dir.ChangeProp(native.GoString(name), propValue(value)))
}

func closeDirectory(dirBaton, scratchPool uintptr) (ret uintptr) {
	r, st := dirOf(dirBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	err := st.dir.Close()
	st.reg.Close()
	return r.NativeError(err)
}

func absentDirectory(path, parentBaton, scratchPool uintptr) (ret uintptr) {
	r, st := dirOf(parentBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	return r.NativeError(st.dir.AbsentDirectory(native.GoString(path)))
}

func addFile(path, parentBaton, copyfromPath uintptr, copyfromRev int64, resultPool, fileBaton uintptr) (ret uintptr) {
	r, st := dirOf(parentBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	file, err := st.dir.AddFile(native.GoString(path), native.GoString(copyfromPath), gosvn.Revnum(copyfromRev))
	if err != nil {
		return r.NativeError(err)
	}
	child := &fileState{edit: st.edit, file: file}
	child.reg = trampoline.Register(r.Lib(), child)
	native.PokePtr(fileBaton, child.reg.Baton())
	return 0
}

func openFile(path, parentBaton uintptr, baseRev int64, resultPool, fileBaton uintptr) (ret uintptr) {
	r, st := dirOf(parentBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	file, err := st.dir.OpenFile(native.GoString(path), gosvn.Revnum(baseRev))
	if err != nil {
		return r.NativeError(err)
	}
	child := &fileState{edit: st.edit, file: file}
	child.reg = trampoline.Register(r.Lib(), child)
	native.PokePtr(fileBaton, child.reg.Baton())
	return 0
}

func applyTextdelta(fileBaton, baseChecksum, resultPool, handlerOut, handlerBatonOut uintptr) (ret uintptr) {
	r, st := fileOf(fileBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	if err := st.file.ApplyTextDelta(native.GoString(baseChecksum)); err != nil {
		return r.NativeError(err)
	}
	native.PokePtr(handlerOut, discardWindowEntry)
	native.PokePtr(handlerBatonOut, 0)
	return 0
}

func changeFileProp(fileBaton, name, value, scratchPool uintptr) (ret uintptr) {
	r, st := fileOf(fileBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	return r.NativeError(st.file.ChangeProp(native.GoString(name), propValue(value)))
}

func closeFile(fileBaton, textChecksum, scratchPool uintptr) (ret uintptr) {
	r, st := fileOf(fileBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	err := st.file.Close(native.GoString(textChecksum))
	st.reg.Close()
	return r.NativeError(err)
}

func absentFile(path, parentBaton, scratchPool uintptr) (ret uintptr) {
	r, st := dirOf(parentBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.edit.reg.Contain(v)
		}
	}()
	return r.NativeError(st.dir.AbsentFile(native.GoString(path)))
}

func closeEdit(editBaton, scratchPool uintptr) (ret uintptr) {
	r, st := editOf(editBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.reg.Contain(v)
		}
	}()
	return r.NativeError(st.editor.CloseEdit())
}

func abortEdit(editBaton, scratchPool uintptr) (ret uintptr) {
	r, st := editOf(editBaton)
	if st == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = st.reg.Contain(v)
		}
	}()
	return r.NativeError(st.editor.AbortEdit())
}
