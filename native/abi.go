package native

import "unsafe"

// SvnError mirrors svn_error_t.
type SvnError struct {
	AprErr  int32
	_       int32
	Message uintptr // const char *
	Child   uintptr // svn_error_t *
	Pool    uintptr // apr_pool_t *
	File    uintptr // const char *
	Line    int64
}

// OptRevision mirrors svn_opt_revision_t. Value is the union slot
// holding either a revision number or an apr_time_t.
type OptRevision struct {
	Kind  int32
	_     int32
	Value int64
}

// VersionInfo mirrors svn_version_t.
type VersionInfo struct {
	Major int32
	Minor int32
	Patch int32
	_     int32
	Tag   uintptr // const char *
}

// ClientCtx mirrors svn_client_ctx_t. Only pointer-sized fields, set by
// svn_client_create_context2; the bridge writes the callback slots.
type ClientCtx struct {
	AuthBaton      uintptr
	NotifyFunc     uintptr
	NotifyBaton    uintptr
	LogMsgFunc     uintptr
	LogMsgBaton    uintptr
	Config         uintptr
	CancelFunc     uintptr
	CancelBaton    uintptr
	NotifyFunc2    uintptr
	NotifyBaton2   uintptr
	LogMsgFunc2    uintptr
	LogMsgBaton2   uintptr
	ProgressFunc   uintptr
	ProgressBaton  uintptr
	LogMsgFunc3    uintptr
	LogMsgBaton3   uintptr
	ClientName     uintptr
	ConflictFunc2  uintptr
	ConflictBaton2 uintptr
	WcCtx          uintptr
	CheckTunnel    uintptr
	OpenTunnel     uintptr
	TunnelBaton    uintptr
}

// AprArrayHeader mirrors apr_array_header_t.
type AprArrayHeader struct {
	Pool    uintptr
	EltSize int32
	Nelts   int32
	Nalloc  int32
	_       int32
	Elts    uintptr
}

// CommitInfoC mirrors svn_commit_info_t.
type CommitInfoC struct {
	Revision      int64
	Date          uintptr
	Author        uintptr
	PostCommitErr uintptr
	ReposRoot     uintptr
}

// WcNotify mirrors the leading fields of svn_wc_notify_t. The struct is
// only ever read, so trailing fields the bridge does not use are
// omitted.
type WcNotify struct {
	Path         uintptr
	Action       int32
	Kind         int32
	MimeType     uintptr
	Lock         uintptr
	Err          uintptr
	ContentState int32
	PropState    int32
	LockState    int32
	_            int32
	Revision     int64
}

// ClientStatus mirrors the leading fields of svn_client_status_t.
type ClientStatus struct {
	Kind          int32
	_             int32
	LocalAbspath  uintptr
	Filesize      int64
	Versioned     int32
	Conflicted    int32
	NodeStatus    int32
	TextStatus    int32
	PropStatus    int32
	WcIsLocked    int32
	Copied        int32
	_             int32
	ReposRootURL  uintptr
	ReposUUID     uintptr
	ReposRelpath  uintptr
	Revision      int64
	ChangedRev    int64
	ChangedDate   int64
	ChangedAuthor uintptr
}

// AuthCredSimple mirrors svn_auth_cred_simple_t.
type AuthCredSimple struct {
	Username uintptr
	Password uintptr
	MaySave  int32
	_        int32
}

// AuthCredSSLServerTrust mirrors svn_auth_cred_ssl_server_trust_t.
type AuthCredSSLServerTrust struct {
	MaySave          int32
	AcceptedFailures uint32
}

// RaCallbacks mirrors svn_ra_callbacks2_t. Allocated zeroed by
// svn_ra_create_callbacks; the bridge fills the slots it supports.
type RaCallbacks struct {
	OpenTmpFile       uintptr
	AuthBaton         uintptr
	GetWcProp         uintptr
	SetWcProp         uintptr
	PushWcProp        uintptr
	InvalidateWcProps uintptr
	ProgressFunc      uintptr
	ProgressBaton     uintptr
	CancelFunc        uintptr
	GetClientString   uintptr
	GetWcContents     uintptr
	CheckTunnel       uintptr
	OpenTunnel        uintptr
}

// DeltaEditor mirrors svn_delta_editor_t: a vtable of function
// pointers. Allocated via svn_delta_default_editor so unset slots keep
// their no-op defaults.
type DeltaEditor struct {
	SetTargetRevision    uintptr
	OpenRoot             uintptr
	DeleteEntry          uintptr
	AddDirectory         uintptr
	OpenDirectory        uintptr
	ChangeDirProp        uintptr
	CloseDirectory       uintptr
	AbsentDirectory      uintptr
	AddFile              uintptr
	OpenFile             uintptr
	ApplyTextdelta       uintptr
	ChangeFileProp       uintptr
	CloseFile            uintptr
	AbsentFile           uintptr
	CloseEdit            uintptr
	AbortEdit            uintptr
	ApplyTextdeltaStream uintptr
}

// SvnString mirrors svn_string_t (counted string).
type SvnString struct {
	Data uintptr
	Len  uint64
}

// Layout guards; these fail to compile if a mirror drifts on LP64.
var (
	_ [48]byte = [unsafe.Sizeof(SvnError{})]byte{}
	_ [16]byte = [unsafe.Sizeof(OptRevision{})]byte{}
	_ [32]byte = [unsafe.Sizeof(AprArrayHeader{})]byte{}
	_ [40]byte = [unsafe.Sizeof(CommitInfoC{})]byte{}
)

// ptrTo converts a raw native address to an unsafe.Pointer for mirror
// struct access. The address must point at live native memory.
func ptrTo(p uintptr) unsafe.Pointer {
	return unsafe.Pointer(p)
}

// GoString copies a NUL-terminated C string into Go memory. A zero
// pointer yields the empty string.
func GoString(p uintptr) string {
	if p == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(p + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

// PeekPtr reads a pointer-sized value at addr.
func PeekPtr(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

// PokePtr writes a pointer-sized value at addr.
func PokePtr(addr, val uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = val
}

// ArrayLongs copies an apr_array_header_t of svn_revnum_t (or any
// 64-bit integer element) into a Go slice.
func ArrayLongs(arr uintptr) []int64 {
	if arr == 0 {
		return nil
	}
	h := (*AprArrayHeader)(ptrTo(arr))
	if h.Nelts <= 0 || h.Elts == 0 {
		return nil
	}
	out := make([]int64, h.Nelts)
	copy(out, unsafe.Slice((*int64)(ptrTo(h.Elts)), h.Nelts))
	return out
}

// ArrayPtrs copies an apr_array_header_t of pointers into a Go slice.
func ArrayPtrs(arr uintptr) []uintptr {
	if arr == 0 {
		return nil
	}
	h := (*AprArrayHeader)(ptrTo(arr))
	if h.Nelts <= 0 || h.Elts == 0 {
		return nil
	}
	out := make([]uintptr, h.Nelts)
	copy(out, unsafe.Slice((*uintptr)(ptrTo(h.Elts)), h.Nelts))
	return out
}

// PeekI64 reads a 64-bit value at addr.
func PeekI64(addr uintptr) int64 {
	return *(*int64)(unsafe.Pointer(addr))
}

// PokeI64 writes a 64-bit value at addr.
func PokeI64(addr uintptr, val int64) {
	*(*int64)(unsafe.Pointer(addr)) = val
}
