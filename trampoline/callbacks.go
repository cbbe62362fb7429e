package trampoline

import (
	"unsafe"

	"github.com/ebitengine/purego"
	gosvn "github.com/gosvn/gosvn"
	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/svnerr"
)

// Closure types accepted by Register for the generic callback slots.
// Editor slots live in the delta package.
type (
	// CancelFunc is polled by long-running native operations. A
	// non-nil return aborts the operation.
	CancelFunc func() error

	// NotifyFunc receives progress notifications. The Notify value is
	// fully copied; it is safe to retain.
	NotifyFunc func(gosvn.Notify)

	// ProgressFunc receives network byte counts. total is -1 when
	// unknown.
	ProgressFunc func(progress, total int64)

	// LogMessageFunc produces the commit log message.
	LogMessageFunc func() (string, error)

	// CommitFunc receives info for each committed revision.
	CommitFunc func(gosvn.CommitInfo) error

	// StatusFunc receives one working-copy status entry per item. The
	// native struct is only valid for the duration of the call.
	StatusFunc func(path string, status *native.ClientStatus) error

	// StreamWriteFunc consumes data written to a bridged stream.
	StreamWriteFunc func(p []byte) error

	// SimpleCred is a username/password credential produced by a
	// SimplePromptFunc.
	SimpleCred struct {
		Username string
		Password string
		MaySave  bool
	}

	// SimplePromptFunc supplies simple credentials for a realm.
	// Returning (nil, nil) declines, letting the native library try
	// the next provider or fail with an authentication error.
	SimplePromptFunc func(realm, username string, maySave bool) (*SimpleCred, error)

	// SSLServerTrustPromptFunc decides whether to trust a server
	// certificate with the given failure bits. Returning accept=false
	// declines.
	SSLServerTrustPromptFunc func(realm string, failures uint32) (accept, save bool, err error)
)

// C-callable entry points, created once. Pass these as the native
// function pointer alongside a Registration's baton.
var (
	CancelEntry               = purego.NewCallback(cancelTrampoline)
	NotifyEntry               = purego.NewCallback(notifyTrampoline)
	ProgressEntry             = purego.NewCallback(progressTrampoline)
	LogMessageEntry           = purego.NewCallback(logMessageTrampoline)
	CommitEntry               = purego.NewCallback(commitTrampoline)
	StatusEntry               = purego.NewCallback(statusTrampoline)
	StreamWriteEntry          = purego.NewCallback(streamWriteTrampoline)
	SimplePromptEntry         = purego.NewCallback(simplePromptTrampoline)
	SSLServerTrustPromptEntry = purego.NewCallback(sslServerTrustPromptTrampoline)
)

// NativeError converts a closure's error return into a native error
// object, honoring the code of a structured error so it round-trips
// through the native call. nil maps to SVN_NO_ERROR.
func (r *Registration) NativeError(err error) uintptr {
	if err == nil {
		return 0
	}
	if se, ok := err.(*svnerr.Error); ok {
		return r.lib.SvnErrorCreate(se.Code, 0, se.Message)
	}
	return r.lib.SvnErrorCreate(svnerr.CodeCancelled, 0, err.Error())
}

// Contain parks a recovered panic on the registration and returns the
// native cancellation that aborts the surrounding operation without
// unwinding across C frames.
func (r *Registration) Contain(recovered any) uintptr {
	r.park(recovered)
	return r.lib.SvnErrorCreate(svnerr.CodeCancelled, 0, "callback panicked")
}

func errOut(r *Registration, err error) uintptr { return r.NativeError(err) }

func contain(r *Registration, recovered any) uintptr { return r.Contain(recovered) }

func cancelTrampoline(baton uintptr) (ret uintptr) {
	r := lookup(baton)
	if r == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = contain(r, v)
		}
	}()
	fn := r.value.(CancelFunc)
	return errOut(r, fn())
}

func notifyTrampoline(baton, notify, pool uintptr) (ret uintptr) {
	r := lookup(baton)
	if r == nil || notify == 0 {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			contain(r, v)
			ret = 0 // slot returns void; the panic surfaces via Resolve
		}
	}()
	n := (*native.WcNotify)(unsafe.Pointer(notify))
	fn := r.value.(NotifyFunc)
	fn(gosvn.Notify{
		Path:     native.GoString(n.Path),
		Action:   gosvn.NotifyAction(n.Action),
		Kind:     gosvn.NodeKind(n.Kind),
		Revision: gosvn.Revnum(n.Revision),
	})
	return 0
}

func progressTrampoline(progress, total int64, baton, pool uintptr) (ret uintptr) {
	r := lookup(baton)
	if r == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			contain(r, v)
			ret = 0
		}
	}()
	fn := r.value.(ProgressFunc)
	fn(progress, total)
	return 0
}

func logMessageTrampoline(logMsgOut, tmpFileOut, commitItems, baton, pool uintptr) (ret uintptr) {
	r := lookup(baton)
	if r == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = contain(r, v)
		}
	}()
	fn := r.value.(LogMessageFunc)
	msg, err := fn()
	if err != nil {
		return errOut(r, err)
	}
	native.PokePtr(logMsgOut, r.lib.AprPstrdup(pool, msg))
	if tmpFileOut != 0 {
		native.PokePtr(tmpFileOut, 0)
	}
	return 0
}

func commitTrampoline(commitInfo, baton, pool uintptr) (ret uintptr) {
	r := lookup(baton)
	if r == nil || commitInfo == 0 {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = contain(r, v)
		}
	}()
	ci := (*native.CommitInfoC)(unsafe.Pointer(commitInfo))
	fn := r.value.(CommitFunc)
	return errOut(r, fn(gosvn.CommitInfo{
		Revision:      gosvn.Revnum(ci.Revision),
		Date:          native.GoString(ci.Date),
		Author:        native.GoString(ci.Author),
		PostCommitErr: native.GoString(ci.PostCommitErr),
		ReposRoot:     native.GoString(ci.ReposRoot),
	}))
}

func statusTrampoline(baton, path, status, pool uintptr) (ret uintptr) {
	r := lookup(baton)
	if r == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = contain(r, v)
		}
	}()
	fn := r.value.(StatusFunc)
	return errOut(r, fn(native.GoString(path), (*native.ClientStatus)(unsafe.Pointer(status))))
}

func streamWriteTrampoline(baton, data, lenPtr uintptr) (ret uintptr) {
	r := lookup(baton)
	if r == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = contain(r, v)
		}
	}()
	n := *(*uint64)(unsafe.Pointer(lenPtr))
	var p []byte
	if n > 0 && data != 0 {
		p = unsafe.Slice((*byte)(unsafe.Pointer(data)), n)
	}
	fn := r.value.(StreamWriteFunc)
	if err := fn(p); err != nil {
		return errOut(r, err)
	}
	// Full write; *len already holds the consumed count.
	return 0
}

func simplePromptTrampoline(credOut, baton, realm, username uintptr, maySave int32, pool uintptr) (ret uintptr) {
	r := lookup(baton)
	if r == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = contain(r, v)
		}
	}()
	fn := r.value.(SimplePromptFunc)
	cred, err := fn(native.GoString(realm), native.GoString(username), maySave != 0)
	if err != nil {
		return errOut(r, err)
	}
	if cred == nil {
		native.PokePtr(credOut, 0)
		return 0
	}
	c := r.lib.AprPalloc(pool, uint64(unsafe.Sizeof(native.AuthCredSimple{})))
	if c == 0 {
		return errOut(r, svnerr.ErrAllocFailed)
	}
	out := (*native.AuthCredSimple)(unsafe.Pointer(c))
	out.Username = r.lib.AprPstrdup(pool, cred.Username)
	out.Password = r.lib.AprPstrdup(pool, cred.Password)
	if cred.MaySave {
		out.MaySave = 1
	} else {
		out.MaySave = 0
	}
	native.PokePtr(credOut, c)
	return 0
}

func sslServerTrustPromptTrampoline(credOut, baton, realm uintptr, failures uint32, certInfo uintptr, maySave int32, pool uintptr) (ret uintptr) {
	r := lookup(baton)
	if r == nil {
		return 0
	}
	defer func() {
		if v := recover(); v != nil {
			ret = contain(r, v)
		}
	}()
	fn := r.value.(SSLServerTrustPromptFunc)
	accept, save, err := fn(native.GoString(realm), failures)
	if err != nil {
		return errOut(r, err)
	}
	if !accept {
		native.PokePtr(credOut, 0)
		return 0
	}
	c := r.lib.AprPalloc(pool, uint64(unsafe.Sizeof(native.AuthCredSSLServerTrust{})))
	if c == 0 {
		return errOut(r, svnerr.ErrAllocFailed)
	}
	out := (*native.AuthCredSSLServerTrust)(unsafe.Pointer(c))
	if save && maySave != 0 {
		out.MaySave = 1
	}
	out.AcceptedFailures = failures
	native.PokePtr(credOut, c)
	return 0
}
