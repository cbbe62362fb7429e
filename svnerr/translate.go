package svnerr

import (
	"fmt"
	"unsafe"

	"github.com/gosvn/gosvn/native"
)

// Translate converts a native svn_error_t chain into a Go error and
// disposes of the native object. A zero pointer means success and
// yields nil; anything else yields a chain with at least one entry.
//
// Native error objects own their own pool, independent of any operation
// pool, so svn_error_clear here is the only thing that frees them.
func Translate(lib *native.Library, raw uintptr) error {
	if raw == 0 {
		return nil
	}
	root := buildChain(raw)
	lib.SvnErrorClear(raw)
	return root
}

func buildChain(raw uintptr) *Error {
	c := (*native.SvnError)(unsafe.Pointer(raw))
	e := &Error{
		Kind:    kindFor(c.AprErr),
		Code:    c.AprErr,
		Message: native.GoString(c.Message),
	}
	if e.Message == "" {
		// Tracing links and a few native call sites carry no message.
		e.Message = fmt.Sprintf("subversion error %d", c.AprErr)
	}
	if c.Child != 0 {
		e.Cause = buildChain(c.Child)
	}
	return e
}
