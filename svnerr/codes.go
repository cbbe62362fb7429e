package svnerr

// Bridge-reserved codes. The native library never produces these; they
// identify failures synthesized on the Go side of the boundary.
const (
	CodeUseAfterRelease int32 = iota + 1
	CodeAliased
	CodePoolClosed
	CodeAllocFailed
	CodePanic
	CodeInvalidArg
)

// Native error codes the bindings and their callers match against.
// Values are fixed by svn_error_codes.h.
const (
	CodeBadURL                int32 = 125002
	CodeWCNotWorkingCopy      int32 = 155007
	CodeFSNoSuchRevision      int32 = 160006
	CodeRANotAuthorized       int32 = 170001
	CodeCancelled             int32 = 200015
	CodeAuthnCredsUnavailable int32 = 215000
	CodeAuthnFailed           int32 = 215004
)

// kindFor classifies a native code. Cancellation is a bridge concern
// (it originates from a Go callback); everything else the native
// library reports is a domain failure.
func kindFor(code int32) Kind {
	if code == CodeCancelled || (code >= CodeUseAfterRelease && code <= CodeInvalidArg) {
		return KindBridge
	}
	return KindDomain
}
