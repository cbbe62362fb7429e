package native

// Funcs is the table of native entry points the bindings call. Load
// resolves every field; NewUnloaded lets tests provide pure-Go
// implementations.
//
// Pointer-typed C parameters appear as uintptr unless purego can
// marshal them directly (strings, out-pointers to scalars).
type Funcs struct {
	// APR
	AprInitialize   func() int32
	AprPoolCreateEx func(out *uintptr, parent, abortFn, allocator uintptr) int32
	AprPoolDestroy  func(pool uintptr)
	AprPstrdup      func(pool uintptr, s string) uintptr
	AprPalloc       func(pool uintptr, size uint64) uintptr
	AprArrayMake    func(pool uintptr, nelts, eltSize int32) uintptr
	AprArrayPush    func(arr uintptr) uintptr

	// libsvn_subr
	SvnErrorCreate     func(code int32, child uintptr, msg string) uintptr
	SvnErrorClear      func(err uintptr)
	SvnDsoInitialize2  func() uintptr
	SvnStreamCreate    func(baton, pool uintptr) uintptr
	SvnStreamSetWrite  func(stream, writeFn uintptr)
	SvnUriCanonicalize func(uri string, pool uintptr) uintptr
	SvnUriIsCanonical  func(uri string, pool uintptr) int32
	SvnUriBasename     func(uri string, pool uintptr) uintptr
	SvnUriDirname      func(uri string, pool uintptr) uintptr
	SvnPathIsURL       func(path string) int32

	SvnAuthOpen                            func(out *uintptr, providers, pool uintptr)
	SvnAuthGetSimplePromptProvider         func(out *uintptr, promptFn, baton uintptr, retries int32, pool uintptr)
	SvnAuthGetSimpleProvider2              func(out *uintptr, plaintextFn, baton, pool uintptr)
	SvnAuthGetUsernameProvider             func(out *uintptr, pool uintptr)
	SvnAuthGetSSLServerTrustFileProvider   func(out *uintptr, pool uintptr)
	SvnAuthGetSSLServerTrustPromptProvider func(out *uintptr, promptFn, baton, pool uintptr)

	// libsvn_fs / libsvn_ra init
	SvnFsInitialize func(pool uintptr) uintptr
	SvnRaInitialize func(pool uintptr) uintptr

	// libsvn_ra
	SvnRaCreateCallbacks  func(out *uintptr, pool uintptr) uintptr
	SvnRaOpen5            func(session, correctedURL *uintptr, url string, uuid uintptr, callbacks, callbackBaton, config, pool uintptr) uintptr
	SvnRaGetLatestRevnum  func(session uintptr, rev *int64, pool uintptr) uintptr
	SvnRaGetUUID2         func(session uintptr, uuid *uintptr, pool uintptr) uintptr
	SvnRaGetReposRoot2    func(session uintptr, url *uintptr, pool uintptr) uintptr
	SvnRaCheckPath        func(session uintptr, path string, rev int64, kind *int32, pool uintptr) uintptr
	SvnRaReparent         func(session uintptr, url string, pool uintptr) uintptr
	SvnRaGetDatedRevision func(session uintptr, rev *int64, tm int64, pool uintptr) uintptr

	// libsvn_client
	SvnClientVersion        func() uintptr
	SvnClientCreateContext2 func(out *uintptr, config, pool uintptr) uintptr
	SvnClientCheckout3      func(rev *int64, url, path string, pegRevision, revision uintptr, depth, ignoreExternals, allowUnverObstructions int32, ctx, pool uintptr) uintptr
	SvnClientUpdate4        func(resultRevs *uintptr, paths, revision uintptr, depth, depthIsSticky, ignoreExternals, allowUnverObstructions, addsAsModification, makeParents int32, ctx, pool uintptr) uintptr
	SvnClientCommit6        func(targets uintptr, depth, keepLocks, keepChangelists, commitAsOperations, includeFileExternals, includeDirExternals int32, changelists, revpropTable, commitCallback, commitBaton, ctx, pool uintptr) uintptr
	SvnClientAdd5           func(path string, depth, force, noIgnore, noAutoprops, addParents int32, ctx, pool uintptr) uintptr
	SvnClientCat3           func(props *uintptr, out uintptr, pathOrURL string, pegRevision, revision uintptr, expandKeywords int32, ctx, resultPool, scratchPool uintptr) uintptr
	SvnClientStatus6        func(resultRev *int64, ctx uintptr, path string, revision uintptr, depth, getAll, checkOutOfDate, checkWorkingCopy, noIgnore, ignoreExternals, depthAsSticky int32, changelists, statusFunc, statusBaton, scratchPool uintptr) uintptr

	// libsvn_wc
	SvnWcContextCreate  func(out *uintptr, config, resultPool, scratchPool uintptr) uintptr
	SvnWcContextDestroy func(wcCtx uintptr) uintptr
	SvnWcCheckWc2       func(format *int32, wcCtx uintptr, localAbspath string, scratchPool uintptr) uintptr
	SvnWcTextModifiedP2 func(modified *int32, wcCtx uintptr, localAbspath string, unused int32, scratchPool uintptr) uintptr
	SvnWcConflictedP3   func(textConflicted, propConflicted, treeConflicted *int32, wcCtx uintptr, localAbspath string, scratchPool uintptr) uintptr
	SvnWcIsAdmDir       func(name string, pool uintptr) int32
	SvnWcGetAdmDir      func(pool uintptr) uintptr
	SvnWcSetAdmDir      func(name string, pool uintptr) uintptr

	// libsvn_repos
	SvnReposCreate        func(out *uintptr, path string, unused1, unused2, config, fsConfig, pool uintptr) uintptr
	SvnReposOpen3         func(out *uintptr, path string, fsConfig, resultPool, scratchPool uintptr) uintptr
	SvnReposDelete        func(path string, pool uintptr) uintptr
	SvnReposFindRootPath  func(path string, pool uintptr) uintptr
	SvnReposPath          func(repos, pool uintptr) uintptr
	SvnReposHasCapability func(repos uintptr, has *int32, capability string, pool uintptr) uintptr

	// libsvn_delta
	SvnDeltaDefaultEditor func(pool uintptr) uintptr
}
