// Package gosvn provides Go bindings for the Subversion client libraries.
//
// The bindings load libsvn_client and its companion libraries at runtime
// (no cgo) and expose a safe, pool-scoped object model over the C API.
// The library is organized into several packages with distinct
// responsibilities:
//
//	gosvn/          Root package with shared domain types (Revision, Depth, ...)
//	├── native/     Shared-library loading, symbol resolution, C ABI mirrors
//	├── pool/       APR pool (arena) lifecycle management
//	├── handle/     Pool-scoped typed capabilities over native pointers
//	├── trampoline/ Native-to-Go callback dispatch with panic containment
//	├── svnerr/     Native error chain translation
//	├── client/     svn_client_* operations (checkout, update, commit, ...)
//	├── wc/         Working copy inspection
//	├── repos/      Local repository administration
//	├── ra/         Repository access sessions
//	├── delta/      Tree delta editor bridging
//	├── auth/       Authentication providers
//	└── uri/        URL/path canonicalization helpers
//
// # Quick Start
//
//	lib, err := native.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, err := client.New(lib)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	rev, err := ctx.Checkout("https://example.org/repo/trunk", "trunk",
//	    client.CheckoutOpts{Revision: gosvn.Head, Depth: gosvn.DepthInfinity})
//
// # Memory Model
//
// Every native allocation is served from an APR pool. A pool.Pool owns a
// native arena; closing it releases everything allocated from it and from
// every child pool in one step. Values handed back to callers are either
// copied into Go memory before the backing pool dies, or wrapped in a
// handle.Handle tied to a caller-owned pool.
//
// Pools are not safe for concurrent mutation. Run concurrent operations
// on separate pools; never share a pool across goroutines.
//
// # Errors
//
// Operations return either a svnerr.Error with Kind svnerr.KindDomain
// (the native library reported a failure; the numeric code and full cause
// chain are preserved) or Kind svnerr.KindBridge (pool/handle misuse,
// allocation failure, cancellation, a panic captured in a callback).
package gosvn
