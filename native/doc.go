// Package native loads the Subversion shared libraries and exposes the
// raw C entry points the rest of the bindings are built on.
//
// The libraries are opened with dlopen at runtime (via purego); every
// symbol the bindings use is resolved up front into the Funcs table, so
// a missing or incompatible installation fails at Load time with a clear
// error instead of at first call.
//
// Packages above this one never call dlsym themselves: they go through
// the typed function variables in Funcs. Tests substitute a pure-Go
// Funcs table via NewUnloaded to exercise bridge logic without the real
// libraries.
//
// This package also defines the Go mirrors of the handful of C structs
// the bridge reads or writes directly (svn_error_t, svn_opt_revision_t,
// svn_client_ctx_t, ...). The layouts follow the published 1.14 headers
// for LP64 platforms.
package native
