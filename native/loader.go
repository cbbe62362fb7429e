//go:build darwin || freebsd || linux

package native

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"
)

// Config overrides the default shared-library discovery. Empty fields
// fall back to the platform's conventional soname, searched in
// GOSVN_LIBRARY_PATH (if set) and then the system loader path.
type Config struct {
	APR    string
	Subr   string
	Delta  string
	FS     string
	WC     string
	RA     string
	Client string
	Repos  string
}

type libname struct {
	field *string
	stem  string
}

// Load opens the Subversion shared libraries and resolves every entry
// point in Funcs. All symbols resolve eagerly so an incompatible
// installation fails here, not mid-operation.
func Load(cfg Config) (*Library, error) {
	names := []libname{
		{&cfg.APR, "apr-1"},
		{&cfg.Subr, "svn_subr-1"},
		{&cfg.Delta, "svn_delta-1"},
		{&cfg.FS, "svn_fs-1"},
		{&cfg.WC, "svn_wc-1"},
		{&cfg.RA, "svn_ra-1"},
		{&cfg.Client, "svn_client-1"},
		{&cfg.Repos, "svn_repos-1"},
	}

	handles := make(map[string]uintptr, len(names))
	for _, n := range names {
		h, err := dlopenFirst(*n.field, n.stem)
		if err != nil {
			return nil, err
		}
		handles[n.stem] = h
	}

	l := &Library{}
	if err := l.resolve(handles); err != nil {
		return nil, err
	}
	Logger().Debug("native libraries loaded", zap.Int("symbols", len(l.symbols(handles))))
	return l, nil
}

var (
	defaultLib  *Library
	defaultErr  error
	defaultOnce sync.Once
)

// Default loads the libraries with an empty Config exactly once and
// runs EnsureInitialized on the result.
func Default() (*Library, error) {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = Load(Config{})
		if defaultErr == nil {
			defaultErr = defaultLib.EnsureInitialized()
		}
	})
	return defaultLib, defaultErr
}

func dlopenFirst(override, stem string) (uintptr, error) {
	var candidates []string
	if override != "" {
		candidates = []string{override}
	} else {
		for _, f := range sonameForms(stem) {
			if dir := os.Getenv("GOSVN_LIBRARY_PATH"); dir != "" {
				candidates = append(candidates, filepath.Join(dir, f))
			}
			candidates = append(candidates, f)
		}
	}

	var firstErr error
	for _, c := range candidates {
		h, err := purego.Dlopen(c, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			Logger().Debug("opened shared library", zap.String("path", c))
			return h, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return 0, fmt.Errorf("load lib%s: %w", stem, firstErr)
}

func sonameForms(stem string) []string {
	if runtime.GOOS == "darwin" {
		return []string{"lib" + stem + ".0.dylib", "lib" + stem + ".dylib"}
	}
	return []string{"lib" + stem + ".so.0", "lib" + stem + ".so"}
}

type symbol struct {
	lib  string
	name string
	fn   any
}

func (l *Library) symbols(handles map[string]uintptr) []symbol {
	return []symbol{
		{"apr-1", "apr_initialize", &l.AprInitialize},
		{"apr-1", "apr_pool_create_ex", &l.AprPoolCreateEx},
		{"apr-1", "apr_pool_destroy", &l.AprPoolDestroy},
		{"apr-1", "apr_pstrdup", &l.AprPstrdup},
		{"apr-1", "apr_palloc", &l.AprPalloc},
		{"apr-1", "apr_array_make", &l.AprArrayMake},
		{"apr-1", "apr_array_push", &l.AprArrayPush},

		{"svn_subr-1", "svn_error_create", &l.SvnErrorCreate},
		{"svn_subr-1", "svn_error_clear", &l.SvnErrorClear},
		{"svn_subr-1", "svn_dso_initialize2", &l.SvnDsoInitialize2},
		{"svn_subr-1", "svn_stream_create", &l.SvnStreamCreate},
		{"svn_subr-1", "svn_stream_set_write", &l.SvnStreamSetWrite},
		{"svn_subr-1", "svn_uri_canonicalize", &l.SvnUriCanonicalize},
		{"svn_subr-1", "svn_uri_is_canonical", &l.SvnUriIsCanonical},
		{"svn_subr-1", "svn_uri_basename", &l.SvnUriBasename},
		{"svn_subr-1", "svn_uri_dirname", &l.SvnUriDirname},
		{"svn_subr-1", "svn_path_is_url", &l.SvnPathIsURL},
		{"svn_subr-1", "svn_auth_open", &l.SvnAuthOpen},
		{"svn_subr-1", "svn_auth_get_simple_prompt_provider", &l.SvnAuthGetSimplePromptProvider},
		{"svn_subr-1", "svn_auth_get_simple_provider2", &l.SvnAuthGetSimpleProvider2},
		{"svn_subr-1", "svn_auth_get_username_provider", &l.SvnAuthGetUsernameProvider},
		{"svn_subr-1", "svn_auth_get_ssl_server_trust_file_provider", &l.SvnAuthGetSSLServerTrustFileProvider},
		{"svn_subr-1", "svn_auth_get_ssl_server_trust_prompt_provider", &l.SvnAuthGetSSLServerTrustPromptProvider},

		{"svn_fs-1", "svn_fs_initialize", &l.SvnFsInitialize},

		{"svn_ra-1", "svn_ra_initialize", &l.SvnRaInitialize},
		{"svn_ra-1", "svn_ra_create_callbacks", &l.SvnRaCreateCallbacks},
		{"svn_ra-1", "svn_ra_open5", &l.SvnRaOpen5},
		{"svn_ra-1", "svn_ra_get_latest_revnum", &l.SvnRaGetLatestRevnum},
		{"svn_ra-1", "svn_ra_get_uuid2", &l.SvnRaGetUUID2},
		{"svn_ra-1", "svn_ra_get_repos_root2", &l.SvnRaGetReposRoot2},
		{"svn_ra-1", "svn_ra_check_path", &l.SvnRaCheckPath},
		{"svn_ra-1", "svn_ra_reparent", &l.SvnRaReparent},
		{"svn_ra-1", "svn_ra_get_dated_revision", &l.SvnRaGetDatedRevision},

		{"svn_client-1", "svn_client_version", &l.SvnClientVersion},
		{"svn_client-1", "svn_client_create_context2", &l.SvnClientCreateContext2},
		{"svn_client-1", "svn_client_checkout3", &l.SvnClientCheckout3},
		{"svn_client-1", "svn_client_update4", &l.SvnClientUpdate4},
		{"svn_client-1", "svn_client_commit6", &l.SvnClientCommit6},
		{"svn_client-1", "svn_client_add5", &l.SvnClientAdd5},
		{"svn_client-1", "svn_client_cat3", &l.SvnClientCat3},
		{"svn_client-1", "svn_client_status6", &l.SvnClientStatus6},

		{"svn_wc-1", "svn_wc_context_create", &l.SvnWcContextCreate},
		{"svn_wc-1", "svn_wc_context_destroy", &l.SvnWcContextDestroy},
		{"svn_wc-1", "svn_wc_check_wc2", &l.SvnWcCheckWc2},
		{"svn_wc-1", "svn_wc_text_modified_p2", &l.SvnWcTextModifiedP2},
		{"svn_wc-1", "svn_wc_conflicted_p3", &l.SvnWcConflictedP3},
		{"svn_wc-1", "svn_wc_is_adm_dir", &l.SvnWcIsAdmDir},
		{"svn_wc-1", "svn_wc_get_adm_dir", &l.SvnWcGetAdmDir},
		{"svn_wc-1", "svn_wc_set_adm_dir", &l.SvnWcSetAdmDir},

		{"svn_repos-1", "svn_repos_create", &l.SvnReposCreate},
		{"svn_repos-1", "svn_repos_open3", &l.SvnReposOpen3},
		{"svn_repos-1", "svn_repos_delete", &l.SvnReposDelete},
		{"svn_repos-1", "svn_repos_find_root_path", &l.SvnReposFindRootPath},
		{"svn_repos-1", "svn_repos_path", &l.SvnReposPath},
		{"svn_repos-1", "svn_repos_has_capability", &l.SvnReposHasCapability},

		{"svn_delta-1", "svn_delta_default_editor", &l.SvnDeltaDefaultEditor},
	}
}

func (l *Library) resolve(handles map[string]uintptr) error {
	for _, s := range l.symbols(handles) {
		addr, err := purego.Dlsym(handles[s.lib], s.name)
		if err != nil {
			return fmt.Errorf("resolve %s in lib%s: %w", s.name, s.lib, err)
		}
		purego.RegisterFunc(s.fn, addr)
	}
	return nil
}
