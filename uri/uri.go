// Package uri wraps the svn_uri path helpers. Most libsvn entry points
// require canonical URIs; run caller-supplied URLs through Canonicalize
// first.
package uri

import (
	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/pool"
)

// Canonicalize converts uri to the canonical form the native libraries
// expect: scheme and host lowercased, default ports and trailing
// slashes stripped, path segments encoded.
func Canonicalize(lib *native.Library, uri string) (string, error) {
	var out string
	err := pool.With(lib, func(p *pool.Pool) error {
		ptr, err := p.Ptr()
		if err != nil {
			return err
		}
		out = native.GoString(lib.SvnUriCanonicalize(uri, ptr))
		return nil
	})
	return out, err
}

// IsCanonical reports whether uri is already in canonical form.
func IsCanonical(lib *native.Library, uri string) (bool, error) {
	var ok bool
	err := pool.With(lib, func(p *pool.Pool) error {
		ptr, err := p.Ptr()
		if err != nil {
			return err
		}
		ok = lib.SvnUriIsCanonical(uri, ptr) != 0
		return nil
	})
	return ok, err
}

// Basename returns the last component of a canonical uri, decoded.
func Basename(lib *native.Library, uri string) (string, error) {
	var out string
	err := pool.With(lib, func(p *pool.Pool) error {
		ptr, err := p.Ptr()
		if err != nil {
			return err
		}
		out = native.GoString(lib.SvnUriBasename(uri, ptr))
		return nil
	})
	return out, err
}

// Dirname returns a canonical uri with its last component removed.
func Dirname(lib *native.Library, uri string) (string, error) {
	var out string
	err := pool.With(lib, func(p *pool.Pool) error {
		ptr, err := p.Ptr()
		if err != nil {
			return err
		}
		out = native.GoString(lib.SvnUriDirname(uri, ptr))
		return nil
	})
	return out, err
}

// IsURL reports whether path looks like a URL rather than a local path.
func IsURL(lib *native.Library, path string) bool {
	return lib.SvnPathIsURL(path) != 0
}
