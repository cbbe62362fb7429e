package native

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Library bundles the resolved native entry points with the process-wide
// initialization state of the Subversion libraries.
type Library struct {
	Funcs

	initOnce sync.Once
	initErr  error
	rootPool uintptr
}

// NewUnloaded wraps a caller-supplied function table without touching
// the dynamic loader. Intended for tests and alternative loaders; the
// table must be complete for the entry points actually exercised.
func NewUnloaded(f Funcs) *Library {
	return &Library{Funcs: f}
}

// EnsureInitialized performs the one-time global setup the Subversion
// libraries require: apr_initialize, svn_dso_initialize2, and the FS
// and RA subsystem initializers. Safe to call repeatedly and from
// multiple goroutines; only the first call does work.
//
// The subsystem initializers stash pointers into the pool they are
// given, so the pool deliberately lives for the rest of the process.
func (l *Library) EnsureInitialized() error {
	l.initOnce.Do(func() {
		if status := l.AprInitialize(); status != 0 {
			l.initErr = fmt.Errorf("apr_initialize failed with status %d", status)
			return
		}
		if status := l.AprPoolCreateEx(&l.rootPool, 0, 0, 0); status != 0 || l.rootPool == 0 {
			l.initErr = fmt.Errorf("root pool creation failed with status %d", status)
			return
		}
		for _, step := range []struct {
			name string
			run  func() uintptr
		}{
			{"svn_dso_initialize2", func() uintptr { return l.SvnDsoInitialize2() }},
			{"svn_fs_initialize", func() uintptr { return l.SvnFsInitialize(l.rootPool) }},
			{"svn_ra_initialize", func() uintptr { return l.SvnRaInitialize(l.rootPool) }},
		} {
			if err := step.run(); err != 0 {
				msg := GoString((*SvnError)(ptrTo(err)).Message)
				l.SvnErrorClear(err)
				l.initErr = fmt.Errorf("%s failed: %s", step.name, msg)
				return
			}
		}
		Logger().Debug("subversion libraries initialized")
	})
	return l.initErr
}

var (
	logger   *zap.Logger
	loggerMu sync.RWMutex
)

// Logger returns the package logger. It is a no-op logger by default.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// SetLogger installs a logger for library loading and callback dispatch
// diagnostics.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}
