// Command gosvn is a small Subversion client built on the gosvn
// bindings. It exists mostly to exercise the library end to end; it is
// not a replacement for the svn command line.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gosvn/gosvn/auth"
	"github.com/gosvn/gosvn/client"
	"github.com/gosvn/gosvn/native"
	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/trampoline"
)

type app struct {
	cfgPath string
	verbose bool

	cfg *config
	log *zap.Logger
	lib *native.Library
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gosvn:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "gosvn",
		Short:         "Subversion operations over the gosvn bindings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Flags().Changed("config"))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", defaultConfigPath(), "config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newCheckoutCmd(a),
		newCatCmd(a),
		newStatusCmd(a),
		newInfoCmd(a),
		newLatestRevCmd(a),
	)
	return root
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gosvn.yaml"
	}
	return filepath.Join(dir, "gosvn", "config.yaml")
}

func (a *app) setup(explicitConfig bool) error {
	cfg, err := loadConfig(a.cfgPath, explicitConfig)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		a.log = log
	} else {
		a.log = zap.NewNop()
	}
	native.SetLogger(a.log)
	return nil
}

// library loads the Subversion libraries on first use so that commands
// which fail argument validation never touch the loader.
func (a *app) library() (*native.Library, error) {
	if a.lib != nil {
		return a.lib, nil
	}
	lib, err := a.cfg.openLibrary()
	if err != nil {
		return nil, err
	}
	a.lib = lib
	return lib, nil
}

// authBaton builds the provider chain: cached credentials first, then
// the config file's username/password, then the trusted-cert store.
func (a *app) authBaton(p *pool.Pool) (*auth.Baton, error) {
	providers := make([]auth.Provider, 0, 4)

	stored, err := auth.SimpleStored(p)
	if err != nil {
		return nil, err
	}
	providers = append(providers, stored)

	username, err := auth.Username(p)
	if err != nil {
		return nil, err
	}
	providers = append(providers, username)

	if a.cfg.Auth.Username != "" {
		cred := trampoline.SimpleCred{
			Username: a.cfg.Auth.Username,
			Password: a.cfg.Auth.Password,
		}
		prompt, err := auth.SimplePrompt(p, func(realm, user string, maySave bool) (*trampoline.SimpleCred, error) {
			c := cred
			return &c, nil
		}, 1)
		if err != nil {
			return nil, err
		}
		providers = append(providers, prompt)
	}

	trust, err := auth.SSLServerTrustFile(p)
	if err != nil {
		return nil, err
	}
	providers = append(providers, trust)

	return auth.Open(p, providers...)
}

// newClient builds a client context with the auth chain attached.
func (a *app) newClient() (*client.Context, error) {
	lib, err := a.library()
	if err != nil {
		return nil, err
	}
	c, err := client.New(lib)
	if err != nil {
		return nil, err
	}
	b, err := a.authBaton(c.Pool())
	if err != nil {
		c.Close()
		return nil, err
	}
	if err := c.SetAuth(b); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}
