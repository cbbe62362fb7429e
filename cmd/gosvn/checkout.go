package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	gosvn "github.com/gosvn/gosvn"
	"github.com/gosvn/gosvn/client"
)

func newCheckoutCmd(a *app) *cobra.Command {
	var (
		revFlag         string
		depthFlag       string
		ignoreExternals bool
	)

	cmd := &cobra.Command{
		Use:   "checkout URL [PATH]",
		Short: "Check out a working copy",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			target := path.Base(strings.TrimRight(url, "/"))
			if len(args) == 2 {
				target = args[1]
			}

			opts := client.CheckoutOpts{IgnoreExternals: ignoreExternals}
			if revFlag != "" {
				rev, err := gosvn.ParseRevision(revFlag)
				if err != nil {
					return err
				}
				opts.Revision = rev
			}
			if depthFlag != "" {
				depth, err := gosvn.ParseDepth(depthFlag)
				if err != nil {
					return err
				}
				opts.Depth = depth
			}

			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return runCheckoutTUI(c, url, target, opts)
			}
			return runCheckoutPlain(a.log, c, url, target, opts)
		},
	}

	cmd.Flags().StringVarP(&revFlag, "revision", "r", "", "revision to check out")
	cmd.Flags().StringVar(&depthFlag, "depth", "", "checkout depth (empty, files, immediates, infinity)")
	cmd.Flags().BoolVar(&ignoreExternals, "ignore-externals", false, "skip externals")
	return cmd
}

func runCheckoutPlain(log *zap.Logger, c *client.Context, url, target string, opts client.CheckoutOpts) error {
	err := c.SetNotify(func(n gosvn.Notify) {
		if letter := notifyLetter(n.Action); letter != "" {
			fmt.Printf("%s    %s\n", letter, n.Path)
		}
		log.Debug("notify",
			zap.String("action", n.Action.String()),
			zap.String("path", n.Path))
	})
	if err != nil {
		return err
	}

	rev, err := c.Checkout(url, target, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Checked out revision %s.\n", rev)
	return nil
}

// notifyLetter maps an action to the single-letter code svn prints, or
// "" for actions that have no line of their own.
func notifyLetter(a gosvn.NotifyAction) string {
	switch a {
	case gosvn.NotifyAdd, gosvn.NotifyUpdateAdd, gosvn.NotifyCommitAdded:
		return "A"
	case gosvn.NotifyDelete, gosvn.NotifyUpdateDelete, gosvn.NotifyCommitDeleted:
		return "D"
	case gosvn.NotifyUpdateUpdate, gosvn.NotifyCommitModified:
		return "U"
	case gosvn.NotifyRestore:
		return "R"
	case gosvn.NotifySkip:
		return "S"
	}
	return ""
}
