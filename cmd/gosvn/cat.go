package main

import (
	"os"

	"github.com/spf13/cobra"

	gosvn "github.com/gosvn/gosvn"
	"github.com/gosvn/gosvn/client"
)

func newCatCmd(a *app) *cobra.Command {
	var revFlag string

	cmd := &cobra.Command{
		Use:   "cat TARGET",
		Short: "Print the contents of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := client.CatOpts{}
			if revFlag != "" {
				rev, err := gosvn.ParseRevision(revFlag)
				if err != nil {
					return err
				}
				opts.Revision = rev
			}

			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			return c.Cat(os.Stdout, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&revFlag, "revision", "r", "", "revision to fetch")
	return cmd
}
