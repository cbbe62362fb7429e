package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/ra"
)

func newLatestRevCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "latest-rev URL",
		Short: "Print the youngest revision of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			return pool.With(lib, func(p *pool.Pool) error {
				b, err := a.authBaton(p)
				if err != nil {
					return err
				}
				defer b.Close()

				s, err := ra.Open(lib, args[0], ra.SessionOpts{Auth: b})
				if err != nil {
					return err
				}
				defer s.Close()

				rev, err := s.LatestRevnum()
				if err != nil {
					return err
				}
				fmt.Println(rev)
				return nil
			})
		},
	}
}
