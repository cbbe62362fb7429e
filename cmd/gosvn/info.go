package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gosvn/gosvn/client"
	"github.com/gosvn/gosvn/pool"
	"github.com/gosvn/gosvn/ra"
)

var infoKeyStyle = lipgloss.NewStyle().Bold(true).Width(16)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info URL",
		Short: "Print repository information for a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
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

				s, err := ra.Open(lib, url, ra.SessionOpts{Auth: b})
				if err != nil {
					return err
				}
				defer s.Close()

				uuid, err := s.UUID()
				if err != nil {
					return err
				}
				root, err := s.ReposRoot()
				if err != nil {
					return err
				}
				latest, err := s.LatestRevnum()
				if err != nil {
					return err
				}
				kind, err := s.CheckPath("", latest)
				if err != nil {
					return err
				}

				printField("URL", s.URL())
				if s.CorrectedURL() != "" && s.CorrectedURL() != s.URL() {
					printField("Redirected To", s.CorrectedURL())
				}
				printField("Repository Root", root)
				printField("Repository UUID", uuid)
				printField("Revision", latest.String())
				printField("Node Kind", kind.String())
				printField("Client Version", client.Version(lib).String())
				return nil
			})
		},
	}
}

func printField(key, value string) {
	fmt.Printf("%s %s\n", infoKeyStyle.Render(key+":"), value)
}
