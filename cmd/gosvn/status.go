package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	gosvn "github.com/gosvn/gosvn"
	"github.com/gosvn/gosvn/client"
)

var (
	modifiedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	addedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	deletedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	conflictStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	unversionedSt   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusPathStyle = lipgloss.NewStyle()
)

func newStatusCmd(a *app) *cobra.Command {
	var (
		showAll  bool
		noIgnore bool
	)

	cmd := &cobra.Command{
		Use:   "status [PATH]",
		Short: "Report working copy status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			opts := client.StatusOpts{GetAll: showAll, NoIgnore: noIgnore}
			_, err = c.Status(target, opts, func(st client.Status) error {
				line := statusLine(st)
				if line != "" {
					fmt.Println(line)
				}
				return nil
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "include unmodified items")
	cmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "include ignored items")
	return cmd
}

func statusLine(st client.Status) string {
	code, style := statusCode(st)
	if code == " " && !st.Versioned {
		return ""
	}
	prop := " "
	if st.PropStatus == gosvn.StatusModified {
		prop = "M"
	}
	return fmt.Sprintf("%s%s      %s",
		style.Render(code), prop, statusPathStyle.Render(st.Path))
}

// statusCode picks the first column of the status line, mirroring the
// precedence svn uses: conflicts beat everything, then node status.
func statusCode(st client.Status) (string, lipgloss.Style) {
	if st.Conflicted {
		return "C", conflictStyle
	}
	switch st.NodeStatus {
	case gosvn.StatusAdded:
		return "A", addedStyle
	case gosvn.StatusDeleted:
		return "D", deletedStyle
	case gosvn.StatusModified, gosvn.StatusReplaced:
		return "M", modifiedStyle
	case gosvn.StatusMissing:
		return "!", deletedStyle
	case gosvn.StatusUnversioned:
		return "?", unversionedSt
	case gosvn.StatusIgnored:
		return "I", unversionedSt
	case gosvn.StatusObstructed:
		return "~", conflictStyle
	}
	return " ", statusPathStyle
}
