package commands

import (
	"github.com/spf13/cobra"

	"github.com/deliverydesk/deliverydesk/internal/cli/app"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			printProfile(a.Out, a.Session.State().Admin)
			return nil
		},
	}

	return a.Guard.Protect(cmd)
}
