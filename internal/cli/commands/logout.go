package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deliverydesk/deliverydesk/internal/cli/app"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(a)
		},
	}

	return withSession(cmd, SessionSkip)
}

func runLogout(a *app.App) error {
	if a.Session == nil {
		return app.ErrNotInitialized
	}

	a.Session.Logout()
	fmt.Fprintf(a.Out, "Logged out of %s\n", a.Env.Name)
	return nil
}
