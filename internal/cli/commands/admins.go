package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deliverydesk/deliverydesk/internal/cli/app"
	"github.com/deliverydesk/deliverydesk/internal/cli/client"
)

type adminLister interface {
	ListAdmins(ctx context.Context) ([]client.AdminProfile, error)
}

// NewAdminsCmd creates the admins command group
func NewAdminsCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admins",
		Short: "Inspect admin accounts",
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List admin accounts (super admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminsList(cmd.Context(), a.Client, a.Out)
		},
	}
	cmd.AddCommand(a.Guard.Protect(ls))

	return cmd
}

func runAdminsList(ctx context.Context, api adminLister, out io.Writer) error {
	admins, err := api.ListAdmins(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	fmt.Fprintln(w, "──\t────\t─────\t────")
	for _, admin := range admins {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", admin.ID, admin.Name, admin.Email, admin.Role)
	}
	return w.Flush()
}
