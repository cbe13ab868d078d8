package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/deliverydesk/deliverydesk/internal/cli/client"
)

const (
	// AnnotationSession controls what PersistentPreRunE prepares for a command
	AnnotationSession = "deliverydesk/session"

	// SessionNone skips config loading entirely (version)
	SessionNone = "none"
	// SessionSkip loads config and environment but does not validate the stored session
	SessionSkip = "skip"
)

func withSession(cmd *cobra.Command, mode string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[AnnotationSession] = mode
	return cmd
}

// SessionMode returns the session annotation of cmd
func SessionMode(cmd *cobra.Command) string {
	return cmd.Annotations[AnnotationSession]
}

func displayName(admin *client.AdminProfile) string {
	if admin.Name != "" {
		return admin.Name
	}
	if admin.Email != "" {
		return admin.Email
	}
	return admin.ID
}

func printProfile(w io.Writer, admin *client.AdminProfile) {
	fmt.Fprintf(w, "ID:     %s\n", admin.ID)
	if admin.Name != "" {
		fmt.Fprintf(w, "Name:   %s\n", admin.Name)
	}
	if admin.Email != "" {
		fmt.Fprintf(w, "Email:  %s\n", admin.Email)
	}
	if admin.PhoneNumber != "" {
		fmt.Fprintf(w, "Phone:  %s\n", admin.PhoneNumber)
	}
	if admin.Role != "" {
		fmt.Fprintf(w, "Role:   %s\n", admin.Role)
	}
	if !admin.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Since:  %s\n", admin.CreatedAt.Format("2006-01-02"))
	}
}
