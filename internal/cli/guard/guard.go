package guard

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deliverydesk/deliverydesk/internal/cli/session"
)

// Decision is what the guard does with a protected page
type Decision int

const (
	// Pending means the session is still initializing; nothing is rendered and nobody is redirected
	Pending Decision = iota
	Render
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decide maps a session state to a decision
func Decide(state session.State) Decision {
	switch {
	case state.Loading || state.Status == session.StatusInitializing:
		return Pending
	case state.IsAuthenticated && state.Admin != nil:
		return Render
	default:
		return Redirect
	}
}

// RedirectError is returned when a protected page was requested without a session
type RedirectError struct {
	From string
	To   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("not logged in: %s requires a session, redirecting to %s", e.From, e.To)
}

// Session is the part of the session manager the guard reads
type Session interface {
	Wait(ctx context.Context) (session.State, error)
	LoginRoute() string
}

// Navigator receives client-side navigation to the login page
type Navigator interface {
	Navigate(route string)
}

// Guard gates protected pages behind the session
type Guard struct {
	session   Session
	navigator Navigator
}

// New creates a guard. navigator may be nil.
func New(s Session, navigator Navigator) *Guard {
	return &Guard{
		session:   s,
		navigator: navigator,
	}
}

// Require waits for the session to settle and reports whether route may be rendered.
// Unauthenticated traffic is sent to the login route and gets a *RedirectError.
func (g *Guard) Require(ctx context.Context, route string) error {
	state, err := g.session.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for session: %w", err)
	}

	switch Decide(state) {
	case Render:
		return nil
	default:
		to := g.session.LoginRoute()
		if g.navigator != nil {
			g.navigator.Navigate(to)
		}
		return &RedirectError{From: route, To: to}
	}
}

// Protect wraps the command's RunE so the page body only runs for an authenticated admin
func (g *Guard) Protect(cmd *cobra.Command) *cobra.Command {
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := g.Require(cmd.Context(), Route(cmd)); err != nil {
			return err
		}
		if run == nil {
			return nil
		}
		return run(cmd, args)
	}
	return cmd
}

// Route returns the route of a page command, e.g. "/restaurants/ls"
func Route(cmd *cobra.Command) string {
	route := ""
	for c := cmd; c != nil && c.HasParent(); c = c.Parent() {
		route = "/" + c.Name() + route
	}
	if route == "" {
		return "/"
	}
	return route
}
