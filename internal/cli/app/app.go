// Package app is the composition root of the console: it builds the token store, API client,
// session and guard for the selected environment and hands them to the pages.
package app

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/deliverydesk/deliverydesk/internal/cli/auth"
	"github.com/deliverydesk/deliverydesk/internal/cli/client"
	"github.com/deliverydesk/deliverydesk/internal/cli/config"
	"github.com/deliverydesk/deliverydesk/internal/cli/envselect"
	"github.com/deliverydesk/deliverydesk/internal/cli/guard"
	"github.com/deliverydesk/deliverydesk/internal/cli/session"
	"github.com/deliverydesk/deliverydesk/internal/cli/shell"
	"github.com/deliverydesk/deliverydesk/internal/logger"
)

// ErrNotInitialized is returned when a page runs before Init
var ErrNotInitialized = errors.New("console not initialized")

// App holds everything a page needs
type App struct {
	Config  *config.Config
	Env     *config.Environment
	Logger  zerolog.Logger
	Store   auth.TokenStore
	Client  *client.Client
	Session *session.Manager
	Guard   *guard.Guard
	Shell   *shell.Shell

	Out io.Writer
	Err io.Writer
	In  io.Reader
}

// New creates an uninitialized app. The guard is usable immediately; it waits on the session
// once Init has built it.
func New(out, errOut io.Writer, in io.Reader) *App {
	a := &App{
		Shell:  shell.New(),
		Logger: zerolog.Nop(),
		Out:    out,
		Err:    errOut,
		In:     in,
	}
	a.Guard = guard.New(a, a.Shell)
	return a
}

// Init resolves the environment and wires the token store, client and session
func (a *App) Init(cfg *config.Config, envName string) error {
	env, err := envselect.Resolve(cfg, envName)
	if err != nil {
		return err
	}

	a.Config = cfg
	a.Env = env
	a.Logger = logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: "console",
		Out:    a.Err,
	}).With().Str("env", env.Name).Logger()

	a.Store = newTokenStore(cfg, env)
	a.Client = client.New(env.APIURL, a.Store,
		client.WithLogger(a.Logger),
		client.WithClientCredentials(cfg.ClientID, cfg.ClientSecret),
	)
	a.Session = session.New(a.Client,
		session.WithLogger(a.Logger),
		session.WithNavigator(a.Shell),
	)

	return nil
}

func newTokenStore(cfg *config.Config, env *config.Environment) auth.TokenStore {
	if cfg.TokenStore == config.TokenStoreFile {
		return auth.NewFileStore(cfg.ConfigDir, env.Name)
	}
	return auth.NewKeyringStore(env.Name)
}

// Wait implements guard.Session
func (a *App) Wait(ctx context.Context) (session.State, error) {
	if a.Session == nil {
		return session.State{Status: session.StatusUnauthenticated}, ErrNotInitialized
	}
	return a.Session.Wait(ctx)
}

// LoginRoute implements guard.Session
func (a *App) LoginRoute() string {
	if a.Session == nil {
		return session.DefaultLoginRoute
	}
	return a.Session.LoginRoute()
}

// Interactive reports whether the console can prompt the user
func (a *App) Interactive() bool {
	f, ok := a.In.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
