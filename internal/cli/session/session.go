// Package session holds the console's authentication state: whether an admin is logged in,
// who it is, and whether the startup check is still running. A Manager is created once by the
// application shell and passed to every page that needs it.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/deliverydesk/deliverydesk/internal/cli/client"
)

// DefaultLoginRoute is the unauthenticated entry point of the console
const DefaultLoginRoute = "/login"

// Status is the lifecycle stage of the session
type Status int

const (
	StatusInitializing Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the session
type State struct {
	Status          Status
	IsAuthenticated bool
	Admin           *client.AdminProfile
	Loading         bool
}

func initializing() State {
	return State{Status: StatusInitializing, Loading: true}
}

func authenticated(admin *client.AdminProfile) State {
	return State{Status: StatusAuthenticated, IsAuthenticated: true, Admin: admin}
}

func unauthenticated() State {
	return State{Status: StatusUnauthenticated}
}

// Client is the part of the API client the session depends on
type Client interface {
	IsAuthenticated() bool
	AdminID() string
	Login(ctx context.Context, username, password string) (*client.LoginResponse, error)
	Logout()
	GetProfile(ctx context.Context) (*client.AdminProfile, error)
}

// Navigator is implemented by the application shell. HardNavigate must discard any page
// state before showing route.
type Navigator interface {
	Location() string
	HardNavigate(route string)
}

// Manager owns the session state machine
type Manager struct {
	client     Client
	logger     zerolog.Logger
	navigator  Navigator
	loginRoute string

	mu        sync.RWMutex
	state     State
	started   bool
	ready     chan struct{}
	readyOnce sync.Once
	listeners map[int]func(State)
	nextID    int
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithNavigator sets the shell that receives forced navigation to the login route
func WithNavigator(navigator Navigator) Option {
	return func(m *Manager) {
		m.navigator = navigator
	}
}

// WithLoginRoute overrides DefaultLoginRoute
func WithLoginRoute(route string) Option {
	return func(m *Manager) {
		m.loginRoute = route
	}
}

// New creates a session in the Initializing state
func New(c Client, opts ...Option) *Manager {
	m := &Manager{
		client:     c,
		logger:     zerolog.Nop(),
		loginRoute: DefaultLoginRoute,
		state:      initializing(),
		ready:      make(chan struct{}),
		listeners:  make(map[int]func(State)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// LoginRoute returns the route unauthenticated traffic is sent to
func (m *Manager) LoginRoute() string {
	return m.loginRoute
}

// State returns the current snapshot
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Start runs the startup validation exactly once. A held token is checked by fetching the
// admin profile; if that fails the credentials are cleared and the shell is sent to the login
// route unless it is already there. Later calls wait for the first one and return its result.
func (m *Manager) Start(ctx context.Context) State {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		state, _ := m.Wait(ctx)
		return state
	}
	m.started = true
	m.mu.Unlock()

	if !m.client.IsAuthenticated() {
		m.logger.Debug().Msg("No stored credentials")
		m.settle(unauthenticated())
		return m.State()
	}

	profile, err := m.fetchProfile(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// Interrupted, not rejected: keep the credentials for the next run.
			m.logger.Debug().Err(err).Msg("Session validation interrupted")
			m.settle(unauthenticated())
			return m.State()
		}

		m.logger.Warn().Err(err).Msg("Stored session is no longer valid")
		m.client.Logout()
		m.settle(unauthenticated())
		m.redirectToLogin()
		return m.State()
	}

	m.logger.Debug().Str("admin_id", profile.ID).Msg("Session restored")
	m.settle(authenticated(profile))
	return m.State()
}

// Login authenticates with the API and loads the admin profile. On failure the error is
// returned unchanged for the login page to display.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if _, err := m.client.Login(ctx, username, password); err != nil {
		return err
	}

	profile, err := m.fetchProfile(ctx)
	if err != nil {
		// The new token is stored but unusable
		m.client.Logout()
		m.settle(unauthenticated())
		return err
	}

	m.logger.Info().Str("admin_id", profile.ID).Msg("Admin logged in")
	m.settle(authenticated(profile))
	return nil
}

// Logout clears the credentials and resets the session. It is idempotent and never navigates.
func (m *Manager) Logout() {
	m.client.Logout()
	m.settle(unauthenticated())
}

// Wait blocks until the session has left Initializing
func (m *Manager) Wait(ctx context.Context) (State, error) {
	select {
	case <-m.ready:
		return m.State(), nil
	case <-ctx.Done():
		return m.State(), ctx.Err()
	}
}

// Subscribe registers fn to be called with every new state. The returned function removes it.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// fetchProfile falls back to a profile built from the stored admin id when the backend has
// no profile endpoint.
func (m *Manager) fetchProfile(ctx context.Context) (*client.AdminProfile, error) {
	profile, err := m.client.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, client.ErrProfileUnavailable) {
			m.logger.Debug().Err(err).Msg("Using local admin profile")
			return &client.AdminProfile{ID: m.client.AdminID()}, nil
		}
		return nil, err
	}
	return profile, nil
}

func (m *Manager) settle(state State) {
	m.mu.Lock()
	m.state = state
	m.started = true
	listeners := make([]func(State), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	m.readyOnce.Do(func() { close(m.ready) })

	for _, fn := range listeners {
		fn(state)
	}
}

func (m *Manager) redirectToLogin() {
	if m.navigator == nil {
		return
	}

	location, _, _ := strings.Cut(m.navigator.Location(), "?")
	if location == m.loginRoute {
		return
	}

	m.logger.Info().Str("from", location).Str("to", m.loginRoute).Msg("Redirecting to login")
	m.navigator.HardNavigate(m.loginRoute)
}
