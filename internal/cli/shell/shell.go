package shell

import "sync"

// Shell tracks where the console is and where it has been told to go next.
// It implements session.Navigator and guard.Navigator.
type Shell struct {
	mu       sync.Mutex
	location string
	pending  string
	hard     bool
}

// New creates a shell at the root route
func New() *Shell {
	return &Shell{location: "/"}
}

// Enter records that a page is being shown
func (s *Shell) Enter(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = route
}

// Location returns the current route
func (s *Shell) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// Navigate queues a client-side navigation. A queued hard navigation is not replaced.
func (s *Shell) Navigate(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == "" {
		s.pending = route
	}
}

// HardNavigate queues a navigation that abandons the current page: the root command stops
// the running page and starts over at route.
func (s *Shell) HardNavigate(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = route
	s.hard = true
}

// Pending returns the queued navigation, if any, and whether it was a hard one
func (s *Shell) Pending() (route string, hard bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, s.hard, s.pending != ""
}

// Follow moves to the queued route and clears it
func (s *Shell) Follow() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != "" {
		s.location = s.pending
	}
	s.pending = ""
	s.hard = false
	return s.location
}
