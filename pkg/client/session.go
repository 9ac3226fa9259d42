package client

import "sync"

// Session holds the bearer token for one client instance. It replaces the
// module-level singleton the hosted renderer ecosystem tends to encourage; the
// token lives here from login until Logout or the first 401.
type Session struct {
	mu    sync.RWMutex
	token string
	gen   uint64
}

// Token returns the current token, empty when none is held.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Generation counts token changes. Comparing generations around a request
// tells a token the response delivered apart from one held beforehand.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Set replaces the held token.
func (s *Session) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.gen++
}

// Clear drops the held token. Clearing an empty session is a no-op.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return
	}
	s.token = ""
	s.gen++
}
