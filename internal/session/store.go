// ABOUTME: Single source of truth for who is logged in and what they own
// ABOUTME: Lifecycle is initialize/login/logout with exactly one writer

package session

import (
	"context"
	"sync"

	"github.com/plumecompta/lettre-cli/internal/client"
)

// State is the auth lifecycle state of the store
type State int

const (
	// StateLoading means the initial backend verification has not completed.
	// Consumers must not make redirect decisions in this state.
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Store owns the current user record. All writes go through Initialize,
// Login, Logout, or the gateway's 401 hook; everything else only reads.
type Store struct {
	api   *client.Client
	cache *Cache

	mu       sync.Mutex
	state    State
	user     *User
	remember bool
}

// NewStore creates a store bound to the gateway client and durable cache.
// It registers itself as the gateway's session-expiry hook.
func NewStore(api *client.Client, cache *Cache) *Store {
	s := &Store{
		api:   api,
		cache: cache,
		state: StateLoading,
	}
	api.OnSessionExpired(s.expire)
	return s
}

// Initialize reads the durable record and always re-verifies it against
// the backend. The cached record is never trusted on its own: the store
// only becomes authenticated after /user-status confirms the session.
// A failed verification is not an error, just an unauthenticated state.
func (s *Store) Initialize(ctx context.Context) {
	cached, remember := s.cache.Load()

	s.mu.Lock()
	s.remember = remember
	s.mu.Unlock()

	if cached == nil {
		s.cache.ClearCookies()
		s.setUnauthenticated()
		return
	}

	s.api.SetCookies(s.cache.LoadCookies())

	status, err := s.api.GetUserStatus(ctx)
	if err != nil || status.Username == "" {
		s.cache.Clear()
		s.cache.ClearCookies()
		s.setUnauthenticated()
		return
	}

	u := &User{Username: status.Username, IsPremium: status.IsPremium}
	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = u
	s.mu.Unlock()

	s.cache.Save(u, remember)
	if remember {
		s.cache.SaveCookies(s.api.Cookies())
	}
}

// Login forwards credentials to the backend and, on success, records the
// user both durably and in memory. Gateway errors propagate for display.
func (s *Store) Login(ctx context.Context, username, password string, remember bool) error {
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	u := &User{Username: username, IsPremium: resp.IsPremium}
	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = u
	s.remember = remember
	s.mu.Unlock()

	s.cache.Save(u, remember)
	if remember {
		s.cache.SaveCookies(s.api.Cookies())
	} else {
		s.cache.ClearCookies()
	}
	return nil
}

// Logout notifies the backend best-effort and clears the local record
// regardless of the outcome of that call.
func (s *Store) Logout(ctx context.Context) {
	s.api.Logout(ctx)
	s.expire()
}

// expire drops the local session. Wired as the gateway's 401 hook.
func (s *Store) expire() {
	s.mu.Lock()
	s.state = StateUnauthenticated
	s.user = nil
	s.mu.Unlock()

	s.cache.Clear()
	s.cache.ClearCookies()
}

func (s *Store) setUnauthenticated() {
	s.mu.Lock()
	s.state = StateUnauthenticated
	s.user = nil
	s.mu.Unlock()
}

// State returns the current lifecycle state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUser returns the in-memory user record, never the durable copy
func (s *Store) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether an in-memory user record is present
func (s *Store) IsAuthenticated() bool {
	_, ok := s.CurrentUser()
	return ok
}

// IsPremium reports the entitlement flag of the current user
func (s *Store) IsPremium() bool {
	u, ok := s.CurrentUser()
	return ok && u.IsPremium
}

// Remember reports whether the user opted into a persistent session
func (s *Store) Remember() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remember
}
