package auth

import (
	"context"
	"sync"

	"github.com/handsnminds/platform/internal/logging"
)

// State is the auth state container. It subscribes to the session-change
// stream before reading the current snapshot so no transition is missed,
// resolves the full AuthUser for each established session, and applies a
// resolution only while its session generation is still current — a rapid
// login/logout never lets a stale resolution overwrite newer state.
type State struct {
	mu      sync.Mutex
	svc     *Service
	user    *AuthUser
	loading bool
	gen     uint64

	events <-chan SessionEvent
	cancel func()
	done   chan struct{}
}

func NewState(svc *Service) *State {
	s := &State{
		svc:     svc,
		loading: true,
		done:    make(chan struct{}),
	}
	// Subscribe first, then snapshot.
	s.events, s.cancel = svc.Notifier.Subscribe()
	return s
}

// Run consumes session events until ctx is cancelled. The initial snapshot
// is handled before the stream so the container settles even when no
// transition ever arrives.
func (s *State) Run(ctx context.Context) {
	defer close(s.done)
	defer s.cancel()

	if cur := s.svc.Notifier.Current(); cur != nil {
		s.handleEstablished(ctx, cur)
	} else {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.events:
			if !ok {
				return
			}
			switch ev.Type {
			case SessionEstablished:
				s.handleEstablished(ctx, ev.Session)
			case SessionCleared:
				s.handleCleared()
			}
		}
	}
}

// Done is closed once Run has returned.
func (s *State) Done() <-chan struct{} { return s.done }

func (s *State) handleEstablished(ctx context.Context, session *Session) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	// Resolution may hit the backend; a newer event supersedes it.
	go func() {
		user := s.svc.ResolveUser(ctx, session)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			logging.FromContext(ctx).Debug("auth_resolution_superseded", "gen", gen)
			return
		}
		s.user = user
		s.loading = false
	}()
}

func (s *State) handleCleared() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.user = nil
	s.loading = false
}

// Login delegates to the backend and returns the previously-known user.
// The post-login user arrives through the session-change subscription, so
// callers must not read this result as the fresh identity.
func (s *State) Login(ctx context.Context, email, password string) (*AuthUser, error) {
	prev := s.User()
	if _, err := s.svc.Login(ctx, email, password); err != nil {
		return prev, err
	}
	return prev, nil
}

// Logout requests session termination; local state clears when the
// notification lands.
func (s *State) Logout(ctx context.Context, refreshToken string) error {
	return s.svc.Logout(ctx, refreshToken)
}

func (s *State) User() *AuthUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Loading is true until the first session resolution settles. All role
// predicates answer false during that window.
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Role is empty while unauthenticated or loading, so every predicate on it
// is false until a user is resolved.
func (s *State) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading || s.user == nil {
		return ""
	}
	return s.user.Role
}
