// Licensed to Andrew Kroh under one or more agreements.
// Andrew Kroh licenses this file to you under the Apache 2.0 License.
// See the LICENSE file in the project root for more information.

package api

import (
	"context"
	"log/slog"
	"sync"
)

// AuthState is the credential lifecycle state of a Session.
type AuthState int

const (
	// StateUnauthenticated means no credentials are stored.
	StateUnauthenticated AuthState = iota
	// StateReady means credentials are stored but not in use.
	StateReady
	// StateAuthenticated means requests carry the stored credentials.
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateReady:
		return "ready"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session holds the credential state shared by a resource and its
// sibling sub-resources. It is safe for concurrent use.
type Session struct {
	transport Transport
	log       *slog.Logger

	mu    sync.Mutex
	creds Credentials
	state AuthState
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the structured logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.log = l
	}
}

// NewSession returns an unauthenticated Session that sends requests
// through t.
func NewSession(t Transport, opts ...SessionOption) *Session {
	s := &Session{
		transport: t,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transport returns the transport shared by every resource of the session.
func (s *Session) Transport() Transport {
	return s.transport
}

// State returns the current credential state.
func (s *Session) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsAuthenticated reports whether the session is logged in.
func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// SetCredentials stores a username/password pair. It fails with
// ErrNoCredentials when username is empty and with ErrSessionActive while
// the session is logged in.
func (s *Session) SetCredentials(username, password string) error {
	return s.store(Credentials{Username: username, Password: password})
}

// SetToken stores an OAuth token. It fails with ErrNoCredentials when
// token is empty and with ErrSessionActive while the session is logged in.
func (s *Session) SetToken(token string) error {
	return s.store(Credentials{Token: token})
}

func (s *Session) store(c Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAuthenticated {
		return ErrSessionActive
	}
	if c.Token == "" && c.Username == "" {
		return ErrNoCredentials
	}
	s.creds = c
	s.state = StateReady
	return nil
}

// Login activates the stored credentials. Logging in twice is a no-op.
func (s *Session) Login() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUnauthenticated:
		return ErrNoCredentials
	case StateAuthenticated:
		return nil
	}

	s.transport.SetCredentials(s.creds)
	s.state = StateAuthenticated
	s.log.Debug("session logged in", slog.Bool("token", s.creds.IsToken()))
	return nil
}

// Logout deactivates the credentials but keeps them stored.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutLocked()
}

func (s *Session) logoutLocked() {
	if s.state != StateAuthenticated {
		return
	}
	s.transport.ClearCredentials()
	s.state = StateReady
	s.log.Debug("session logged out")
}

// ClearCredentials logs out if needed and forgets the stored credentials.
func (s *Session) ClearCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logoutLocked()
	s.creds = Credentials{}
	s.state = StateUnauthenticated
}

// RequireAuth returns ErrAuthentication unless the session is logged in.
// Resources call it before touching the transport.
func (s *Session) RequireAuth(ctx context.Context, op string) error {
	if s.IsAuthenticated() {
		return nil
	}
	s.log.DebugContext(ctx, "rejected unauthenticated call", slog.String("method", op))
	return ErrAuthentication
}

// RequireArg returns ErrInvalidArgument when value is empty.
func RequireArg(name, value string) error {
	if value == "" {
		return invalidArgument(name)
	}
	return nil
}
