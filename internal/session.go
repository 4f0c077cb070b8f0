package internal

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Session is the operator's authenticated state. Identity is set iff Token is set.
type Session struct {
	Token    string `json:"-" yaml:"-"`
	Identity string `json:"identity,omitempty" yaml:"identity,omitempty"`
}

// IsZero reports whether the session is anonymous
func (s Session) IsZero() bool {
	return s.Token == "" && s.Identity == ""
}

// ExpiresAt reads the exp claim when the token happens to be a JWT.
// The signature is not verified; the value is only used for display.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}

// SessionStore holds the single operator session for the lifetime of the process.
// It is owned by one control loop and is not safe for concurrent writers.
type SessionStore struct {
	current Session
}

// NewSessionStore creates an anonymous store
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// IsAuthenticated reports whether a token is held
func (s *SessionStore) IsAuthenticated() bool {
	return !s.current.IsZero()
}

// Set commits a session returned by a successful login
func (s *SessionStore) Set(session Session) error {
	if session.Token == "" {
		return &ValidationError{Field: "token", Msg: "must not be empty"}
	}
	if session.Identity == "" {
		return &ValidationError{Field: "identity", Msg: "must not be empty"}
	}
	s.current = session
	return nil
}

// Clear drops the token and identity
func (s *SessionStore) Clear() {
	s.current = Session{}
}

// Token returns the bearer token, or "" when anonymous
func (s *SessionStore) Token() string {
	return s.current.Token
}

// Identity returns the logged-in identity, or "" when anonymous
func (s *SessionStore) Identity() string {
	return s.current.Identity
}

// Current returns a copy of the held session
func (s *SessionStore) Current() Session {
	return s.current
}
