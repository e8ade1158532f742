// Package identity holds the signed-in user of this client process.
package identity

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/iliyamo/theater-client/internal/model"
)

// Store is the process-wide identity.  The zero value is not usable;
// construct it with NewStore.
type Store struct {
	clock clockwork.Clock

	mu      sync.RWMutex
	user    *model.User
	token   string
	expires time.Time // zero when the token carries no exp
}

// NewStore returns a signed-out store.  clock may be nil.
func NewStore(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{clock: clock}
}

// Set signs user in.  token may be empty.  A JWT token's exp claim is
// read without verification, since the backend is the only party that
// checks signatures; an opaque token never expires locally.
func (s *Store) Set(user model.User, token string) {
	if token == "" {
		token = user.Token
	}
	user.Token = ""
	exp := expiry(token)

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.expires = exp
	s.mu.Unlock()
}

func expiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Current returns the signed-in user, or false when nobody is signed in
// or the token has expired.
func (s *Store) Current() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.expiredLocked() {
		return model.User{}, false
	}
	return *s.user, true
}

// Token returns the bearer token for backend calls, or "" when signed
// out or expired.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.expiredLocked() {
		return ""
	}
	return s.token
}

func (s *Store) expiredLocked() bool {
	return !s.expires.IsZero() && !s.clock.Now().Before(s.expires)
}

// Clear signs out.
func (s *Store) Clear() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.expires = time.Time{}
	s.mu.Unlock()
}
