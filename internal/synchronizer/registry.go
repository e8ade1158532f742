package synchronizer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// DefaultIdleTTL is how long a session may go untouched before the
// registry closes it.
const DefaultIdleTTL = 30 * time.Minute

// RegistryConfig tunes idle eviction.  Clock defaults to the real clock
// and IdleTTL to DefaultIdleTTL.
type RegistryConfig struct {
	Clock   clockwork.Clock
	IdleTTL time.Duration
}

type entry struct {
	session  *Session
	lastUsed time.Time
}

// Registry tracks the open sessions of this process by id.  Sessions a
// view stops touching are closed by Sweep once they have been idle for
// the configured TTL, which releases their topic subscription.
type Registry struct {
	clock clockwork.Clock
	ttl   time.Duration

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewRegistry(cfg RegistryConfig) *Registry {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Registry{clock: clock, ttl: ttl, sessions: make(map[string]*entry)}
}

// Add stores s under a fresh id.
func (r *Registry) Add(s *Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &entry{session: s, lastUsed: r.clock.Now()}
	r.mu.Unlock()
	return id
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastUsed = r.clock.Now()
	return e.session, nil
}

// Remove closes and forgets a session.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	e.session.Close()
	return nil
}

// Sweep closes and forgets every session idle for at least the TTL, and
// every session already closed.  It returns how many were dropped.
func (r *Registry) Sweep() int {
	now := r.clock.Now()
	var stale []*Session
	r.mu.Lock()
	for id, e := range r.sessions {
		if now.Sub(e.lastUsed) >= r.ttl || e.session.State() == StateClosed {
			stale = append(stale, e.session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()
	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Run sweeps every half TTL until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.Sweep()
		}
	}
}

// CloseAll closes every session, e.g. on sign-out or shutdown.
func (r *Registry) CloseAll() int {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()
	for _, e := range sessions {
		e.session.Close()
	}
	return len(sessions)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
