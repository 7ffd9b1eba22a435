package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry keeps the open checkouts of this process.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session), now: time.Now}
}

// NewID returns a fresh checkout id.
func NewID() string { return uuid.NewString() }

// Add registers s under s.ID.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
}

// Get returns the checkout with the given id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close removes the checkout and releases its holds.  It reports whether
// the id was known.
func (r *Registry) Close(ctx context.Context, id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Close(ctx)
	}
	return ok
}

// Len is the number of open checkouts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes every checkout idle for longer than ttl and returns how
// many were closed.
func (r *Registry) Sweep(ctx context.Context, ttl time.Duration) int {
	now := r.now()
	r.mu.Lock()
	open := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		open = append(open, s)
	}
	r.mu.Unlock()

	// IdleFor waits on a checkout that may be committing; keep r.mu free.
	var stale []*Session
	for _, s := range open {
		if s.IdleFor(now) > ttl {
			stale = append(stale, s)
		}
	}

	n := 0
	for _, s := range stale {
		r.mu.Lock()
		cur, ok := r.sessions[s.ID]
		drop := ok && cur == s
		if drop {
			delete(r.sessions, s.ID)
		}
		r.mu.Unlock()
		if drop {
			s.Close(ctx)
			n++
		}
	}
	return n
}
