// Package registry owns the mapping from session ids to live worlds and
// their lifecycle: creation, lookup, deletion, and TTL-based eviction.
package registry

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"vacuumworld/internal/domain"
	"vacuumworld/internal/world"
)

// Session is one registry entry. The world is exclusively owned by the
// entry; the registry lock covers only the map, not world mutation, so
// callers must serialize their own get→act sequences per session id.
type Session struct {
	ID           string
	World        *world.World
	CreatedAt    time.Time
	LastAccessAt time.Time
}

// Registry is a concurrency-safe collection of sessions. Construct with
// New; the zero value is not usable.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create constructs a world from params and registers it under a fresh id.
// Construction failures propagate untouched and leave the registry unchanged.
func (r *Registry) Create(p world.Params) (*Session, error) {
	w, err := world.New(p)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := r.now()
	s := &Session{
		ID:           id,
		World:        w,
		CreatedAt:    now,
		LastAccessAt: now,
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return s, nil
}

// Get looks up a session and refreshes its last-access timestamp.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.LastAccessAt = r.now()
	return s, nil
}

// Delete removes a session. A second delete of the same id reliably
// returns ErrNotFound.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

// List returns a summary of every session, taken under one lock
// acquisition.
func (r *Registry) List() []domain.SessionSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.SessionSummary, 0, len(r.sessions))
	for _, s := range r.sessions {
		w := s.World
		out = append(out, domain.SessionSummary{
			SessionID:    s.ID,
			Size:         [2]int{w.Width(), w.Height()},
			Position:     w.Position(),
			Performance:  w.Performance(),
			StepsTaken:   w.StepsTaken(),
			Finished:     w.Finished(),
			CreatedAt:    s.CreatedAt.UnixMilli(),
			LastAccessAt: s.LastAccessAt.UnixMilli(),
		})
	}
	return out
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep deletes every session idle for longer than maxAge and returns the
// number removed.
func (r *Registry) Sweep(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.LastAccessAt) > maxAge {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps on a ticker until the context is cancelled. Intended to
// run on its own goroutine; it coordinates with client calls only through
// the registry lock.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxAge); n > 0 {
				log.Printf("sweeper: evicted %d stale session(s)", n)
			}
		}
	}
}
