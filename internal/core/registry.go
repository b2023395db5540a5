package core

import (
	"sort"
	"sync"
)

// Registry is the shared map of online usernames to sessions. It is the
// single source of truth for presence. The lock is held only across map
// operations and mailbox enqueues; never across socket I/O.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register inserts a session. Fails closed with ErrDuplicateSession if the
// username already has a live entry; it never overwrites.
func (r *Registry) Register(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.Username]; exists {
		return ErrDuplicateSession
	}
	r.sessions[s.Username] = s
	return nil
}

// Deregister removes the username if present. Idempotent, so a normal
// disconnect racing a kick is harmless.
func (r *Registry) Deregister(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, username)
}

// Snapshot returns the usernames currently registered, sorted.
func (r *Registry) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Channels returns the distinct channel names currently occupied, sorted.
func (r *Registry) Channels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{})
	for _, s := range r.sessions {
		seen[s.Channel] = struct{}{}
	}
	channels := make([]string, 0, len(seen))
	for name := range seen {
		channels = append(channels, name)
	}
	sort.Strings(channels)
	return channels
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// View runs fn with the live session map while holding the lock. fn may
// mutate sessions and enqueue to mailboxes, but must not retain the map
// or any session past the call, and must not block on I/O.
func (r *Registry) View(fn func(online map[string]*Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.sessions)
}

// WithSession runs fn with the named session under the lock. Returns
// false if the username is not registered. The same retention and
// blocking rules as View apply.
func (r *Registry) WithSession(username string, fn func(*Session)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[username]
	if !ok {
		return false
	}
	fn(s)
	return true
}
