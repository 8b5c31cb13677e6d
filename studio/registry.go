package studio

import (
	"context"
	"sync"
	"time"

	"mehearsal/envelope"
	"mehearsal/model"

	"github.com/google/uuid"
)

// Session is one open studio screen.
type Session struct {
	ID string
	*Transport

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Registry keeps the open sessions. A session leaves the registry when it
// is stopped, exited, or left idle for longer than the idle timeout.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	idleTimeout time.Duration
	maxSessions int
	options     []Option
	now         func() time.Time
}

// DefaultIdleTimeout closes sessions whose screen has been abandoned.
const DefaultIdleTimeout = 30 * time.Minute

// DefaultMaxSessions caps the open sessions. Reloads and prefetches of the
// studio screen each open one; past the cap the least recently seen is closed.
const DefaultMaxSessions = 64

// NewRegistry returns an empty registry. options apply to every transport it opens.
func NewRegistry(idleTimeout time.Duration, options ...Option) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Registry{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		maxSessions: DefaultMaxSessions,
		options:     options,
		now:         time.Now,
	}
}

// SetMaxSessions changes the cap on open sessions. n <= 0 restores the default.
func (r *Registry) SetMaxSessions(n int) {
	if n <= 0 {
		n = DefaultMaxSessions
	}
	r.mu.Lock()
	r.maxSessions = n
	r.mu.Unlock()
}

// Open starts a session for an arrival. The session ends itself
// (leaving the registry) on its first effective stop.
func (r *Registry) Open(arrival envelope.StudioArrival) *Session {
	id := uuid.NewString()

	opts := append([]Option{}, r.options...)
	opts = append(opts, OnEnd(func(m model.SessionMetrics) {
		logger.WithField("session", id).
			WithField("overall", m.Overall).
			Info("session ended")
		r.End(id)
	}))

	s := &Session{
		ID:        id,
		Transport: NewTransport(arrival.Track, arrival.Ensemble, opts...),
		lastSeen:  r.now(),
	}

	r.mu.Lock()
	var evicted []*Session
	for len(r.sessions) >= r.maxSessions {
		old := r.leastRecentlySeen()
		delete(r.sessions, old.ID)
		evicted = append(evicted, old)
	}
	r.sessions[id] = s
	n := len(r.sessions)
	r.mu.Unlock()

	for _, old := range evicted {
		old.Close()
		logger.WithField("session", old.ID).Info("Open: too many sessions, oldest closed")
	}

	logger.WithField("session", id).
		WithField("song", arrival.Track.ID).
		WithField("instruments", len(arrival.Ensemble)).
		WithField("open", n).
		Info("session opened")

	return s
}

// requires: r.mu held, r.sessions not empty
func (r *Registry) leastRecentlySeen() *Session {
	var oldest *Session
	for _, s := range r.sessions {
		if oldest == nil || s.idleSince().Before(oldest.idleSince()) {
			oldest = s
		}
	}
	return oldest
}

// Get returns the open session with the given id and marks it as seen.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// End closes and forgets a session. It returns false if it was not open.
func (r *Registry) End(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep ends the sessions idle for longer than the idle timeout
// and returns how many it ended.
func (r *Registry) Sweep() int {
	deadline := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(deadline) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
		logger.WithField("session", s.ID).Info("Sweep: idle session closed")
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done, then closes every session.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
