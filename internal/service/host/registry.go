package host

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry tracks the live host sessions by ID.
type Registry struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		log:      log,
	}
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = s
	r.log.Debug("session added", zap.String("session", s.ID), zap.Int("active", len(r.sessions)))
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// CloseIdle closes every session that has not sent or received a line for
// longer than maxIdle and returns how many it closed. Closed sessions leave
// the registry when their Run returns.
func (r *Registry) CloseIdle(maxIdle time.Duration) int {
	r.mu.RLock()
	var stale []*Session
	now := time.Now()
	for _, s := range r.sessions {
		if now.Sub(s.LastActive()) > maxIdle {
			stale = append(stale, s)
		}
	}
	r.mu.RUnlock()

	for _, s := range stale {
		r.log.Info("closing idle session",
			zap.String("session", s.ID), zap.Time("last_active", s.LastActive()))
		s.Close()
	}
	return len(stale)
}

// CloseAll closes every tracked session.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.RUnlock()

	for _, s := range all {
		s.Close()
	}
}

// Sessions returns the tracked sessions, oldest first.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all
}
