package session

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"wagesheet/internal/domain/wages"
)

type entry struct {
	sheet    *wages.Sheet
	lastSeen time.Time
}

// Store keeps one wage sheet per session in memory. Nothing survives a restart.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*entry
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: map[string]*entry{},
	}
}

// Ensure returns the session's sheet, creating an empty one on first use.
func (s *Store) Ensure(id string) *wages.Sheet {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{sheet: wages.NewSheet()}
		s.sessions[id] = e
	}
	e.lastSeen = s.now()
	return e.sheet
}

func (s *Store) Get(id string) (*wages.Sheet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.sheet, true
}

func (s *Store) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps on every tick until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case tick := <-ticker.C:
			if removed := s.Sweep(tick); removed > 0 {
				log.WithFields(log.Fields{"removed": removed, "active": s.Len()}).Info("expired wage sheet sessions")
			}
		}
	}
}
