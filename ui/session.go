package ui

import (
	"log"
	"sync"
	"time"

	"dupfinder/internal/compare"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// upload holds one uploaded workbook and what was learned about it at upload
// time. Bytes live only in memory and die with the session.
type upload struct {
	Filename string
	Data     []byte
	Sheets   []string
	Columns  []string
}

// session is the per-browser working state. One comparison runs to completion
// before another may start in the same session; the semaphore enforces that
// without blocking other sessions.
type session struct {
	ID       string
	First    *upload
	Second   *upload
	Result   *compare.Result
	LastSeen time.Time

	running *semaphore.Weighted
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
}

func newSessionStore(ttl time.Duration) *sessionStore {
	st := &sessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
	go st.janitor()
	return st
}

func (st *sessionStore) create() *session {
	s := &session{
		ID:       uuid.NewString(),
		LastSeen: time.Now(),
		running:  semaphore.NewWeighted(1),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *sessionStore) get(id string) (*session, bool) {
	if id == "" {
		return nil, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	s.LastSeen = time.Now()
	return s, true
}

// janitor evicts idle sessions, discarding their uploaded bytes and results.
func (st *sessionStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-st.ttl)
		st.mu.Lock()
		for id, s := range st.sessions {
			if s.LastSeen.Before(cutoff) {
				delete(st.sessions, id)
				log.Printf("[sessionStore] Expired session %s", id)
			}
		}
		st.mu.Unlock()
	}
}
