package models

import (
	"sync"
	"time"

	"github.com/jahongirdev1/med333-sub000/config"
)

/*
caches:
	Session:$token  -> SessionRecord (TTL = session duration)
	Tokens:$login   -> set of live tokens for the login
*/

// SessionStore keeps live sessions in memory with a redis write-through.
// Redis is optional: without it sessions are process-local, which is the
// same behavior, minus survival across restarts and extra replicas.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]SessionRecord
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]SessionRecord)}
}

func (s *SessionStore) Put(record SessionRecord) error {
	s.mu.Lock()
	s.sessions[record.Token] = record
	s.mu.Unlock()

	if err := config.AddRedisSet("Tokens:"+record.Login, record.Token); err != nil {
		return err
	}
	return config.SetRedisObject("Session:"+record.Token, &record, record.duration())
}

func (s *SessionStore) Get(token string) (SessionRecord, bool) {
	s.mu.RLock()
	record, ok := s.sessions[token]
	s.mu.RUnlock()
	if ok {
		return record, true
	}

	// Another replica may own the session.
	var cached SessionRecord
	exists, err := config.GetRedisObject("Session:"+token, &cached)
	if err != nil || !exists {
		return SessionRecord{}, false
	}
	s.mu.Lock()
	s.sessions[token] = cached
	s.mu.Unlock()
	return cached, true
}

// Delete tears a session down everywhere.
func (s *SessionStore) Delete(token string) error {
	s.mu.Lock()
	record, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if err := config.RemoveRedisKey("Session:" + token); err != nil {
		return err
	}
	if ok && record.Login != "" {
		return config.RemoveRedisSetMember("Tokens:"+record.Login, token)
	}
	return nil
}

// Snapshot returns the in-memory sessions for the sweeper to inspect.
func (s *SessionStore) Snapshot() []SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SessionRecord, 0, len(s.sessions))
	for _, record := range s.sessions {
		out = append(out, record)
	}
	return out
}

// Touch re-stamps a valid session and persists the new stamp. Returns the
// refreshed record, or ok=false when the token is unknown.
func (s *SessionStore) Touch(token string, now time.Time) (SessionRecord, bool) {
	s.mu.Lock()
	record, ok := s.sessions[token]
	if !ok {
		s.mu.Unlock()
		return SessionRecord{}, false
	}
	record = record.Refresh(now)
	s.sessions[token] = record
	s.mu.Unlock()

	_ = config.SetRedisObject("Session:"+token, &record, record.duration())
	return record, true
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
