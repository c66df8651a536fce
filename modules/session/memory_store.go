package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and the client test
// doubles. Behavior mirrors MongoStore: filters are equality matches and
// mutations are atomic under the store mutex.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (s *MemoryStore) Find(_ context.Context, f Filter, srt Sort, limit int64) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []Session{}
	for _, sess := range s.sessions {
		if matches(sess, f) {
			matched = append(matched, sess)
		}
	}

	if srt.Field != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := sortKey(matched[i], srt.Field), sortKey(matched[j], srt.Field)
			if srt.Desc {
				return a.After(b)
			}
			return a.Before(b)
		})
	}

	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemoryStore) FindOne(_ context.Context, f Filter) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if matches(sess, f) {
			found := sess
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Insert(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemoryStore) UpdateOne(_ context.Context, f Filter, p Patch) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if !matches(sess, f) {
			continue
		}
		if p.Title != nil {
			sess.Title = *p.Title
		}
		if p.Tags != nil {
			sess.Tags = *p.Tags
		}
		if p.DataURL != nil {
			sess.DataURL = *p.DataURL
		}
		if p.Status != nil {
			sess.Status = *p.Status
		}
		sess.UpdatedAt = p.UpdatedAt
		s.sessions[id] = sess

		updated := sess
		return &updated, nil
	}
	return nil, nil
}

func (s *MemoryStore) DeleteOne(_ context.Context, f Filter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if matches(sess, f) {
			delete(s.sessions, id)
			return true, nil
		}
	}
	return false, nil
}

func matches(s Session, f Filter) bool {
	if f.ID != "" && s.ID != f.ID {
		return false
	}
	if f.OwnerID != "" && s.OwnerID != f.OwnerID {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	return true
}

func sortKey(s Session, field string) time.Time {
	if field == "updated_at" {
		return s.UpdatedAt
	}
	return s.CreatedAt
}
