package uploads

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"salespulse/pkg/contracts/domain"
)

// MemoryStore is an in-memory implementation of Store. Sessions idle for
// longer than the TTL are dropped by PurgeExpired, and the least recently
// updated session is evicted when the store is full.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
	logger      *slog.Logger
}

// NewMemoryStore creates a new in-memory upload store. maxSessions <= 0
// means unbounded.
func NewMemoryStore(ttl time.Duration, maxSessions int, logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStore{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
		logger:      logger.With(slog.String("component", "upload_store")),
	}
}

// SetClock replaces the time source used for timestamps and expiry
func (s *MemoryStore) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Create stores a new session, stamping CreatedAt and UpdatedAt
func (s *MemoryStore) Create(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("%w: %s", ErrExists, session.ID)
	}

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}

	now := s.now()
	stored := session.clone()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Revision = 1
	s.sessions[session.ID] = stored

	session.CreatedAt = now
	session.UpdatedAt = now
	session.Revision = 1
	return nil
}

// Get retrieves a session by ID. Expired sessions are reported as not found.
func (s *MemoryStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists || s.expired(session, s.now()) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	// Return a copy to prevent external modification
	return session.clone(), nil
}

// Update replaces an existing session, bumps its Revision and refreshes
// UpdatedAt. The session must carry the stored Revision.
func (s *MemoryStore) Update(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.liveLocked(session.ID)
	if err != nil {
		return err
	}
	if existing.Revision != session.Revision {
		return fmt.Errorf("%w: %s at revision %d, have %d", ErrStale, session.ID, existing.Revision, session.Revision)
	}

	stored := session.clone()
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = s.now()
	stored.Revision = existing.Revision + 1
	s.sessions[session.ID] = stored

	session.UpdatedAt = stored.UpdatedAt
	session.Revision = stored.Revision
	return nil
}

// SetResult stores a cleaning result computed from the session at revision.
// Only Result and UpdatedAt change, so the Revision stays put.
func (s *MemoryStore) SetResult(id string, revision int64, result *domain.CleaningResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.liveLocked(id)
	if err != nil {
		return err
	}
	if existing.Revision != revision {
		return fmt.Errorf("%w: %s at revision %d, have %d", ErrStale, id, existing.Revision, revision)
	}

	stored := existing.clone()
	stored.Result = result
	stored.UpdatedAt = s.now()
	s.sessions[id] = stored
	return nil
}

// Delete removes a session from the store
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	delete(s.sessions, id)
	return nil
}

// List returns live sessions, newest first
func (s *MemoryStore) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	result := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if s.expired(session, now) {
			continue
		}
		result = append(result, session.clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// PurgeExpired removes sessions idle longer than the TTL and returns how many
func (s *MemoryStore) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, session := range s.sessions {
		if s.expired(session, now) {
			delete(s.sessions, id)
			deleted++
		}
	}
	return deleted
}

// Len returns the number of stored sessions, including not yet purged ones
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunJanitor purges expired sessions every interval until ctx is done
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.PurgeExpired(s.now()); n > 0 {
				s.logger.InfoContext(ctx, "purged expired uploads",
					slog.Int("count", n),
					slog.Int("remaining", s.Len()))
			}
		}
	}
}

// liveLocked returns the stored session unless it is missing or expired.
// Caller holds mu.
func (s *MemoryStore) liveLocked(id string) (*Session, error) {
	existing, exists := s.sessions[id]
	if !exists || s.expired(existing, s.now()) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return existing, nil
}

func (s *MemoryStore) expired(session *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(session.UpdatedAt) > s.ttl
}

// evictOldestLocked drops the least recently updated session. Caller holds mu.
func (s *MemoryStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, session := range s.sessions {
		if oldestID == "" || session.UpdatedAt.Before(oldest) {
			oldestID, oldest = id, session.UpdatedAt
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		s.logger.Warn("upload store full, evicted oldest session", slog.String("upload_id", oldestID))
	}
}
