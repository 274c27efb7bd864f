package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

// MemoryStore keeps sessions in process memory. Sessions idle past the
// configured TTL are lazily reset on next access rather than evicted, so
// a stale client resumes from a clean INITIAL state under the same id.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration
}

// NewMemoryStore creates an in-memory session store. A zero ttl disables
// idle expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
	}
}

func (m *MemoryStore) expired(s *models.Session) bool {
	return m.ttl > 0 && time.Since(s.LastActivity) > m.ttl
}

// Get returns the session for id, or ErrNotFound
func (m *MemoryStore) Get(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.expired(s) {
		log.Printf(`{"level":"info","message":"Session expired, resetting","session_id":"%s"}`, id)
		s = models.NewSession(id)
		m.sessions[id] = s
	}
	return s, nil
}

// GetOrCreate returns the existing session or a fresh INITIAL one
func (m *MemoryStore) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || m.expired(s) {
		s = models.NewSession(id)
		m.sessions[id] = s
	}
	return s, nil
}

// Put persists the session and refreshes its activity timestamp
func (m *MemoryStore) Put(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.LastActivity = time.Now().UTC()
	m.sessions[s.ID] = s
	return nil
}

// Delete removes the session, returning ErrNotFound when absent
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Reset replaces the session with a fresh INITIAL one under the same id
func (m *MemoryStore) Reset(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := models.NewSession(id)
	m.sessions[id] = s
	return s, nil
}

// Len reports the number of live sessions
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
