package userstore

import (
	"context"
	"sync"
	"time"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

// MemoryStore keeps users in process memory. Accounts other than the
// bootstrap admin are lost on restart; use the Postgres store when
// durability matters.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byName  map[string]*models.User
}

// NewMemoryStore creates an empty in-memory user store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*models.User),
		byName: make(map[string]*models.User),
	}
}

// Create adds a new user with a bcrypt-hashed password.
func (s *MemoryStore) Create(ctx context.Context, username, password string, roles []string) (*models.User, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[username]; exists {
		return nil, ErrDuplicate
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:             newUserID(),
		Username:       username,
		HashedPassword: hashed,
		Roles:          roles,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.byID[user.ID] = user
	s.byName[username] = user

	copied := *user
	return &copied, nil
}

// GetByUsername returns the user with the given username.
func (s *MemoryStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByID returns the user with the given id.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}
