package session

import (
	"context"
	"errors"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

// ErrNotFound is returned when a session id has no record
var ErrNotFound = errors.New("session not found")

// Store is the keyed conversation-record store the dialogue engine runs
// against. Implementations must provide read-your-writes consistency for
// a session's own subsequent requests; strict ordering across sessions
// is not required.
type Store interface {
	// Get returns the session for id, or ErrNotFound
	Get(ctx context.Context, id string) (*models.Session, error)
	// GetOrCreate returns the existing session or a fresh INITIAL one
	GetOrCreate(ctx context.Context, id string) (*models.Session, error)
	// Put persists the session and refreshes its activity timestamp
	Put(ctx context.Context, s *models.Session) error
	// Delete removes the session, returning ErrNotFound when absent
	Delete(ctx context.Context, id string) error
	// Reset replaces the session with a fresh INITIAL one under the same id
	Reset(ctx context.Context, id string) (*models.Session, error)
}
