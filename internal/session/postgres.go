package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

// PostgresStore persists sessions as JSONB rows. Each session is a
// single row keyed by id, so a session's own reads always observe its
// last write.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresStore creates a Postgres-backed session store. A zero ttl
// disables idle expiry.
func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl}
}

// EnsureSchema creates the sessions table if it does not exist
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chat_sessions (
			id         TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create chat_sessions table: %w", err)
	}
	return nil
}

func (p *PostgresStore) load(ctx context.Context, id string) (*models.Session, time.Time, error) {
	var data []byte
	var updatedAt time.Time
	err := p.pool.QueryRow(ctx,
		`SELECT data, updated_at FROM chat_sessions WHERE id = $1`, id,
	).Scan(&data, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load session: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &s, updatedAt, nil
}

// Get returns the session for id, or ErrNotFound. Sessions idle past the
// TTL are reset in place.
func (p *PostgresStore) Get(ctx context.Context, id string) (*models.Session, error) {
	s, updatedAt, err := p.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ttl > 0 && time.Since(updatedAt) > p.ttl {
		return p.Reset(ctx, id)
	}
	return s, nil
}

// GetOrCreate returns the existing session or a fresh INITIAL one
func (p *PostgresStore) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	s, err := p.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		fresh := models.NewSession(id)
		if putErr := p.Put(ctx, fresh); putErr != nil {
			return nil, putErr
		}
		return fresh, nil
	}
	return s, err
}

// Put persists the session and refreshes its activity timestamp
func (p *PostgresStore) Put(ctx context.Context, s *models.Session) error {
	s.LastActivity = time.Now().UTC()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO chat_sessions (id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		s.ID, data)
	if err != nil {
		return fmt.Errorf("failed to store session %s: %w", s.ID, err)
	}
	return nil
}

// Delete removes the session, returning ErrNotFound when absent
func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset replaces the session with a fresh INITIAL one under the same id
func (p *PostgresStore) Reset(ctx context.Context, id string) (*models.Session, error) {
	s := models.NewSession(id)
	if err := p.Put(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
