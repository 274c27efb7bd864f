package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

// PostgresStore persists users in a Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed user store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the users table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			roles TEXT[] NOT NULL DEFAULT '{user}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

// Create adds a new user with a bcrypt-hashed password.
func (s *PostgresStore) Create(ctx context.Context, username, password string, roles []string) (*models.User, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
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

	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (id, username, hashed_password, roles, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.HashedPassword, user.Roles, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// GetByUsername returns the user with the given username.
func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.get(ctx, `SELECT id, username, hashed_password, roles, created_at, updated_at
		FROM users WHERE username = $1`, username)
}

// GetByID returns the user with the given id.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.get(ctx, `SELECT id, username, hashed_password, roles, created_at, updated_at
		FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) get(ctx context.Context, query, arg string) (*models.User, error) {
	var user models.User
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.HashedPassword, &user.Roles, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}
