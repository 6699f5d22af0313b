package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	usererrors "github.com/openpantry/backend/internal/user/errors"
)

const uniqueViolation = "23505"

// PgStore implements UserStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of UserStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindByID retrieves the profile of the given subject.
func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := p.db.QueryRow(ctx,
		"SELECT id, username, created_at FROM user_profiles WHERE id = $1", id).
		Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user profile: %w", err)
	}
	return &user, nil
}

// Upsert creates or rewrites the profile of the given subject.
func (p *PgStore) Upsert(ctx context.Context, user User) (*User, error) {
	var stored User
	err := p.db.QueryRow(ctx,
		`INSERT INTO user_profiles (id, username) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username
		 RETURNING id, username, created_at`,
		user.ID, user.Username).
		Scan(&stored.ID, &stored.Username, &stored.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, usererrors.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to upsert user profile: %w", err)
	}
	return &stored, nil
}
