package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/cricbase/internal/store"
)

// UserRepository handles commenter data access
type UserRepository struct {
	db *store.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *store.Database) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID finds a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*store.User, error) {
	query := `
		SELECT id, username, email, avatar, created_at
		FROM users
		WHERE id = $1
	`

	var (
		u      store.User
		avatar sql.NullString
	)
	err := r.db.DB().QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &avatar, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	u.Avatar = stringPtr(avatar)
	return &u, nil
}

// Ensure inserts the user if it does not exist yet and returns the stored row
func (r *UserRepository) Ensure(ctx context.Context, u *store.User) (*store.User, error) {
	query := `
		INSERT INTO users (id, username, email, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.DB().ExecContext(ctx, query, u.ID, u.Username, u.Email, nullString(u.Avatar), u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ensuring user %s: %w", u.ID, err)
	}

	return r.GetByID(ctx, u.ID)
}
