package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"campusevents/internal/apperr"
	"campusevents/internal/store"
)

// Repository persists users in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new user row. A duplicate email surfaces as a conflict.
func (r *Repository) Insert(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, role, college_id, sem)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, u.ID, u.Email, u.PasswordHash, u.FullName, u.Role, u.CollegeID, u.Sem)
	if err := row.Scan(&u.CreatedAt); err != nil {
		if store.IsUniqueViolation(err) {
			return User{}, apperr.Conflict("email already registered")
		}
		return User{}, apperr.Internal(err)
	}
	return u, nil
}

// GetByEmail returns the user with the given email, or nil.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, role, college_id, sem, created_at
		FROM users WHERE email = $1
	`, email)
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.CollegeID, &u.Sem, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetProfile returns the user's display name joined with their college name.
func (r *Repository) GetProfile(ctx context.Context, id string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT u.full_name, COALESCE(c.college_name, 'Unknown College')
		FROM users u
		LEFT JOIN colleges c ON c.id = u.college_id
		WHERE u.id = $1
	`, id)
	var p Profile
	if err := row.Scan(&p.Name, &p.CollegeName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
