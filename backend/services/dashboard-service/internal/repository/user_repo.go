package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"evdash/backend/services/dashboard-service/internal/db"
	"evdash/backend/services/dashboard-service/internal/models"
)

// UserRepository handles CRUD for users table.
type UserRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewUserRepository returns repository instance.
func NewUserRepository(conn *sql.DB, dialect db.Dialect) *UserRepository {
	return &UserRepository{db: conn, dialect: dialect}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	query := r.dialect.Rebind(`
		INSERT INTO users (id, email, name, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.Name, user.PasswordHash, string(user.Role), user.CreatedAt.UTC())
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, `email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, `id = ?`, id)
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*models.User, error) {
	query := r.dialect.Rebind(`
		SELECT id, email, name, password_hash, role, created_at
		FROM users
		WHERE ` + where + `
		LIMIT 1
	`)
	var (
		user models.User
		role string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Role = models.Role(role)
	return &user, nil
}
