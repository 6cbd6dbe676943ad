package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"

	"github.com/sirupsen/logrus"
)

const userColumns = `id, username, email, password_hash, is_active, last_login, created_at`

// UserRepository implements repositories.UserRepository
type UserRepository struct {
	*BaseRepository[models.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, driver string, logger *logrus.Logger) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository[models.User](db, driver, "user", logger),
	}
}

func scanUser(s scanner) (*models.User, error) {
	u := &models.User{}
	var lastLogin sql.NullTime
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &lastLogin, &u.CreatedAt); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return repositories.ValidationError("user", user.ID, err)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	id, err := r.insertReturningID(ctx, `
		INSERT INTO users (username, email, password_hash, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		user.Username, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt,
	)
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}
	return r.queryOne(ctx, "get_by_id", id, scanUser, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByLogin retrieves a user by username, falling back to email
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, repositories.NotFoundByError("user", "login", login)
	}

	u, err := r.queryOne(ctx, "get_by_login", 0, scanUser, `
		SELECT `+userColumns+` FROM users
		WHERE username = ? OR (email <> '' AND LOWER(email) = LOWER(?))
		ORDER BY CASE WHEN username = ? THEN 0 ELSE 1 END, id
		LIMIT 1`,
		login, login, login)
	if repositories.IsNotFound(err) {
		return nil, repositories.NotFoundByError("user", "login", login)
	}
	return u, err
}

// UpdateLastLogin records a successful sign-in
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "update_last_login",
		`UPDATE users SET last_login = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update_last_login", id)
}
