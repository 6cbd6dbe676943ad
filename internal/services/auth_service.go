package services

import (
	"context"
	"fmt"
	"time"

	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"

	"github.com/sirupsen/logrus"
)

type authService struct {
	users  repositories.UserRepository
	logger *logrus.Logger
	now    func() time.Time
}

// NewAuthService creates a new auth service instance
func NewAuthService(users repositories.UserRepository, logger *logrus.Logger) AuthService {
	if logger == nil {
		logger = logrus.New()
	}
	return &authService{users: users, logger: logger, now: time.Now}
}

// Authenticate checks the password of the active user identified by login
func (s *authService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive || !user.CheckPassword(password) {
		s.logger.WithFields(logrus.Fields{"user_id": user.ID}).Warn("Rejected sign-in")
		return nil, ErrInvalidCredentials
	}

	at := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, at); err != nil {
		return nil, fmt.Errorf("failed to record sign-in: %w", err)
	}
	user.LastLogin = &at

	return user, nil
}

// GetUser retrieves a user by ID
func (s *authService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CreateUser creates an active staff account
func (s *authService) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	user, err := models.NewUser(username, email, password)
	if err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, fieldError("username", msgUsernameTaken, user.Username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User created")
	return user, nil
}
