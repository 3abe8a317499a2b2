package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	DB         *sql.DB
	bcryptCost int
}

func NewUserService(db *sql.DB, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{DB: db, bcryptCost: bcryptCost}
}

// Register creates a user with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return nil, shared.NewValidationError("username must be at least 3 characters long", "register")
	}
	if len(password) < 8 {
		return nil, shared.NewValidationError("password must be at least 8 characters long", "register")
	}
	if !strings.Contains(email, "@") {
		return nil, shared.NewValidationError("invalid email address", "register")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	err = s.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3)
         RETURNING id, is_staff, is_active, created_at`,
		user.Username, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.IsStaff, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return nil, shared.NewConflictError("username already exists", "register", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logrus.WithField("username", user.Username).Info("User registered")
	return user, nil
}

// Authenticate verifies credentials and returns the user. Invalid
// credentials and unknown usernames yield the same message.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_staff, is_active, created_at
         FROM users WHERE username = $1`, username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.IsStaff, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.NewValidationError("invalid username or password", "login")
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.IsActive {
		return nil, shared.NewValidationError("account is disabled", "login")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.NewValidationError("invalid username or password", "login")
	}

	return &user, nil
}

// GetByID returns one user, or nil when no record matches.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_staff, is_active, created_at
         FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.IsStaff, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// Count returns the total number of users.
func (s *UserService) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
