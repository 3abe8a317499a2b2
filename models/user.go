package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username" validate:"required,min=3,max=150"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal identifies the acting user for an operation. It is passed
// explicitly into services instead of being read from ambient request state.
type Principal struct {
	UserID  uuid.UUID
	IsStaff bool
}
