package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ContactService struct {
	DB       *sql.DB
	validate *validator.Validate
}

func NewContactService(db *sql.DB) *ContactService {
	return &ContactService{DB: db, validate: validator.New()}
}

// Create stores a contact-form submission.
func (s *ContactService) Create(ctx context.Context, message *models.ContactMessage) error {
	if err := s.validate.Struct(message); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			return shared.NewValidationError(
				fmt.Sprintf("invalid value for %s", fieldErrs[0].Field()), "contact_us")
		}
		return fmt.Errorf("failed to validate contact message: %w", err)
	}

	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO contact_messages (name, email, subject, message)
         VALUES ($1, $2, $3, $4) RETURNING id, is_read, created_at`,
		message.Name, message.Email, message.Subject, message.Message,
	).Scan(&message.ID, &message.IsRead, &message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

// List returns contact messages, newest first.
func (s *ContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, email, subject, message, is_read, created_at
         FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ContactMessage
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead marks one contact message as read.
func (s *ContactService) MarkRead(ctx context.Context, id uuid.UUID) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE contact_messages SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark contact message read: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return shared.NewNotFoundError("contact message not found", "mark_contact_read")
	}
	return nil
}
