package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type NotificationService struct {
	DB *sql.DB
}

func NewNotificationService(db *sql.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Create inserts one notification for one user.
func (s *NotificationService) Create(ctx context.Context, userID uuid.UUID, message string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO ipo_notifications (user_id, message) VALUES ($1, $2)`, userID, message)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// NotifyStaff creates the notification for every staff user.
func (s *NotificationService) NotifyStaff(ctx context.Context, message string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO ipo_notifications (user_id, message)
         SELECT id, $1 FROM users WHERE is_staff AND is_active`, message)
	if err != nil {
		return fmt.Errorf("failed to notify staff: %w", err)
	}
	return nil
}

// Broadcast sends a message to one user, or to every active user when
// userID is nil.
func (s *NotificationService) Broadcast(ctx context.Context, userID *uuid.UUID, message string) error {
	if userID != nil {
		return s.Create(ctx, *userID, message)
	}

	result, err := s.DB.ExecContext(ctx,
		`INSERT INTO ipo_notifications (user_id, message)
         SELECT id, $1 FROM users WHERE is_active`, message)
	if err != nil {
		return fmt.Errorf("failed to broadcast notification: %w", err)
	}

	recipients, _ := result.RowsAffected()
	logrus.WithField("recipients", recipients).Info("Notification broadcast sent")
	return nil
}

// ListForUser returns a user's notifications, newest first. A zero limit
// means no limit.
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	query := `SELECT id, user_id, message, is_read, created_at
              FROM ipo_notifications WHERE user_id = $1 ORDER BY created_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead marks one of the acting user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, principal models.Principal, id uuid.UUID) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE ipo_notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, principal.UserID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return shared.NewNotFoundError("notification not found", "mark_notification_read")
	}
	return nil
}
