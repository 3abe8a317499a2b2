package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ReminderService struct {
	DB            *sql.DB
	ipos          *IPOService
	notifications *NotificationService
}

func NewReminderService(db *sql.DB, ipos *IPOService, notifications *NotificationService) *ReminderService {
	return &ReminderService{
		DB:            db,
		ipos:          ipos,
		notifications: notifications,
	}
}

// SetReminder creates or updates the acting user's reminder for an IPO.
// The (user, ipo) pair is unique, so setting again replaces date, time and
// message and reactivates the reminder.
func (s *ReminderService) SetReminder(ctx context.Context, principal models.Principal, ipoID uuid.UUID, reminderDate time.Time, reminderTime, message string) (*models.Reminder, error) {
	if _, err := time.Parse("15:04", reminderTime); err != nil {
		if _, err := time.Parse("15:04:05", reminderTime); err != nil {
			return nil, shared.NewValidationError(
				fmt.Sprintf("invalid reminder time %q, use HH:MM", reminderTime), "set_reminder")
		}
	}

	ipo, err := s.ipos.GetIPOByID(ctx, ipoID)
	if err != nil {
		return nil, err
	}
	if ipo == nil {
		return nil, shared.NewNotFoundError("IPO not found", "set_reminder")
	}

	reminder := &models.Reminder{
		UserID:       principal.UserID,
		IPOID:        ipoID,
		ReminderDate: reminderDate,
		ReminderTime: reminderTime,
		Message:      message,
		IsActive:     true,
		CompanyName:  ipo.CompanyName,
	}

	err = s.DB.QueryRowContext(ctx,
		`INSERT INTO ipo_reminders (user_id, ipo_id, reminder_date, reminder_time, message)
         VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (user_id, ipo_id) DO UPDATE
         SET reminder_date = EXCLUDED.reminder_date,
             reminder_time = EXCLUDED.reminder_time,
             message = EXCLUDED.message,
             is_active = TRUE
         RETURNING id, created_at`,
		reminder.UserID, reminder.IPOID, reminder.ReminderDate, reminder.ReminderTime, reminder.Message,
	).Scan(&reminder.ID, &reminder.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to set reminder: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":      principal.UserID,
		"company_name": ipo.CompanyName,
	}).Info("Reminder set")

	return reminder, nil
}

// ListActiveForUser returns the acting user's active reminders ordered by
// reminder date. Deactivated reminders do not appear here.
func (s *ReminderService) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]models.Reminder, error) {
	return s.listForUser(ctx, userID, true)
}

// ListAllForUser returns the acting user's reminders including inactive
// historical ones.
func (s *ReminderService) ListAllForUser(ctx context.Context, userID uuid.UUID) ([]models.Reminder, error) {
	return s.listForUser(ctx, userID, false)
}

func (s *ReminderService) listForUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.Reminder, error) {
	query := `SELECT r.id, r.user_id, r.ipo_id, r.reminder_date, r.reminder_time, r.message,
                     r.is_active, r.created_at, i.company_name
              FROM ipo_reminders r JOIN ipos i ON i.id = r.ipo_id
              WHERE r.user_id = $1`
	if activeOnly {
		query += ` AND r.is_active`
	}
	query += ` ORDER BY r.reminder_date`

	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var r models.Reminder
		if err := rows.Scan(&r.ID, &r.UserID, &r.IPOID, &r.ReminderDate, &r.ReminderTime,
			&r.Message, &r.IsActive, &r.CreatedAt, &r.CompanyName); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// Deactivate soft-deletes one of the acting user's reminders. The row
// stays retrievable as history.
func (s *ReminderService) Deactivate(ctx context.Context, principal models.Principal, id uuid.UUID) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE ipo_reminders SET is_active = FALSE WHERE id = $1 AND user_id = $2`,
		id, principal.UserID)
	if err != nil {
		return fmt.Errorf("failed to deactivate reminder: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return shared.NewNotFoundError("reminder not found", "delete_reminder")
	}
	return nil
}

// DispatchDue converts due active reminders into notifications and
// deactivates them. Returns the number dispatched.
func (s *ReminderService) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.message, i.company_name
         FROM ipo_reminders r JOIN ipos i ON i.id = r.ipo_id
         WHERE r.is_active
           AND (r.reminder_date < $1::date
                OR (r.reminder_date = $1::date AND r.reminder_time <= $2::time))`,
		now.Format("2006-01-02"), now.Format("15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	type due struct {
		id      uuid.UUID
		userID  uuid.UUID
		message string
		company string
	}
	var dues []due
	for rows.Next() {
		var d due
		if err := rows.Scan(&d.id, &d.userID, &d.message, &d.company); err != nil {
			return 0, fmt.Errorf("failed to scan due reminder: %w", err)
		}
		dues = append(dues, d)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	dispatched := 0
	for _, d := range dues {
		message := d.message
		if message == "" {
			message = fmt.Sprintf("Reminder for %s", d.company)
		} else {
			message = fmt.Sprintf("Reminder for %s: %s", d.company, d.message)
		}

		if err := s.notifications.Create(ctx, d.userID, message); err != nil {
			logrus.WithError(err).WithField("reminder_id", d.id).Warn("Failed to dispatch reminder")
			continue
		}
		if _, err := s.DB.ExecContext(ctx,
			`UPDATE ipo_reminders SET is_active = FALSE WHERE id = $1`, d.id); err != nil {
			logrus.WithError(err).WithField("reminder_id", d.id).Warn("Failed to deactivate dispatched reminder")
			continue
		}
		dispatched++
	}

	return dispatched, nil
}

// Count returns the total number of reminder records.
func (s *ReminderService) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM ipo_reminders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reminders: %w", err)
	}
	return count, nil
}
