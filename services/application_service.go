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

type ApplicationService struct {
	DB            *sql.DB
	ipos          *IPOService
	notifications *NotificationService
}

func NewApplicationService(db *sql.DB, ipos *IPOService, notifications *NotificationService) *ApplicationService {
	return &ApplicationService{
		DB:            db,
		ipos:          ipos,
		notifications: notifications,
	}
}

// Apply submits an application for the acting user. One application per
// (user, ipo); a second attempt surfaces as an "already applied" conflict.
// Staff receive a notification as a side effect.
func (s *ApplicationService) Apply(ctx context.Context, principal models.Principal, ipoID uuid.UUID, quantity int, remarks string) (*models.Application, error) {
	if quantity < 0 {
		return nil, shared.NewValidationError("quantity applied cannot be negative", "apply_ipo")
	}

	ipo, err := s.ipos.GetIPOByID(ctx, ipoID)
	if err != nil {
		return nil, err
	}
	if ipo == nil {
		return nil, shared.NewNotFoundError("IPO not found", "apply_ipo")
	}

	app := &models.Application{
		UserID:          principal.UserID,
		IPOID:           ipoID,
		Status:          models.ApplicationApplied,
		QuantityApplied: quantity,
		Remarks:         remarks,
		CompanyName:     ipo.CompanyName,
	}

	err = s.DB.QueryRowContext(ctx,
		`INSERT INTO ipo_applications (user_id, ipo_id, status, quantity_applied, remarks)
         VALUES ($1, $2, $3, $4, $5) RETURNING id, applied_at`,
		app.UserID, app.IPOID, app.Status, app.QuantityApplied, app.Remarks,
	).Scan(&app.ID, &app.AppliedAt)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return nil, shared.NewConflictError(
				fmt.Sprintf("You have already applied for %s", ipo.CompanyName), "apply_ipo", err)
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	if err := s.notifications.NotifyStaff(ctx,
		fmt.Sprintf("New application received for %s", ipo.CompanyName)); err != nil {
		logrus.WithError(err).Warn("Failed to notify staff about new application")
	}

	logrus.WithFields(logrus.Fields{
		"user_id":      principal.UserID,
		"ipo_id":       ipoID,
		"company_name": ipo.CompanyName,
	}).Info("Application submitted")

	return app, nil
}

// ListForUser returns the acting user's applications, newest first.
func (s *ApplicationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Application, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT a.id, a.user_id, a.ipo_id, a.status, a.quantity_applied, a.remarks, a.applied_at, i.company_name
         FROM ipo_applications a JOIN ipos i ON i.id = a.ipo_id
         WHERE a.user_id = $1 ORDER BY a.applied_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	return scanApplications(rows, false)
}

// ListAll returns every application for administrative review, newest first.
func (s *ApplicationService) ListAll(ctx context.Context) ([]models.Application, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT a.id, a.user_id, a.ipo_id, a.status, a.quantity_applied, a.remarks, a.applied_at,
                i.company_name, u.username
         FROM ipo_applications a
         JOIN ipos i ON i.id = a.ipo_id
         JOIN users u ON u.id = a.user_id
         ORDER BY a.applied_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	return scanApplications(rows, true)
}

func scanApplications(rows *sql.Rows, withUsername bool) ([]models.Application, error) {
	var apps []models.Application
	for rows.Next() {
		var app models.Application
		dest := []interface{}{
			&app.ID, &app.UserID, &app.IPOID, &app.Status,
			&app.QuantityApplied, &app.Remarks, &app.AppliedAt, &app.CompanyName,
		}
		if withUsername {
			dest = append(dest, &app.Username)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// CountByStatus returns application totals per status value.
func (s *ApplicationService) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM ipo_applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan application count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// UpdateStatus sets an application's status and remarks and notifies the
// applicant as a side effect.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uuid.UUID, status, remarks string) error {
	if !models.IsValidApplicationStatus(status) {
		return shared.NewValidationError(
			fmt.Sprintf("invalid application status %q", status), "update_application_status")
	}

	var userID uuid.UUID
	var companyName string
	err := s.DB.QueryRowContext(ctx,
		`UPDATE ipo_applications a SET status = $1, remarks = $2
         FROM ipos i
         WHERE a.id = $3 AND i.id = a.ipo_id
         RETURNING a.user_id, i.company_name`,
		status, remarks, id).Scan(&userID, &companyName)
	if err != nil {
		if err == sql.ErrNoRows {
			return shared.NewNotFoundError("application not found", "update_application_status")
		}
		return fmt.Errorf("failed to update application status: %w", err)
	}

	message := fmt.Sprintf("Your application for %s has been %s.", companyName, status)
	if remarks != "" {
		message += fmt.Sprintf(" Remarks: %s", remarks)
	}
	if err := s.notifications.Create(ctx, userID, message); err != nil {
		logrus.WithError(err).Warn("Failed to notify applicant about status change")
	}

	logrus.WithFields(logrus.Fields{
		"application_id": id,
		"status":         status,
	}).Info("Application status updated")

	return nil
}
