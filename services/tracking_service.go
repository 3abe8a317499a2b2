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

type TrackingService struct {
	DB            *sql.DB
	ipos          *IPOService
	notifications *NotificationService
}

func NewTrackingService(db *sql.DB, ipos *IPOService, notifications *NotificationService) *TrackingService {
	return &TrackingService{
		DB:            db,
		ipos:          ipos,
		notifications: notifications,
	}
}

// Track adds an IPO to the acting user's watchlist and creates a
// notification as a side effect. Tracking the same IPO twice is a conflict.
func (s *TrackingService) Track(ctx context.Context, principal models.Principal, ipoID uuid.UUID) (*models.Tracking, error) {
	ipo, err := s.ipos.GetIPOByID(ctx, ipoID)
	if err != nil {
		return nil, err
	}
	if ipo == nil {
		return nil, shared.NewNotFoundError("IPO not found", "track_ipo")
	}

	tracking := &models.Tracking{
		UserID:      principal.UserID,
		IPOID:       ipoID,
		CompanyName: ipo.CompanyName,
	}

	err = s.DB.QueryRowContext(ctx,
		`INSERT INTO ipo_trackings (user_id, ipo_id) VALUES ($1, $2) RETURNING id, tracked_at`,
		tracking.UserID, tracking.IPOID,
	).Scan(&tracking.ID, &tracking.TrackedAt)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return nil, shared.NewConflictError(
				fmt.Sprintf("You are already tracking %s", ipo.CompanyName), "track_ipo", err)
		}
		return nil, fmt.Errorf("failed to create tracking: %w", err)
	}

	if err := s.notifications.Create(ctx, principal.UserID,
		fmt.Sprintf("You started tracking %s", ipo.CompanyName)); err != nil {
		logrus.WithError(err).Warn("Failed to create tracking notification")
	}

	return tracking, nil
}

// Untrack removes an IPO from the acting user's watchlist.
func (s *TrackingService) Untrack(ctx context.Context, principal models.Principal, ipoID uuid.UUID) error {
	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM ipo_trackings WHERE user_id = $1 AND ipo_id = $2`,
		principal.UserID, ipoID)
	if err != nil {
		return fmt.Errorf("failed to delete tracking: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return shared.NewNotFoundError("tracking not found", "untrack_ipo")
	}
	return nil
}

// ListForUser returns the acting user's watchlist, newest first.
func (s *TrackingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Tracking, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT t.id, t.user_id, t.ipo_id, t.tracked_at, i.company_name
         FROM ipo_trackings t JOIN ipos i ON i.id = t.ipo_id
         WHERE t.user_id = $1 ORDER BY t.tracked_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trackings: %w", err)
	}
	defer rows.Close()

	var trackings []models.Tracking
	for rows.Next() {
		var t models.Tracking
		if err := rows.Scan(&t.ID, &t.UserID, &t.IPOID, &t.TrackedAt, &t.CompanyName); err != nil {
			return nil, fmt.Errorf("failed to scan tracking: %w", err)
		}
		trackings = append(trackings, t)
	}
	return trackings, rows.Err()
}

// Count returns the total number of tracking records.
func (s *TrackingService) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM ipo_trackings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trackings: %w", err)
	}
	return count, nil
}
