package handlers

import (
	"strings"
	"time"

	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the administrative surface: IPO management, bulk
// import, export, analytics, application review and broadcasts. Routes
// using it are mounted behind the staff middleware.
type AdminHandler struct {
	IPOs              *services.IPOService
	Imports           *services.ImportService
	Exports           *services.ExportService
	Analytics         *services.AnalyticsService
	Applications      *services.ApplicationService
	Trackings         *services.TrackingService
	Reminders         *services.ReminderService
	Notifications     *services.NotificationService
	Users             *services.UserService
	Contacts          *services.ContactService
	ImportErrorSample int
}

func NewAdminHandler(
	ipos *services.IPOService,
	imports *services.ImportService,
	exports *services.ExportService,
	analytics *services.AnalyticsService,
	applications *services.ApplicationService,
	trackings *services.TrackingService,
	reminders *services.ReminderService,
	notifications *services.NotificationService,
	users *services.UserService,
	contacts *services.ContactService,
	importErrorSample int,
) *AdminHandler {
	return &AdminHandler{
		IPOs:              ipos,
		Imports:           imports,
		Exports:           exports,
		Analytics:         analytics,
		Applications:      applications,
		Trackings:         trackings,
		Reminders:         reminders,
		Notifications:     notifications,
		Users:             users,
		Contacts:          contacts,
		ImportErrorSample: importErrorSample,
	}
}

func (h *AdminHandler) CreateIPO(c *fiber.Ctx) error {
	var ipo models.IPO
	if err := c.BodyParser(&ipo); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	if err := h.IPOs.CreateIPO(c.Context(), &ipo); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    ipo,
	})
}

func (h *AdminHandler) UpdateIPO(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid IPO id")
	}

	var ipo models.IPO
	if err := c.BodyParser(&ipo); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	ipo.ID = id

	if err := h.IPOs.UpdateIPO(c.Context(), &ipo); err != nil {
		return respondError(c, err)
	}
	return respondData(c, ipo)
}

func (h *AdminHandler) DeleteIPO(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid IPO id")
	}

	if err := h.IPOs.DeleteIPO(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.Map{"deleted": true})
}

// BulkImport accepts a multipart CSV upload under "csv_file" plus the
// skip_duplicates and validate_data form flags.
func (h *AdminHandler) BulkImport(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("csv_file")
	if err != nil {
		return respondBadRequest(c, "Please select a CSV file")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		return respondBadRequest(c, "Please upload a CSV file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()

	opts := services.ImportOptions{
		SkipDuplicates: c.FormValue("skip_duplicates") == "on" || c.FormValue("skip_duplicates") == "true",
		ValidateData:   c.FormValue("validate_data") == "on" || c.FormValue("validate_data") == "true",
	}

	result, err := h.Imports.ImportCSV(c.Context(), file, opts)
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.Map{
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"errored":  result.Errored,
		"errors":   result.Errors,
		"summary":  result.Summary(h.ImportErrorSample),
	})
}

// ExportCSV streams the filtered export with its timestamped filename.
func (h *AdminHandler) ExportCSV(c *fiber.Ctx) error {
	filter := models.IPOFilter{Status: c.Query("status")}

	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return respondBadRequest(c, "Invalid date_from format. Use YYYY-MM-DD")
		}
		filter.DateFrom = &t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return respondBadRequest(c, "Invalid date_to format. Use YYYY-MM-DD")
		}
		filter.DateTo = &t
	}

	filename, data, err := h.Exports.Export(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func (h *AdminHandler) GetAnalytics(c *fiber.Ctx) error {
	report, err := h.Analytics.GetAnalytics(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, report)
}

// Dashboard returns the admin summary counters.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	ctx := c.Context()

	statusCounts, err := h.IPOs.CountByStatus(ctx)
	if err != nil {
		return respondError(c, err)
	}
	userCount, err := h.Users.Count(ctx)
	if err != nil {
		return respondError(c, err)
	}
	applicationCounts, err := h.Applications.CountByStatus(ctx)
	if err != nil {
		return respondError(c, err)
	}
	trackingCount, err := h.Trackings.Count(ctx)
	if err != nil {
		return respondError(c, err)
	}
	reminderCount, err := h.Reminders.Count(ctx)
	if err != nil {
		return respondError(c, err)
	}

	totalIPOs := 0
	for _, count := range statusCounts {
		totalIPOs += count
	}
	totalApplications := 0
	for _, count := range applicationCounts {
		totalApplications += count
	}

	return respondData(c, fiber.Map{
		"total_ipos":         totalIPOs,
		"status_counts":      statusCounts,
		"total_users":        userCount,
		"total_applications": totalApplications,
		"application_counts": applicationCounts,
		"total_tracking":     trackingCount,
		"total_reminders":    reminderCount,
	})
}

func (h *AdminHandler) ListApplications(c *fiber.Ctx) error {
	apps, err := h.Applications.ListAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	counts, err := h.Applications.CountByStatus(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return respondData(c, fiber.Map{
		"applications": apps,
		"counts":       counts,
	})
}

type updateApplicationRequest struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

func (h *AdminHandler) UpdateApplicationStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid application id")
	}

	var req updateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	if err := h.Applications.UpdateStatus(c.Context(), id, req.Status, req.Remarks); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.Map{"status": req.Status})
}

type broadcastRequest struct {
	UserID  *uuid.UUID `json:"user_id"`
	Message string     `json:"message"`
}

// Broadcast sends a notification to one user or, when user_id is absent,
// to every active user.
func (h *AdminHandler) Broadcast(c *fiber.Ctx) error {
	var req broadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if req.Message == "" {
		return respondBadRequest(c, "Message is required")
	}

	if err := h.Notifications.Broadcast(c.Context(), req.UserID, req.Message); err != nil {
		return respondError(c, err)
	}

	logrus.WithField("targeted", req.UserID != nil).Info("Notification broadcast requested")
	return respondData(c, fiber.Map{"sent": true})
}

func (h *AdminHandler) ListContactMessages(c *fiber.Ctx) error {
	messages, err := h.Contacts.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, messages)
}

func (h *AdminHandler) MarkContactMessageRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid contact message id")
	}

	if err := h.Contacts.MarkRead(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.Map{"read": true})
}
