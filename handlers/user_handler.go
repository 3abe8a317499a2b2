package handlers

import (
	"time"

	"github.com/bluestock/ipotrack/middleware"
	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserHandler serves the user-scoped workflow: watchlist, applications,
// reminders, notifications and contact messages. Every operation applies
// only to the acting principal's own records.
type UserHandler struct {
	Trackings     *services.TrackingService
	Applications  *services.ApplicationService
	Reminders     *services.ReminderService
	Notifications *services.NotificationService
	Contacts      *services.ContactService
}

func NewUserHandler(
	trackings *services.TrackingService,
	applications *services.ApplicationService,
	reminders *services.ReminderService,
	notifications *services.NotificationService,
	contacts *services.ContactService,
) *UserHandler {
	return &UserHandler{
		Trackings:     trackings,
		Applications:  applications,
		Reminders:     reminders,
		Notifications: notifications,
		Contacts:      contacts,
	}
}

func (h *UserHandler) TrackIPO(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	ipoID, err := uuid.Parse(c.Params("ipo_id"))
	if err != nil {
		return respondBadRequest(c, "Invalid IPO id")
	}

	tracking, err := h.Trackings.Track(c.Context(), principal, ipoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    tracking,
	})
}

func (h *UserHandler) UntrackIPO(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	ipoID, err := uuid.Parse(c.Params("ipo_id"))
	if err != nil {
		return respondBadRequest(c, "Invalid IPO id")
	}

	if err := h.Trackings.Untrack(c.Context(), principal, ipoID); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.Map{"untracked": true})
}

func (h *UserHandler) MyTrackings(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	trackings, err := h.Trackings.ListForUser(c.Context(), principal.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, trackings)
}

type applyRequest struct {
	Quantity int    `json:"quantity"`
	Remarks  string `json:"remarks"`
}

func (h *UserHandler) ApplyIPO(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	ipoID, err := uuid.Parse(c.Params("ipo_id"))
	if err != nil {
		return respondBadRequest(c, "Invalid IPO id")
	}

	var req applyRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	app, err := h.Applications.Apply(c.Context(), principal, ipoID, req.Quantity, req.Remarks)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    app,
	})
}

func (h *UserHandler) MyApplications(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	apps, err := h.Applications.ListForUser(c.Context(), principal.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, apps)
}

type reminderRequest struct {
	ReminderDate string `json:"reminder_date"`
	ReminderTime string `json:"reminder_time"`
	Message      string `json:"message"`
}

func (h *UserHandler) SetReminder(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	ipoID, err := uuid.Parse(c.Params("ipo_id"))
	if err != nil {
		return respondBadRequest(c, "Invalid IPO id")
	}

	var req reminderRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	date, err := time.Parse("2006-01-02", req.ReminderDate)
	if err != nil {
		return respondBadRequest(c, "Invalid reminder_date format. Use YYYY-MM-DD")
	}

	reminder, err := h.Reminders.SetReminder(c.Context(), principal, ipoID, date, req.ReminderTime, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    reminder,
	})
}

// MyReminders lists active reminders only; soft-deleted reminders are
// available under MyReminderHistory.
func (h *UserHandler) MyReminders(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	reminders, err := h.Reminders.ListActiveForUser(c.Context(), principal.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, reminders)
}

func (h *UserHandler) MyReminderHistory(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	reminders, err := h.Reminders.ListAllForUser(c.Context(), principal.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, reminders)
}

func (h *UserHandler) DeleteReminder(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid reminder id")
	}

	if err := h.Reminders.Deactivate(c.Context(), principal, id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.Map{"deleted": true})
}

func (h *UserHandler) MyNotifications(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	notifications, err := h.Notifications.ListForUser(c.Context(), principal.UserID, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, notifications)
}

func (h *UserHandler) MarkNotificationRead(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid notification id")
	}

	if err := h.Notifications.MarkRead(c.Context(), principal, id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.Map{"read": true})
}

func (h *UserHandler) ContactUs(c *fiber.Ctx) error {
	var message models.ContactMessage
	if err := c.BodyParser(&message); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	if err := h.Contacts.Create(c.Context(), &message); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    message,
	})
}
