package handlers

import (
	"github.com/bluestock/ipotrack/middleware"
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the full API surface under /api/v1. Kept separate
// from main so route tests run against the same table the server uses.
func RegisterRoutes(app *fiber.App, auth *AuthHandler, ipos *IPOHandler, users *UserHandler, admin *AdminHandler, jwtSecret string) {
	api := app.Group("/api/v1")

	// Auth Routes
	api.Post("/auth/register", auth.Register)
	api.Post("/auth/login", auth.Login)

	// Public IPO Routes
	api.Get("/ipos", ipos.GetIPOs)
	api.Get("/ipos/upcoming", ipos.GetUpcomingIPOs)
	api.Get("/ipos/ongoing", ipos.GetOngoingIPOs)
	api.Get("/ipos/listed", ipos.GetListedIPOs)
	api.Get("/ipos/sme", ipos.GetSMEIPOs)
	api.Get("/ipos/mainboard", ipos.GetMainBoardIPOs)
	api.Get("/ipos/:id", ipos.GetIPOByID)
	api.Get("/ipos/:id/performance", ipos.GetPerformance)

	// User Routes (authenticated)
	user := api.Group("/me", middleware.AuthRequired(jwtSecret))
	user.Post("/trackings/:ipo_id", users.TrackIPO)
	user.Delete("/trackings/:ipo_id", users.UntrackIPO)
	user.Get("/trackings", users.MyTrackings)
	user.Post("/applications/:ipo_id", users.ApplyIPO)
	user.Get("/applications", users.MyApplications)
	user.Post("/reminders/:ipo_id", users.SetReminder)
	user.Get("/reminders", users.MyReminders)
	user.Get("/reminders/history", users.MyReminderHistory)
	user.Delete("/reminders/:id", users.DeleteReminder)
	user.Get("/notifications", users.MyNotifications)
	user.Put("/notifications/:id/read", users.MarkNotificationRead)

	// Contact form (authenticated)
	api.Post("/contact", middleware.AuthRequired(jwtSecret), users.ContactUs)

	// Admin Routes (staff only)
	adm := api.Group("/admin", middleware.AuthRequired(jwtSecret), middleware.StaffRequired())
	adm.Post("/ipos", admin.CreateIPO)
	adm.Put("/ipos/:id", admin.UpdateIPO)
	adm.Delete("/ipos/:id", admin.DeleteIPO)
	adm.Post("/ipos/import", admin.BulkImport)
	adm.Get("/ipos/export", admin.ExportCSV)
	adm.Get("/analytics", admin.GetAnalytics)
	adm.Get("/dashboard", admin.Dashboard)
	adm.Get("/applications", admin.ListApplications)
	adm.Put("/applications/:id/status", admin.UpdateApplicationStatus)
	adm.Post("/notifications/broadcast", admin.Broadcast)
	adm.Get("/contact-messages", admin.ListContactMessages)
	adm.Put("/contact-messages/:id/read", admin.MarkContactMessageRead)
}
