package handlers

import (
	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPOHandler struct {
	Service *services.IPOService
}

func NewIPOHandler(service *services.IPOService) *IPOHandler {
	return &IPOHandler{Service: service}
}

// GetIPOs lists IPOs, optionally filtered by exact status and a
// case-insensitive company name search.
func (h *IPOHandler) GetIPOs(c *fiber.Ctx) error {
	filter := models.IPOFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	if filter.Status != "" && !models.IsValidStatus(filter.Status) {
		return respondBadRequest(c, "Invalid status filter")
	}

	ipos, err := h.Service.GetIPOs(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, ipos)
}

func (h *IPOHandler) GetIPOByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid IPO id")
	}

	ipo, err := h.Service.GetIPOByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if ipo == nil {
		return respondNotFound(c, "IPO not found")
	}
	return respondData(c, ipo)
}

func (h *IPOHandler) GetUpcomingIPOs(c *fiber.Ctx) error {
	return h.byStatus(c, models.StatusUpcoming)
}

func (h *IPOHandler) GetOngoingIPOs(c *fiber.Ctx) error {
	return h.byStatus(c, models.StatusOngoing)
}

func (h *IPOHandler) GetListedIPOs(c *fiber.Ctx) error {
	return h.byStatus(c, models.StatusListed)
}

func (h *IPOHandler) byStatus(c *fiber.Ctx, status string) error {
	ipos, err := h.Service.GetIPOs(c.Context(), models.IPOFilter{Status: status})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, ipos)
}

// GetSMEIPOs lists SME issues only.
func (h *IPOHandler) GetSMEIPOs(c *fiber.Ctx) error {
	ipos, err := h.Service.GetIPOs(c.Context(), models.IPOFilter{
		IssueType: []string{models.IssueTypeSME},
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, ipos)
}

// GetMainBoardIPOs lists book-built and fixed-price issues.
func (h *IPOHandler) GetMainBoardIPOs(c *fiber.Ctx) error {
	ipos, err := h.Service.GetIPOs(c.Context(), models.IPOFilter{
		IssueType: []string{models.IssueTypeBookBuilt, models.IssueTypeFixedPrice},
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, ipos)
}

// GetPerformance returns derived performance metrics for a listed IPO.
func (h *IPOHandler) GetPerformance(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid IPO id")
	}

	perf, err := h.Service.GetPerformance(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if perf == nil {
		return respondNotFound(c, "IPO not found")
	}
	return respondData(c, perf)
}
