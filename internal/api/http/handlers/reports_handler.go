package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-workflow/internal/service"
)

// ReportsHandler serves read-only statistics.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reports}
}

// Statistics GET /reports/statistics.
func (h *ReportsHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.service.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Agencies GET /reports/agencies?top=N.
func (h *ReportsHandler) Agencies(c *fiber.Ctx) error {
	rows, err := h.service.TopAgencies(c.UserContext(), parseInt(c.Query("top"), 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// Technicians GET /reports/technicians.
func (h *ReportsHandler) Technicians(c *fiber.Ctx) error {
	rows, err := h.service.Technicians(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// Summary GET /reports/summary.
func (h *ReportsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
