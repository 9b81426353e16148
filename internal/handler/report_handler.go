package handler

import (
	"strconv"
	"time"

	"estoque-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetLowStock returns products at or below the threshold.
// Query params: threshold (falls back to the configured default).
func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	threshold := -1
	if v := c.Query("threshold"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid threshold"})
		}
		threshold = parsed
	}

	products, err := h.service.LowStock(threshold)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// GetDailyFlow returns per-day inbound/outbound totals for charts.
// Query params: start and end (YYYY-MM-DD), or days=N for the trailing window.
func (h *ReportHandler) GetDailyFlow(c *fiber.Ctx) error {
	var start, end time.Time

	if startStr := c.Query("start"); startStr != "" {
		var err error
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid start date"})
		}
		end, err = time.Parse("2006-01-02", c.Query("end"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid end date"})
		}
	} else {
		days, err := strconv.Atoi(c.Query("days", "7"))
		if err != nil || days <= 0 {
			days = 7
		}
		end = time.Now()
		start = end.AddDate(0, 0, -(days - 1))
	}

	flows, err := h.service.DailyFlow(start, end)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": flows})
}

// GetStats returns the dashboard overview figures.
func (h *ReportHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}
