package service

import (
	"fmt"
	"time"

	"estoque-api/internal/apperr"
	"estoque-api/internal/model"
	"estoque-api/internal/repository"

	"github.com/google/uuid"
)

// DayFlow is one calendar day of aggregated movement, gaps already filled.
type DayFlow struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type ReportService interface {
	Transactions(productID *uuid.UUID) ([]model.Transaction, error)
	Recent(limit int) ([]model.Transaction, error)
	LowStock(threshold int) ([]model.Product, error)
	// DailyFlow returns one row per calendar day in [start, end] inclusive,
	// ascending, with zero rows for days without movements.
	DailyFlow(start, end time.Time) ([]DayFlow, error)
	Stats() (*repository.CatalogStats, error)
}

type reportService struct {
	products     repository.ProductRepository
	entries      repository.TransactionRepository
	lowThreshold int
}

func NewReportService(products repository.ProductRepository, entries repository.TransactionRepository, lowThreshold int) ReportService {
	return &reportService{products: products, entries: entries, lowThreshold: lowThreshold}
}

func (s *reportService) Transactions(productID *uuid.UUID) ([]model.Transaction, error) {
	if productID != nil {
		return s.entries.FindByProduct(*productID)
	}
	return s.entries.FindAll(0)
}

func (s *reportService) Recent(limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", apperr.ErrInvalidInput)
	}
	return s.entries.FindAll(limit)
}

func (s *reportService) LowStock(threshold int) ([]model.Product, error) {
	if threshold < 0 {
		threshold = s.lowThreshold
	}
	return s.products.FindLowStock(threshold)
}

func (s *reportService) DailyFlow(start, end time.Time) ([]DayFlow, error) {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)
	if endDay.Before(startDay) {
		return nil, fmt.Errorf("%w: end date before start date", apperr.ErrInvalidInput)
	}

	rows, err := s.entries.DailyFlow(startDay, endDay.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]repository.DailyFlowRow, len(rows))
	for _, row := range rows {
		byDay[row.Date] = row
	}

	// Emit every day in range, zero-filled where nothing moved.
	var flows []DayFlow
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		row := byDay[key]
		flows = append(flows, DayFlow{Date: key, Inbound: row.Inbound, Outbound: row.Outbound})
	}
	return flows, nil
}

func (s *reportService) Stats() (*repository.CatalogStats, error) {
	return s.products.Stats(s.lowThreshold)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
