package handler

import (
	"strconv"

	"estoque-api/internal/model"
	"estoque-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	ledger  service.LedgerService
	reports service.ReportService
}

func NewTransactionHandler(ledger service.LedgerService, reports service.ReportService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, reports: reports}
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var tx model.Transaction
	if err := c.BodyParser(&tx); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.ledger.Apply(&tx); err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": tx})
}

// GetTransactions lists movement history, newest first. Query params:
// product_id to filter, limit to truncate.
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid limit"})
		}
		transactions, err := h.reports.Recent(limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(transactions)
	}

	var productID *uuid.UUID
	if idStr := c.Query("product_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		productID = &id
	}

	transactions, err := h.reports.Transactions(productID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(transactions)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.ledger.Get(txID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tx)
}
