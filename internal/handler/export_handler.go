package handler

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"estoque-api/internal/model"
	"estoque-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ExportHandler serializes the read surface to CSV downloads. Pure
// read-then-serialize; no invariants live here.
type ExportHandler struct {
	catalog service.CatalogService
	reports service.ReportService
}

func NewExportHandler(catalog service.CatalogService, reports service.ReportService) *ExportHandler {
	return &ExportHandler{catalog: catalog, reports: reports}
}

func (h *ExportHandler) ExportProducts(c *fiber.Ctx) error {
	products, err := h.catalog.List("")
	if err != nil {
		return fail(c, err)
	}

	var buf bytes.Buffer
	if err := WriteProductsCSV(&buf, products); err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Send(buf.Bytes())
}

func (h *ExportHandler) ExportTransactions(c *fiber.Ctx) error {
	transactions, err := h.reports.Transactions(nil)
	if err != nil {
		return fail(c, err)
	}

	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, transactions); err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
	return c.Send(buf.Bytes())
}

func WriteProductsCSV(w io.Writer, products []model.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "code", "name", "description", "price", "quantity", "created_at"}); err != nil {
		return err
	}
	for _, p := range products {
		record := []string{
			p.ID.String(),
			p.CodeValue(),
			p.Name,
			p.Description,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.Itoa(p.Quantity),
			p.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteTransactionsCSV(w io.Writer, transactions []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "product_code", "product_name", "kind", "quantity", "note", "created_at"}); err != nil {
		return err
	}
	for _, t := range transactions {
		record := []string{
			t.ID.String(),
			t.Product.CodeValue(),
			t.Product.Name,
			string(t.Kind),
			strconv.Itoa(t.Quantity),
			t.Note,
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
