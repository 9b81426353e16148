package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"estoque-api/internal/repository/memory"
	"estoque-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

func newTestApp() *fiber.App {
	store := memory.New()
	productRepo := memory.NewProductRepo(store)
	txRepo := memory.NewTransactionRepo(store)

	catalogService := service.NewCatalogService(productRepo, nil)
	ledgerService := service.NewLedgerService(txRepo, nil)
	reportService := service.NewReportService(productRepo, txRepo, 5)

	productHandler := NewProductHandler(catalogService)
	txHandler := NewTransactionHandler(ledgerService, reportService)
	reportHandler := NewReportHandler(reportService)
	exportHandler := NewExportHandler(catalogService, reportService)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Post("/products", productHandler.CreateProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Delete("/products/:id", productHandler.DeleteProduct)
	api.Get("/transactions", txHandler.GetTransactions)
	api.Get("/transactions/:id", txHandler.GetTransaction)
	api.Post("/transactions", txHandler.CreateTransaction)
	api.Get("/reports/low-stock", reportHandler.GetLowStock)
	api.Get("/reports/daily-flow", reportHandler.GetDailyFlow)
	api.Get("/reports/stats", reportHandler.GetStats)
	api.Get("/export/products.csv", exportHandler.ExportProducts)
	api.Get("/export/transactions.csv", exportHandler.ExportTransactions)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var parsed map[string]interface{}
	json.Unmarshal(raw, &parsed)
	return resp, parsed
}

func createProductHTTP(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	resp, parsed := doJSON(t, app, "POST", "/api/v1/products", body)
	if resp.StatusCode != 201 {
		t.Fatalf("create product status = %d, body %v", resp.StatusCode, parsed)
	}
	data := parsed["data"].(map[string]interface{})
	return data["id"].(string)
}

func TestProductLifecycleHTTP(t *testing.T) {
	app := newTestApp()

	id := createProductHTTP(t, app, `{"name":"Widget","code":"W-1","price":2.5,"quantity":4}`)

	resp, parsed := doJSON(t, app, "GET", "/api/v1/products/"+id, "")
	if resp.StatusCode != 200 {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	if parsed["name"] != "Widget" || parsed["quantity"].(float64) != 4 {
		t.Fatalf("get body = %v", parsed)
	}

	resp, _ = doJSON(t, app, "PUT", "/api/v1/products/"+id, `{"name":"Widget Mk2","code":"W-1","price":3.0}`)
	if resp.StatusCode != 200 {
		t.Fatalf("update status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "DELETE", "/api/v1/products/"+id, "")
	if resp.StatusCode != 200 {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "GET", "/api/v1/products/"+id, "")
	if resp.StatusCode != 404 {
		t.Fatalf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	app := newTestApp()

	id := createProductHTTP(t, app, `{"name":"Limited","code":"L-1","quantity":1}`)

	// InvalidInput -> 400
	resp, _ := doJSON(t, app, "POST", "/api/v1/products", `{"name":""}`)
	if resp.StatusCode != 400 {
		t.Fatalf("empty name status = %d, want 400", resp.StatusCode)
	}

	// DuplicateKey -> 409
	resp, _ = doJSON(t, app, "POST", "/api/v1/products", `{"name":"Other","code":"L-1"}`)
	if resp.StatusCode != 409 {
		t.Fatalf("duplicate code status = %d, want 409", resp.StatusCode)
	}

	// InsufficientStock -> 422
	resp, _ = doJSON(t, app, "POST", "/api/v1/transactions", `{"product_id":"`+id+`","kind":"OUT","quantity":5}`)
	if resp.StatusCode != 422 {
		t.Fatalf("overdraw status = %d, want 422", resp.StatusCode)
	}

	// NotFound -> 404
	resp, _ = doJSON(t, app, "POST", "/api/v1/transactions", `{"product_id":"00000000-0000-0000-0000-0000000000aa","kind":"IN","quantity":5}`)
	if resp.StatusCode != 404 {
		t.Fatalf("unknown product status = %d, want 404", resp.StatusCode)
	}
}

func TestTransactionFlowHTTP(t *testing.T) {
	app := newTestApp()

	id := createProductHTTP(t, app, `{"name":"Stocked","quantity":0}`)

	resp, _ := doJSON(t, app, "POST", "/api/v1/transactions", `{"product_id":"`+id+`","kind":"IN","quantity":20,"note":"first batch"}`)
	if resp.StatusCode != 201 {
		t.Fatalf("apply status = %d, want 201", resp.StatusCode)
	}

	resp, parsed := doJSON(t, app, "GET", "/api/v1/products/"+id, "")
	if resp.StatusCode != 200 || parsed["quantity"].(float64) != 20 {
		t.Fatalf("quantity after apply = %v", parsed["quantity"])
	}

	req := httptest.NewRequest("GET", "/api/v1/transactions?product_id="+id, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var history []map[string]interface{}
	if err := json.Unmarshal(raw, &history); err != nil {
		t.Fatalf("parse history: %v", err)
	}
	if len(history) != 1 || history[0]["note"] != "first batch" {
		t.Fatalf("history = %v", history)
	}
}
