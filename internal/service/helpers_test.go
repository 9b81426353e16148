package service

import (
	"testing"
	"time"

	"estoque-api/internal/model"
	"estoque-api/internal/repository"
	"estoque-api/internal/repository/memory"

	"github.com/google/uuid"
)

func newTestRepos() (repository.ProductRepository, repository.TransactionRepository) {
	store := memory.New()
	return memory.NewProductRepo(store), memory.NewTransactionRepo(store)
}

func strPtr(s string) *string { return &s }

func mustCreateProduct(t *testing.T, catalog CatalogService, p model.Product) *model.Product {
	t.Helper()
	if err := catalog.Create(&p); err != nil {
		t.Fatalf("create product %q: %v", p.Name, err)
	}
	return &p
}

func mustApply(t *testing.T, ledger LedgerService, productID uuid.UUID, kind model.TransactionKind, qty int) *model.Transaction {
	t.Helper()
	tx := &model.Transaction{ProductID: productID, Kind: kind, Quantity: qty}
	if err := ledger.Apply(tx); err != nil {
		t.Fatalf("apply %s %d: %v", kind, qty, err)
	}
	return tx
}

func mustApplyAt(t *testing.T, ledger LedgerService, productID uuid.UUID, kind model.TransactionKind, qty int, at time.Time) *model.Transaction {
	t.Helper()
	tx := &model.Transaction{ProductID: productID, Kind: kind, Quantity: qty}
	tx.CreatedAt = at
	tx.UpdatedAt = at
	if err := ledger.Apply(tx); err != nil {
		t.Fatalf("apply %s %d at %s: %v", kind, qty, at, err)
	}
	return tx
}

// checkInvariant verifies quantity == baseline + sum of signed deltas over
// the product's ledger entries.
func checkInvariant(t *testing.T, catalog CatalogService, reports ReportService, productID uuid.UUID, baseline int) {
	t.Helper()
	product, err := catalog.Get(productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	entries, err := reports.Transactions(&productID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	sum := baseline
	for _, e := range entries {
		sum += e.Kind.Sign() * e.Quantity
	}
	if product.Quantity != sum {
		t.Fatalf("invariant broken: quantity=%d, baseline+deltas=%d over %d entries", product.Quantity, sum, len(entries))
	}
}

func entryCount(t *testing.T, reports ReportService, productID uuid.UUID) int {
	t.Helper()
	entries, err := reports.Transactions(&productID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	return len(entries)
}
