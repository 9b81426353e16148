package service

import (
	"errors"
	"testing"

	"estoque-api/internal/apperr"
	"estoque-api/internal/model"

	"github.com/google/uuid"
)

func TestCreateRejectsInvalidInput(t *testing.T) {
	products, _ := newTestRepos()
	catalog := NewCatalogService(products, nil)

	cases := []model.Product{
		{Name: ""},
		{Name: "Negative", Price: -1},
		{Name: "Negative stock", Quantity: -2},
	}
	for _, p := range cases {
		p := p
		if err := catalog.Create(&p); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("Create(%+v) error = %v, want ErrInvalidInput", p, err)
		}
	}
}

func TestCreateDuplicateCode(t *testing.T) {
	products, _ := newTestRepos()
	catalog := NewCatalogService(products, nil)

	first := mustCreateProduct(t, catalog, model.Product{Name: "Original", Code: strPtr("SKU-1"), Quantity: 7})

	dup := model.Product{Name: "Copycat", Code: strPtr("SKU-1")}
	if err := catalog.Create(&dup); !errors.Is(err, apperr.ErrDuplicateKey) {
		t.Fatalf("duplicate create error = %v, want ErrDuplicateKey", err)
	}

	// First product unaffected.
	got, err := catalog.Get(first.ID)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if got.Name != "Original" || got.Quantity != 7 {
		t.Fatalf("first product changed by failed create: %+v", got)
	}
}

func TestCreateWithoutCode(t *testing.T) {
	products, _ := newTestRepos()
	catalog := NewCatalogService(products, nil)

	// Codes are optional; multiple products without one must coexist.
	mustCreateProduct(t, catalog, model.Product{Name: "Plain A"})
	mustCreateProduct(t, catalog, model.Product{Name: "Plain B"})

	list, err := catalog.List("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("product count = %d, want 2", len(list))
	}
}

func TestUpdateDescriptiveFieldsOnly(t *testing.T) {
	products, entries := newTestRepos()
	catalog := NewCatalogService(products, nil)
	ledger := NewLedgerService(entries, nil)

	p := mustCreateProduct(t, catalog, model.Product{Name: "Before", Price: 1.5, Quantity: 3})
	mustApply(t, ledger, p.ID, model.TxIn, 2)

	req := model.Product{Name: "After", Description: "renamed", Price: 9.99, Quantity: 999}
	updated, err := catalog.Update(p.ID, &req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "After" || updated.Description != "renamed" || updated.Price != 9.99 {
		t.Fatalf("descriptive fields not updated: %+v", updated)
	}
	if updated.Quantity != 5 {
		t.Fatalf("quantity = %d after update, want 5 (ledger-owned)", updated.Quantity)
	}
}

func TestUpdateUnknownProduct(t *testing.T) {
	products, _ := newTestRepos()
	catalog := NewCatalogService(products, nil)

	_, err := catalog.Update(uuid.New(), &model.Product{Name: "Ghost"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateDuplicateCode(t *testing.T) {
	products, _ := newTestRepos()
	catalog := NewCatalogService(products, nil)

	mustCreateProduct(t, catalog, model.Product{Name: "Holder", Code: strPtr("A-1")})
	other := mustCreateProduct(t, catalog, model.Product{Name: "Mover", Code: strPtr("B-2")})

	_, err := catalog.Update(other.ID, &model.Product{Name: "Mover", Code: strPtr("A-1")})
	if !errors.Is(err, apperr.ErrDuplicateKey) {
		t.Fatalf("error = %v, want ErrDuplicateKey", err)
	}

	// Keeping your own code is not a collision.
	if _, err := catalog.Update(other.ID, &model.Product{Name: "Mover", Code: strPtr("B-2")}); err != nil {
		t.Fatalf("self-code update: %v", err)
	}
}

func TestDeleteCascade(t *testing.T) {
	products, entries := newTestRepos()
	catalog := NewCatalogService(products, nil)
	ledger := NewLedgerService(entries, nil)
	reports := NewReportService(products, entries, 5)

	keep := mustCreateProduct(t, catalog, model.Product{Name: "Keep"})
	gone := mustCreateProduct(t, catalog, model.Product{Name: "Gone"})
	mustApply(t, ledger, keep.ID, model.TxIn, 1)
	mustApply(t, ledger, gone.ID, model.TxIn, 2)
	mustApply(t, ledger, gone.ID, model.TxOut, 1)

	if err := catalog.Delete(gone.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := catalog.Get(gone.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("get deleted error = %v, want ErrNotFound", err)
	}
	if n := entryCount(t, reports, gone.ID); n != 0 {
		t.Fatalf("orphaned entries after cascade: %d", n)
	}
	if n := entryCount(t, reports, keep.ID); n != 1 {
		t.Fatalf("unrelated product lost entries: %d, want 1", n)
	}

	if err := catalog.Delete(gone.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestListFilterAndOrdering(t *testing.T) {
	products, _ := newTestRepos()
	catalog := NewCatalogService(products, nil)

	mustCreateProduct(t, catalog, model.Product{Name: "zinc plate"})
	mustCreateProduct(t, catalog, model.Product{Name: "Aluminum Rod", Code: strPtr("ALU-7")})
	mustCreateProduct(t, catalog, model.Product{Name: "Copper Wire"})

	all, err := catalog.List("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	wantOrder := []string{"Aluminum Rod", "Copper Wire", "zinc plate"}
	if len(all) != len(wantOrder) {
		t.Fatalf("list length = %d, want %d", len(all), len(wantOrder))
	}
	for i, name := range wantOrder {
		if all[i].Name != name {
			t.Fatalf("list[%d] = %q, want %q", i, all[i].Name, name)
		}
	}

	// Case-insensitive substring on name.
	byName, _ := catalog.List("COPPER")
	if len(byName) != 1 || byName[0].Name != "Copper Wire" {
		t.Fatalf("name filter returned %+v", byName)
	}

	// Matches code too.
	byCode, _ := catalog.List("alu-7")
	if len(byCode) != 1 || byCode[0].Name != "Aluminum Rod" {
		t.Fatalf("code filter returned %+v", byCode)
	}
}

func TestGetAbsent(t *testing.T) {
	products, _ := newTestRepos()
	catalog := NewCatalogService(products, nil)

	if _, err := catalog.Get(uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}
