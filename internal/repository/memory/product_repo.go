package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"estoque-api/internal/apperr"
	"estoque-api/internal/model"
	"estoque-api/internal/repository"

	"github.com/google/uuid"
)

type productRepo struct {
	s *Store
}

func NewProductRepo(s *Store) repository.ProductRepository {
	return &productRepo{s}
}

func (r *productRepo) Create(product *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if product.Code != nil && r.s.codeTaken(*product.Code, uuid.Nil) {
		return fmt.Errorf("%w: code %q", apperr.ErrDuplicateKey, *product.Code)
	}
	stamp(&product.BaseModel)

	stored := *product
	r.s.products[stored.ID] = &stored
	return nil
}

func (r *productRepo) FindAll(search string) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	needle := strings.ToLower(search)
	products := []model.Product{}
	for _, p := range r.s.products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.CodeValue()), needle) {
			continue
		}
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name != products[j].Name {
			return products[i].Name < products[j].Name
		}
		return products[i].ID.String() < products[j].ID.String()
	})
	return products, nil
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	clone := *p
	return &clone, nil
}

func (r *productRepo) FindByCode(code string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if p.Code != nil && *p.Code == code {
			clone := *p
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: code %q", apperr.ErrNotFound, code)
}

func (r *productRepo) FindLowStock(threshold int) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := []model.Product{}
	for _, p := range r.s.products {
		if p.Quantity <= threshold {
			products = append(products, *p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Quantity != products[j].Quantity {
			return products[i].Quantity < products[j].Quantity
		}
		return products[i].Name < products[j].Name
	})
	return products, nil
}

func (r *productRepo) Update(product *model.Product) error {
	lock := r.s.lockFor(product.ID)
	lock.Lock()
	defer lock.Unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.products[product.ID]
	if !ok {
		return fmt.Errorf("%w: product %s", apperr.ErrNotFound, product.ID)
	}
	if product.Code != nil && r.s.codeTaken(*product.Code, product.ID) {
		return fmt.Errorf("%w: code %q", apperr.ErrDuplicateKey, *product.Code)
	}

	// Descriptive fields only; quantity stays ledger-owned.
	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.Code = product.Code
	existing.ExpiryDate = product.ExpiryDate
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *productRepo) Delete(id uuid.UUID) error {
	lock := r.s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}

	// Cascade: product and its entries go together, under one lock.
	delete(r.s.products, id)
	kept := r.s.entries[:0]
	for _, e := range r.s.entries {
		if e.ProductID != id {
			kept = append(kept, e)
		}
	}
	r.s.entries = kept
	return nil
}

func (r *productRepo) Stats(lowThreshold int) (*repository.CatalogStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := &repository.CatalogStats{}
	for _, p := range r.s.products {
		stats.TotalProducts++
		stats.UnitsInStock += int64(p.Quantity)
		if p.Quantity <= lowThreshold {
			stats.LowStockCount++
		}
	}
	return stats, nil
}
