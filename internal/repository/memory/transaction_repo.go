package memory

import (
	"fmt"
	"sort"
	"time"

	"estoque-api/internal/apperr"
	"estoque-api/internal/model"
	"estoque-api/internal/repository"

	"github.com/google/uuid"
)

type transactionRepo struct {
	s *Store
}

func NewTransactionRepo(s *Store) repository.TransactionRepository {
	return &transactionRepo{s}
}

func (r *transactionRepo) Apply(entry *model.Transaction, compute func(current int) (int, error)) error {
	lock := r.s.lockFor(entry.ProductID)
	lock.Lock()
	defer lock.Unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products[entry.ProductID]
	if !ok {
		return fmt.Errorf("%w: product %s", apperr.ErrNotFound, entry.ProductID)
	}

	newQuantity, err := compute(product.Quantity)
	if err != nil {
		return err
	}

	// Balance update and entry append under the same lock: readers see
	// both or neither.
	product.Quantity = newQuantity
	product.UpdatedAt = time.Now()
	stamp(&entry.BaseModel)

	stored := *entry
	stored.Product = model.Product{}
	r.s.entries = append(r.s.entries, &stored)

	entry.Product = *product
	return nil
}

// snapshotDesc copies matching entries with their product joined, newest
// first. Entries inserted later win ties on equal timestamps.
func (r *transactionRepo) snapshotDesc(filter func(*model.Transaction) bool) []model.Transaction {
	out := []model.Transaction{}
	for i := len(r.s.entries) - 1; i >= 0; i-- {
		e := r.s.entries[i]
		if filter != nil && !filter(e) {
			continue
		}
		clone := *e
		if p, ok := r.s.products[e.ProductID]; ok {
			clone.Product = *p
		}
		out = append(out, clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *transactionRepo) FindAll(limit int) ([]model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	transactions := r.snapshotDesc(nil)
	if limit > 0 && len(transactions) > limit {
		transactions = transactions[:limit]
	}
	return transactions, nil
}

func (r *transactionRepo) FindByProduct(productID uuid.UUID) ([]model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.snapshotDesc(func(e *model.Transaction) bool {
		return e.ProductID == productID
	}), nil
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.entries {
		if e.ID == id {
			clone := *e
			if p, ok := r.s.products[e.ProductID]; ok {
				clone.Product = *p
			}
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: transaction %s", apperr.ErrNotFound, id)
}

func (r *transactionRepo) DailyFlow(start, end time.Time) ([]repository.DailyFlowRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byDay := make(map[string]*repository.DailyFlowRow)
	for _, e := range r.s.entries {
		if e.CreatedAt.Before(start) || !e.CreatedAt.Before(end) {
			continue
		}
		day := e.CreatedAt.Format("2006-01-02")
		row, ok := byDay[day]
		if !ok {
			row = &repository.DailyFlowRow{Date: day}
			byDay[day] = row
		}
		if e.Kind == model.TxIn {
			row.Inbound += e.Quantity
		} else {
			row.Outbound += e.Quantity
		}
	}

	var results []repository.DailyFlowRow
	for _, row := range byDay {
		results = append(results, *row)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}
