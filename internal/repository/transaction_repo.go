package repository

import (
	"errors"
	"fmt"
	"time"

	"estoque-api/internal/apperr"
	"estoque-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyFlowRow is one day's aggregated movement. Only days with at least one
// matching entry are returned; callers zero-fill the gaps.
type DailyFlowRow struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type TransactionRepository interface {
	// Apply runs the read-validate-write sequence for one stock movement,
	// serialized against every other apply and delete on the same product.
	// compute receives the committed current quantity and returns the new
	// one, or an error that aborts the whole unit with no state change.
	Apply(entry *model.Transaction, compute func(current int) (int, error)) error
	FindAll(limit int) ([]model.Transaction, error)
	FindByProduct(productID uuid.UUID) ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	// DailyFlow aggregates per calendar day over [start, end).
	DailyFlow(start, end time.Time) ([]DailyFlowRow, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Apply(entry *model.Transaction, compute func(current int) (int, error)) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		// Pessimistic row lock: concurrent applies on the same product
		// queue here and each sees the previous committed quantity.
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", entry.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %s", apperr.ErrNotFound, entry.ProductID)
			}
			return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
		}

		newQuantity, err := compute(product.Quantity)
		if err != nil {
			return err
		}

		if err := tx.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Update("quantity", newQuantity).Error; err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
		}

		product.Quantity = newQuantity
		entry.Product = product
		return nil
	})
}

func (r *transactionRepo) FindAll(limit int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	q := r.db.Preload("Product").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return transactions, nil
}

func (r *transactionRepo) FindByProduct(productID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Product").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return transactions, nil
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.Preload("Product").First(&transaction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return &transaction, nil
}

func (r *transactionRepo) DailyFlow(start, end time.Time) ([]DailyFlowRow, error) {
	var results []DailyFlowRow

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			to_char(created_at, 'YYYY-MM-DD') as date,
			COALESCE(SUM(CASE WHEN kind = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN kind = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("to_char(created_at, 'YYYY-MM-DD')").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row DailyFlowRow
		if err := rows.Scan(&row.Date, &row.Inbound, &row.Outbound); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
		}
		results = append(results, row)
	}

	return results, nil
}
