package repository

import (
	"errors"
	"fmt"

	"estoque-api/internal/apperr"
	"estoque-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogStats holds the dashboard overview figures.
type CatalogStats struct {
	TotalProducts int64 `json:"total_products"`
	UnitsInStock  int64 `json:"units_in_stock"`
	LowStockCount int64 `json:"low_stock_count"`
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(search string) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByCode(code string) (*model.Product, error)
	FindLowStock(threshold int) ([]model.Product, error)
	// Update writes descriptive fields only; quantity is ledger-owned.
	Update(product *model.Product) error
	// Delete removes the product and every ledger entry referencing it
	// as one atomic unit.
	Delete(id uuid.UUID) error
	Stats(lowThreshold int) (*CatalogStats, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: code %q", apperr.ErrDuplicateKey, product.CodeValue())
		}
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return nil
}

func (r *productRepo) FindAll(search string) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Order("name ASC, id ASC")
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return products, nil
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return &product, nil
}

func (r *productRepo) FindByCode(code string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: code %q", apperr.ErrNotFound, code)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return &product, nil
}

func (r *productRepo) FindLowStock(threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("quantity <= ?", threshold).
		Order("quantity ASC, name ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return products, nil
}

func (r *productRepo) Update(product *model.Product) error {
	res := r.db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"code":        product.Code,
			"expiry_date": product.ExpiryDate,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: code %q", apperr.ErrDuplicateKey, product.CodeValue())
		}
		return fmt.Errorf("%w: %v", apperr.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %s", apperr.ErrNotFound, product.ID)
	}
	return nil
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		// Lock the row so a concurrent apply either commits before the
		// cascade or fails with not found after it.
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
		}
		if err := tx.Delete(&model.Transaction{}, "product_id = ?", id).Error; err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
		}
		return nil
	})
}

func (r *productRepo) Stats(lowThreshold int) (*CatalogStats, error) {
	var stats CatalogStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&stats.UnitsInStock).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if err := r.db.Model(&model.Product{}).
		Where("quantity <= ?", lowThreshold).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}

	return &stats, nil
}
