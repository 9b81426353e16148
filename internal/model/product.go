package model

import "time"

// Product is a catalog item. Quantity is the cached balance of all applied
// stock movements on top of the creation-time baseline; after creation it is
// only ever written by the ledger.
type Product struct {
	BaseModel
	Code        *string    `gorm:"type:varchar(50);uniqueIndex" json:"code,omitempty"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string     `gorm:"type:text" json:"description"`
	Price       float64    `gorm:"default:0" json:"price" validate:"gte=0"`
	Quantity    int        `gorm:"default:0" json:"quantity" validate:"gte=0"`
	ExpiryDate  *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`

	// Relasi
	Transactions []Transaction `json:"transactions,omitempty"`
}

// CodeValue returns the code or "" when none is set.
func (p *Product) CodeValue() string {
	if p.Code == nil {
		return ""
	}
	return *p.Code
}
