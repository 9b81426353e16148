package model

import "github.com/google/uuid"

type TransactionKind string

const (
	TxIn  TransactionKind = "IN"
	TxOut TransactionKind = "OUT"
)

// Sign is +1 for inbound and -1 for outbound movements.
func (k TransactionKind) Sign() int {
	if k == TxOut {
		return -1
	}
	return 1
}

// Transaction is one immutable stock movement in the ledger. Entries are
// never updated; the only deletion path is the owning product's cascade.
type Transaction struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   Product         `json:"product" validate:"-"` // Relasi - skip validation
	Kind      TransactionKind `gorm:"type:varchar(10);not null" json:"kind" validate:"required,oneof=IN OUT"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"required,gt=0"` // Qty must be > 0
	Note      string          `gorm:"type:text" json:"note"`
}
