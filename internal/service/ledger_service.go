package service

import (
	"fmt"

	"estoque-api/internal/apperr"
	"estoque-api/internal/model"
	"estoque-api/internal/repository"
	"estoque-api/internal/ws"
	"estoque-api/pkg/validator"

	"github.com/google/uuid"
)

type LedgerService interface {
	// Apply records one stock movement: the product's cached balance and
	// the new ledger entry commit together or not at all.
	Apply(req *model.Transaction) error
	Get(id uuid.UUID) (*model.Transaction, error)
}

type ledgerService struct {
	entries repository.TransactionRepository
	hub     *ws.Hub
}

func NewLedgerService(entries repository.TransactionRepository, hub *ws.Hub) LedgerService {
	return &ledgerService{entries: entries, hub: hub}
}

func (s *ledgerService) Apply(req *model.Transaction) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, validator.FirstMessage(errs))
	}

	err := s.entries.Apply(req, func(current int) (int, error) {
		if req.Kind == model.TxIn {
			return current + req.Quantity, nil
		}
		if current < req.Quantity {
			return 0, fmt.Errorf("%w: have %d, requested %d", apperr.ErrInsufficientStock, current, req.Quantity)
		}
		return current - req.Quantity, nil
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("transaction_id", req.ID.String()).
		Str("product_id", req.ProductID.String()).
		Str("kind", string(req.Kind)).
		Int("quantity", req.Quantity).
		Int("new_stock", req.Product.Quantity).
		Msg("stock movement applied")

	s.hub.Publish("transaction_created", map[string]interface{}{
		"transaction": req,
		"new_stock":   req.Product.Quantity,
	})
	return nil
}

func (s *ledgerService) Get(id uuid.UUID) (*model.Transaction, error) {
	return s.entries.FindByID(id)
}
