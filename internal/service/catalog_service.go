package service

import (
	"fmt"
	"os"

	"estoque-api/internal/apperr"
	"estoque-api/internal/model"
	"estoque-api/internal/repository"
	"estoque-api/internal/ws"
	"estoque-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type CatalogService interface {
	Create(req *model.Product) error
	Update(id uuid.UUID, req *model.Product) (*model.Product, error)
	Delete(id uuid.UUID) error
	Get(id uuid.UUID) (*model.Product, error)
	List(search string) ([]model.Product, error)
}

type catalogService struct {
	products repository.ProductRepository
	hub      *ws.Hub
}

func NewCatalogService(products repository.ProductRepository, hub *ws.Hub) CatalogService {
	return &catalogService{products: products, hub: hub}
}

func (s *catalogService) Create(req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, validator.FirstMessage(errs))
	}

	// Duplicate code check before insert; the unique index backstops races.
	if req.Code != nil && *req.Code != "" {
		if existing, err := s.products.FindByCode(*req.Code); err == nil && existing != nil {
			return fmt.Errorf("%w: code %q", apperr.ErrDuplicateKey, *req.Code)
		}
	} else {
		req.Code = nil
	}

	// The initial quantity is the baseline balance; it is written directly,
	// not through the ledger.
	if err := s.products.Create(req); err != nil {
		return err
	}

	logger.Info().
		Str("product_id", req.ID.String()).
		Str("name", req.Name).
		Int("quantity", req.Quantity).
		Msg("product created")

	s.hub.Publish("product_created", req)
	return nil
}

func (s *catalogService) Update(id uuid.UUID, req *model.Product) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, validator.FirstMessage(errs))
	}

	existing, err := s.products.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil && *req.Code != "" {
		if other, err := s.products.FindByCode(*req.Code); err == nil && other != nil && other.ID != id {
			return nil, fmt.Errorf("%w: code %q", apperr.ErrDuplicateKey, *req.Code)
		}
	} else {
		req.Code = nil
	}

	// Descriptive fields only. Quantity is ledger-owned after creation.
	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Code = req.Code
	existing.ExpiryDate = req.ExpiryDate

	if err := s.products.Update(existing); err != nil {
		return nil, err
	}

	updated, err := s.products.FindByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("product_id", id.String()).Msg("product updated")
	s.hub.Publish("product_updated", updated)
	return updated, nil
}

func (s *catalogService) Delete(id uuid.UUID) error {
	if err := s.products.Delete(id); err != nil {
		return err
	}

	logger.Info().Str("product_id", id.String()).Msg("product deleted with its movement history")
	s.hub.Publish("product_deleted", map[string]interface{}{"id": id})
	return nil
}

func (s *catalogService) Get(id uuid.UUID) (*model.Product, error) {
	return s.products.FindByID(id)
}

func (s *catalogService) List(search string) ([]model.Product, error) {
	return s.products.FindAll(search)
}
