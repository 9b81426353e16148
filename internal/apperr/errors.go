// Package apperr defines the error taxonomy shared by every layer. Callers
// classify failures with errors.Is against the sentinel values; messages are
// built at the failure site with fmt.Errorf("%w: ...").
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStorage           = errors.New("storage failure")
)

// StatusCode maps an error to the HTTP status the handlers respond with.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrDuplicateKey):
		return fiber.StatusConflict
	case errors.Is(err, ErrInsufficientStock):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
