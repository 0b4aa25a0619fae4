package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidTransfer     = errors.New("traslado inválido: origen y destino iguales")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintentar la operación")
	ErrTransactionFailure  = errors.New("falla en la transacción")
)

// ValidationError detalla qué campo de la entrada es inválido.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError indica qué referencia no existe.
type NotFoundError struct {
	Resource string
	Ref      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrNotFound.Error(), e.Resource, e.Ref)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound construye un NotFoundError.
func NotFound(resource, ref string) error {
	return &NotFoundError{Resource: resource, Ref: ref}
}

// InsufficientStockError detalla el faltante de una línea (fatal en traslados).
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Available  string
	Requested  string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: producto %s en ubicación %s (disponible %s, solicitado %s)",
		ErrInsufficientStock.Error(), e.ProductID, e.LocationID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
