package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Restobar-api/internal/domain"
)

// Códigos SQLSTATE que el ledger trata de forma especial.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// mapError traduce errores de PostgreSQL a la taxonomía del dominio.
// Los errores de dominio pasan intactos; lo inesperado se envuelve en ErrTransactionFailure.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %s (%s)", domain.ErrConcurrencyConflict, op, pgErr.Code)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: referencia inexistente (%s)", domain.ErrNotFound, pgErr.ConstraintName)
		case codeCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.ConstraintName)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: tiempo de transacción agotado: %w", domain.ErrTransactionFailure, op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, op, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound, domain.ErrInvalidInput, domain.ErrDuplicate, domain.ErrConflict,
		domain.ErrInsufficientStock, domain.ErrInvalidTransfer, domain.ErrConcurrencyConflict,
		domain.ErrTransactionFailure, domain.ErrUnauthorized,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
