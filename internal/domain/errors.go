package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUsernameTaken     = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInconsistency     = errors.New("inconsistencia en el libro de almacén")
)

// ErrAlreadyReceived se devuelve al recibir una orden de compra ya recibida.
// Es un conflicto: no se modificó ni se modificará nada.
var ErrAlreadyReceived = fmt.Errorf("%w: la orden de compra ya fue recibida", ErrConflict)

// ValidationError describe errores de entrada por campo (campo -> regla).
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError crea un ValidationError con un único campo.
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalidInput.Error() + " (" + strings.Join(parts, ", ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError indica que la cantidad pedida supera el stock derivado
// del producto en el momento de la venta. Es un error de validación.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %d, solicitado %d",
		e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// LedgerInconsistencyError: se intenta vender un producto sin entrada en el libro
// de almacén. No es un error del usuario; nunca debe tratarse como "stock 0".
type LedgerInconsistencyError struct {
	ProductID int64
	Reason    string
}

func (e *LedgerInconsistencyError) Error() string {
	return fmt.Sprintf("inconsistencia en libro de almacén para producto %d: %s", e.ProductID, e.Reason)
}

func (e *LedgerInconsistencyError) Unwrap() error { return ErrInconsistency }

// IsValidation indica si err es atribuible al cliente (entrada o stock insuficiente).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInsufficientStock)
}
