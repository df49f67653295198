package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Recepción de mercancía
	ErrInvalidStatus   = errors.New("estado inválido para la operación")
	ErrOverReceipt     = errors.New("cantidad recibida supera la pendiente de la orden")
	ErrProductMismatch = errors.New("el producto no coincide con la línea de la orden")
	ErrInvalidAmount   = errors.New("el monto debe ser mayor que cero")

	// Consistencia (siempre fatales para la transacción)
	ErrUnbalancedJournal    = errors.New("asiento descuadrado: débitos y créditos no coinciden")
	ErrInventoryMissing     = errors.New("registro de inventario inexistente para la reversión")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrReceivedUnderflow    = errors.New("cantidad recibida de la línea quedaría negativa")
	ErrAccountNotConfigured = errors.New("cuenta contable no configurada")

	// Valores derivados (recuperables)
	ErrNoAdditionalCosts = errors.New("la recepción no tiene costos adicionales")
)

// Kind clasifica un error según la taxonomía del motor de recepción.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindConsistency  Kind = "CONSISTENCY"
	KindDerivedValue Kind = "DERIVED_VALUE"
	KindInternal     Kind = "INTERNAL"
)

var (
	validationErrors = []error{
		ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrForbidden, ErrConflict,
		ErrInvalidStatus, ErrOverReceipt, ErrProductMismatch, ErrInvalidAmount,
	}
	consistencyErrors = []error{
		ErrUnbalancedJournal, ErrInventoryMissing, ErrInsufficientStock,
		ErrReceivedUnderflow, ErrAccountNotConfigured,
	}
)

// KindOf devuelve la clase del error. Errores de infraestructura son KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return KindValidation
		}
	}
	for _, target := range consistencyErrors {
		if errors.Is(err, target) {
			return KindConsistency
		}
	}
	if errors.Is(err, ErrNoAdditionalCosts) {
		return KindDerivedValue
	}
	return KindInternal
}
