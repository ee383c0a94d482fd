package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrProductNotFound      = errors.New("producto no encontrado")
	ErrTaxRateLookupFailed  = errors.New("no se pudo consultar la tarifa de impuesto")
	ErrCatalogFetchFailed   = errors.New("no se pudo cargar el catálogo")
	ErrSubmissionValidation = errors.New("la factura no es válida para enviar")
	ErrSubmissionFailed     = errors.New("no se pudo guardar la factura")
	ErrSearchSuperseded     = errors.New("búsqueda reemplazada por una más reciente")
)

// Campos validados antes de enviar una factura, en el orden en que se revisan.
const (
	FieldCustomer = "customer"
	FieldVendor   = "vendor"
	FieldItems    = "items"
)

// SubmissionValidationError indica el primer campo faltante al enviar una factura.
type SubmissionValidationError struct {
	Field string
}

func (e *SubmissionValidationError) Error() string {
	switch e.Field {
	case FieldCustomer:
		return "seleccione un cliente"
	case FieldVendor:
		return "seleccione un vendedor"
	case FieldItems:
		return "agregue al menos un producto"
	default:
		return fmt.Sprintf("campo requerido: %s", e.Field)
	}
}

// Unwrap permite errors.Is(err, ErrSubmissionValidation).
func (e *SubmissionValidationError) Unwrap() error { return ErrSubmissionValidation }
