// Package dian contiene validaciones de dominio para facturación electrónica DIAN (Colombia),
// según Anexo Técnico 1.9. Utiliza catálogos y reglas de pkg/dian.
package dian

import (
	"errors"
	"fmt"

	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/invoicing"
	"github.com/jhoicas/facturacion-simulada/pkg/dian"
)

// ErrInvalidInvoice agrupa errores de validación de factura. Envuelve domain.ErrInvalidInput.
var ErrInvalidInvoice = fmt.Errorf("%w: factura inválida para DIAN", domain.ErrInvalidInput)

// ValidateInvoice valida la factura antes de calcular su CUFE.
// El NIT del emisor siempre lleva dígito de verificación; el del cliente solo si es tipo 31.
// Los totales de la cabecera deben coincidir con la suma de las líneas.
func ValidateInvoice(invoice *entity.Invoice, vendor *entity.Vendor, customer *entity.Customer) error {
	if invoice == nil {
		return fmt.Errorf("%w: factura nula", ErrInvalidInvoice)
	}
	var errs []error

	if vendor == nil {
		errs = append(errs, errors.New("emisor requerido"))
	} else if err := dian.ValidateNITVerificationDigit(vendor.NIT); err != nil {
		errs = append(errs, fmt.Errorf("emisor NIT: %w", err))
	}

	if customer == nil {
		errs = append(errs, errors.New("cliente requerido"))
	} else if customer.IDType == dian.IdentificationTypeNIT {
		if err := dian.ValidateNITVerificationDigit(customer.TaxID); err != nil {
			errs = append(errs, fmt.Errorf("cliente NIT: %w", err))
		}
	}

	if len(invoice.Items) == 0 {
		errs = append(errs, errors.New("la factura debe tener al menos una línea"))
	}
	for i, it := range invoice.Items {
		if it.Quantity < 1 {
			errs = append(errs, fmt.Errorf("línea %d: cantidad %d menor que 1", i+1, it.Quantity))
		}
		if it.UnitPrice.IsNegative() {
			errs = append(errs, fmt.Errorf("línea %d: precio unitario negativo", i+1))
		}
	}

	totals := invoicing.ComputeTotals(invoice.Items)
	if !invoice.Subtotal.Equal(totals.Subtotal) {
		errs = append(errs, fmt.Errorf("subtotal (%s) no coincide con la suma de las líneas (%s)", invoice.Subtotal, totals.Subtotal))
	}
	if !invoice.TaxTotal.Equal(totals.TaxTotal) {
		errs = append(errs, fmt.Errorf("impuestos (%s) no coinciden con la suma de las líneas (%s)", invoice.TaxTotal, totals.TaxTotal))
	}
	if !invoice.Total.Equal(totals.Total) {
		errs = append(errs, fmt.Errorf("total (%s) no coincide con subtotal + impuestos (%s)", invoice.Total, totals.Total))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidInvoice}, errs...)...)
	}
	return nil
}
