// Package dian contiene catálogos y cálculos alineados al Anexo Técnico
// de Factura Electrónica de Venta DIAN (Colombia) v1.9.
package dian

// Tabla 11 - Tipos de Impuesto (Anexo 1.9 - 13.2.2)
const (
	TaxCodeIVA = "01" // IVA
	TaxCodeICA = "03" // ICA
	TaxCodeINC = "04" // Impuesto Nacional al Consumo
)

// ValidTaxCodes códigos de impuesto aceptados en TaxRate.DIANCode.
var ValidTaxCodes = map[string]bool{
	TaxCodeIVA: true,
	TaxCodeICA: true,
	TaxCodeINC: true,
}

// Tabla 3 - Tipos de identificación (Anexo 1.9 - 13.2.1)
const (
	IdentificationTypeNIT = "31" // NIT - requiere dígito de verificación
	IdentificationTypeCC  = "13" // Cédula de ciudadanía
)

// Ambientes de la resolución (TipoAmb del CUFE).
const (
	EnvironmentProduction = "1"
	EnvironmentTest       = "2"
)

// Tabla 14 - Forma de Pago (Anexo 1.9 - 13.3.4.1)
const (
	PaymentFormContado = "1"
	PaymentFormCredito = "2"
)

// PaymentForm contado si no hay vencimiento o vence el mismo día; crédito en otro caso.
func PaymentForm(hasDueDate, sameDay bool) string {
	if !hasDueDate || sameDay {
		return PaymentFormContado
	}
	return PaymentFormCredito
}
