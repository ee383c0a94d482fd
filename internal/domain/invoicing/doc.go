// Package invoicing contiene el núcleo de cálculo de facturas: normalización de
// tarifas de impuesto, resolución de líneas, filtros del selector de productos y
// totales. No hace I/O propio; los colaboradores remotos se inyectan como puertos.
package invoicing
