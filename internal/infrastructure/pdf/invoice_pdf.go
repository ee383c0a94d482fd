// Package pdf genera la representación gráfica de la factura simulada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  Emisor + NIT                │  N° Factura, fecha, pago     │
//	│  Datos del emisor / adquiriente                             │
//	│  Cant | Producto | P.Unit | Imp% | Impuesto | Total         │
//	│  Subtotal / Impuestos / TOTAL A PAGAR                       │
//	│  CUFE + QR + leyenda de simulación                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/facturacion-simulada/internal/application/billing"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/pkg/dian"
	"github.com/jhoicas/facturacion-simulada/pkg/money"
)

var _ billing.InvoicePDFGenerator = (*Generator)(nil)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// Generator implementa billing.InvoicePDFGenerator con Maroto v2.
type Generator struct{}

// NewGenerator construye el generador.
func NewGenerator() *Generator { return &Generator{} }

// GenerateInvoicePDF arma el documento y devuelve sus bytes.
func (g *Generator) GenerateInvoicePDF(
	_ context.Context,
	inv *entity.Invoice,
	vendor *entity.Vendor,
	customer *entity.Customer,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+inv.FullNumber(), true).
		WithAuthor(vendor.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, vendor))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(vendor, customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(inv.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))
	if inv.Notes != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Notas: "+inv.Notes, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(inv)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(inv *entity.Invoice, vendor *entity.Vendor) core.Row {
	payment := "Contado"
	sameDay := inv.DueDate != nil && inv.DueDate.Equal(inv.Date)
	if dian.PaymentForm(inv.DueDate != nil, sameDay) == dian.PaymentFormCredito {
		payment = "Crédito, vence " + inv.DueDate.Format("02/01/2006")
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New(vendor.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("NIT: "+vendor.NIT, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("FACTURA ELECTRÓNICA DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.FullNumber(), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New("Fecha: "+inv.Date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
			text.New("Forma de pago: "+payment, props.Text{Size: 8, Align: align.Right, Top: 17, Color: colorGray}),
		),
	)
}

func partiesRow(vendor *entity.Vendor, customer *entity.Customer) core.Row {
	idLabel := "CC"
	if customer.IDType == dian.IdentificationTypeNIT {
		idLabel = "NIT"
	}
	return row.New(22).Add(
		col.New(6).Add(
			text.New("EMISOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New("Dirección: "+nonEmpty(vendor.Address, "-"), props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New("Tel: "+nonEmpty(vendor.Phone, "-"), props.Text{Size: 8, Top: 10, Color: colorGray}),
			text.New("Email: "+nonEmpty(vendor.Email, "-"), props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("ADQUIRIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(customer.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(idLabel+": "+customer.TaxID, props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New("Email: "+nonEmpty(customer.Email, "-"), props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
	)
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto / servicio", 5, align.Left),
		h("Precio unit.", 2, align.Right),
		h("Imp.", 1, align.Center),
		h("Impuesto", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

func itemRows(items []entity.InvoiceLineItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := nonEmpty(it.Name, "Sin nombre")
		if it.Description != "" {
			name += " - " + it.Description
		}
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money.Format(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(money.Percent(it.TaxRate), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(money.Format(it.TaxAmount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.Format(it.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRow(inv *entity.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Impuestos:", 6),
			text.New("TOTAL A PAGAR:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 12}),
		),
		col.New(3).Add(
			value(money.Format(inv.Subtotal), 1),
			value(money.Format(inv.TaxTotal), 6),
			text.New(money.Format(inv.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 12}),
		),
	)
}

// footerRows: CUFE partido, QR y leyenda.
func footerRows(inv *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMACIÓN ELECTRÓNICA (SIMULADA)", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New("CUFE:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
		)),
	}
	for _, chunk := range splitEvery(inv.CUFE, 80) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	rows = append(rows, row.New(3))
	if inv.QRData != "" {
		rows = append(rows, row.New(45).Add(
			col.New(4).Add(code.NewQr(inv.QRData, props.Rect{Percent: 95, Center: true})),
			col.New(8).Add(
				text.New("Código QR con los datos de la factura.", props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
				text.New("DOCUMENTO SIN VALIDEZ FISCAL", props.Text{Style: fontstyle.Bold, Size: 10, Top: 20, Left: 3, Color: colorAlert}),
			),
		))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Representación gráfica generada por un sistema educativo que simula la facturación "+
			"electrónica DIAN. Ni el CUFE ni el QR fueron validados por la DIAN.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// splitEvery divide s en trozos de máximo n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
