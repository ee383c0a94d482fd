package ubl_test

import (
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/infrastructure/ubl"
)

func sampleInvoice() *entity.Invoice {
	a := entity.InvoiceLineItem{ProductID: "A", Name: "Producto A", Quantity: 1, UnitPrice: decimal.NewFromInt(100000), TaxRate: decimal.NewFromInt(19)}
	b := entity.InvoiceLineItem{ProductID: "new", Name: "Servicio", Quantity: 1, UnitPrice: decimal.NewFromInt(50000), TaxRate: decimal.NewFromInt(5)}
	a.Recompute()
	b.Recompute()
	due := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	return &entity.Invoice{
		Prefix: "SETP", Number: "990000001",
		Date:     time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		DueDate:  &due,
		Subtotal: decimal.NewFromInt(150000), TaxTotal: decimal.NewFromInt(21500), Total: decimal.NewFromInt(171500),
		CUFE:  "abc123",
		Items: []entity.InvoiceLineItem{a, b},
	}
}

func TestBuildInvoiceXML_EstructuraYTotales(t *testing.T) {
	out, err := ubl.NewBuilder().BuildInvoiceXML(context.Background(), sampleInvoice(),
		&entity.Vendor{Name: "Emisor SAS", NIT: "900123456-8"},
		&entity.Customer{Name: "Cliente", TaxID: "1020304050", IDType: "13"})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)
	assert.Equal(t, "UBLExtensions", root.ChildElements()[0].Tag)

	assert.Equal(t, "SETP990000001", root.FindElement("./cbc:ID").Text())
	assert.Equal(t, "abc123", root.FindElement("./cbc:UUID").Text())
	assert.Equal(t, "2", root.FindElement("./cac:PaymentMeans/cbc:ID").Text())
	assert.Equal(t, "171500.00", root.FindElement("./cac:LegalMonetaryTotal/cbc:PayableAmount").Text())
	assert.Len(t, root.FindElements("./cac:TaxTotal/cac:TaxSubtotal"), 2)
	assert.Len(t, root.FindElements("./cac:InvoiceLine"), 2)

	supplierID := root.FindElement("./cac:AccountingSupplierParty/cac:Party/cac:PartyTaxScheme/cbc:CompanyID")
	require.NotNil(t, supplierID)
	assert.Equal(t, "900123456", supplierID.Text())
	assert.Equal(t, "8", supplierID.SelectAttrValue("schemeID", ""))

	// la línea libre no lleva identificación de producto
	lines := root.FindElements("./cac:InvoiceLine")
	assert.NotNil(t, lines[0].FindElement("./cac:Item/cac:SellersItemIdentification"))
	assert.Nil(t, lines[1].FindElement("./cac:Item/cac:SellersItemIdentification"))
}

func TestBuildInvoiceXML_SinClienteEsError(t *testing.T) {
	_, err := ubl.NewBuilder().BuildInvoiceXML(context.Background(), sampleInvoice(), &entity.Vendor{}, nil)
	assert.Error(t, err)
}
