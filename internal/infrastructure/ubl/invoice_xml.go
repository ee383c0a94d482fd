// Package ubl genera el XML UBL 2.1 (perfil DIAN) de una factura simulada.
// El documento no se firma ni se transmite.
package ubl

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/application/billing"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/pkg/dian"
)

// Namespaces UBL 2.1 y extensiones DIAN (Anexo Técnico 1.9).
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NsExt     = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
	NsSts     = "dian:gov:co:facturaelectronica:v1"

	currency = "COP"
	unitCode = "94" // unidad
)

var _ billing.InvoiceXMLBuilder = (*Builder)(nil)

// Builder construye el documento Invoice.
type Builder struct{}

// NewBuilder crea el builder.
func NewBuilder() *Builder { return &Builder{} }

// BuildInvoiceXML genera el XML indentado de la factura.
func (b *Builder) BuildInvoiceXML(_ context.Context, inv *entity.Invoice, vendor *entity.Vendor, customer *entity.Customer) ([]byte, error) {
	if inv == nil || vendor == nil || customer == nil {
		return nil, fmt.Errorf("ubl: faltan factura, emisor o cliente")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="no"`)
	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)
	root.CreateAttr("xmlns:ext", NsExt)
	root.CreateAttr("xmlns:sts", NsSts)

	// ext:UBLExtensions siempre como primer hijo.
	ext := root.CreateElement("ext:UBLExtensions").CreateElement("ext:UBLExtension").CreateElement("ext:ExtensionContent")
	ctrl := ext.CreateElement("sts:DianExtensions").CreateElement("sts:InvoiceSource")
	ctrl.CreateElement("cbc:IdentificationCode").SetText("CO")

	cbc(root, "UBLVersionID", "UBL 2.1")
	cbc(root, "CustomizationID", "10")
	cbc(root, "ProfileID", "DIAN 2.1: Factura Electrónica de Venta")
	cbc(root, "ProfileExecutionID", dian.EnvironmentTest)
	cbc(root, "ID", inv.FullNumber())
	uuid := cbc(root, "UUID", inv.CUFE)
	uuid.CreateAttr("schemeName", "CUFE-SHA384")
	cbc(root, "IssueDate", inv.Date.Format("2006-01-02"))
	cbc(root, "IssueTime", inv.Date.Format("15:04:05-07:00"))
	if inv.DueDate != nil {
		cbc(root, "DueDate", inv.DueDate.Format("2006-01-02"))
	}
	cbc(root, "InvoiceTypeCode", "01")
	if inv.Notes != "" {
		cbc(root, "Note", inv.Notes)
	}
	cbc(root, "DocumentCurrencyCode", currency)
	cbc(root, "LineCountNumeric", strconv.Itoa(len(inv.Items)))

	party(root.CreateElement("cac:AccountingSupplierParty"), vendor.Name, vendor.NIT, dian.IdentificationTypeNIT, vendor.Address)
	party(root.CreateElement("cac:AccountingCustomerParty"), customer.Name, customer.TaxID, customer.IDType, customer.Address)

	means := root.CreateElement("cac:PaymentMeans")
	hasDue := inv.DueDate != nil
	sameDay := hasDue && inv.DueDate.Format("2006-01-02") == inv.Date.Format("2006-01-02")
	cbc(means, "ID", dian.PaymentForm(hasDue, sameDay))
	cbc(means, "PaymentMeansCode", "10")
	if hasDue && !sameDay {
		cbc(means, "PaymentDueDate", inv.DueDate.Format("2006-01-02"))
	}

	writeTaxTotal(root, inv)

	legal := root.CreateElement("cac:LegalMonetaryTotal")
	amount(legal, "LineExtensionAmount", inv.Subtotal)
	amount(legal, "TaxExclusiveAmount", inv.Subtotal)
	amount(legal, "TaxInclusiveAmount", inv.Total)
	amount(legal, "PayableAmount", inv.Total)

	for i, it := range inv.Items {
		writeLine(root, i+1, it)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

// writeTaxTotal agrupa las líneas por tarifa en un TaxSubtotal por porcentaje.
func writeTaxTotal(root *etree.Element, inv *entity.Invoice) {
	type group struct{ base, tax decimal.Decimal }
	groups := map[string]*group{}
	rates := map[string]decimal.Decimal{}
	for _, it := range inv.Items {
		key := it.TaxRate.String()
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			rates[key] = it.TaxRate
		}
		g.base = g.base.Add(it.Subtotal)
		g.tax = g.tax.Add(it.TaxAmount)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return rates[keys[i]].LessThan(rates[keys[j]]) })

	total := root.CreateElement("cac:TaxTotal")
	amount(total, "TaxAmount", inv.TaxTotal)
	for _, k := range keys {
		sub := total.CreateElement("cac:TaxSubtotal")
		amount(sub, "TaxableAmount", groups[k].base)
		amount(sub, "TaxAmount", groups[k].tax)
		cat := sub.CreateElement("cac:TaxCategory")
		cbc(cat, "Percent", dian.FormatAmount(rates[k]))
		scheme := cat.CreateElement("cac:TaxScheme")
		cbc(scheme, "ID", dian.TaxCodeIVA)
		cbc(scheme, "Name", "IVA")
	}
}

func writeLine(root *etree.Element, n int, it entity.InvoiceLineItem) {
	line := root.CreateElement("cac:InvoiceLine")
	cbc(line, "ID", strconv.Itoa(n))
	cbc(line, "InvoicedQuantity", strconv.Itoa(it.Quantity)).CreateAttr("unitCode", unitCode)
	amount(line, "LineExtensionAmount", it.Subtotal)

	tax := line.CreateElement("cac:TaxTotal")
	amount(tax, "TaxAmount", it.TaxAmount)
	sub := tax.CreateElement("cac:TaxSubtotal")
	amount(sub, "TaxableAmount", it.Subtotal)
	amount(sub, "TaxAmount", it.TaxAmount)
	cbc(sub.CreateElement("cac:TaxCategory"), "Percent", dian.FormatAmount(it.TaxRate))

	item := line.CreateElement("cac:Item")
	desc := it.Name
	if desc == "" {
		desc = it.Description
	}
	cbc(item, "Description", desc)
	if entity.IsRealProductID(it.ProductID) {
		cbc(item.CreateElement("cac:SellersItemIdentification"), "ID", it.ProductID)
	}

	price := line.CreateElement("cac:Price")
	amount(price, "PriceAmount", it.UnitPrice)
	cbc(price, "BaseQuantity", "1").CreateAttr("unitCode", unitCode)
}

func party(parent *etree.Element, name, taxID, idType, address string) {
	p := parent.CreateElement("cac:Party")
	cbc(p.CreateElement("cac:PartyName"), "Name", name)
	tax := p.CreateElement("cac:PartyTaxScheme")
	cbc(tax, "RegistrationName", name)
	if idType == "" {
		idType = dian.IdentificationTypeNIT
	}
	doc := dian.OnlyDigits(taxID)
	if idType == dian.IdentificationTypeNIT {
		doc = dian.NITBase(taxID)
	}
	id := cbc(tax, "CompanyID", doc)
	id.CreateAttr("schemeAgencyID", "195")
	id.CreateAttr("schemeName", idType)
	if idType == dian.IdentificationTypeNIT {
		if dv, err := dian.ComputeNITVerificationDigit(taxID); err == nil {
			id.CreateAttr("schemeID", string(dv))
		}
	}
	if address != "" {
		cbc(p.CreateElement("cac:PhysicalLocation").CreateElement("cac:Address"), "Line", address)
	}
}

func cbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, local string, d decimal.Decimal) *etree.Element {
	el := cbc(parent, local, dian.FormatAmount(d))
	el.CreateAttr("currencyID", currency)
	return el
}
