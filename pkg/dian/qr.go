package dian

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// QRInput datos impresos en el código QR de la representación gráfica.
type QRInput struct {
	NumFac   string
	Date     time.Time
	Total    decimal.Decimal
	TaxTotal decimal.Decimal
	CUFE     string
	BaseURL  string // URL de consulta; se le concatena el CUFE
}

// BuildQRData arma la cadena NumFac|FecFac|ValFac|CodImp|ValImp|CUFE|URL.
func BuildQRData(in QRInput) string {
	parts := []string{
		strings.TrimSpace(in.NumFac),
		in.Date.Format("2006-01-02"),
		FormatAmount(in.Total),
		TaxCodeIVA,
		FormatAmount(in.TaxTotal),
		in.CUFE,
		in.BaseURL + in.CUFE,
	}
	return strings.Join(parts, "|")
}
