// Package money formatea valores en pesos colombianos para PDF y correos.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Spanish)

// Format redondea a pesos y agrega separador de miles: 119000 → "$119.000".
func Format(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	if n < 0 {
		return "-$" + printer.Sprintf("%d", -n)
	}
	return "$" + printer.Sprintf("%d", n)
}

// Percent formatea una tarifa sin decimales innecesarios: 19 → "19%", 2.5 → "2.5%".
func Percent(d decimal.Decimal) string {
	return d.String() + "%"
}
