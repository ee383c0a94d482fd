// Package dian: cálculo del CUFE (Código Único de Factura Electrónica) según Anexo Técnico DIAN 1.9.
// Algoritmo: SHA-384 sobre la cadena de concatenación en el orden estricto definido por la DIAN.
// En este sistema el CUFE es simulado: nunca se transmite a la DIAN.

package dian

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// CufeParams datos de la cadena CUFE, en el orden exigido por la DIAN.
type CufeParams struct {
	NumFac    string          // prefijo + número, sin espacios
	FecFac    string          // YYYY-MM-DD
	ValFac    decimal.Decimal // valor antes de impuestos
	ValImpIVA decimal.Decimal // código 01
	ValImpINC decimal.Decimal // código 04
	ValImpICA decimal.Decimal // código 03
	ValPag    decimal.Decimal // total a pagar
	NitOfe    string          // NIT del emisor (solo dígitos, sin DV)
	DocAdq    string          // documento del adquiriente
	ClTec     string          // clave técnica de la resolución
	TipoAmb   string          // "1" producción, "2" pruebas
}

var whitespace = regexp.MustCompile(`\s+`)

// CufeCalculatorService calcula el CUFE según el Anexo Técnico DIAN.
type CufeCalculatorService struct{}

// NewCufeCalculatorService crea el servicio.
func NewCufeCalculatorService() *CufeCalculatorService {
	return &CufeCalculatorService{}
}

// Calculate genera el CUFE en hexadecimal (minúsculas).
// Cadena: NumFac + FecFac + ValFac + 01 + ValImp1 + 04 + ValImp2 + 03 + ValImp3 + ValPag + NitOfe + DocAdq + ClTec + TipoAmb.
func (s *CufeCalculatorService) Calculate(p *CufeParams) (string, error) {
	if p == nil {
		return "", fmt.Errorf("dian: CufeParams es obligatorio")
	}
	numFac := whitespace.ReplaceAllString(strings.TrimSpace(p.NumFac), "")
	if numFac == "" {
		return "", fmt.Errorf("dian: NumFac es obligatorio")
	}
	if p.FecFac == "" {
		return "", fmt.Errorf("dian: FecFac es obligatorio (YYYY-MM-DD)")
	}
	nitOfe := OnlyDigits(p.NitOfe)
	docAdq := OnlyDigits(p.DocAdq)
	if nitOfe == "" {
		return "", fmt.Errorf("dian: NitOfe es obligatorio para el CUFE")
	}
	if docAdq == "" {
		return "", fmt.Errorf("dian: DocAdq es obligatorio para el CUFE")
	}
	if p.ClTec == "" {
		return "", fmt.Errorf("dian: ClTec es obligatoria para el CUFE")
	}
	tipoAmb := p.TipoAmb
	if tipoAmb == "" {
		tipoAmb = EnvironmentTest
	}

	cadena := numFac +
		p.FecFac +
		FormatAmount(p.ValFac) +
		TaxCodeIVA + FormatAmount(p.ValImpIVA) +
		TaxCodeINC + FormatAmount(p.ValImpINC) +
		TaxCodeICA + FormatAmount(p.ValImpICA) +
		FormatAmount(p.ValPag) +
		nitOfe +
		docAdq +
		p.ClTec +
		tipoAmb

	hash := sha512.Sum384([]byte(cadena))
	return hex.EncodeToString(hash[:]), nil
}

// FormatAmount formato de montos DIAN: sin separador de miles, punto decimal, 2 decimales.
func FormatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// OnlyDigits deja solo dígitos 0-9.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
