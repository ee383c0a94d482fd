package entity

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// TaxRateShape forma en que llegó el campo taxRate de un producto.
type TaxRateShape int

const (
	TaxShapeAbsent    TaxRateShape = iota // ausente o null
	TaxShapeNumber                        // 19
	TaxShapeObject                        // {"rate": 19, "name": "IVA"}
	TaxShapeList                          // [{"rate": 19}, ...]
	TaxShapeMalformed                     // cualquier otra cosa (bool, texto no numérico...)
)

// InlineTaxRate registro de tarifa embebido en un producto. Ambos campos son opcionales.
type InlineTaxRate struct {
	Name *string
	Rate *decimal.Decimal
}

// RateOrZero devuelve la tarifa o cero si no viene.
func (r InlineTaxRate) RateOrZero() decimal.Decimal {
	if r.Rate == nil {
		return decimal.Zero
	}
	return *r.Rate
}

// TaxRateValue valor crudo del campo taxRate (número, objeto o lista).
type TaxRateValue struct {
	Shape  TaxRateShape
	Number decimal.Decimal
	Object InlineTaxRate
	List   []InlineTaxRate
}

// FlatTaxRate construye un taxRate numérico.
func FlatTaxRate(pct decimal.Decimal) TaxRateValue {
	return TaxRateValue{Shape: TaxShapeNumber, Number: pct}
}

// ObjectTaxRate construye un taxRate en forma de objeto.
func ObjectTaxRate(r InlineTaxRate) TaxRateValue {
	return TaxRateValue{Shape: TaxShapeObject, Object: r}
}

// ListTaxRate construye un taxRate en forma de lista.
func ListTaxRate(list ...InlineTaxRate) TaxRateValue {
	return TaxRateValue{Shape: TaxShapeList, List: list}
}

type inlineTaxRateJSON struct {
	Name *string        `json:"name,omitempty"`
	Rate json.RawMessage `json:"rate,omitempty"`
}

// UnmarshalJSON acepta rate numérico o numérico entre comillas; cualquier otro valor se ignora.
func (r *InlineTaxRate) UnmarshalJSON(data []byte) error {
	var raw inlineTaxRateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Name = raw.Name
	r.Rate = parseLenientDecimal(raw.Rate)
	return nil
}

// MarshalJSON emite rate como número JSON.
func (r InlineTaxRate) MarshalJSON() ([]byte, error) {
	out := inlineTaxRateJSON{Name: r.Name}
	if r.Rate != nil {
		out.Rate = json.RawMessage(r.Rate.String())
	}
	return json.Marshal(out)
}

// UnmarshalJSON nunca falla: una forma desconocida queda como TaxShapeMalformed (tarifa 0).
func (v *TaxRateValue) UnmarshalJSON(data []byte) error {
	*v = TaxRateValue{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch trimmed[0] {
	case '{':
		var obj InlineTaxRate
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			v.Shape = TaxShapeMalformed
			return nil
		}
		v.Shape = TaxShapeObject
		v.Object = obj
	case '[':
		var list []InlineTaxRate
		if err := json.Unmarshal(trimmed, &list); err != nil {
			v.Shape = TaxShapeMalformed
			return nil
		}
		v.Shape = TaxShapeList
		v.List = list
	default:
		if d := parseLenientDecimal(trimmed); d != nil {
			v.Shape = TaxShapeNumber
			v.Number = *d
			return nil
		}
		v.Shape = TaxShapeMalformed
	}
	return nil
}

// MarshalJSON emite la misma forma con la que se recibió.
func (v TaxRateValue) MarshalJSON() ([]byte, error) {
	switch v.Shape {
	case TaxShapeNumber:
		return []byte(v.Number.String()), nil
	case TaxShapeObject:
		return json.Marshal(v.Object)
	case TaxShapeList:
		return json.Marshal(v.List)
	default:
		return []byte("null"), nil
	}
}

// parseLenientDecimal interpreta un número JSON o un texto numérico; nil si no aplica.
func parseLenientDecimal(raw []byte) *decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		raw = []byte(s)
	}
	d, err := decimal.NewFromString(string(bytes.TrimSpace(raw)))
	if err != nil {
		return nil
	}
	return &d
}
