package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
)

type productPayload struct {
	TaxRate entity.TaxRateValue `json:"taxRate"`
}

func decodeTaxRate(t *testing.T, raw string) entity.TaxRateValue {
	t.Helper()
	var p productPayload
	require.NoError(t, json.Unmarshal([]byte(`{"taxRate":`+raw+`}`), &p))
	return p.TaxRate
}

func TestTaxRateValue_Formas(t *testing.T) {
	v := decodeTaxRate(t, `19`)
	assert.Equal(t, entity.TaxShapeNumber, v.Shape)
	assert.Equal(t, "19", v.Number.String())

	v = decodeTaxRate(t, `"5.5"`)
	assert.Equal(t, entity.TaxShapeNumber, v.Shape, "texto numérico cuenta como número")
	assert.Equal(t, "5.5", v.Number.String())

	v = decodeTaxRate(t, `{"name":"IVA","rate":"19"}`)
	require.Equal(t, entity.TaxShapeObject, v.Shape)
	require.NotNil(t, v.Object.Name)
	assert.Equal(t, "IVA", *v.Object.Name)
	assert.Equal(t, "19", v.Object.RateOrZero().String())

	v = decodeTaxRate(t, `[{"rate":8},{"rate":19}]`)
	require.Equal(t, entity.TaxShapeList, v.Shape)
	assert.Len(t, v.List, 2)
	assert.Equal(t, "8", v.List[0].RateOrZero().String())

	v = decodeTaxRate(t, `null`)
	assert.Equal(t, entity.TaxShapeAbsent, v.Shape)
}

func TestTaxRateValue_MalformadoNoFalla(t *testing.T) {
	for _, raw := range []string{`true`, `"diecinueve"`, `[1,2]`} {
		v := decodeTaxRate(t, raw)
		assert.Equal(t, entity.TaxShapeMalformed, v.Shape, raw)
	}

	v := decodeTaxRate(t, `{"rate":"abc"}`)
	assert.Equal(t, entity.TaxShapeObject, v.Shape)
	assert.Nil(t, v.Object.Rate, "rate no numérico se ignora")
}

func TestTaxRateValue_ConservaFormaAlSerializar(t *testing.T) {
	for _, raw := range []string{`19`, `{"rate":5}`, `[{"name":"IVA","rate":19}]`, `null`} {
		out, err := json.Marshal(decodeTaxRate(t, raw))
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	}
}
