package dian_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-simulada/pkg/dian"
)

// Vector SHA-384 de referencia:
//
//	"SETP990000000" + "2023-11-29" + "1000000.00" +
//	"01" + "190000.00" + "04" + "0.00" + "03" + "0.00" +
//	"1190000.00" + "900123456" + "800987654" + ClTec + "2"
const (
	testCufeExpected = "f5693bff411776a0c3536bba5df32491df2ffc101a8ff4810cdfc04368b8a9286dc0d5c578fa2344e119d118947a0c4c"

	testClTec = "fc8eac422eba16e22ffd8c6f94b3f40a6e38162c354673d3a603956897890cd"
)

func buildTestParams() *dian.CufeParams {
	return &dian.CufeParams{
		NumFac:    "SETP990000000",
		FecFac:    "2023-11-29",
		ValFac:    decimal.NewFromInt(1_000_000),
		ValImpIVA: decimal.NewFromInt(190_000),
		ValPag:    decimal.NewFromInt(1_190_000),
		NitOfe:    "900123456",
		DocAdq:    "800987654",
		ClTec:     testClTec,
		TipoAmb:   dian.EnvironmentTest,
	}
}

func TestCalculateCufe_VectorExacto(t *testing.T) {
	cufe, err := dian.NewCufeCalculatorService().Calculate(buildTestParams())
	require.NoError(t, err)
	assert.Equal(t, testCufeExpected, cufe)
	assert.Len(t, cufe, 96)
}

func TestCalculateCufe_EspaciosEnNumFacNoCambianHash(t *testing.T) {
	p := buildTestParams()
	p.NumFac = " SETP 990000000 "
	cufe, err := dian.NewCufeCalculatorService().Calculate(p)
	require.NoError(t, err)
	assert.Equal(t, testCufeExpected, cufe)
}

func TestCalculateCufe_SensibleAlInput(t *testing.T) {
	svc := dian.NewCufeCalculatorService()
	base, _ := svc.Calculate(buildTestParams())

	otroNumero := buildTestParams()
	otroNumero.NumFac = "SETP990000001"
	c1, _ := svc.Calculate(otroNumero)
	assert.NotEqual(t, base, c1)

	produccion := buildTestParams()
	produccion.TipoAmb = dian.EnvironmentProduction
	c2, _ := svc.Calculate(produccion)
	assert.NotEqual(t, base, c2)
}

// ── Errores de validación ─────────────────────────────────────────────────────

func TestCalculateCufe_Errores(t *testing.T) {
	svc := dian.NewCufeCalculatorService()

	_, err := svc.Calculate(nil)
	assert.Error(t, err)

	for name, mutate := range map[string]func(*dian.CufeParams){
		"sin NumFac": func(p *dian.CufeParams) { p.NumFac = "" },
		"sin FecFac": func(p *dian.CufeParams) { p.FecFac = "" },
		"sin NitOfe": func(p *dian.CufeParams) { p.NitOfe = "-" },
		"sin DocAdq": func(p *dian.CufeParams) { p.DocAdq = "" },
		"sin ClTec":  func(p *dian.CufeParams) { p.ClTec = "" },
	} {
		t.Run(name, func(t *testing.T) {
			p := buildTestParams()
			mutate(p)
			_, err := svc.Calculate(p)
			assert.Error(t, err)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "171500.00", dian.FormatAmount(decimal.NewFromInt(171500)))
	assert.Equal(t, "0.13", dian.FormatAmount(decimal.RequireFromString("0.125")))
}
