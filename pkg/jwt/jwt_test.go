package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/facturacion-simulada/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u1", "c1", pkgjwt.RoleFacturador, "test", 60)
	require.NoError(t, err)

	userID, companyID, role, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "c1", companyID)
	assert.Equal(t, pkgjwt.RoleFacturador, role)

	claims, err := pkgjwt.ParseClaims(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "test", claims.Issuer)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u1", "c1", pkgjwt.RoleAdmin, "test", -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testSecret, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrTokenInvalid)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u1", "c1", pkgjwt.RoleAdmin, "test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.ParseClaims("otro-secret", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrTokenInvalid)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u1", "c1", pkgjwt.RoleAdmin, "test", 60)
	assert.Error(t, err)
}
