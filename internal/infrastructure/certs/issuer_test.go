package certs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_EmiteYCargaP12(t *testing.T) {
	iss, err := NewIssuer("secreto")
	require.NoError(t, err)
	fixed := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return fixed }

	out, err := iss.Issue("CN=Emisor SAS,serialNumber=900373115", 365*24*time.Hour)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(out.NotBefore))
	assert.True(t, fixed.Add(365*24*time.Hour).Equal(out.NotAfter))
	assert.Len(t, out.Fingerprint, 64)
	assert.NotEmpty(t, out.Serial)
	assert.Contains(t, out.Subject, "Emisor SAS")

	tlsCert, err := Load(out.P12, "secreto")
	require.NoError(t, err)
	require.NotNil(t, tlsCert.Leaf)
	assert.Equal(t, "Emisor SAS", tlsCert.Leaf.Subject.CommonName)
	assert.Equal(t, "900373115", tlsCert.Leaf.Subject.SerialNumber)
	assert.Equal(t, out.Fingerprint, Fingerprint(tlsCert.Leaf))

	_, err = Load(out.P12, "otra")
	assert.Error(t, err)
}

func TestIssuer_Errores(t *testing.T) {
	_, err := NewIssuer("")
	assert.Error(t, err)

	iss, err := NewIssuer("x")
	require.NoError(t, err)
	_, err = iss.Issue("CN=a", 0)
	assert.Error(t, err)
}

func TestParseSubject(t *testing.T) {
	n := ParseSubject("CN=Tienda, serialNumber=123 ,O=Demo")
	assert.Equal(t, "Tienda", n.CommonName)
	assert.Equal(t, "123", n.SerialNumber)
	assert.Equal(t, []string{"Demo"}, n.Organization)

	assert.Equal(t, "solo texto", ParseSubject("solo texto").CommonName)
}
