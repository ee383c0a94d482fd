// Package certs emite certificados de firma simulados: x509 autofirmado con
// llave RSA, empaquetado en PKCS#12 protegido con contraseña.
package certs

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"software.sslmate.com/src/go-pkcs12"

	"github.com/jhoicas/facturacion-simulada/internal/application/billing"
)

const rsaBits = 2048

var _ billing.CertificateIssuer = (*Issuer)(nil)

// Issuer genera certificados autofirmados protegidos con password.
type Issuer struct {
	password string
	now      func() time.Time
}

// NewIssuer password no puede ser vacío: el .p12 siempre va protegido.
func NewIssuer(password string) (*Issuer, error) {
	if password == "" {
		return nil, fmt.Errorf("certs: contraseña del PKCS#12 vacía")
	}
	return &Issuer{password: password, now: time.Now}, nil
}

// Issue genera llave, certificado y el contenedor PKCS#12.
// subject usa la forma "CN=Nombre,serialNumber=900373115".
func (i *Issuer) Issue(subject string, validity time.Duration) (*billing.IssuedCertificate, error) {
	if validity <= 0 {
		return nil, fmt.Errorf("certs: vigencia inválida %s", validity)
	}
	priv, err := rsa.GenerateKey(rand.Reader, rsaBits)
	if err != nil {
		return nil, fmt.Errorf("certs: generar llave: %w", err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("certs: generar serial: %w", err)
	}

	notBefore := i.now().UTC().Truncate(time.Second)
	name := ParseSubject(subject)
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               name,
		Issuer:                name,
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageContentCommitment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageEmailProtection},
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	if err != nil {
		return nil, fmt.Errorf("certs: crear certificado: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("certs: parsear certificado: %w", err)
	}

	p12, err := pkcs12.Modern.Encode(priv, cert, nil, i.password)
	if err != nil {
		return nil, fmt.Errorf("certs: empaquetar PKCS#12: %w", err)
	}

	return &billing.IssuedCertificate{
		Serial:      cert.SerialNumber.Text(16),
		Fingerprint: Fingerprint(cert),
		Subject:     cert.Subject.String(),
		P12:         p12,
		NotBefore:   cert.NotBefore,
		NotAfter:    cert.NotAfter,
	}, nil
}

// Load abre un .p12 emitido por Issue (o cualquier PKCS#12 con llave y hoja).
func Load(p12 []byte, password string) (tls.Certificate, error) {
	priv, cert, chain, err := pkcs12.DecodeChain(p12, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("certs: decodificar p12: %w", err)
	}
	raw := [][]byte{cert.Raw}
	for _, c := range chain {
		raw = append(raw, c.Raw)
	}
	return tls.Certificate{Certificate: raw, PrivateKey: priv, Leaf: cert}, nil
}

// Fingerprint SHA-256 del certificado en hex.
func Fingerprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)
	return hex.EncodeToString(sum[:])
}

// ParseSubject convierte "CN=x,serialNumber=y,O=z" en pkix.Name.
// Claves desconocidas se ignoran; sin CN se usa el texto completo.
func ParseSubject(subject string) pkix.Name {
	var name pkix.Name
	for _, part := range strings.Split(subject, ",") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "cn":
			name.CommonName = v
		case "serialnumber":
			name.SerialNumber = v
		case "o":
			name.Organization = append(name.Organization, v)
		case "c":
			name.Country = append(name.Country, v)
		}
	}
	if name.CommonName == "" {
		name.CommonName = strings.TrimSpace(subject)
	}
	return name
}
