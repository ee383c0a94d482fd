package main

import (
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/facturacion-simulada/internal/infrastructure/certs"
	"github.com/jhoicas/facturacion-simulada/pkg/dian"
	"github.com/jhoicas/facturacion-simulada/pkg/jwt"
)

// ── CUFE ──────────────────────────────────────────────────────────────────────

var cufeFlags struct {
	number, date, nit, doc, key, env string
	subtotal, iva, inc, ica, total   string
}

// dianctl cufe --numero SETP1 --fecha 2024-03-15 ...
var cufeCmd = &cobra.Command{
	Use:   "cufe",
	Short: "Calcula el CUFE simulado (SHA-384) de una factura",
	RunE: func(cmd *cobra.Command, args []string) error {
		amounts := map[string]string{
			"subtotal": cufeFlags.subtotal, "iva": cufeFlags.iva, "inc": cufeFlags.inc,
			"ica": cufeFlags.ica, "total": cufeFlags.total,
		}
		parsed := make(map[string]decimal.Decimal, len(amounts))
		for name, raw := range amounts {
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return fmt.Errorf("--%s inválido: %q", name, raw)
			}
			parsed[name] = d
		}
		cufe, err := dian.NewCufeCalculatorService().Calculate(&dian.CufeParams{
			NumFac:    cufeFlags.number,
			FecFac:    cufeFlags.date,
			ValFac:    parsed["subtotal"],
			ValImpIVA: parsed["iva"],
			ValImpINC: parsed["inc"],
			ValImpICA: parsed["ica"],
			ValPag:    parsed["total"],
			NitOfe:    dian.NITBase(cufeFlags.nit),
			DocAdq:    cufeFlags.doc,
			ClTec:     cufeFlags.key,
			TipoAmb:   cufeFlags.env,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cufe)
		return nil
	},
}

// ── NIT ───────────────────────────────────────────────────────────────────────

var nitCmd = &cobra.Command{
	Use:   "nit",
	Short: "Dígito de verificación del NIT",
}

// dianctl nit dv 900123456
var nitDVCmd = &cobra.Command{
	Use:   "dv <nit>",
	Short: "Calcula el dígito de verificación",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dv, err := dian.ComputeNITVerificationDigit(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s-%c\n", dian.NITBase(args[0]), dv)
		return nil
	},
}

// dianctl nit check 900123456-8
var nitCheckCmd = &cobra.Command{
	Use:   "check <nit-dv>",
	Short: "Valida un NIT con dígito de verificación",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dian.ValidateNITVerificationDigit(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "NIT válido")
		return nil
	},
}

// ── Certificados ──────────────────────────────────────────────────────────────

var certFlags struct {
	subject, password, out string
	days                   int
}

var certCmd = &cobra.Command{
	Use:   "cert",
	Short: "Certificados simulados (PKCS#12 autofirmado)",
}

// dianctl cert generate --subject "CN=Emisor,serialNumber=900123456" --out emisor.p12
var certGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Genera un .p12 autofirmado",
	RunE: func(cmd *cobra.Command, args []string) error {
		issuer, err := certs.NewIssuer(certFlags.password)
		if err != nil {
			return err
		}
		issued, err := issuer.Issue(certFlags.subject, time.Duration(certFlags.days)*24*time.Hour)
		if err != nil {
			return err
		}
		if err := os.WriteFile(certFlags.out, issued.P12, 0o600); err != nil {
			return fmt.Errorf("escribir %s: %w", certFlags.out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "serial=%s sha256=%s vence=%s archivo=%s\n",
			issued.Serial, issued.Fingerprint, issued.NotAfter.Format(time.DateOnly), certFlags.out)
		return nil
	},
}

// dianctl cert inspect emisor.p12 --password clave
var certInspectCmd = &cobra.Command{
	Use:   "inspect <archivo.p12>",
	Short: "Verifica que un .p12 abra con la contraseña y muestra sus datos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("leer %s: %w", args[0], err)
		}
		pair, err := certs.Load(data, certFlags.password)
		if err != nil {
			return err
		}
		leaf, err := x509.ParseCertificate(pair.Certificate[0])
		if err != nil {
			return fmt.Errorf("parsear certificado: %w", err)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "sujeto:  %s\n", leaf.Subject)
		fmt.Fprintf(w, "serial:  %x\n", leaf.SerialNumber)
		fmt.Fprintf(w, "sha256:  %s\n", certs.Fingerprint(leaf))
		fmt.Fprintf(w, "vigente: %s a %s\n", leaf.NotBefore.Format(time.DateOnly), leaf.NotAfter.Format(time.DateOnly))
		if time.Now().After(leaf.NotAfter) {
			fmt.Fprintln(w, "estado:  VENCIDO")
		}
		return nil
	},
}

// ── Tokens ────────────────────────────────────────────────────────────────────

var tokenFlags struct {
	secret, user, company, role, issuer string
	minutes                             int
}

// dianctl token --secret s --user u --company c --role facturador
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Emite un JWT de desarrollo",
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := jwt.Generate(tokenFlags.secret, tokenFlags.user, tokenFlags.company, tokenFlags.role, tokenFlags.issuer, tokenFlags.minutes)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	f := cufeCmd.Flags()
	f.StringVar(&cufeFlags.number, "numero", "", "prefijo + número de la factura")
	f.StringVar(&cufeFlags.date, "fecha", time.Now().Format(time.DateOnly), "fecha de emisión (YYYY-MM-DD)")
	f.StringVar(&cufeFlags.subtotal, "subtotal", "0", "valor antes de impuestos")
	f.StringVar(&cufeFlags.iva, "iva", "0", "impuesto 01")
	f.StringVar(&cufeFlags.inc, "inc", "0", "impuesto 04")
	f.StringVar(&cufeFlags.ica, "ica", "0", "impuesto 03")
	f.StringVar(&cufeFlags.total, "total", "0", "valor a pagar")
	f.StringVar(&cufeFlags.nit, "nit", "", "NIT del emisor")
	f.StringVar(&cufeFlags.doc, "doc", "", "documento del adquiriente")
	f.StringVar(&cufeFlags.key, "clave", "", "clave técnica")
	f.StringVar(&cufeFlags.env, "ambiente", "2", "1 producción, 2 pruebas")
	_ = cufeCmd.MarkFlagRequired("numero")
	_ = cufeCmd.MarkFlagRequired("nit")
	_ = cufeCmd.MarkFlagRequired("doc")

	nitCmd.AddCommand(nitDVCmd, nitCheckCmd)

	g := certGenerateCmd.Flags()
	g.StringVar(&certFlags.subject, "subject", "", "CN=...,serialNumber=...,O=...,C=CO")
	g.StringVar(&certFlags.password, "password", "simulado", "contraseña del .p12")
	g.StringVar(&certFlags.out, "out", "certificado.p12", "archivo de salida")
	g.IntVar(&certFlags.days, "dias", 365, "vigencia en días")
	_ = certGenerateCmd.MarkFlagRequired("subject")
	certInspectCmd.Flags().StringVar(&certFlags.password, "password", "simulado", "contraseña del .p12")
	certCmd.AddCommand(certGenerateCmd, certInspectCmd)

	t := tokenCmd.Flags()
	t.StringVar(&tokenFlags.secret, "secret", os.Getenv("JWT_SECRET"), "secreto HS256")
	t.StringVar(&tokenFlags.user, "user", "", "id del usuario")
	t.StringVar(&tokenFlags.company, "company", "", "id de la empresa")
	t.StringVar(&tokenFlags.role, "role", jwt.RoleFacturador, "admin | facturador | consulta")
	t.StringVar(&tokenFlags.issuer, "issuer", "facturacion-simulada", "emisor del token")
	t.IntVar(&tokenFlags.minutes, "minutos", 60, "vigencia en minutos")
	_ = tokenCmd.MarkFlagRequired("user")
	_ = tokenCmd.MarkFlagRequired("company")
}
