// dianctl utilidades de operación: migraciones, artefactos DIAN simulados y tokens de desarrollo.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "dianctl",
	Short:         "Herramientas de facturación simulada",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Base de datos
	rootCmd.AddCommand(migrateCmd)

	// DIAN simulada
	rootCmd.AddCommand(cufeCmd)
	rootCmd.AddCommand(nitCmd)
	rootCmd.AddCommand(certCmd)

	// Desarrollo
	rootCmd.AddCommand(tokenCmd)
}
