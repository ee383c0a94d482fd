package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturacion-simulada/internal/infrastructure/postgres"
	"github.com/jhoicas/facturacion-simulada/pkg/config"
)

// openMigrator carga la configuración y abre las migraciones embebidas.
func openMigrator() (*postgres.Migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return postgres.NewMigrator(cfg.DB.ConnectionString())
}

// dianctl migrate up|down [n]|version
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migraciones de la base de datos",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica las migraciones pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		mg, err := openMigrator()
		if err != nil {
			return err
		}
		defer mg.Close()
		if err := mg.Up(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migraciones aplicadas")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [n]",
	Short: "Revierte n migraciones (todas si se omite n)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 0
		if len(args) == 1 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("n debe ser un entero positivo: %q", args[0])
			}
			n = v
		}
		mg, err := openMigrator()
		if err != nil {
			return err
		}
		defer mg.Close()
		if err := mg.Down(n); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migraciones revertidas")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión aplicada",
	RunE: func(cmd *cobra.Command, args []string) error {
		mg, err := openMigrator()
		if err != nil {
			return err
		}
		defer mg.Close()
		v, dirty, err := mg.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", v, dirty)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}
