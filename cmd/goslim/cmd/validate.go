package cmd

import (
	"context"
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/goslim/internal/dump"
	"github.com/dbsmedya/goslim/internal/workspace"
)

var validateSkipConnect bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and connectivity",
	Long: `Validate checks the configuration file and, unless --skip-connect is
given, verifies that the MySQL server is reachable with the configured
credentials.

Checks performed:
  - Configuration syntax and required fields
  - Exclusions file readability
  - Server connectivity

Example:
  goslim validate --config goslim.yaml`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateSkipConnect, "skip-connect", false,
		"Skip the server connectivity check")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	exclusions, err := dump.LoadExclusions(cfg.Exclusions.File)
	if err != nil {
		return fmt.Errorf("failed to load exclusions: %w", err)
	}

	fmt.Printf("\n=== Configuration Validation ===\n")
	fmt.Printf("Config file: %s\n", GetConfigFile())
	fmt.Printf("Output directory: %s\n", cfg.Output.Dir)
	fmt.Printf("Excluded tables: %d\n", exclusions.Len())
	for _, table := range exclusions.Tables() {
		fmt.Printf("  - %s\n", table)
	}

	if validateSkipConnect {
		color.Yellow.Println("\nConnectivity check skipped")
		return nil
	}

	db, err := workspace.Connect(context.Background(), &cfg.Connection)
	if err != nil {
		return fmt.Errorf("server connectivity check failed: %w", err)
	}
	defer db.Close()

	color.Green.Println("\nConfiguration valid, server reachable")
	return nil
}
