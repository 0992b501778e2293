package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile        string
	logLevel       string
	logFormat      string
	outputDir      string
	exclusionsFile string
)

var rootCmd = &cobra.Command{
	Use:   "goslim",
	Short: "MySQL Dump Slimmer",
	Long: `A CLI tool for deriving slim MySQL dumps: each input dump is imported
into an ephemeral workspace database and re-exported with the full schema but
without the row data of configured large or volatile tables.

Features:
  - Two-phase export (schema-only, then data-only minus excluded tables)
  - Ephemeral workspace databases, dropped on success and failure alike
  - Batches that continue past individual file failures
  - Optional restore of the slim dump into a named target database
  - Throttled per-phase progress reporting`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "goslim.yaml",
		"Path to configuration file")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "",
		"Override output directory for slim dumps")
	rootCmd.PersistentFlags().StringVar(&exclusionsFile, "exclusions", "",
		"Override path to the table exclusions file")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel       string
	LogFormat      string
	OutputDir      string
	ExclusionsFile string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:       logLevel,
		LogFormat:      logFormat,
		OutputDir:      outputDir,
		ExclusionsFile: exclusionsFile,
	}
}
